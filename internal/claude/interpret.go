package claude

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/attendly/attendbot/internal/absence"
)

// ParseError codes.
const (
	ErrInvalidJSON = "invalid_json"
	ErrUnknownKind = "unknown_kind"
	ErrBadDuration = "bad_duration"
)

// ParseError means the provider's response could not be turned into a candidate event.
// Raw carries the original text for diagnosis; it is never shown to the employee.
type ParseError struct {
	Code string
	Raw  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("provider response unusable (%s)", e.Code)
}

// CandidateEvent is the structured result of one LLM round trip. It is transient:
// the merge engine folds it into the conversation state immediately.
type CandidateEvent struct {
	Kind            absence.EventKind
	Subtype         absence.Subtype
	Reason          string
	DurationMinutes *int
	DateRef         absence.DateRef
	HasDuration     bool
	HasReason       bool
	MissingDuration bool
	MissingReason   bool
}

// Interpret parses and validates raw provider text into a CandidateEvent. It only
// validates shape and type; business rules (thresholds, completeness) live elsewhere.
func Interpret(raw string) (*CandidateEvent, *ParseError) {
	jsonStr := extractJSON(stripCodeFences(raw))
	if jsonStr == "" || !gjson.Valid(jsonStr) {
		return nil, &ParseError{Code: ErrInvalidJSON, Raw: raw}
	}

	doc := gjson.Parse(jsonStr)
	if !doc.IsObject() {
		return nil, &ParseError{Code: ErrInvalidJSON, Raw: raw}
	}

	cand := &CandidateEvent{}

	kind := absence.EventKind(stringField(doc.Get("type")))
	if kind != "" && !absence.KnownKind(kind) {
		return nil, &ParseError{Code: ErrUnknownKind, Raw: raw}
	}
	cand.Kind = kind

	switch sub := stringField(doc.Get("subtype")); absence.Subtype(sub) {
	case absence.SubtypeSick, absence.SubtypePersonal:
		cand.Subtype = absence.Subtype(sub)
	}

	cand.Reason = strings.TrimSpace(stringField(doc.Get("reason")))
	cand.DateRef = absence.DateRef(stringField(doc.Get("date")))

	dur := doc.Get("duration_minutes")
	switch dur.Type {
	case gjson.Null:
		// stays nil
	case gjson.Number:
		v := int(dur.Int())
		cand.DurationMinutes = &v
	case gjson.String:
		// Providers occasionally quote the number; coerce rather than fail.
		n, err := strconv.Atoi(strings.TrimSpace(dur.String()))
		if err != nil {
			return nil, &ParseError{Code: ErrBadDuration, Raw: raw}
		}
		cand.DurationMinutes = &n
	default:
		if dur.Exists() {
			return nil, &ParseError{Code: ErrBadDuration, Raw: raw}
		}
	}

	cand.HasDuration = doc.Get("has_duration").Bool()
	cand.HasReason = doc.Get("has_reason").Bool()
	cand.MissingDuration = doc.Get("missing_duration").Bool()
	cand.MissingReason = doc.Get("missing_reason").Bool()

	return cand, nil
}

// stringField reads a string value, treating JSON null, a missing key, and the
// literal string "null" (which the schema itself invites) as empty.
func stringField(r gjson.Result) string {
	if !r.Exists() || r.Type == gjson.Null {
		return ""
	}
	s := r.String()
	if strings.EqualFold(s, "null") {
		return ""
	}
	return s
}

// stripCodeFences removes leading/trailing markdown fence markers.
func stripCodeFences(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractJSON attempts to extract the first top-level JSON object from a response that
// might be wrapped in prose.
func extractJSON(text string) string {
	start := findJSONStart(text)
	if start < 0 {
		return ""
	}
	end := findJSONEnd(text, start)
	if end < 0 {
		return ""
	}
	return text[start : end+1]
}

func findJSONStart(text string) int {
	for i := 0; i < len(text); i++ {
		if text[i] == '{' {
			return i
		}
	}
	return -1
}

func findJSONEnd(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
