package conversation

import (
	"time"

	"github.com/attendly/attendbot/internal/absence"
)

// Speaker identifies who produced a transcript entry.
type Speaker string

const (
	SpeakerEmployee Speaker = "employee"
	SpeakerSystem   Speaker = "system"
)

// RawMessage is one inbound employee message. Append-only; used for prompt context.
type RawMessage struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// TranscriptEntry is one line of the full exchange, both directions. The finalized
// absence record carries the whole transcript for supervisor review.
type TranscriptEntry struct {
	From Speaker   `json:"from"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Question is the field the system last asked the employee for.
type Question string

const (
	QuestionNone     Question = ""
	QuestionStatus   Question = "status"
	QuestionDuration Question = "duration"
	QuestionReason   Question = "reason"
)

// Collected is the partial structured data accumulated across a conversation.
// Zero values mean "not yet known".
type Collected struct {
	Kind            absence.EventKind `json:"kind,omitempty"`
	Subtype         absence.Subtype   `json:"subtype,omitempty"`
	Reason          string            `json:"reason,omitempty"`
	DurationMinutes *int              `json:"duration_minutes,omitempty"`
	DateRef         absence.DateRef   `json:"date_ref,omitempty"`
}

// Merge folds a new candidate into previously collected fields. Accumulation is
// monotonic: known fields are never erased by a less-informative later message.
// Reason, duration and date may be refined by a new non-empty value; a settled
// event kind is never reclassified.
func (c Collected) Merge(candidate Collected) Collected {
	merged := c

	if candidate.Kind != "" && !absence.Settled(c.Kind) {
		// An unclear or provisional kind upgrades freely; anything concrete sticks.
		if absence.Settled(candidate.Kind) || c.Kind == "" || c.Kind == absence.KindUnclear {
			merged.Kind = candidate.Kind
		}
	}
	if candidate.Subtype != "" && c.Subtype == "" {
		merged.Subtype = candidate.Subtype
	}
	if candidate.Reason != "" {
		merged.Reason = candidate.Reason
	}
	if candidate.DurationMinutes != nil {
		v := *candidate.DurationMinutes
		merged.DurationMinutes = &v
	}
	if candidate.DateRef != "" {
		merged.DateRef = candidate.DateRef
	}

	return merged
}

// Session is the in-progress conversation for one phone number.
type Session struct {
	PhoneKey          string            `json:"phone_key"`
	StartedAt         time.Time         `json:"started_at"`
	LastUpdatedAt     time.Time         `json:"last_updated_at"`
	RawMessages       []RawMessage      `json:"raw_messages"`
	Transcript        []TranscriptEntry `json:"transcript"`
	Collected         Collected         `json:"collected"`
	LastQuestionAsked Question          `json:"last_question_asked"`
}

// Patch is the delta applied by Store.Upsert. Zero-value fields are left alone.
type Patch struct {
	// MessageText, when non-empty, is appended to RawMessages with MessageAt.
	MessageText string
	MessageAt   time.Time
	// Collected, when non-nil, is merged monotonically into the session.
	Collected *Collected
	// QuestionAsked, when non-empty, records the follow-up question just sent.
	QuestionAsked Question
	// Transcript, when non-nil, replaces the stored transcript wholesale. The
	// orchestrator owns transcript assembly and always writes the full list back.
	Transcript []TranscriptEntry
}
