package dialogue

import (
	"github.com/attendly/attendbot/internal/absence"
	"github.com/attendly/attendbot/internal/claude"
	"github.com/attendly/attendbot/internal/conversation"
)

// DecisionKind discriminates the merge engine's verdict for one turn.
type DecisionKind int

const (
	// DecisionNeedsInfo means exactly one more field must be asked for.
	DecisionNeedsInfo DecisionKind = iota
	// DecisionComplete means the event can be finalized.
	DecisionComplete
)

// Decision is the outcome of merging one candidate into the conversation state.
// Exactly one of Ask (NeedsInfo) or Draft (Complete) is meaningful.
type Decision struct {
	Kind  DecisionKind
	Ask   conversation.Question
	Draft *EventDraft
}

// EventDraft holds the fully resolved fields of a completed conversation, before
// persistence-level formatting.
type EventDraft struct {
	Kind            absence.EventKind
	Subtype         absence.Subtype
	Reason          string
	DurationMinutes *int
	DateRef         absence.DateRef
}

// MergeEngine folds candidate events into collected state and decides whether the
// conversation is complete or what single missing field to request next.
type MergeEngine struct {
	thresholds absence.Thresholds
}

func NewMergeEngine(thresholds absence.Thresholds) MergeEngine {
	return MergeEngine{thresholds: thresholds}
}

// Merge applies the monotonic merge rules and the completeness checks.
// messageText is the raw inbound message, used to veto a "late" classification of a
// message that can only describe an absence. lastAsked caps the late-duration loop:
// a late report is asked for its duration once, then accepted without one.
func (e MergeEngine) Merge(
	prev conversation.Collected,
	lastAsked conversation.Question,
	cand *claude.CandidateEvent,
	messageText string,
	shiftStartMinutes int,
) (conversation.Collected, Decision) {
	candidate := conversation.Collected{
		Kind:            cand.Kind,
		Subtype:         cand.Subtype,
		Reason:          cand.Reason,
		DurationMinutes: cand.DurationMinutes,
		DateRef:         cand.DateRef,
	}

	// The local lexicons back the model up: a duration or date cue the model missed
	// still lands in the merge.
	if candidate.DurationMinutes == nil {
		if mins, ok := absence.ParseDuration(messageText, shiftStartMinutes); ok {
			candidate.DurationMinutes = &mins
		}
	}
	if candidate.DateRef == "" {
		candidate.DateRef = absence.ParseDateRef(messageText)
	}
	if candidate.Kind == "" || candidate.Kind == absence.KindUnclear {
		dur := -1
		if candidate.DurationMinutes != nil {
			dur = *candidate.DurationMinutes
		}
		if kind := absence.Classify(messageText, dur, e.thresholds); kind != absence.KindUnclear {
			candidate.Kind = kind
		}
	}

	// "away from 1:30 to 2:30" can only be an absence; a late verdict on such a
	// message is a provider mistake with disciplinary consequences, so correct it
	// locally from the duration.
	if candidate.Kind == absence.KindLate && absence.IsAbsenceLanguage(messageText) {
		if candidate.DurationMinutes != nil {
			candidate.Kind = e.thresholds.KindForDuration(*candidate.DurationMinutes)
		} else {
			candidate.Kind = absence.KindUnclearDuration
		}
	}

	merged := prev.Merge(candidate)

	// Still no idea what is being reported: a normal conversational state, not a
	// failure. Ask what is going on.
	if merged.Kind == "" || merged.Kind == absence.KindUnclear {
		return merged, Decision{Kind: DecisionNeedsInfo, Ask: conversation.QuestionStatus}
	}

	// A known absence with unknown length settles once a duration arrives;
	// until then it is provisionally a half day and we ask for the duration.
	if merged.Kind == absence.KindUnclearDuration {
		if merged.DurationMinutes == nil {
			return merged, Decision{Kind: DecisionNeedsInfo, Ask: conversation.QuestionDuration}
		}
		merged.Kind = e.thresholds.KindForDuration(*merged.DurationMinutes)
	}

	if merged.DurationMinutes == nil {
		switch merged.Kind {
		case absence.KindFullDay:
			// Full day defaults to whole-shift semantics; no duration needed.
		case absence.KindLate:
			// Ask once, then accept a late report without a known duration.
			if lastAsked != conversation.QuestionDuration {
				return merged, Decision{Kind: DecisionNeedsInfo, Ask: conversation.QuestionDuration}
			}
		default:
			return merged, Decision{Kind: DecisionNeedsInfo, Ask: conversation.QuestionDuration}
		}
	}

	if merged.Reason == "" {
		return merged, Decision{Kind: DecisionNeedsInfo, Ask: conversation.QuestionReason}
	}

	return merged, Decision{Kind: DecisionComplete, Draft: newEventDraft(merged)}
}

// newEventDraft resolves the remaining defaults: date falls back to today, and the
// subtype defaults mirror the persistence rules (personal for partial absences,
// sick for full days).
func newEventDraft(c conversation.Collected) *EventDraft {
	draft := &EventDraft{
		Kind:            c.Kind,
		Subtype:         c.Subtype,
		Reason:          c.Reason,
		DurationMinutes: c.DurationMinutes,
		DateRef:         c.DateRef,
	}

	if draft.DateRef == "" {
		draft.DateRef = absence.DateToday
	}
	if draft.Subtype == "" {
		switch draft.Kind {
		case absence.KindShortAbsence, absence.KindHalfDay:
			draft.Subtype = absence.SubtypePersonal
		case absence.KindFullDay:
			draft.Subtype = absence.SubtypeSick
		}
	}

	return draft
}
