package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendbot/internal/absence"
	"github.com/attendly/attendbot/internal/claude"
	"github.com/attendly/attendbot/internal/conversation"
)

// dayShiftStart anchors arrival-time parsing: a 7am shift, in minutes after midnight.
const dayShiftStart = 420

func intPtr(n int) *int { return &n }

func newEngine() MergeEngine {
	return NewMergeEngine(absence.DefaultThresholds())
}

func TestMerge_CompleteSingleMessage(t *testing.T) {
	// "Running 30 min late - traffic" resolves in one turn.
	cand := &claude.CandidateEvent{
		Kind:            absence.KindLate,
		Reason:          "Traffic",
		DurationMinutes: intPtr(30),
		DateRef:         absence.DateToday,
		HasDuration:     true,
		HasReason:       true,
	}

	merged, decision := newEngine().Merge(conversation.Collected{}, conversation.QuestionNone, cand, "running 30 min late, traffic", dayShiftStart)

	assert.Equal(t, DecisionComplete, decision.Kind)
	require.NotNil(t, decision.Draft)
	assert.Equal(t, absence.KindLate, decision.Draft.Kind)
	assert.Equal(t, "Traffic", decision.Draft.Reason)
	assert.Equal(t, 30, *decision.Draft.DurationMinutes)
	assert.Equal(t, absence.KindLate, merged.Kind)
}

func TestMerge_UnclearAsksStatus(t *testing.T) {
	cand := &claude.CandidateEvent{Kind: absence.KindUnclear}

	_, decision := newEngine().Merge(conversation.Collected{}, conversation.QuestionNone, cand, "hey", dayShiftStart)

	assert.Equal(t, DecisionNeedsInfo, decision.Kind)
	assert.Equal(t, conversation.QuestionStatus, decision.Ask)
}

func TestMerge_EmptyKindAsksStatus(t *testing.T) {
	cand := &claude.CandidateEvent{}

	_, decision := newEngine().Merge(conversation.Collected{}, conversation.QuestionNone, cand, "ok", dayShiftStart)

	assert.Equal(t, DecisionNeedsInfo, decision.Kind)
	assert.Equal(t, conversation.QuestionStatus, decision.Ask)
}

func TestMerge_UnclearDurationAsksDuration(t *testing.T) {
	cand := &claude.CandidateEvent{Kind: absence.KindUnclearDuration, Reason: "Appointment"}

	merged, decision := newEngine().Merge(conversation.Collected{}, conversation.QuestionNone, cand, "stepping out for an appointment", dayShiftStart)

	assert.Equal(t, DecisionNeedsInfo, decision.Kind)
	assert.Equal(t, conversation.QuestionDuration, decision.Ask)
	assert.Equal(t, absence.KindUnclearDuration, merged.Kind)
}

func TestMerge_UnclearDurationSettlesWhenDurationArrives(t *testing.T) {
	prev := conversation.Collected{Kind: absence.KindUnclearDuration, Reason: "Appointment"}
	cand := &claude.CandidateEvent{DurationMinutes: intPtr(60), HasDuration: true}

	merged, decision := newEngine().Merge(prev, conversation.QuestionDuration, cand, "about an hour", dayShiftStart)

	assert.Equal(t, DecisionComplete, decision.Kind)
	assert.Equal(t, absence.KindShortAbsence, merged.Kind)
	assert.Equal(t, absence.KindShortAbsence, decision.Draft.Kind)
}

func TestMerge_ThresholdsSettleProvisionalKind(t *testing.T) {
	tests := []struct {
		minutes int
		want    absence.EventKind
	}{
		{60, absence.KindShortAbsence},
		{120, absence.KindHalfDay},
		{240, absence.KindHalfDay},
		{300, absence.KindFullDay},
	}

	for _, tt := range tests {
		prev := conversation.Collected{Kind: absence.KindUnclearDuration, Reason: "Errand"}
		cand := &claude.CandidateEvent{DurationMinutes: intPtr(tt.minutes)}

		merged, decision := newEngine().Merge(prev, conversation.QuestionDuration, cand, "duration reply", dayShiftStart)

		assert.Equal(t, DecisionComplete, decision.Kind)
		assert.Equal(t, tt.want, merged.Kind)
	}
}

func TestMerge_FullDayNeedsNoDuration(t *testing.T) {
	cand := &claude.CandidateEvent{Kind: absence.KindFullDay, Subtype: absence.SubtypeSick, Reason: "Flu"}

	_, decision := newEngine().Merge(conversation.Collected{}, conversation.QuestionNone, cand, "wont be in, got the flu", dayShiftStart)

	assert.Equal(t, DecisionComplete, decision.Kind)
	assert.Nil(t, decision.Draft.DurationMinutes)
	assert.Equal(t, absence.SubtypeSick, decision.Draft.Subtype)
}

func TestMerge_LateAsksDurationOnceThenAccepts(t *testing.T) {
	engine := newEngine()

	// First pass: a late report with reason but no duration asks for the duration.
	cand := &claude.CandidateEvent{Kind: absence.KindLate, Reason: "Car trouble"}
	merged, decision := engine.Merge(conversation.Collected{}, conversation.QuestionNone, cand, "late, car trouble", dayShiftStart)
	assert.Equal(t, DecisionNeedsInfo, decision.Kind)
	assert.Equal(t, conversation.QuestionDuration, decision.Ask)

	// The employee answers without a usable duration; having already asked, accept it.
	followUp := &claude.CandidateEvent{Kind: absence.KindLate, MissingDuration: true}
	_, decision = engine.Merge(merged, conversation.QuestionDuration, followUp, "not sure", dayShiftStart)
	assert.Equal(t, DecisionComplete, decision.Kind)
	assert.Nil(t, decision.Draft.DurationMinutes)
}

func TestMerge_ShortAbsenceStillRequiresDuration(t *testing.T) {
	// Non-late partial absences keep asking for duration even after one ask.
	prev := conversation.Collected{Kind: absence.KindShortAbsence, Reason: "Errand"}
	cand := &claude.CandidateEvent{}

	_, decision := newEngine().Merge(prev, conversation.QuestionDuration, cand, "dunno", dayShiftStart)

	assert.Equal(t, DecisionNeedsInfo, decision.Kind)
	assert.Equal(t, conversation.QuestionDuration, decision.Ask)
}

func TestMerge_ReasonAskedLast(t *testing.T) {
	// Status and duration known, reason missing: precedence lands on reason.
	cand := &claude.CandidateEvent{Kind: absence.KindLate, DurationMinutes: intPtr(20)}

	_, decision := newEngine().Merge(conversation.Collected{}, conversation.QuestionNone, cand, "20 min late", dayShiftStart)

	assert.Equal(t, DecisionNeedsInfo, decision.Kind)
	assert.Equal(t, conversation.QuestionReason, decision.Ask)
}

func TestMerge_StatusBeatsDurationBeatsReason(t *testing.T) {
	// Everything missing: status is the single question asked.
	_, decision := newEngine().Merge(conversation.Collected{}, conversation.QuestionNone, &claude.CandidateEvent{Kind: absence.KindUnclear}, "???", dayShiftStart)
	assert.Equal(t, conversation.QuestionStatus, decision.Ask)

	// Status known, duration and reason missing: duration wins.
	cand := &claude.CandidateEvent{Kind: absence.KindShortAbsence}
	_, decision = newEngine().Merge(conversation.Collected{}, conversation.QuestionNone, cand, "stepping out", dayShiftStart)
	assert.Equal(t, conversation.QuestionDuration, decision.Ask)
}

func TestMerge_AbsenceLanguageVetoesLateVerdict(t *testing.T) {
	// A bounded time range is an absence even when the provider says late.
	cand := &claude.CandidateEvent{
		Kind:            absence.KindLate,
		Reason:          "Errand",
		DurationMinutes: intPtr(60),
	}

	merged, decision := newEngine().Merge(conversation.Collected{}, conversation.QuestionNone, cand, "I'll be away from 1:30 to 2:30, errand", dayShiftStart)

	assert.Equal(t, absence.KindShortAbsence, merged.Kind)
	assert.Equal(t, DecisionComplete, decision.Kind)
	assert.Equal(t, absence.KindShortAbsence, decision.Draft.Kind)
}

func TestMerge_AbsenceLanguageVetoWithoutDuration(t *testing.T) {
	cand := &claude.CandidateEvent{Kind: absence.KindLate, Reason: "Appointment"}

	merged, decision := newEngine().Merge(conversation.Collected{}, conversation.QuestionNone, cand, "leaving early for an appointment", dayShiftStart)

	assert.Equal(t, absence.KindUnclearDuration, merged.Kind)
	assert.Equal(t, conversation.QuestionDuration, decision.Ask)
}

func TestMerge_LateVerdictOnLateLanguageStands(t *testing.T) {
	cand := &claude.CandidateEvent{Kind: absence.KindLate, Reason: "Traffic", DurationMinutes: intPtr(30)}

	merged, decision := newEngine().Merge(conversation.Collected{}, conversation.QuestionNone, cand, "stuck in traffic, 30 min", dayShiftStart)

	assert.Equal(t, absence.KindLate, merged.Kind)
	assert.Equal(t, DecisionComplete, decision.Kind)
}

func TestMerge_MonotonicAcrossTurns(t *testing.T) {
	engine := newEngine()

	// Turn 1: "can't come in today" -> full day, missing reason.
	first := &claude.CandidateEvent{Kind: absence.KindFullDay, MissingReason: true}
	merged, decision := engine.Merge(conversation.Collected{}, conversation.QuestionNone, first, "cant come in today", dayShiftStart)
	assert.Equal(t, conversation.QuestionReason, decision.Ask)

	// Turn 2: "im sick" fills the reason; kind survives the sparse follow-up.
	second := &claude.CandidateEvent{Kind: absence.KindFullDay, Subtype: absence.SubtypeSick, Reason: "Sick"}
	merged, decision = engine.Merge(merged, conversation.QuestionReason, second, "im sick", dayShiftStart)

	assert.Equal(t, DecisionComplete, decision.Kind)
	assert.Equal(t, absence.KindFullDay, decision.Draft.Kind)
	assert.Equal(t, absence.SubtypeSick, decision.Draft.Subtype)
	assert.Equal(t, "Sick", decision.Draft.Reason)
}

func TestNewEventDraft_Defaults(t *testing.T) {
	// Date defaults to today, subtype defaults by kind.
	draft := newEventDraft(conversation.Collected{Kind: absence.KindShortAbsence, Reason: "Errand", DurationMinutes: intPtr(60)})
	assert.Equal(t, absence.DateToday, draft.DateRef)
	assert.Equal(t, absence.SubtypePersonal, draft.Subtype)

	draft = newEventDraft(conversation.Collected{Kind: absence.KindFullDay, Reason: "Flu"})
	assert.Equal(t, absence.SubtypeSick, draft.Subtype)

	// Late events carry no subtype.
	draft = newEventDraft(conversation.Collected{Kind: absence.KindLate, Reason: "Traffic"})
	assert.Equal(t, absence.Subtype(""), draft.Subtype)

	// Explicit values survive.
	draft = newEventDraft(conversation.Collected{
		Kind:    absence.KindHalfDay,
		Subtype: absence.SubtypeSick,
		Reason:  "Migraine",
		DateRef: absence.DateTomorrow,
	})
	assert.Equal(t, absence.SubtypeSick, draft.Subtype)
	assert.Equal(t, absence.DateTomorrow, draft.DateRef)
}
