package dialogue

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/attendly/attendbot/internal/absence"
	"github.com/attendly/attendbot/internal/conversation"
)

func TestFollowUpText_GreetingOnlyOnFirstMessage(t *testing.T) {
	first := FollowUpText(conversation.QuestionStatus, conversation.Collected{}, "Maria", true)
	assert.True(t, strings.HasPrefix(first, "Hi Maria, "))

	followUp := FollowUpText(conversation.QuestionStatus, conversation.Collected{}, "Maria", false)
	assert.False(t, strings.HasPrefix(followUp, "Hi"))
	assert.Equal(t, "are you running late, calling out sick, or taking time off today?", followUp)
}

func TestFollowUpText_DurationByKind(t *testing.T) {
	late := FollowUpText(conversation.QuestionDuration, conversation.Collected{Kind: absence.KindLate}, "Sam", false)
	assert.Contains(t, late, "how late will you be?")

	provisional := FollowUpText(conversation.QuestionDuration, conversation.Collected{Kind: absence.KindUnclearDuration}, "Sam", false)
	assert.Contains(t, provisional, "how late will you be?")

	out := FollowUpText(conversation.QuestionDuration, conversation.Collected{Kind: absence.KindShortAbsence}, "Sam", false)
	assert.Contains(t, out, "how long will you be out?")
}

func TestFollowUpText_ReasonByKind(t *testing.T) {
	late := FollowUpText(conversation.QuestionReason, conversation.Collected{Kind: absence.KindLate}, "Sam", false)
	assert.Contains(t, late, "why are you running late?")

	sick := FollowUpText(conversation.QuestionReason, conversation.Collected{Kind: absence.KindFullDay, Subtype: absence.SubtypeSick}, "Sam", false)
	assert.Contains(t, sick, "what's going on?")

	personal := FollowUpText(conversation.QuestionReason, conversation.Collected{Kind: absence.KindHalfDay, Subtype: absence.SubtypePersonal}, "Sam", false)
	assert.Contains(t, personal, "what's the reason?")
}

func TestConfirmationText(t *testing.T) {
	tests := []struct {
		name  string
		draft *EventDraft
		want  string
	}{
		{
			"late with duration",
			&EventDraft{Kind: absence.KindLate, DurationMinutes: intPtr(30)},
			"Got it, Maria. Logged as late (30 min). ✅",
		},
		{
			"late without duration",
			&EventDraft{Kind: absence.KindLate},
			"Got it, Maria. Logged as late (late). ✅",
		},
		{
			"short absence",
			&EventDraft{Kind: absence.KindShortAbsence, Subtype: absence.SubtypePersonal, DurationMinutes: intPtr(60)},
			"Got it, Maria. Logged as personal (1 hours). ✅",
		},
		{
			"half day",
			&EventDraft{Kind: absence.KindHalfDay, Subtype: absence.SubtypeSick, DurationMinutes: intPtr(240)},
			"Got it, Maria. Logged as sick (half day) (4 hours). ✅",
		},
		{
			"full day sick",
			&EventDraft{Kind: absence.KindFullDay, Subtype: absence.SubtypeSick},
			"Got it, Maria. Logged as sick. ✅",
		},
		{
			"full day personal",
			&EventDraft{Kind: absence.KindFullDay, Subtype: absence.SubtypePersonal},
			"Got it, Maria. Logged as personal day. ✅",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfirmationText("Maria", tt.draft))
		})
	}
}

func TestFormatReason(t *testing.T) {
	assert.Equal(t, "30 min - Traffic",
		FormatReason(&EventDraft{Kind: absence.KindLate, Reason: "Traffic", DurationMinutes: intPtr(30)}))

	assert.Equal(t, "4 hours - Appointment",
		FormatReason(&EventDraft{Kind: absence.KindHalfDay, Reason: "Appointment", DurationMinutes: intPtr(240)}))

	// Half-day hours keep one decimal when the minutes don't divide evenly.
	assert.Equal(t, "2.5 hours - Appointment",
		FormatReason(&EventDraft{Kind: absence.KindHalfDay, Reason: "Appointment", DurationMinutes: intPtr(150)}))

	// Short absences and full days store the bare reason.
	assert.Equal(t, "Errand",
		FormatReason(&EventDraft{Kind: absence.KindShortAbsence, Reason: "Errand", DurationMinutes: intPtr(60)}))
	assert.Equal(t, "Flu",
		FormatReason(&EventDraft{Kind: absence.KindFullDay, Reason: "Flu"}))

	// Missing reason falls back to the persistence default.
	assert.Equal(t, "No reason provided",
		FormatReason(&EventDraft{Kind: absence.KindFullDay}))
	assert.Equal(t, "20 min - No reason provided",
		FormatReason(&EventDraft{Kind: absence.KindLate, DurationMinutes: intPtr(20)}))
}

func TestHoursValue(t *testing.T) {
	assert.Equal(t, "1", hoursValue(60))
	assert.Equal(t, "1.5", hoursValue(90))
	assert.Equal(t, "2.5", hoursValue(150))
	assert.Equal(t, "0.6", hoursValue(37))
}
