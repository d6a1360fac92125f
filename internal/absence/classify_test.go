package absence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindForDuration(t *testing.T) {
	th := DefaultThresholds()

	assert.Equal(t, KindShortAbsence, th.KindForDuration(60))
	assert.Equal(t, KindShortAbsence, th.KindForDuration(119))
	assert.Equal(t, KindHalfDay, th.KindForDuration(120))
	assert.Equal(t, KindHalfDay, th.KindForDuration(240))
	assert.Equal(t, KindFullDay, th.KindForDuration(241))
	assert.Equal(t, KindFullDay, th.KindForDuration(FullDayMinutes))
}

func TestKindForDuration_CustomThresholds(t *testing.T) {
	th := Thresholds{ShortAbsenceMax: 90, HalfDayMax: 180}

	assert.Equal(t, KindShortAbsence, th.KindForDuration(89))
	assert.Equal(t, KindHalfDay, th.KindForDuration(90))
	assert.Equal(t, KindHalfDay, th.KindForDuration(180))
	assert.Equal(t, KindFullDay, th.KindForDuration(181))
}

func TestClassify(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name     string
		text     string
		duration int
		want     EventKind
	}{
		{"time range is an absence", "I'll be away from 1:30 to 2:30", 60, KindShortAbsence},
		{"departure cue with half-day duration", "leaving early for an appointment", 180, KindHalfDay},
		{"departure cue with unknown duration", "stepping out for a bit", -1, KindUnclearDuration},
		{"full day language", "not coming in, taking the day", 480, KindFullDay},
		{"running late", "running late, be there in 30", 30, KindLate},
		{"traffic", "stuck in traffic", 20, KindLate},
		{"no cues at all", "hey", -1, KindUnclear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text, tt.duration, th))
		})
	}
}

func TestClassify_AbsenceCuesBeatLatePhrasing(t *testing.T) {
	// "late" framing loses to a bounded mid-day window.
	got := Classify("might be late, away from 1 to 2", 60, DefaultThresholds())
	assert.Equal(t, KindShortAbsence, got)
}

func TestIsAbsenceLanguage(t *testing.T) {
	assert.True(t, IsAbsenceLanguage("away from 1:30 to 2:30"))
	assert.True(t, IsAbsenceLanguage("leaving early today"))
	assert.True(t, IsAbsenceLanguage("doctor appointment"))
	assert.False(t, IsAbsenceLanguage("running late"))
	assert.False(t, IsAbsenceLanguage("hello"))
}

func TestKnownKindAndSettled(t *testing.T) {
	assert.True(t, KnownKind(KindLate))
	assert.True(t, KnownKind(KindUnclearDuration))
	assert.False(t, KnownKind(EventKind("vacation")))

	assert.True(t, Settled(KindFullDay))
	assert.False(t, Settled(KindUnclear))
	assert.False(t, Settled(KindUnclearDuration))
}
