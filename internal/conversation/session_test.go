package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/attendly/attendbot/internal/absence"
)

func intPtr(n int) *int { return &n }

func TestCollectedMerge_FillsMissingFields(t *testing.T) {
	prev := Collected{Kind: absence.KindLate}
	candidate := Collected{Reason: "overslept", DurationMinutes: intPtr(30)}

	merged := prev.Merge(candidate)

	assert.Equal(t, absence.KindLate, merged.Kind)
	assert.Equal(t, "overslept", merged.Reason)
	assert.Equal(t, 30, *merged.DurationMinutes)
}

func TestCollectedMerge_SettledKindSticks(t *testing.T) {
	prev := Collected{Kind: absence.KindHalfDay, Subtype: absence.SubtypeSick}
	candidate := Collected{Kind: absence.KindLate, Subtype: absence.SubtypePersonal}

	merged := prev.Merge(candidate)

	assert.Equal(t, absence.KindHalfDay, merged.Kind)
	assert.Equal(t, absence.SubtypeSick, merged.Subtype)
}

func TestCollectedMerge_UnclearUpgrades(t *testing.T) {
	prev := Collected{Kind: absence.KindUnclear}
	merged := prev.Merge(Collected{Kind: absence.KindFullDay})
	assert.Equal(t, absence.KindFullDay, merged.Kind)

	prev = Collected{Kind: absence.KindUnclearDuration}
	merged = prev.Merge(Collected{Kind: absence.KindHalfDay})
	assert.Equal(t, absence.KindHalfDay, merged.Kind)
}

func TestCollectedMerge_NewValuesRefine(t *testing.T) {
	prev := Collected{Reason: "appointment", DurationMinutes: intPtr(60), DateRef: absence.DateToday}
	candidate := Collected{Reason: "dentist appointment", DurationMinutes: intPtr(90), DateRef: absence.DateTomorrow}

	merged := prev.Merge(candidate)

	assert.Equal(t, "dentist appointment", merged.Reason)
	assert.Equal(t, 90, *merged.DurationMinutes)
	assert.Equal(t, absence.DateTomorrow, merged.DateRef)
}

func TestCollectedMerge_EmptyCandidateKeepsEverything(t *testing.T) {
	prev := Collected{
		Kind:            absence.KindLate,
		Reason:          "traffic",
		DurationMinutes: intPtr(20),
		DateRef:         absence.DateToday,
	}

	merged := prev.Merge(Collected{})

	assert.Equal(t, prev.Kind, merged.Kind)
	assert.Equal(t, prev.Reason, merged.Reason)
	assert.Equal(t, 20, *merged.DurationMinutes)
	assert.Equal(t, prev.DateRef, merged.DateRef)
}

func TestCollectedMerge_DurationCopyIsIndependent(t *testing.T) {
	src := intPtr(45)
	merged := Collected{}.Merge(Collected{DurationMinutes: src})

	*src = 99
	assert.Equal(t, 45, *merged.DurationMinutes)
}
