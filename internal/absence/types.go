package absence

// EventKind is the primary classification of an attendance report.
type EventKind string

const (
	KindLate            EventKind = "late"
	KindShortAbsence    EventKind = "short_absence"
	KindHalfDay         EventKind = "half_day"
	KindFullDay         EventKind = "full_day"
	KindUnclear         EventKind = "unclear"
	KindUnclearDuration EventKind = "unclear_duration"
)

// KnownKind reports whether k is one of the kinds the LLM is allowed to emit.
func KnownKind(k EventKind) bool {
	switch k {
	case KindLate, KindShortAbsence, KindHalfDay, KindFullDay, KindUnclear, KindUnclearDuration:
		return true
	}
	return false
}

// Settled reports whether k is a concrete classification (not an "ask again" marker).
func Settled(k EventKind) bool {
	switch k {
	case KindLate, KindShortAbsence, KindHalfDay, KindFullDay:
		return true
	}
	return false
}

// Subtype distinguishes sick from personal absences. Empty for late events.
type Subtype string

const (
	SubtypeSick     Subtype = "sick"
	SubtypePersonal Subtype = "personal"
)

// FullDayMinutes is the whole-shift duration assigned to full-day phrasing.
const FullDayMinutes = 480

// Thresholds are the duration-to-category cut points in minutes. They encode one
// organization's shift structure and are loaded from config, not hard-coded at call sites.
type Thresholds struct {
	// ShortAbsenceMax is exclusive: durations below it are short absences.
	ShortAbsenceMax int
	// HalfDayMax is inclusive: durations in [ShortAbsenceMax, HalfDayMax] are half days.
	HalfDayMax int
}

// DefaultThresholds matches the reference shift structure (2h / 4h).
func DefaultThresholds() Thresholds {
	return Thresholds{ShortAbsenceMax: 120, HalfDayMax: 240}
}

// KindForDuration maps an absence duration to short_absence/half_day/full_day.
// Only meaningful for absences; late events keep their kind regardless of duration.
func (t Thresholds) KindForDuration(minutes int) EventKind {
	switch {
	case minutes < t.ShortAbsenceMax:
		return KindShortAbsence
	case minutes <= t.HalfDayMax:
		return KindHalfDay
	default:
		return KindFullDay
	}
}
