package absence

import (
	"regexp"
	"strings"
)

// Late vs absence is the misclassification that matters most: "late" merely delays
// arrival while an absence removes shift time, and the two score differently against
// an employee's standing. The cue tables below settle it before any duration math.

// "from 1:30 to 2:30", "from 9 until 11". A bounded mid-day window is always an absence.
var timeRangeRe = regexp.MustCompile(`from\s+\d{1,2}(?::\d{2})?\s*(?:am|pm)?\s*(?:to|until|till|-)\s*\d{1,2}`)

// Mid-day departure language: the employee is (or will be) gone during the shift.
var absenceCues = []string{
	"away",
	"stepping out",
	"step out",
	"leaving early",
	"leave early",
	"leaving during",
	"not coming in",
	"taking the day",
	"taking time off",
	"time off",
	"appointment",
	"gone for",
	"out for",
	"calling out",
}

// Still-arriving language: the employee is coming in, just delayed.
var lateCues = []string{
	"running late",
	"be late",
	"gonna be late",
	"min late",
	"on my way",
	"stuck in traffic",
	"overslept",
	"be there in",
	"be there soon",
	"leaving now",
}

// Classify applies the late-vs-absence rules to a raw message with an already-resolved
// duration (pass a negative duration when unknown). It returns KindUnclear when neither
// cue set fires, leaving the call to the conversational loop.
func Classify(text string, durationMinutes int, t Thresholds) EventKind {
	s := strings.ToLower(text)

	// Explicit time ranges and departure language always win over late phrasing:
	// "away from 1:30 to 2:30" is an absence no matter how it is framed.
	if timeRangeRe.MatchString(s) || containsAny(s, absenceCues) {
		if durationMinutes < 0 {
			return KindUnclearDuration
		}
		return t.KindForDuration(durationMinutes)
	}

	if containsAny(s, lateCues) {
		return KindLate
	}

	return KindUnclear
}

// IsAbsenceLanguage reports whether the message carries mid-day departure cues or an
// explicit time range. Used to guard against a "late" classification of a message that
// can only describe an absence.
func IsAbsenceLanguage(text string) bool {
	s := strings.ToLower(text)
	return timeRangeRe.MatchString(s) || containsAny(s, absenceCues)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
