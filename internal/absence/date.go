package absence

import (
	"strings"
	"time"
)

// DateRef is a symbolic date reference extracted from a message: "today", "tomorrow",
// or a capitalized weekday name. Resolution to a calendar day happens at finalization.
type DateRef string

const (
	DateToday    DateRef = "today"
	DateTomorrow DateRef = "tomorrow"
)

var tomorrowTokens = []string{"tomorrow", "tmrw", "tmr", "2morrow"}

var weekdayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// ParseDateRef scans a message for a temporal anchor. Case-insensitive substring match
// against a fixed lexicon, first match wins; no cue defaults to today.
func ParseDateRef(text string) DateRef {
	s := strings.ToLower(text)

	for _, tok := range tomorrowTokens {
		if strings.Contains(s, tok) {
			return DateTomorrow
		}
	}

	for _, day := range weekdayNames {
		if strings.Contains(s, day) {
			return DateRef(strings.ToUpper(day[:1]) + day[1:])
		}
	}

	return DateToday
}

// ResolveDate turns a DateRef into a concrete calendar day anchored at midnight of the
// organization's "today". Weekday names resolve to the next occurrence, wrapping a full
// week when the named day is today or already past.
func (r DateRef) ResolveDate(today time.Time) time.Time {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	switch r {
	case DateToday, "":
		return day
	case DateTomorrow:
		return day.AddDate(0, 0, 1)
	}

	for i, name := range weekdayNames {
		if strings.EqualFold(string(r), name) {
			// weekdayNames is Monday-first; time.Weekday is Sunday=0.
			target := time.Weekday((i + 1) % 7)
			offset := int(target-day.Weekday()+7) % 7
			if offset == 0 {
				offset = 7
			}
			return day.AddDate(0, 0, offset)
		}
	}

	return day
}
