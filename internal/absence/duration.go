package absence

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Duration parsing is a fixed, ordered lexicon: first match wins. The tables mirror the
// phrasing employees actually text; they are deliberately literal rather than clever.

var (
	rangeRe   = regexp.MustCompile(`(\d+)\s*-\s*(\d+)\s*(min(?:ute)?s?|hours?|hrs?|h\b)`)
	minutesRe = regexp.MustCompile(`(\d+)\s*(?:minutes?|mins?|m)\b`)
	hoursRe   = regexp.MustCompile(`(\d+)\s*(?:hours?|hrs?|h)\b`)
	inNRe     = regexp.MustCompile(`\bin\s+(\d+)\b`)
	clockRe   = regexp.MustCompile(`(?:at|by)\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
)

type phraseMinutes struct {
	phrase  string
	minutes int
}

// Word and fraction forms. Longer phrases first so "half an hour" wins over "an hour".
var wordDurations = []phraseMinutes{
	{"half an hour", 30},
	{"half hour", 30},
	{"thirty minutes", 30},
	{"thirty min", 30},
	{"an hour", 60},
	{"one hour", 60},
	{"couple of hours", 120},
	{"couple hours", 120},
	{"a couple hours", 120},
	{"two hours", 120},
	{"few hours", 180},
	{"three hours", 180},
	{"half a day", 240},
	{"half day", 240},
	{"four hours", 240},
}

// Vague qualifiers, only reached when nothing numeric matched.
var vagueDurations = []phraseMinutes{
	{"a few min", 15},
	{"few min", 15},
	{"bit late", 15},
	{"soon", 15},
	{"shortly", 15},
	{"a while", 30},
	{"a bit", 30},
	{"long time", 60},
}

// Whole-shift phrasing. Checked last: any explicit duration cue wins first.
var fullDayPhrases = []string{
	"all day",
	"not coming in",
	"not going to make it",
	"taking the day",
	"take the day",
	"taking time off",
	"day off",
	"can't make it",
	"cant make it",
	"calling out",
	"today",
	"sick",
}

// ParseDuration normalizes a free-text duration expression to minutes.
// shiftStartMinutes is the shift start as minutes after midnight, or -1 when unknown;
// it anchors "be there at 8:30" style arrival times. Returns false when no rule matches.
func ParseDuration(text string, shiftStartMinutes int) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return 0, false
	}

	// Ranges before bare numbers so "30-45 min" doesn't resolve as "45 min".
	if m := rangeRe.FindStringSubmatch(s); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		unit := 1
		if strings.HasPrefix(m[3], "h") {
			unit = 60
		}
		mid := float64(lo+hi) * float64(unit) / 2
		return int(math.Round(mid)), true
	}

	// Digit-bearing fraction forms would otherwise read as whole hours ("1/2 hour" -> 2h).
	if strings.Contains(s, "1/2 hour") || strings.Contains(s, ".5 hour") {
		return 30, true
	}

	if m := hoursRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 60, true
	}
	if m := minutesRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, true
	}

	for _, w := range wordDurations {
		if strings.Contains(s, w.phrase) {
			return w.minutes, true
		}
	}

	// "in 30" / "30 from now" style bare numbers read as minutes.
	if m := inNRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, true
	}

	for _, v := range vagueDurations {
		if strings.Contains(s, v.phrase) {
			return v.minutes, true
		}
	}

	if shiftStartMinutes >= 0 {
		if arrival, ok := parseClockTime(s); ok {
			delay := arrival - shiftStartMinutes
			if delay < 0 {
				delay = 0
			}
			return delay, true
		}
	}

	for _, p := range fullDayPhrases {
		if strings.Contains(s, p) {
			return FullDayMinutes, true
		}
	}

	return 0, false
}

// parseClockTime extracts an "at 8:30" / "by 9am" time of day as minutes after midnight.
func parseClockTime(s string) (int, bool) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	hour, _ := strconv.Atoi(m[1])
	if hour > 23 {
		return 0, false
	}
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
		if minute > 59 {
			return 0, false
		}
	}

	switch m[3] {
	case "am":
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour != 12 {
			hour += 12
		}
	}

	return hour*60 + minute, true
}
