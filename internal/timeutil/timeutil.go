package timeutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var defaultLocation = time.UTC

// ResolveLocation returns the organization's location with UTC fallback.
func ResolveLocation(timezone string) (*time.Location, bool) {
	if timezone == "" {
		return defaultLocation, true
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return defaultLocation, true
	}
	return loc, false
}

// CurrentTimeLabel renders a moment as the human-readable anchor handed to the LLM,
// e.g. "Monday, January 2, 2006 3:04 PM". The label is the only place "now" enters a
// prompt, which keeps prompt construction deterministic under test.
func CurrentTimeLabel(t time.Time, timezone string) string {
	loc, _ := ResolveLocation(timezone)
	return t.In(loc).Format("Monday, January 2, 2006 3:04 PM")
}

// shiftClockRe matches the leading clock time inside a shift label, e.g. "7am", "3:30pm".
var shiftClockRe = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*(am|pm)`)

// ShiftStartMinutes extracts the start-of-shift clock time from a shift label such as
// "Day (7am-3:30pm)" as minutes after midnight. Returns -1 when the label has no
// parseable time, which callers treat as "shift start unknown".
func ShiftStartMinutes(shift string) int {
	m := shiftClockRe.FindStringSubmatch(strings.ToLower(shift))
	if m == nil {
		return -1
	}

	hour, _ := strconv.Atoi(m[1])
	if hour > 12 {
		return -1
	}
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}

	if m[3] == "pm" && hour != 12 {
		hour += 12
	}
	if m[3] == "am" && hour == 12 {
		hour = 0
	}

	return hour*60 + minute
}

// ShiftStartTime returns today's shift start in the given location, or the zero time
// when the shift label has no parseable start.
func ShiftStartTime(shift string, now time.Time, timezone string) time.Time {
	minutes := ShiftStartMinutes(shift)
	if minutes < 0 {
		return time.Time{}
	}

	loc, _ := ResolveLocation(timezone)
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), minutes/60, minutes%60, 0, 0, loc)
}

// NoticeWindow is how far ahead of shift start a report must arrive to count as
// adequate notice.
const NoticeWindow = 30 * time.Minute

// IsLateNotice reports whether a report arrived inside the notice window (or after
// shift start entirely). Unknown shift starts never count as late notice.
func IsLateNotice(shift string, reportedAt time.Time, timezone string) bool {
	start := ShiftStartTime(shift, reportedAt, timezone)
	if start.IsZero() {
		return false
	}
	return start.Sub(reportedAt) < NoticeWindow
}

// NormalizePhone strips a phone number to digits only. Employee lookup matches on the
// last ten digits so "+1 (905) 522-3811" and "9055223811" key the same conversation.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneKey returns the last ten digits of a normalized phone number, or the whole
// normalized number when shorter.
func PhoneKey(raw string) string {
	digits := NormalizePhone(raw)
	if len(digits) > 10 {
		return digits[len(digits)-10:]
	}
	return digits
}
