package dialogue

import (
	"fmt"
	"math"
	"strconv"

	"github.com/attendly/attendbot/internal/absence"
	"github.com/attendly/attendbot/internal/conversation"
)

// Reply text sent back over SMS. Greetings appear only on the first message of a
// conversation; follow-up turns go straight to the question.

func greeting(name string, firstMessage bool) string {
	if !firstMessage {
		return ""
	}
	return fmt.Sprintf("Hi %s, ", name)
}

// FollowUpText builds the single-field follow-up question for a NeedsInfo decision.
func FollowUpText(ask conversation.Question, collected conversation.Collected, employeeName string, firstMessage bool) string {
	g := greeting(employeeName, firstMessage)

	switch ask {
	case conversation.QuestionStatus:
		return g + "are you running late, calling out sick, or taking time off today?"

	case conversation.QuestionDuration:
		if collected.Kind == absence.KindLate || collected.Kind == absence.KindUnclearDuration {
			return g + `how late will you be? (e.g., "30 min", "2 hours")`
		}
		return g + `how long will you be out? (e.g., "few hours", "half day", "all day")`

	case conversation.QuestionReason:
		switch collected.Kind {
		case absence.KindLate:
			return g + "why are you running late? (e.g., traffic, car trouble, appointment)"
		case absence.KindHalfDay, absence.KindFullDay:
			if collected.Subtype == absence.SubtypeSick {
				return g + "what's going on? (e.g., flu, headache, doctor visit)"
			}
			return g + "what's the reason? (e.g., appointment, errands, family matter)"
		default:
			return g + "what's the reason?"
		}
	}

	return g + `please text something like: "Running 30 min late - traffic" or "Sick with flu" or "Out for appointment"`
}

// ConfirmationText builds the final reply confirming what was logged.
func ConfirmationText(employeeName string, draft *EventDraft) string {
	msg := fmt.Sprintf("Got it, %s. ", employeeName)

	duration := 0
	if draft.DurationMinutes != nil {
		duration = *draft.DurationMinutes
	}

	switch draft.Kind {
	case absence.KindLate:
		mins := "late"
		if duration > 0 {
			mins = fmt.Sprintf("%d min", duration)
		}
		return msg + fmt.Sprintf("Logged as late (%s). ✅", mins)

	case absence.KindShortAbsence:
		amount := "short absence"
		if duration > 0 {
			amount = hoursLabel(duration)
		}
		return msg + fmt.Sprintf("Logged as %s (%s). ✅", subtypeLabel(draft.Subtype), amount)

	case absence.KindHalfDay:
		amount := "half day"
		if duration > 0 {
			amount = hoursLabel(duration)
		}
		return msg + fmt.Sprintf("Logged as %s (half day) (%s). ✅", subtypeLabel(draft.Subtype), amount)

	case absence.KindFullDay:
		label := "personal day"
		if draft.Subtype == absence.SubtypeSick {
			label = "sick"
		}
		return msg + fmt.Sprintf("Logged as %s. ✅", label)
	}

	return msg + "Your report has been logged. ✅"
}

// FormatReason annotates the stored reason with duration for late and half-day
// events, matching how supervisors read the absence list.
func FormatReason(draft *EventDraft) string {
	reason := draft.Reason
	if reason == "" {
		reason = "No reason provided"
	}

	duration := 0
	if draft.DurationMinutes != nil {
		duration = *draft.DurationMinutes
	}
	if duration <= 0 {
		return reason
	}

	switch draft.Kind {
	case absence.KindLate:
		return fmt.Sprintf("%d min - %s", duration, reason)
	case absence.KindHalfDay:
		return fmt.Sprintf("%s hours - %s", hoursValue(duration), reason)
	}
	return reason
}

func subtypeLabel(s absence.Subtype) string {
	if s == absence.SubtypeSick {
		return "sick"
	}
	return "personal"
}

// hoursValue renders minutes as hours rounded to one decimal, without a trailing .0.
func hoursValue(minutes int) string {
	h := math.Round(float64(minutes)/60*10) / 10
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func hoursLabel(minutes int) string {
	return hoursValue(minutes) + " hours"
}
