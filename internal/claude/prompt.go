package claude

import (
	"bytes"
	"fmt"

	"github.com/attendly/attendbot/internal/absence"
	"github.com/attendly/attendbot/internal/conversation"
)

// SystemPrompt is the classification instruction for attendance reports. The JSON-only
// contract here is what Interpret validates against.
const SystemPrompt = `You are an attendance assistant for a manufacturing operation. Employees text in quickly and informally to report being late or absent. Parse their messages and respond with ONLY valid JSON. No explanations, no markdown code blocks, just raw JSON.

## Be extremely flexible and forgiving

Accept typos ("sicl", "trafic"), all caps, text speak ("cant", "b late", "2hrs", "tmrw"), missing punctuation, emojis, questions ("can I come in late?"), apologies, abbreviations ("dr appt", "min", "hr"), and compound messages ("running late 30 min traffic bad").

## Duration extraction

Extract duration in minutes from any format:
- Exact: "30 min" / "30m" -> 30; "2 hours" / "2h" / "2hrs" -> 120
- Words: "half hour" -> 30; "an hour" -> 60; "couple hours" -> 120; "few hours" -> 180; "half day" -> 240
- Ranges (use midpoint): "30-45 min" -> 38; "1-2 hours" -> 90
- Vague: "soon"/"shortly" -> 15; "a while" -> 30; "long time" -> 60
- Arrival time: "be there at 8:30" -> minutes between shift start and 8:30
- Time ranges: "away from 1:30 to 2:30" -> 60 (use the current time context to resolve)
- Implied full day: "today" / "all day" / "not coming in" / bare "sick" -> 480

## LATE vs ABSENCE — the critical distinction

LATE = delayed arrival at the START of the shift only. The employee IS coming in.
Cues: "running late", "on my way", "stuck in traffic", "overslept", "be there in N".

ABSENCE = not present during work hours, or leaving during the shift.
Cues: "away", "stepping out", "leaving early", "appointment", "not coming in", "sick".

Any message with a specific time range ("from X to Y") is ALWAYS an absence, never late.
"away from 1:30 to 2:30" is a short absence of 60 minutes, not late and not a half day.

## Classification

1. Decide LATE vs ABSENCE from the cues above.
2. LATE keeps type "late" regardless of duration.
3. Absences classify by duration using the thresholds given in the request context.
4. If the message clearly reports an absence but gives no duration cue at all, use type "unclear_duration".
5. If you cannot tell what the employee is reporting, use type "unclear".

## Date detection

Default to "today". "tomorrow"/"tmrw"/"tmr" -> "tomorrow". Weekday names (possibly with "next"/"this") -> that weekday, capitalized.

## Output format

Respond with ONLY this JSON object, starting with { and ending with }:

{
  "type": "late|short_absence|half_day|full_day|unclear|unclear_duration",
  "subtype": "sick|personal|null",
  "reason": "extracted reason or null",
  "duration_minutes": number or null,
  "date": "today|tomorrow|Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday",
  "has_duration": boolean,
  "has_reason": boolean,
  "missing_duration": boolean,
  "missing_reason": boolean
}

subtype is "sick" or "personal" for absences and null for late. reason is the short human-readable cause ("Traffic", "Doctor appointment", "Sick"). Never invent fields the message does not support.`

// PromptInput is everything the classification prompt is built from. All values are
// passed in explicitly; the builder itself never reads the clock or any other ambient
// state, so identical inputs produce byte-identical prompts.
type PromptInput struct {
	MessageText      string
	EmployeeName     string
	Shift            string
	OrganizationName string
	TimezoneLabel    string
	CurrentTimeLabel string
	Thresholds       absence.Thresholds
	Session          *conversation.Session
}

// BuildClassificationPrompt renders the user prompt: employee context, the time anchor,
// conversation history with already-collected fields, and the message to parse.
func BuildClassificationPrompt(in PromptInput) string {
	var prompt bytes.Buffer

	prompt.WriteString("## Employee Context\n\n")
	prompt.WriteString(fmt.Sprintf("Name: %s\n", in.EmployeeName))
	prompt.WriteString(fmt.Sprintf("Shift: %s\n", in.Shift))
	prompt.WriteString(fmt.Sprintf("Organization: %s\n", in.OrganizationName))

	prompt.WriteString("\n## Current Date/Time Reference\n\n")
	prompt.WriteString(fmt.Sprintf("Current time (%s): %s\n", in.TimezoneLabel, in.CurrentTimeLabel))
	prompt.WriteString("Use this to resolve relative expressions (\"this afternoon\", \"from 1:30 to 2:30\") against a concrete now.\n")

	prompt.WriteString("\n## Absence Duration Thresholds\n\n")
	prompt.WriteString(fmt.Sprintf("- Under %d minutes: short_absence\n", in.Thresholds.ShortAbsenceMax))
	prompt.WriteString(fmt.Sprintf("- %d to %d minutes (inclusive): half_day\n", in.Thresholds.ShortAbsenceMax, in.Thresholds.HalfDayMax))
	prompt.WriteString(fmt.Sprintf("- Over %d minutes: full_day\n", in.Thresholds.HalfDayMax))

	writeConversationContext(&prompt, in.Session)

	prompt.WriteString("\n## Message To Parse\n\n")
	prompt.WriteString(fmt.Sprintf("%q\n", in.MessageText))
	prompt.WriteString("\nRespond with your JSON analysis only.")

	return prompt.String()
}

// writeConversationContext renders prior messages and collected fields so the model
// never re-asks for something already answered. The current message is the last raw
// message in the session and is excluded from the history section.
func writeConversationContext(prompt *bytes.Buffer, sess *conversation.Session) {
	if sess == nil || len(sess.RawMessages) <= 1 {
		return
	}

	prompt.WriteString("\n## Conversation History (this is a follow-up message)\n\n")
	previous := sess.RawMessages[:len(sess.RawMessages)-1]
	for i, msg := range previous {
		prompt.WriteString(fmt.Sprintf("%d. %q\n", i+1, msg.Text))
	}

	c := sess.Collected
	if c.Kind != "" || c.Subtype != "" || c.Reason != "" || c.DurationMinutes != nil {
		prompt.WriteString("\nInfo already collected:\n")
		if c.Kind != "" {
			prompt.WriteString(fmt.Sprintf("- Type: %s\n", c.Kind))
		}
		if c.Subtype != "" {
			prompt.WriteString(fmt.Sprintf("- Subtype: %s\n", c.Subtype))
		}
		if c.Reason != "" {
			prompt.WriteString(fmt.Sprintf("- Reason: %s\n", c.Reason))
		}
		if c.DurationMinutes != nil {
			prompt.WriteString(fmt.Sprintf("- Duration: %d minutes\n", *c.DurationMinutes))
		}
	}

	if sess.LastQuestionAsked != conversation.QuestionNone {
		prompt.WriteString(fmt.Sprintf("\nLast question we asked: %s\n", sess.LastQuestionAsked))
	}

	prompt.WriteString("\nFollow-up rules:\n")
	prompt.WriteString("1. If the current message is just a duration (\"1 hour\", \"30 min\"), extract it as duration_minutes.\n")
	prompt.WriteString("2. If the current message is just a reason (\"groceries\", \"traffic\"), extract it as reason.\n")
	prompt.WriteString("3. Use the info already collected; do not mark a collected field as missing.\n")
}
