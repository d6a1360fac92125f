package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/attendly/attendbot/internal/dialogue"
)

// ResendNotifier emails the supervisor when an attendance report arrives with late
// notice (inside the notice window before shift start). Best effort: the employee's
// turn never fails because an email didn't go out.
type ResendNotifier struct {
	client      *resend.Client
	fromAddress string
	recipient   string
}

// NewResendNotifier creates a supervisor email notifier. Returns nil when no API key
// is configured; the orchestrator treats a nil notifier as "notifications disabled".
func NewResendNotifier(apiKey, from, recipient string) *ResendNotifier {
	if apiKey == "" {
		return nil
	}
	return &ResendNotifier{
		client:      resend.NewClient(apiKey),
		fromAddress: from,
		recipient:   recipient,
	}
}

// IsConfigured returns true if the notifier has server-side config
func (r *ResendNotifier) IsConfigured() bool {
	return r != nil && r.client != nil && r.fromAddress != "" && r.recipient != ""
}

// NotifyLateNotice implements dialogue.Notifier.
func (r *ResendNotifier) NotifyLateNotice(ctx context.Context, event dialogue.FinalizedEvent) {
	if !r.IsConfigured() {
		return
	}

	subject := fmt.Sprintf("Late notice: %s reported %s", event.EmployeeName, event.Category)
	params := &resend.SendEmailRequest{
		From:    r.fromAddress,
		To:      []string{r.recipient},
		Subject: subject,
		Html:    formatEmailHTML(event),
	}

	if _, err := r.client.Emails.Send(params); err != nil {
		fmt.Printf("Supervisor notification failed for %s: %v\n", event.EmployeeName, err)
		return
	}

	fmt.Printf("Supervisor notified of late-notice report from %s\n", event.EmployeeName)
}

// formatEmailHTML creates the HTML email body
func formatEmailHTML(event dialogue.FinalizedEvent) string {
	durationHTML := ""
	if event.DurationMinutes > 0 {
		durationHTML = fmt.Sprintf(`<p style="margin: 8px 0;"><strong>Duration:</strong> %d minutes</p>`, event.DurationMinutes)
	}

	return fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 600px;">
			<h2 style="color: #c0392b;">Late-notice attendance report</h2>
			<p style="margin: 8px 0;"><strong>Employee:</strong> %s</p>
			<p style="margin: 8px 0;"><strong>Type:</strong> %s (%s)</p>
			<p style="margin: 8px 0;"><strong>Reason:</strong> %s</p>
			%s
			<p style="margin: 8px 0;"><strong>Date:</strong> %s</p>
			<p style="margin: 8px 0;"><strong>Reported:</strong> %s</p>
			<p style="margin: 16px 0; color: #666;">Original message: %q</p>
		</div>
	`,
		event.EmployeeName,
		event.Category, event.Kind,
		event.Reason,
		durationHTML,
		event.OccursOn.Format("Monday, January 2, 2006"),
		event.ReportedAt.Format("Monday, January 2, 2006 at 3:04 PM"),
		event.OriginalText,
	)
}
