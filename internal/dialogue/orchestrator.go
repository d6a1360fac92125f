package dialogue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/attendly/attendbot/internal/absence"
	"github.com/attendly/attendbot/internal/claude"
	"github.com/attendly/attendbot/internal/conversation"
	"github.com/attendly/attendbot/internal/timeutil"
)

// ErrEmployeeNotFound is returned by a Directory when no employee matches the phone.
var ErrEmployeeNotFound = errors.New("employee not found")

// Employee is the directory record the pipeline needs: identity, shift and the
// organization context used to anchor time resolution.
type Employee struct {
	Ref              int64
	Name             string
	Shift            string
	OrganizationName string
	Timezone         string
}

// Directory resolves an inbound phone number to an employee.
type Directory interface {
	LookupByPhone(ctx context.Context, phoneKey string) (*Employee, error)
}

// Provider is the LLM completion collaborator: one blocking round trip of rendered
// prompt in, raw text out.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	IsConfigured() bool
}

// FinalizedEvent is the immutable attendance record handed to the sink once a
// conversation completes.
type FinalizedEvent struct {
	EmployeeRef     int64
	EmployeeName    string
	Category        string // persistence-level: late / sick / personal
	Kind            absence.EventKind
	Reason          string // duration-annotated, human-readable
	DurationMinutes int
	OccursOn        time.Time
	ReportedAt      time.Time
	ReportChannel   string
	OriginalText    string
	LateNotice      bool
	Transcript      []conversation.TranscriptEntry
}

// EventSink persists finalized events and returns an opaque identifier.
type EventSink interface {
	Store(ctx context.Context, event FinalizedEvent) (int64, error)
}

// Notifier is told about late-notice events after they are stored. Best effort:
// failures are logged, never surfaced to the employee.
type Notifier interface {
	NotifyLateNotice(ctx context.Context, event FinalizedEvent)
}

// Orchestrator runs the per-message state machine: load session, build prompt, call
// the provider, interpret, merge, then ask a follow-up, finalize, or reject.
type Orchestrator struct {
	store      conversation.Store
	directory  Directory
	provider   Provider
	sink       EventSink
	notifier   Notifier
	engine     MergeEngine
	thresholds absence.Thresholds

	// fallbackContact is appended to replies when the pipeline cannot proceed.
	fallbackContact string

	// phoneLocks serializes the pipeline per phone key: a later message must see the
	// state left by an earlier one. Different phones proceed in parallel.
	phoneLocks sync.Map // string -> *sync.Mutex

	// now is replaceable in tests.
	now func() time.Time
}

// Config wires an Orchestrator.
type Config struct {
	Store           conversation.Store
	Directory       Directory
	Provider        Provider
	Sink            EventSink
	Notifier        Notifier
	Thresholds      absence.Thresholds
	FallbackContact string
}

func NewOrchestrator(cfg Config) *Orchestrator {
	thresholds := cfg.Thresholds
	if thresholds.ShortAbsenceMax <= 0 || thresholds.HalfDayMax <= 0 {
		thresholds = absence.DefaultThresholds()
	}
	contact := cfg.FallbackContact
	if contact == "" {
		contact = "your supervisor"
	}

	return &Orchestrator{
		store:           cfg.Store,
		directory:       cfg.Directory,
		provider:        cfg.Provider,
		sink:            cfg.Sink,
		notifier:        cfg.Notifier,
		engine:          NewMergeEngine(thresholds),
		thresholds:      thresholds,
		fallbackContact: contact,
		now:             time.Now,
	}
}

// HandleMessage processes one inbound SMS and returns the reply text. A non-nil error
// means the turn failed after the point of no return (sink rejection); the reply text
// is still safe to send.
func (o *Orchestrator) HandleMessage(ctx context.Context, fromPhone, bodyText string, receivedAt time.Time) (string, error) {
	phoneKey := timeutil.PhoneKey(fromPhone)
	if phoneKey == "" {
		return o.notFoundReply(), nil
	}

	emp, err := o.directory.LookupByPhone(ctx, phoneKey)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			fmt.Printf("SMS from unknown phone %s\n", phoneKey)
			return o.notFoundReply(), nil
		}
		fmt.Printf("Employee lookup failed for %s: %v\n", phoneKey, err)
		return o.errorReply(), nil
	}

	lock := o.lockFor(phoneKey)
	lock.Lock()
	defer lock.Unlock()

	if receivedAt.IsZero() {
		receivedAt = o.now()
	}

	return o.runTurn(ctx, phoneKey, bodyText, receivedAt, emp)
}

func (o *Orchestrator) runTurn(ctx context.Context, phoneKey, bodyText string, receivedAt time.Time, emp *Employee) (string, error) {
	prior, err := o.store.Get(phoneKey, receivedAt)
	if err != nil {
		fmt.Printf("Conversation store read failed for %s: %v\n", phoneKey, err)
		return o.errorReply(), nil
	}
	firstMessage := prior == nil

	var transcript []conversation.TranscriptEntry
	if prior != nil {
		transcript = prior.Transcript
	}
	transcript = append(transcript, conversation.TranscriptEntry{
		From: conversation.SpeakerEmployee,
		Text: bodyText,
		At:   receivedAt,
	})

	sess, err := o.store.Upsert(phoneKey, conversation.Patch{
		MessageText: bodyText,
		MessageAt:   receivedAt,
		Transcript:  transcript,
	}, receivedAt)
	if err != nil {
		fmt.Printf("Conversation store write failed for %s: %v\n", phoneKey, err)
		return o.errorReply(), nil
	}

	prompt := claude.BuildClassificationPrompt(claude.PromptInput{
		MessageText:      bodyText,
		EmployeeName:     emp.Name,
		Shift:            emp.Shift,
		OrganizationName: emp.OrganizationName,
		TimezoneLabel:    emp.Timezone,
		CurrentTimeLabel: timeutil.CurrentTimeLabel(receivedAt, emp.Timezone),
		Thresholds:       o.thresholds,
		Session:          sess,
	})

	raw, err := o.provider.Complete(ctx, prompt)
	if err != nil {
		// Transient provider failure: keep the session so the next message can
		// retry with the accumulated context.
		fmt.Printf("Provider call failed for %s: %v\n", phoneKey, err)
		return o.retryReply(), nil
	}

	cand, perr := claude.Interpret(raw)
	if perr != nil {
		fmt.Printf("Provider response unusable for %s (%s): %s\n", phoneKey, perr.Code, perr.Raw)
		return o.retryReply(), nil
	}

	merged, decision := o.engine.Merge(sess.Collected, sess.LastQuestionAsked, cand, bodyText, timeutil.ShiftStartMinutes(emp.Shift))

	if decision.Kind == DecisionNeedsInfo {
		return o.askFollowUp(phoneKey, merged, decision.Ask, emp, firstMessage, transcript, receivedAt)
	}

	return o.finalize(ctx, phoneKey, decision.Draft, emp, bodyText, transcript, receivedAt)
}

func (o *Orchestrator) askFollowUp(
	phoneKey string,
	merged conversation.Collected,
	ask conversation.Question,
	emp *Employee,
	firstMessage bool,
	transcript []conversation.TranscriptEntry,
	now time.Time,
) (string, error) {
	reply := FollowUpText(ask, merged, emp.Name, firstMessage)

	transcript = append(transcript, conversation.TranscriptEntry{
		From: conversation.SpeakerSystem,
		Text: reply,
		At:   now,
	})

	if _, err := o.store.Upsert(phoneKey, conversation.Patch{
		Collected:     &merged,
		QuestionAsked: ask,
		Transcript:    transcript,
	}, now); err != nil {
		fmt.Printf("Conversation store write failed for %s: %v\n", phoneKey, err)
		return o.errorReply(), nil
	}

	return reply, nil
}

func (o *Orchestrator) finalize(
	ctx context.Context,
	phoneKey string,
	draft *EventDraft,
	emp *Employee,
	originalText string,
	transcript []conversation.TranscriptEntry,
	now time.Time,
) (string, error) {
	reply := ConfirmationText(emp.Name, draft)
	transcript = append(transcript, conversation.TranscriptEntry{
		From: conversation.SpeakerSystem,
		Text: reply,
		At:   now,
	})

	duration := 0
	if draft.DurationMinutes != nil {
		duration = *draft.DurationMinutes
	}

	loc, _ := timeutil.ResolveLocation(emp.Timezone)
	event := FinalizedEvent{
		EmployeeRef:     emp.Ref,
		EmployeeName:    emp.Name,
		Category:        categoryFor(draft),
		Kind:            draft.Kind,
		Reason:          FormatReason(draft),
		DurationMinutes: duration,
		OccursOn:        draft.DateRef.ResolveDate(now.In(loc)),
		ReportedAt:      now,
		ReportChannel:   "sms",
		OriginalText:    originalText,
		LateNotice:      timeutil.IsLateNotice(emp.Shift, now, emp.Timezone),
		Transcript:      transcript,
	}

	id, err := o.sink.Store(ctx, event)
	if err != nil {
		// The sink may have partially succeeded; acknowledge conservatively and
		// keep the session so a resend remains possible.
		fmt.Printf("Failed to store finalized event for %s: %v\n", phoneKey, err)
		return o.receivedReply(emp.Name), fmt.Errorf("failed to store finalized event: %w", err)
	}

	fmt.Printf("Absence logged (id=%d, employee=%s, kind=%s, duration=%d)\n", id, emp.Name, draft.Kind, duration)

	if o.notifier != nil && event.LateNotice {
		o.notifier.NotifyLateNotice(ctx, event)
	}

	// Emit-then-clear is at-least-once: a clear failure can resurrect a stale
	// session and produce a duplicate record on the next message.
	if err := o.store.Clear(phoneKey); err != nil {
		fmt.Printf("Failed to clear conversation for %s: %v\n", phoneKey, err)
	}

	return reply, nil
}

// categoryFor maps the event kind to the persistence-level category: late stays
// late, absences store their subtype.
func categoryFor(draft *EventDraft) string {
	if draft.Kind == absence.KindLate {
		return "late"
	}
	return string(draft.Subtype)
}

func (o *Orchestrator) lockFor(phoneKey string) *sync.Mutex {
	actual, _ := o.phoneLocks.LoadOrStore(phoneKey, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

func (o *Orchestrator) notFoundReply() string {
	return fmt.Sprintf("Sorry, we couldn't find your employee record. Please contact %s.", o.fallbackContact)
}

func (o *Orchestrator) errorReply() string {
	return fmt.Sprintf("Sorry, there was an error processing your message. Please contact %s.", o.fallbackContact)
}

func (o *Orchestrator) retryReply() string {
	return fmt.Sprintf("Sorry, we couldn't process that right now. Please try again in a moment or contact %s.", o.fallbackContact)
}

func (o *Orchestrator) receivedReply(name string) string {
	return fmt.Sprintf("Thanks %s, we received your report. If you don't get a confirmation shortly, please contact %s.", name, o.fallbackContact)
}
