package conversation

import (
	"sync"
	"time"
)

const (
	// DefaultFollowUpWindow is how long a subsequent message from the same phone is
	// treated as a continuation of the existing conversation.
	DefaultFollowUpWindow = 10 * time.Minute
	// DefaultPurgeAfter is the hard expiry; sweeps remove anything older.
	DefaultPurgeAfter = 15 * time.Minute
)

// Store is the keyed session store. Implementations must make Upsert atomic per key;
// concurrent pipelines for different phone numbers proceed independently.
type Store interface {
	// Get returns the live session for a phone key, or nil when none exists or the
	// follow-up window has elapsed (expired entries are deleted lazily).
	Get(phoneKey string, now time.Time) (*Session, error)
	// Upsert creates or updates the session, applying the patch and refreshing
	// LastUpdatedAt. It also sweeps hard-expired sessions opportunistically.
	Upsert(phoneKey string, patch Patch, now time.Time) (*Session, error)
	// Clear deletes the session. Idempotent.
	Clear(phoneKey string) error
	// Sweep removes all sessions past the hard expiry.
	Sweep(now time.Time) error
}

// MemoryStore keeps sessions in process memory. Suitable for a single service
// instance; multi-instance deployments use the sqlite-backed store instead.
type MemoryStore struct {
	mu             sync.Mutex
	sessions       map[string]*Session
	followUpWindow time.Duration
	purgeAfter     time.Duration
}

// NewMemoryStore creates a store with the given windows; zero durations take the
// defaults.
func NewMemoryStore(followUpWindow, purgeAfter time.Duration) *MemoryStore {
	if followUpWindow <= 0 {
		followUpWindow = DefaultFollowUpWindow
	}
	if purgeAfter <= 0 {
		purgeAfter = DefaultPurgeAfter
	}
	return &MemoryStore{
		sessions:       make(map[string]*Session),
		followUpWindow: followUpWindow,
		purgeAfter:     purgeAfter,
	}
}

func (s *MemoryStore) Get(phoneKey string, now time.Time) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[phoneKey]
	if !ok {
		return nil, nil
	}
	if now.Sub(sess.LastUpdatedAt) > s.followUpWindow {
		delete(s.sessions, phoneKey)
		return nil, nil
	}

	copied := cloneSession(sess)
	return copied, nil
}

func (s *MemoryStore) Upsert(phoneKey string, patch Patch, now time.Time) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[phoneKey]
	if !ok {
		sess = &Session{PhoneKey: phoneKey, StartedAt: now}
		s.sessions[phoneKey] = sess
	}

	ApplyPatch(sess, patch, now)
	s.sweepLocked(now)

	return cloneSession(sess), nil
}

func (s *MemoryStore) Clear(phoneKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, phoneKey)
	return nil
}

func (s *MemoryStore) Sweep(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
	return nil
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	for key, sess := range s.sessions {
		if now.Sub(sess.LastUpdatedAt) > s.purgeAfter {
			delete(s.sessions, key)
		}
	}
}

// ApplyPatch applies a patch to a session. Store implementations call it inside
// whatever makes their upsert atomic per key (a lock here, a transaction in sqlite).
func ApplyPatch(sess *Session, patch Patch, now time.Time) {
	sess.LastUpdatedAt = now

	if patch.MessageText != "" {
		at := patch.MessageAt
		if at.IsZero() {
			at = now
		}
		sess.RawMessages = append(sess.RawMessages, RawMessage{Text: patch.MessageText, At: at})
	}
	if patch.Collected != nil {
		sess.Collected = sess.Collected.Merge(*patch.Collected)
	}
	if patch.QuestionAsked != QuestionNone {
		sess.LastQuestionAsked = patch.QuestionAsked
	}
	if patch.Transcript != nil {
		sess.Transcript = append([]TranscriptEntry(nil), patch.Transcript...)
	}
}

func cloneSession(sess *Session) *Session {
	copied := *sess
	copied.RawMessages = append([]RawMessage(nil), sess.RawMessages...)
	copied.Transcript = append([]TranscriptEntry(nil), sess.Transcript...)
	if sess.Collected.DurationMinutes != nil {
		v := *sess.Collected.DurationMinutes
		copied.Collected.DurationMinutes = &v
	}
	return &copied
}
