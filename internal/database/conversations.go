package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/attendly/attendbot/internal/conversation"
)

// ConversationStore is a sqlite-backed conversation.Store. Unlike the in-memory
// store it survives restarts and can be shared by multiple service instances;
// per-key atomicity comes from doing each read-modify-write inside a transaction.
type ConversationStore struct {
	db             *DB
	followUpWindow time.Duration
	purgeAfter     time.Duration
}

// NewConversationStore wraps a DB as a conversation store. Zero windows take the
// package defaults.
func NewConversationStore(db *DB, followUpWindow, purgeAfter time.Duration) *ConversationStore {
	if followUpWindow <= 0 {
		followUpWindow = conversation.DefaultFollowUpWindow
	}
	if purgeAfter <= 0 {
		purgeAfter = conversation.DefaultPurgeAfter
	}
	return &ConversationStore{db: db, followUpWindow: followUpWindow, purgeAfter: purgeAfter}
}

func (s *ConversationStore) Get(phoneKey string, now time.Time) (*conversation.Session, error) {
	var payload string
	var lastUpdated time.Time
	err := s.db.QueryRow(`
		SELECT payload, last_updated_at FROM conversations WHERE phone_key = ?
	`, phoneKey).Scan(&payload, &lastUpdated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation: %w", err)
	}

	if now.Sub(lastUpdated) > s.followUpWindow {
		// Lazy expiry: the follow-up window has elapsed, drop the row.
		if _, err := s.db.Exec(`DELETE FROM conversations WHERE phone_key = ?`, phoneKey); err != nil {
			return nil, fmt.Errorf("failed to expire conversation: %w", err)
		}
		return nil, nil
	}

	var sess conversation.Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return &sess, nil
}

func (s *ConversationStore) Upsert(phoneKey string, patch conversation.Patch, now time.Time) (*conversation.Session, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin conversation upsert: %w", err)
	}
	defer tx.Rollback()

	sess := &conversation.Session{PhoneKey: phoneKey, StartedAt: now}
	var payload string
	err = tx.QueryRow(`
		SELECT payload FROM conversations WHERE phone_key = ?
	`, phoneKey).Scan(&payload)
	switch {
	case err == sql.ErrNoRows:
		// new conversation
	case err != nil:
		return nil, fmt.Errorf("failed to read conversation: %w", err)
	default:
		if err := json.Unmarshal([]byte(payload), sess); err != nil {
			return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
		}
	}

	conversation.ApplyPatch(sess, patch, now)

	updated, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal conversation: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO conversations (phone_key, payload, started_at, last_updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(phone_key) DO UPDATE SET payload = excluded.payload, last_updated_at = excluded.last_updated_at
	`, phoneKey, string(updated), sess.StartedAt, sess.LastUpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to write conversation: %w", err)
	}

	// Amortized cleanup: message volume is low enough that sweeping on every
	// upsert beats running a background scheduler.
	if _, err := tx.Exec(`
		DELETE FROM conversations WHERE last_updated_at < ?
	`, now.Add(-s.purgeAfter)); err != nil {
		return nil, fmt.Errorf("failed to sweep conversations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit conversation upsert: %w", err)
	}

	return sess, nil
}

func (s *ConversationStore) Clear(phoneKey string) error {
	if _, err := s.db.Exec(`DELETE FROM conversations WHERE phone_key = ?`, phoneKey); err != nil {
		return fmt.Errorf("failed to clear conversation: %w", err)
	}
	return nil
}

func (s *ConversationStore) Sweep(now time.Time) error {
	if _, err := s.db.Exec(`
		DELETE FROM conversations WHERE last_updated_at < ?
	`, now.Add(-s.purgeAfter)); err != nil {
		return fmt.Errorf("failed to sweep conversations: %w", err)
	}
	return nil
}
