package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/attendly/attendbot/internal/conversation"
	"github.com/attendly/attendbot/internal/dialogue"
)

// Absence is a finalized attendance record as stored.
type Absence struct {
	ID              int64                          `json:"id"`
	EmployeeID      int64                          `json:"employee_id"`
	EmployeeName    string                         `json:"employee_name"`
	OrganizationID  int64                          `json:"organization_id"`
	Date            time.Time                      `json:"date"`
	Category        string                         `json:"category"`
	Kind            string                         `json:"kind"`
	Reason          string                         `json:"reason"`
	DurationMinutes int                            `json:"duration_minutes"`
	ReportTime      time.Time                      `json:"report_time"`
	ReportMethod    string                         `json:"report_method"`
	ReportMessage   string                         `json:"report_message"`
	Transcript      []conversation.TranscriptEntry `json:"conversation_transcript"`
	LateNotice      bool                           `json:"late_notice"`
	CreatedAt       time.Time                      `json:"created_at"`
}

// Store persists a finalized attendance event and returns its id. Implements
// dialogue.EventSink. The organization id is derived from the employee row so the
// record always lands in the right tenant.
func (d *DB) Store(ctx context.Context, event dialogue.FinalizedEvent) (int64, error) {
	transcript, err := json.Marshal(event.Transcript)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal transcript: %w", err)
	}

	result, err := d.ExecContext(ctx, `
		INSERT INTO absences (
			employee_id, employee_name, organization_id, date, category, kind, reason,
			duration_minutes, report_time, report_method, report_message,
			conversation_transcript, late_notice
		)
		SELECT e.id, ?, e.organization_id, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		FROM employees e
		WHERE e.id = ?
	`,
		event.EmployeeName, event.OccursOn, event.Category, string(event.Kind), event.Reason,
		event.DurationMinutes, event.ReportedAt, event.ReportChannel, event.OriginalText,
		string(transcript), event.LateNotice, event.EmployeeRef,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to store absence: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return 0, fmt.Errorf("employee %d does not exist", event.EmployeeRef)
	}

	return result.LastInsertId()
}

// GetAbsencesForEmployee returns an employee's absences, newest first.
func (d *DB) GetAbsencesForEmployee(employeeID int64, limit int) ([]Absence, error) {
	rows, err := d.Query(`
		SELECT id, employee_id, employee_name, COALESCE(organization_id, 0), date, category, kind,
		       reason, duration_minutes, report_time, report_method, COALESCE(report_message, ''),
		       COALESCE(conversation_transcript, '[]'), late_notice, created_at
		FROM absences
		WHERE employee_id = ?
		ORDER BY date DESC
		LIMIT ?
	`, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query absences: %w", err)
	}
	defer rows.Close()

	var absences []Absence
	for rows.Next() {
		a, err := scanAbsence(rows)
		if err != nil {
			return nil, err
		}
		absences = append(absences, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating absences: %w", err)
	}

	return absences, nil
}

// GetAbsencesForDate returns all of an organization's absences on a calendar day.
func (d *DB) GetAbsencesForDate(orgID int64, day time.Time) ([]Absence, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	rows, err := d.Query(`
		SELECT id, employee_id, employee_name, COALESCE(organization_id, 0), date, category, kind,
		       reason, duration_minutes, report_time, report_method, COALESCE(report_message, ''),
		       COALESCE(conversation_transcript, '[]'), late_notice, created_at
		FROM absences
		WHERE organization_id = ? AND date >= ? AND date < ?
		ORDER BY report_time ASC
	`, orgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query absences: %w", err)
	}
	defer rows.Close()

	var absences []Absence
	for rows.Next() {
		a, err := scanAbsence(rows)
		if err != nil {
			return nil, err
		}
		absences = append(absences, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating absences: %w", err)
	}

	return absences, nil
}

func scanAbsence(rows *sql.Rows) (Absence, error) {
	var a Absence
	var transcript string
	if err := rows.Scan(
		&a.ID, &a.EmployeeID, &a.EmployeeName, &a.OrganizationID, &a.Date, &a.Category, &a.Kind,
		&a.Reason, &a.DurationMinutes, &a.ReportTime, &a.ReportMethod, &a.ReportMessage,
		&transcript, &a.LateNotice, &a.CreatedAt,
	); err != nil {
		return Absence{}, fmt.Errorf("failed to scan absence: %w", err)
	}
	if err := json.Unmarshal([]byte(transcript), &a.Transcript); err != nil {
		return Absence{}, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}
	return a, nil
}
