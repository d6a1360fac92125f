package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/attendly/attendbot/internal/dialogue"
	"github.com/attendly/attendbot/internal/timeutil"
)

// Organization is a tenant: one plant with one timezone and one supervisor contact.
type Organization struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Timezone        string     `json:"timezone"`
	SupervisorEmail string     `json:"supervisor_email"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Employee is a directory record.
type Employee struct {
	ID             int64      `json:"id"`
	OrganizationID int64      `json:"organization_id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Shift          string     `json:"shift"`
	Station        string     `json:"station"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CreateOrganization inserts an organization and returns its id.
func (d *DB) CreateOrganization(name, timezone, supervisorEmail string) (int64, error) {
	result, err := d.Exec(`
		INSERT INTO organizations (name, timezone, supervisor_email)
		VALUES (?, ?, ?)
	`, name, timezone, supervisorEmail)
	if err != nil {
		return 0, fmt.Errorf("failed to create organization: %w", err)
	}
	return result.LastInsertId()
}

// GetOrganization fetches an organization by id.
func (d *DB) GetOrganization(id int64) (*Organization, error) {
	var org Organization
	var email sql.NullString
	err := d.QueryRow(`
		SELECT id, name, timezone, COALESCE(supervisor_email, ''), created_at
		FROM organizations WHERE id = ?
	`, id).Scan(&org.ID, &org.Name, &org.Timezone, &email, &org.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	org.SupervisorEmail = email.String
	return &org, nil
}

// CreateEmployee inserts an employee. The phone is stored digits-only so webhook
// numbers in any format match.
func (d *DB) CreateEmployee(orgID int64, name, phone, shift, station string) (int64, error) {
	result, err := d.Exec(`
		INSERT INTO employees (organization_id, name, phone, shift, station)
		VALUES (?, ?, ?, ?, ?)
	`, orgID, name, timeutil.NormalizePhone(phone), shift, station)
	if err != nil {
		return 0, fmt.Errorf("failed to create employee: %w", err)
	}
	return result.LastInsertId()
}

// LookupByPhone resolves a phone key (last ten digits) to an employee plus the
// organization context the pipeline needs. Implements dialogue.Directory.
func (d *DB) LookupByPhone(ctx context.Context, phoneKey string) (*dialogue.Employee, error) {
	var emp dialogue.Employee
	err := d.QueryRowContext(ctx, `
		SELECT e.id, e.name, e.shift, o.name, o.timezone
		FROM employees e
		JOIN organizations o ON o.id = e.organization_id
		WHERE e.phone LIKE '%' || ?
		LIMIT 1
	`, phoneKey).Scan(&emp.Ref, &emp.Name, &emp.Shift, &emp.OrganizationName, &emp.Timezone)
	if err == sql.ErrNoRows {
		return nil, dialogue.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up employee by phone: %w", err)
	}
	return &emp, nil
}

// GetEmployeeByID fetches an employee record.
func (d *DB) GetEmployeeByID(id int64) (*Employee, error) {
	var emp Employee
	var startDate sql.NullTime
	err := d.QueryRow(`
		SELECT id, organization_id, name, phone, shift, station, start_date, created_at
		FROM employees WHERE id = ?
	`, id).Scan(&emp.ID, &emp.OrganizationID, &emp.Name, &emp.Phone, &emp.Shift, &emp.Station, &startDate, &emp.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	if startDate.Valid {
		emp.StartDate = &startDate.Time
	}
	return &emp, nil
}
