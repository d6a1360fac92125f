package migrations

import (
	"database/sql"
)

func init() {
	Register(Migration{
		Version: 1,
		Name:    "initial_schema",
		Up:      initialSchema,
	})
}

func initialSchema(db *sql.DB) error {
	statements := []string{
		// Organizations table
		`CREATE TABLE IF NOT EXISTS organizations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			timezone TEXT NOT NULL DEFAULT 'America/New_York',
			supervisor_email TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Employees table
		`CREATE TABLE IF NOT EXISTS employees (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			organization_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			shift TEXT NOT NULL DEFAULT '',
			station TEXT NOT NULL DEFAULT '',
			start_date DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(organization_id) REFERENCES organizations(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_employees_phone ON employees(phone)`,
		`CREATE INDEX IF NOT EXISTS idx_employees_org ON employees(organization_id)`,

		// Absences table: finalized attendance events
		`CREATE TABLE IF NOT EXISTS absences (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			employee_id INTEGER NOT NULL,
			employee_name TEXT NOT NULL,
			organization_id INTEGER,
			date DATETIME NOT NULL,
			category TEXT NOT NULL CHECK(category IN ('late', 'sick', 'personal')),
			kind TEXT NOT NULL,
			reason TEXT NOT NULL,
			duration_minutes INTEGER NOT NULL DEFAULT 0,
			report_time DATETIME NOT NULL,
			report_method TEXT NOT NULL DEFAULT 'sms' CHECK(report_method IN ('sms', 'call', 'manual')),
			report_message TEXT,
			conversation_transcript TEXT,
			late_notice BOOLEAN DEFAULT 0,
			supervisor_notified BOOLEAN DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(employee_id) REFERENCES employees(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_absences_employee_date ON absences(employee_id, date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_absences_org_date ON absences(organization_id, date DESC)`,

		// Conversations table: durable session store keyed by phone
		`CREATE TABLE IF NOT EXISTS conversations (
			phone_key TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			last_updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_updated ON conversations(last_updated_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
