package database

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates an in-memory SQLite database for testing.
// The database is automatically closed when the test completes.
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

var testOrgCounter int64 = 0

// CreateTestOrganization creates an organization for testing. Each call creates a
// unique organization in UTC with a generated supervisor address.
func CreateTestOrganization(t *testing.T, db *DB) int64 {
	t.Helper()
	testOrgCounter++

	id, err := db.CreateOrganization(
		fmt.Sprintf("Test Plant %d", testOrgCounter),
		"UTC",
		fmt.Sprintf("supervisor%d@example.com", testOrgCounter),
	)
	require.NoError(t, err, "failed to create test organization")

	return id
}

// CreateTestEmployee creates an employee on the day shift with the given phone.
func CreateTestEmployee(t *testing.T, db *DB, orgID int64, name, phone string) int64 {
	t.Helper()

	id, err := db.CreateEmployee(orgID, name, phone, "Day (7am-3:30pm)", "Line 2")
	require.NoError(t, err, "failed to create test employee")

	return id
}
