// Package testutil provides testing utilities for integration tests.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wikistars5/wikistars5/internal/database"
	"github.com/wikistars5/wikistars5/internal/database/sqlc"
)

// TestDB wraps a test database connection.
type TestDB struct {
	DB     *database.DB
	Conn   *sql.DB
	Path   string
	Logger zerolog.Logger
}

// NewTestDB creates a migrated database in a temp directory.
// The caller should defer Close() to clean up.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "wikistars_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	db, err := database.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to open database: %v", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &TestDB{
		DB:     db,
		Conn:   db.Conn(),
		Path:   tmpDir,
		Logger: NewTestLogger(t),
	}
}

// Close closes the database and removes the temp directory.
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
	if tdb.Path != "" {
		os.RemoveAll(tdb.Path)
	}
}

// Queries returns a query set bound to the test connection.
func (tdb *TestDB) Queries() *sqlc.Queries {
	return sqlc.New(tdb.Conn)
}

// SeedUser inserts a user with a dummy password hash and returns its ID.
func (tdb *TestDB) SeedUser(t *testing.T, username, role string) int64 {
	t.Helper()
	u, err := tdb.Queries().CreateUser(context.Background(), sqlc.CreateUserParams{
		Username:     username,
		PasswordHash: "x",
		DisplayName:  username,
		Role:         role,
	})
	if err != nil {
		t.Fatalf("Failed to seed user %s: %v", username, err)
	}
	return u.ID
}

// SeedFigure inserts a bare figure row.
func (tdb *TestDB) SeedFigure(t *testing.T, id, name string) {
	t.Helper()
	_, err := tdb.Queries().CreateFigure(context.Background(), sqlc.CreateFigureParams{
		ID:       id,
		Name:     name,
		Category: "person",
	})
	if err != nil {
		t.Fatalf("Failed to seed figure %s: %v", id, err)
	}
}

// NewTestLogger creates a test logger that outputs to t.Log.
func NewTestLogger(t *testing.T) zerolog.Logger {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}

// NopLogger returns a no-op logger for tests that don't need output.
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// StringPtr returns a pointer to a string.
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to an int.
func IntPtr(i int) *int {
	return &i
}
