package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stackz/backend/internal/database"
)

// testDB migrates a fresh database in a temp dir and returns an open handle.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func insertTestAccount(t *testing.T, db *sql.DB, id, name string) {
	t.Helper()
	repo := NewAccountRepo(db)
	require.NoError(t, repo.Insert(context.Background(), Account{
		ID:                id,
		Name:              name,
		AccountType:       "checking",
		Institution:       "Test Bank",
		Currency:          "EUR",
		IsActive:          true,
		IncludeInNetWorth: true,
	}))
}
