package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stackz/backend/internal/database"
	"github.com/stackz/backend/internal/database/repository"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func insertAccount(t *testing.T, db *sql.DB, id, accountType string, includeInNetWorth bool) {
	t.Helper()
	repo := repository.NewAccountRepo(db)
	require.NoError(t, repo.Insert(context.Background(), repository.Account{
		ID:                id,
		Name:              id,
		AccountType:       accountType,
		Institution:       "Test Bank",
		Currency:          "EUR",
		IsActive:          true,
		IncludeInNetWorth: includeInNetWorth,
	}))
}

func insertTx(t *testing.T, db *sql.DB, id, accountID, date string, amountCents int64) {
	t.Helper()
	repo := repository.NewTransactionRepo(db)
	require.NoError(t, repo.Insert(context.Background(), repository.Transaction{
		ID:          id,
		Date:        date,
		Payee:       "Fixture",
		AmountCents: amountCents,
		AccountID:   accountID,
	}))
}
