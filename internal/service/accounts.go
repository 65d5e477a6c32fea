package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stackz/backend/internal/database/repository"
)

// Accounts owns the account lifecycle, including the two system-generated
// transaction kinds (starting balance, balance adjustment) and the
// append-only balance audit trail.
type Accounts struct {
	Accounts     *repository.AccountRepo
	Transactions *repository.TransactionRepo
	History      *repository.BalanceHistoryRepo
}

// CreateAccountInput carries the fields for a new account.
type CreateAccountInput struct {
	Name                 string
	AccountType          string
	Institution          string
	Currency             string
	StartingBalanceCents int64
	BankNumber           *string
	Country              *string
}

// Create inserts an active, net-worth-included account. A nonzero starting
// balance becomes a regular transaction so the live-sum invariant holds
// from day one; the audit log records the starting balance either way.
func (s *Accounts) Create(ctx context.Context, in CreateAccountInput) (string, error) {
	if in.Name == "" {
		return "", fmt.Errorf("create account: name is required")
	}
	id := "acc-" + uuid.NewString()

	err := s.Accounts.Insert(ctx, repository.Account{
		ID:                id,
		Name:              in.Name,
		AccountType:       in.AccountType,
		Institution:       in.Institution,
		Currency:          in.Currency,
		IsActive:          true,
		IncludeInNetWorth: true,
		BankNumber:        in.BankNumber,
		Country:           in.Country,
	})
	if err != nil {
		return "", err
	}

	if in.StartingBalanceCents != 0 {
		memo := "Initial account balance"
		tx := repository.Transaction{
			ID:          "tx-init-" + uuid.NewString(),
			Date:        today(),
			Payee:       "Starting Balance",
			Memo:        &memo,
			AmountCents: in.StartingBalanceCents,
			AccountID:   id,
		}
		if err := s.Transactions.Insert(ctx, tx); err != nil {
			return "", err
		}
	}

	if err := s.History.Append(ctx, id, in.StartingBalanceCents); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateBalance brings the live transaction sum to newBalanceCents by
// inserting an adjustment transaction for the difference. The read and the
// write are logically, not mechanically, atomic; the single-writer store
// makes interleaving impossible in practice.
func (s *Accounts) UpdateBalance(ctx context.Context, accountID string, newBalanceCents int64) error {
	current, err := s.Transactions.SumForAccount(ctx, accountID)
	if err != nil {
		return err
	}

	if adjustment := newBalanceCents - current; adjustment != 0 {
		memo := "Manual balance update"
		tx := repository.Transaction{
			ID:          "tx-adj-" + uuid.NewString(),
			Date:        today(),
			Payee:       "Balance Adjustment",
			Memo:        &memo,
			AmountCents: adjustment,
			AccountID:   accountID,
		}
		if err := s.Transactions.Insert(ctx, tx); err != nil {
			return err
		}
	}

	if err := s.Accounts.TouchBalanceUpdate(ctx, accountID); err != nil {
		return err
	}
	return s.History.Append(ctx, accountID, newBalanceCents)
}

// Delete soft-deletes the account and returns the number of transactions
// still linked to it, so the UI can warn about retained history.
func (s *Accounts) Delete(ctx context.Context, accountID string) (int64, error) {
	txs, err := s.Transactions.List(ctx, repository.TransactionFilters{AccountID: accountID})
	if err != nil {
		return 0, err
	}
	if err := s.Accounts.SoftDelete(ctx, accountID); err != nil {
		return 0, err
	}
	return int64(len(txs)), nil
}
