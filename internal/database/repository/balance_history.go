package repository

import (
	"context"
	"database/sql"
)

// BalanceHistoryRepo is the append-only audit log of balance snapshots
// recorded at account creation and manual adjustments. It is independent of
// the live transaction sum and never reconciled against it.
type BalanceHistoryRepo struct {
	db *sql.DB
}

func NewBalanceHistoryRepo(db *sql.DB) *BalanceHistoryRepo { return &BalanceHistoryRepo{db: db} }

func (r *BalanceHistoryRepo) Append(ctx context.Context, accountID string, balanceCents int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO account_balance_history(account_id, balance_cents) VALUES (?, ?)`,
		accountID, balanceCents)
	return err
}

// ForAccount returns the most recent entries, newest first.
func (r *BalanceHistoryRepo) ForAccount(ctx context.Context, accountID string, limit int) ([]BalanceRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT balance_cents, recorded_at
	FROM account_balance_history
	WHERE account_id = ?
	ORDER BY recorded_at DESC, id DESC
	LIMIT ?`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BalanceRecord
	for rows.Next() {
		var rec BalanceRecord
		if err := rows.Scan(&rec.BalanceCents, &rec.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
