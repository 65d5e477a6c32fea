package repository

import (
	"context"
	"database/sql"
)

// SnapshotRepo handles the net-worth history ledger: one row per month,
// written by the UI at month boundaries and never recomputed retroactively.
type SnapshotRepo struct {
	db *sql.DB
}

func NewSnapshotRepo(db *sql.DB) *SnapshotRepo { return &SnapshotRepo{db: db} }

// Save upserts the snapshot for its month; the latest write wins.
func (r *SnapshotRepo) Save(ctx context.Context, s Snapshot) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO net_worth_history(month, total_assets_cents, total_liabilities_cents, net_worth_cents)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(month) DO UPDATE SET
	 total_assets_cents=excluded.total_assets_cents,
	 total_liabilities_cents=excluded.total_liabilities_cents,
	 net_worth_cents=excluded.net_worth_cents;
	`, s.Month, s.TotalAssetsCents, s.TotalLiabilitiesCents, s.NetWorthCents)
	return err
}

// LatestBefore returns the most recent snapshot strictly before month, or
// nil when the ledger holds nothing earlier. Lexicographic comparison is
// enough for zero-padded YYYY-MM values.
func (r *SnapshotRepo) LatestBefore(ctx context.Context, month string) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT month, total_assets_cents, total_liabilities_cents, net_worth_cents
	FROM net_worth_history
	WHERE month < ?
	ORDER BY month DESC
	LIMIT 1`, month)
	var s Snapshot
	if err := row.Scan(&s.Month, &s.TotalAssetsCents, &s.TotalLiabilitiesCents, &s.NetWorthCents); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SnapshotRepo) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT month, total_assets_cents, total_liabilities_cents, net_worth_cents
	FROM net_worth_history
	ORDER BY month`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.Month, &s.TotalAssetsCents, &s.TotalLiabilitiesCents, &s.NetWorthCents); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
