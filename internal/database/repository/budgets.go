package repository

import (
	"context"
	"database/sql"
)

// BudgetRepo handles budget allocations.
type BudgetRepo struct {
	db *sql.DB
}

func NewBudgetRepo(db *sql.DB) *BudgetRepo { return &BudgetRepo{db: db} }

const budgetColumns = `category_id, month, amount_cents, note, created_at, updated_at`

// Set upserts the budget for a category and month. created_at survives
// repeated writes; updated_at does not.
func (r *BudgetRepo) Set(ctx context.Context, b Budget) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO budgets(category_id, month, amount_cents, note)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(category_id, month) DO UPDATE SET
	 amount_cents=excluded.amount_cents,
	 note=excluded.note,
	 updated_at=datetime('now');
	`, b.CategoryID, b.Month, b.AmountCents, b.Note)
	return err
}

func (r *BudgetRepo) Get(ctx context.Context, categoryID, month string) (*Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE category_id = ? AND month = ?`, categoryID, month)
	b, err := scanBudget(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BudgetRepo) ForMonth(ctx context.Context, month string) ([]Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE month = ? ORDER BY category_id`, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBudgets(rows)
}

func (r *BudgetRepo) ForCategoryRange(ctx context.Context, categoryID, startMonth, endMonth string) ([]Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE category_id = ? AND month >= ? AND month <= ? ORDER BY month`,
		categoryID, startMonth, endMonth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBudgets(rows)
}

func (r *BudgetRepo) Delete(ctx context.Context, categoryID, month string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE category_id = ? AND month = ?`, categoryID, month)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func collectBudgets(rows *sql.Rows) ([]Budget, error) {
	var out []Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBudget(row scanner) (Budget, error) {
	var b Budget
	var note sql.NullString
	if err := row.Scan(&b.CategoryID, &b.Month, &b.AmountCents, &note, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return Budget{}, err
	}
	if note.Valid {
		b.Note = &note.String
	}
	return b, nil
}
