package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
)

// TransactionFilters defines list filters. Every field is optional; absent
// fields add no constraint. All present constraints combine with AND.
type TransactionFilters struct {
	StartDate         string   // inclusive, YYYY-MM-DD
	EndDate           string   // inclusive, YYYY-MM-DD
	AccountID         string   // single-account equality
	AccountIDs        []string // multi-account membership
	CategoryID        string   // single-category equality
	CategoryIDs       []string // matches the ids directly or any of their children
	Search            string   // case-insensitive substring over payee and memo
	UncategorizedOnly bool
	MinAmount         *int64 // inclusive, signed cents
	MaxAmount         *int64 // inclusive, signed cents
	TransactionType   string // "income" (>0) or "expense" (<0); anything else ignored
	Limit             int    // 0 = no limit
	Offset            int    // applied only with Limit
}

const transactionColumns = `id, date, payee, category_id, memo, amount_cents, account_id, tags, is_reconciled, import_source, created_at, updated_at`

// buildTransactionQuery renders the filter set into one parameterized
// statement. Fields are visited in a fixed order and each present field
// appends its predicate fragment and bound values in lockstep, so the
// placeholder positions always line up with the args slice.
func buildTransactionQuery(f TransactionFilters) (string, []interface{}) {
	var where []string
	var args []interface{}

	if f.StartDate != "" {
		where = append(where, "date >= ?")
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		where = append(where, "date <= ?")
		args = append(args, f.EndDate)
	}
	if f.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, f.AccountID)
	}
	if len(f.AccountIDs) > 0 {
		where = append(where, "account_id IN ("+placeholders(len(f.AccountIDs))+")")
		for _, id := range f.AccountIDs {
			args = append(args, id)
		}
	}
	if f.CategoryID != "" {
		where = append(where, "category_id = ?")
		args = append(args, f.CategoryID)
	}
	if len(f.CategoryIDs) > 0 {
		// Selecting a section category implicitly selects its children, so
		// the id list binds twice: direct match plus the parent sub-select.
		ph := placeholders(len(f.CategoryIDs))
		where = append(where, "(category_id IN ("+ph+") OR category_id IN (SELECT id FROM categories WHERE parent_id IN ("+ph+")))")
		for i := 0; i < 2; i++ {
			for _, id := range f.CategoryIDs {
				args = append(args, id)
			}
		}
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		where = append(where, "(LOWER(payee) LIKE ? OR LOWER(COALESCE(memo, '')) LIKE ?)")
		args = append(args, pattern, pattern)
	}
	if f.UncategorizedOnly {
		// NULL and empty string both mean "no category" in persisted rows.
		where = append(where, "(category_id IS NULL OR category_id = '')")
	}
	if f.MinAmount != nil {
		where = append(where, "amount_cents >= ?")
		args = append(args, *f.MinAmount)
	}
	if f.MaxAmount != nil {
		where = append(where, "amount_cents <= ?")
		args = append(args, *f.MaxAmount)
	}
	switch f.TransactionType {
	case "income":
		where = append(where, "amount_cents > 0")
	case "expense":
		where = append(where, "amount_cents < 0")
	}

	query := "SELECT " + transactionColumns + " FROM transactions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
		if f.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, f.Offset)
		}
	}
	return query, args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

func (r *TransactionRepo) Insert(ctx context.Context, t Transaction) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transactions(id, date, payee, category_id, memo, amount_cents, account_id, tags, is_reconciled, import_source)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		t.ID, t.Date, t.Payee, t.CategoryID, t.Memo, t.AmountCents, t.AccountID,
		encodeTags(t.Tags), boolToInt(t.IsReconciled), t.ImportSource)
	return err
}

// Update writes every mutable column; callers merge partial updates onto the
// current row first.
func (r *TransactionRepo) Update(ctx context.Context, t Transaction) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE transactions
	SET date = ?, payee = ?, category_id = ?, memo = ?, amount_cents = ?, account_id = ?, tags = ?, is_reconciled = ?, updated_at = datetime('now')
	WHERE id = ?`,
		t.Date, t.Payee, t.CategoryID, t.Memo, t.AmountCents, t.AccountID,
		encodeTags(t.Tags), boolToInt(t.IsReconciled), t.ID)
	return err
}

// Delete removes a transaction, reporting whether a row actually went away.
func (r *TransactionRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Get returns a transaction by id, or nil when no such row exists.
func (r *TransactionRepo) Get(ctx context.Context, id string) (*Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// List returns the transactions matching every present filter, newest first.
// An empty result is a valid outcome, not an error.
func (r *TransactionRepo) List(ctx context.Context, f TransactionFilters) ([]Transaction, error) {
	query, args := buildTransactionQuery(f)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SumForAccount returns the live balance: the sum of all transaction amounts
// for the account.
func (r *TransactionRepo) SumForAccount(ctx context.Context, accountID string) (int64, error) {
	var sum int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE account_id = ?`, accountID).Scan(&sum)
	return sum, err
}

// CategoryTotalsForMonth sums amounts per category for the given YYYY-MM month.
func (r *TransactionRepo) CategoryTotalsForMonth(ctx context.Context, month string) ([]CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT category_id, SUM(amount_cents), COUNT(*)
	FROM transactions
	WHERE date LIKE ?
	GROUP BY category_id
	ORDER BY category_id`, month+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		var cat sql.NullString
		if err := rows.Scan(&cat, &ct.TotalCents, &ct.Count); err != nil {
			return nil, err
		}
		if cat.Valid && cat.String != "" {
			ct.CategoryID = &cat.String
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

// UncategorizedTotalForMonth sums amounts for transactions without a category.
func (r *TransactionRepo) UncategorizedTotalForMonth(ctx context.Context, month string) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `
	SELECT COALESCE(SUM(amount_cents), 0)
	FROM transactions
	WHERE date LIKE ? AND (category_id IS NULL OR category_id = '')`, month+"%").Scan(&total)
	return total, err
}

// MonthlySummary aggregates income, expenses and net for the given month.
// Expenses are reported as a positive number.
func (r *TransactionRepo) MonthlySummary(ctx context.Context, month string) (MonthlySummary, error) {
	s := MonthlySummary{Month: month}
	err := r.db.QueryRowContext(ctx, `
	SELECT
	 COALESCE(SUM(CASE WHEN amount_cents > 0 THEN amount_cents ELSE 0 END), 0),
	 COALESCE(SUM(CASE WHEN amount_cents < 0 THEN -amount_cents ELSE 0 END), 0),
	 COUNT(*)
	FROM transactions
	WHERE date LIKE ?`, month+"%").Scan(&s.IncomeCents, &s.ExpensesCents, &s.Count)
	if err != nil {
		return MonthlySummary{}, err
	}
	s.NetCents = s.IncomeCents - s.ExpensesCents
	return s, nil
}

// scanner lets one scan func serve both Row and Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row scanner) (Transaction, error) {
	var t Transaction
	var category, memo, source sql.NullString
	var tagsJSON string
	var reconciled int
	if err := row.Scan(&t.ID, &t.Date, &t.Payee, &category, &memo, &t.AmountCents,
		&t.AccountID, &tagsJSON, &reconciled, &source, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return Transaction{}, err
	}
	// Empty string and NULL both mean uncategorized; normalize to nil.
	if category.Valid && category.String != "" {
		t.CategoryID = &category.String
	}
	if memo.Valid {
		t.Memo = &memo.String
	}
	if source.Valid {
		t.ImportSource = &source.String
	}
	t.IsReconciled = reconciled == 1
	t.Tags = decodeTags(t.ID, tagsJSON)
	return t, nil
}

// decodeTags recovers from malformed persisted payloads with an empty list
// rather than failing the whole row.
func decodeTags(txID, raw string) []string {
	if raw == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		log.Warn().Str("transaction", txID).Err(err).Msg("malformed tags payload, using empty list")
		return []string{}
	}
	if tags == nil {
		return []string{}
	}
	return tags
}

func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
