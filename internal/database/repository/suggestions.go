package repository

import (
	"context"
	"database/sql"
	"sort"
	"strings"
)

// PayeeSuggestion is an autocomplete candidate ranked by how often the
// payee appears.
type PayeeSuggestion struct {
	Payee     string `json:"payee"`
	Frequency int    `json:"frequency"`
}

// PayeeCategoryHint is the category most often assigned to a payee.
type PayeeCategoryHint struct {
	Payee      string `json:"payee"`
	CategoryID string `json:"categoryId"`
	Count      int    `json:"count"`
}

// SuggestionRepo answers autocomplete queries over existing transactions.
type SuggestionRepo struct {
	db *sql.DB
}

func NewSuggestionRepo(db *sql.DB) *SuggestionRepo { return &SuggestionRepo{db: db} }

func (r *SuggestionRepo) PayeeSuggestions(ctx context.Context, search string, limit int) ([]PayeeSuggestion, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT payee, COUNT(*) AS freq FROM transactions`
	var args []interface{}
	if search != "" {
		query += ` WHERE LOWER(payee) LIKE ?`
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	query += ` GROUP BY payee ORDER BY freq DESC, payee ASC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PayeeSuggestion
	for rows.Next() {
		var s PayeeSuggestion
		if err := rows.Scan(&s.Payee, &s.Frequency); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// PayeeCategory returns the category most often used with the payee, or
// nil when the payee has no categorized history.
func (r *SuggestionRepo) PayeeCategory(ctx context.Context, payee string) (*PayeeCategoryHint, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT category_id, COUNT(*) AS n
	FROM transactions
	WHERE payee = ? AND category_id IS NOT NULL AND category_id != ''
	GROUP BY category_id
	ORDER BY n DESC
	LIMIT 1`, payee)

	hint := PayeeCategoryHint{Payee: payee}
	if err := row.Scan(&hint.CategoryID, &hint.Count); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &hint, nil
}

// UniqueTags collects distinct tags across all transactions. Tags live in
// a JSON array column, so the decode and dedupe happen here rather than
// in SQL.
func (r *SuggestionRepo) UniqueTags(ctx context.Context, search string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, tags FROM transactions WHERE tags IS NOT NULL AND tags != '[]'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[string]bool)
	needle := strings.ToLower(search)
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		for _, tag := range decodeTags(id, raw) {
			if tag == "" {
				continue
			}
			if needle != "" && !strings.Contains(strings.ToLower(tag), needle) {
				continue
			}
			seen[tag] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
