package repository

import (
	"context"
	"database/sql"
)

// PreferenceRepo is a small key/value store for user preferences.
type PreferenceRepo struct {
	db *sql.DB
}

func NewPreferenceRepo(db *sql.DB) *PreferenceRepo { return &PreferenceRepo{db: db} }

// Get returns the value for key and whether it was present.
func (r *PreferenceRepo) Get(ctx context.Context, key string) (string, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM user_preferences WHERE key = ?`, key)
	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (r *PreferenceRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO user_preferences(key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=datetime('now');
	`, key, value)
	return err
}

func (r *PreferenceRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_preferences WHERE key = ?`, key)
	return err
}
