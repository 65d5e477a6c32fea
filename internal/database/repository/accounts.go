package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// AccountRepo handles accounts.
type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

const accountColumns = `id, name, type, institution, currency, is_active, include_in_net_worth, last_balance_update, bank_number, country, created_at, updated_at`

func (r *AccountRepo) Insert(ctx context.Context, a Account) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO accounts(id, name, type, institution, currency, is_active, include_in_net_worth, last_balance_update, bank_number, country)
	VALUES(?, ?, ?, ?, ?, ?, ?, datetime('now'), ?, ?);
	`, a.ID, a.Name, a.AccountType, a.Institution, a.Currency,
		boolToInt(a.IsActive), boolToInt(a.IncludeInNetWorth), a.BankNumber, a.Country)
	return err
}

// AccountPatch carries the optional fields of a partial account update.
type AccountPatch struct {
	Name              *string
	AccountType       *string
	Institution       *string
	Currency          *string
	IsActive          *bool
	IncludeInNetWorth *bool
	BankNumber        *string
	Country           *string
}

// Update applies the present patch fields with a dynamically built SET
// clause. At least one field must be present.
func (r *AccountRepo) Update(ctx context.Context, id string, p AccountPatch) error {
	var sets []string
	var args []interface{}

	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.AccountType != nil {
		sets = append(sets, "type = ?")
		args = append(args, *p.AccountType)
	}
	if p.Institution != nil {
		sets = append(sets, "institution = ?")
		args = append(args, *p.Institution)
	}
	if p.Currency != nil {
		sets = append(sets, "currency = ?")
		args = append(args, *p.Currency)
	}
	if p.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, boolToInt(*p.IsActive))
	}
	if p.IncludeInNetWorth != nil {
		sets = append(sets, "include_in_net_worth = ?")
		args = append(args, boolToInt(*p.IncludeInNetWorth))
	}
	if p.BankNumber != nil {
		sets = append(sets, "bank_number = ?")
		args = append(args, *p.BankNumber)
	}
	if p.Country != nil {
		sets = append(sets, "country = ?")
		args = append(args, *p.Country)
	}
	if len(sets) == 0 {
		return fmt.Errorf("account update: no fields to update")
	}

	sets = append(sets, "updated_at = datetime('now')")
	args = append(args, id)

	_, err := r.db.ExecContext(ctx, "UPDATE accounts SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	return err
}

func (r *AccountRepo) Get(ctx context.Context, id string) (*Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SoftDelete deactivates an account. Rows are retained so historical
// transactions keep their referential integrity.
func (r *AccountRepo) SoftDelete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET is_active = 0, updated_at = datetime('now') WHERE id = ?`, id)
	return err
}

func (r *AccountRepo) TouchBalanceUpdate(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET last_balance_update = datetime('now') WHERE id = ?`, id)
	return err
}

// ListWithBalances projects every account onto its live transaction sum.
// With eligibleOnly set, only active accounts included in net worth are
// returned.
func (r *AccountRepo) ListWithBalances(ctx context.Context, eligibleOnly bool) ([]AccountBalance, error) {
	query := `
	SELECT a.id, a.name, a.type, a.institution, a.currency, a.is_active, a.include_in_net_worth,
	       a.last_balance_update, a.bank_number, a.country, a.created_at, a.updated_at,
	       COALESCE(SUM(t.amount_cents), 0) AS balance_cents
	FROM accounts a
	LEFT JOIN transactions t ON t.account_id = a.id`
	if eligibleOnly {
		query += `
	WHERE a.is_active = 1 AND a.include_in_net_worth = 1`
	}
	query += `
	GROUP BY a.id
	ORDER BY a.name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AccountBalance
	for rows.Next() {
		var ab AccountBalance
		var active, included int
		var lastUpdate, bankNumber, country sql.NullString
		if err := rows.Scan(&ab.ID, &ab.Name, &ab.AccountType, &ab.Institution, &ab.Currency,
			&active, &included, &lastUpdate, &bankNumber, &country,
			&ab.CreatedAt, &ab.UpdatedAt, &ab.BalanceCents); err != nil {
			return nil, err
		}
		ab.IsActive = active == 1
		ab.IncludeInNetWorth = included == 1
		if lastUpdate.Valid {
			ab.LastBalanceUpdate = &lastUpdate.String
		}
		if bankNumber.Valid {
			ab.BankNumber = &bankNumber.String
		}
		if country.Valid {
			ab.Country = &country.String
		}
		out = append(out, ab)
	}
	return out, rows.Err()
}

func scanAccount(row scanner) (Account, error) {
	var a Account
	var active, included int
	var lastUpdate, bankNumber, country sql.NullString
	if err := row.Scan(&a.ID, &a.Name, &a.AccountType, &a.Institution, &a.Currency,
		&active, &included, &lastUpdate, &bankNumber, &country, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return Account{}, err
	}
	a.IsActive = active == 1
	a.IncludeInNetWorth = included == 1
	if lastUpdate.Valid {
		a.LastBalanceUpdate = &lastUpdate.String
	}
	if bankNumber.Valid {
		a.BankNumber = &bankNumber.String
	}
	if country.Valid {
		a.Country = &country.String
	}
	return a, nil
}
