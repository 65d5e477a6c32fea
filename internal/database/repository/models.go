package repository

// Account represents an account row. Balances are never stored here: an
// account's current balance is always the sum of its transactions.
type Account struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	AccountType       string  `json:"type"`
	Institution       string  `json:"institution"`
	Currency          string  `json:"currency"`
	IsActive          bool    `json:"isActive"`
	IncludeInNetWorth bool    `json:"includeInNetWorth"`
	LastBalanceUpdate *string `json:"lastBalanceUpdate"`
	BankNumber        *string `json:"bankNumber"`
	Country           *string `json:"country"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// AccountBalance pairs an account with its summed transaction balance.
type AccountBalance struct {
	Account
	BalanceCents int64 `json:"balanceCents"`
}

// Transaction represents a transaction row. Dates are zero-padded ISO
// (YYYY-MM-DD) strings; amounts are signed integer cents, positive = inflow.
type Transaction struct {
	ID           string   `json:"id"`
	Date         string   `json:"date"`
	Payee        string   `json:"payee"`
	CategoryID   *string  `json:"categoryId"`
	Memo         *string  `json:"memo"`
	AmountCents  int64    `json:"amountCents"`
	AccountID    string   `json:"accountId"`
	Tags         []string `json:"tags"`
	IsReconciled bool     `json:"isReconciled"`
	ImportSource *string  `json:"importSource"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

// Category represents a category row. Two levels only: root sections with
// no parent, leaves with a parent.
type Category struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ParentID     *string `json:"parentId"`
	CategoryType string  `json:"type"`
	Icon         *string `json:"icon"`
	Color        *string `json:"color"`
	SortOrder    int     `json:"sortOrder"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// Budget represents a budget row, keyed by (category, month).
type Budget struct {
	CategoryID  string  `json:"categoryId"`
	Month       string  `json:"month"`
	AmountCents int64   `json:"amountCents"`
	Note        *string `json:"note"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// Snapshot is one net-worth ledger row, one per month.
type Snapshot struct {
	Month                 string `json:"month"`
	TotalAssetsCents      int64  `json:"totalAssetsCents"`
	TotalLiabilitiesCents int64  `json:"totalLiabilitiesCents"`
	NetWorthCents         int64  `json:"netWorthCents"`
}

// BalanceRecord is one append-only balance audit entry.
type BalanceRecord struct {
	BalanceCents int64  `json:"balanceCents"`
	RecordedAt   string `json:"recordedAt"`
}

// CategoryTotal is a per-category aggregation result.
type CategoryTotal struct {
	CategoryID *string `json:"categoryId"`
	TotalCents int64   `json:"totalCents"`
	Count      int     `json:"count"`
}

// MonthlySummary aggregates one month of transactions.
type MonthlySummary struct {
	Month         string `json:"month"`
	IncomeCents   int64  `json:"incomeCents"`
	ExpensesCents int64  `json:"expensesCents"`
	NetCents      int64  `json:"netCents"`
	Count         int    `json:"count"`
}
