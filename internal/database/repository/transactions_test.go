package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func countPlaceholders(q string) int {
	return strings.Count(q, "?")
}

func TestBuildTransactionQueryNoFilters(t *testing.T) {
	t.Parallel()

	query, args := buildTransactionQuery(TransactionFilters{})
	require.NotContains(t, query, "WHERE")
	require.Contains(t, query, "ORDER BY date DESC, created_at DESC")
	require.NotContains(t, query, "LIMIT")
	require.Empty(t, args)
}

func TestBuildTransactionQueryArgOrder(t *testing.T) {
	t.Parallel()

	min, max := int64(-10000), int64(50000)
	f := TransactionFilters{
		StartDate:       "2025-01-01",
		EndDate:         "2025-12-31",
		AccountID:       "acc-1",
		AccountIDs:      []string{"acc-1", "acc-2"},
		CategoryID:      "cat-essential-groceries",
		CategoryIDs:     []string{"cat-essential", "cat-lifestyle"},
		Search:          "Coffee",
		MinAmount:       &min,
		MaxAmount:       &max,
		TransactionType: "expense",
		Limit:           20,
		Offset:          40,
	}
	query, args := buildTransactionQuery(f)

	require.Equal(t, countPlaceholders(query), len(args))
	require.Equal(t, []interface{}{
		"2025-01-01", "2025-12-31",
		"acc-1",
		"acc-1", "acc-2",
		"cat-essential-groceries",
		"cat-essential", "cat-lifestyle", "cat-essential", "cat-lifestyle",
		"%coffee%", "%coffee%",
		min, max,
		20, 40,
	}, args)
	require.Contains(t, query, "amount_cents < 0")
	require.Contains(t, query, "LIMIT ? OFFSET ?")
}

func TestBuildTransactionQueryHierarchicalCategories(t *testing.T) {
	t.Parallel()

	query, args := buildTransactionQuery(TransactionFilters{
		CategoryIDs: []string{"cat-housing"},
	})
	require.Contains(t, query, "SELECT id FROM categories WHERE parent_id IN")
	// the id list binds twice: direct membership and the parent sub-select
	require.Equal(t, []interface{}{"cat-housing", "cat-housing"}, args)
	require.Equal(t, 2, countPlaceholders(query))
}

func TestBuildTransactionQueryOffsetRequiresLimit(t *testing.T) {
	t.Parallel()

	query, args := buildTransactionQuery(TransactionFilters{Offset: 10})
	require.NotContains(t, query, "OFFSET")
	require.Empty(t, args)
}

func TestBuildTransactionQueryUncategorized(t *testing.T) {
	t.Parallel()

	query, _ := buildTransactionQuery(TransactionFilters{UncategorizedOnly: true})
	require.Contains(t, query, "(category_id IS NULL OR category_id = '')")
}

func TestTransactionCRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testDB(t)
	insertTestAccount(t, db, "acc-1", "Checking")
	repo := NewTransactionRepo(db)

	memo := "weekly shop"
	cat := "cat-essential-groceries"
	tx := Transaction{
		ID:          "tx-1",
		Date:        "2025-08-14",
		Payee:       "Albert Heijn",
		CategoryID:  &cat,
		Memo:        &memo,
		AmountCents: -4523,
		AccountID:   "acc-1",
		Tags:        []string{"food", "weekly"},
	}
	require.NoError(t, repo.Insert(ctx, tx))

	got, err := repo.Get(ctx, "tx-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Albert Heijn", got.Payee)
	require.Equal(t, int64(-4523), got.AmountCents)
	require.Equal(t, []string{"food", "weekly"}, got.Tags)
	require.NotEmpty(t, got.CreatedAt)

	got.Payee = "AH To Go"
	got.AmountCents = -999
	require.NoError(t, repo.Update(ctx, *got))

	updated, err := repo.Get(ctx, "tx-1")
	require.NoError(t, err)
	require.Equal(t, "AH To Go", updated.Payee)
	require.Equal(t, int64(-999), updated.AmountCents)

	deleted, err := repo.Delete(ctx, "tx-1")
	require.NoError(t, err)
	require.True(t, deleted)

	gone, err := repo.Get(ctx, "tx-1")
	require.NoError(t, err)
	require.Nil(t, gone)

	deleted, err = repo.Delete(ctx, "tx-1")
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestTransactionListFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testDB(t)
	insertTestAccount(t, db, "acc-1", "Checking")
	insertTestAccount(t, db, "acc-2", "Savings")
	repo := NewTransactionRepo(db)

	groceries := "cat-essential-groceries"
	rent := "cat-housing-rent"
	memo := "monthly rent payment"
	fixtures := []Transaction{
		{ID: "tx-1", Date: "2025-07-01", Payee: "Landlord BV", CategoryID: &rent, Memo: &memo, AmountCents: -120000, AccountID: "acc-1", Tags: []string{}},
		{ID: "tx-2", Date: "2025-07-15", Payee: "Albert Heijn", CategoryID: &groceries, AmountCents: -4500, AccountID: "acc-1", Tags: []string{}},
		{ID: "tx-3", Date: "2025-08-01", Payee: "Acme Corp", AmountCents: 250000, AccountID: "acc-1", Tags: []string{}},
		{ID: "tx-4", Date: "2025-08-02", Payee: "Coffee Corner", AmountCents: -350, AccountID: "acc-2", Tags: []string{}},
	}
	for _, tx := range fixtures {
		require.NoError(t, repo.Insert(ctx, tx))
	}

	t.Run("date range inclusive", func(t *testing.T) {
		txs, err := repo.List(ctx, TransactionFilters{StartDate: "2025-07-15", EndDate: "2025-08-01"})
		require.NoError(t, err)
		require.Len(t, txs, 2)
		// newest first
		require.Equal(t, "tx-3", txs[0].ID)
		require.Equal(t, "tx-2", txs[1].ID)
	})

	t.Run("account filters", func(t *testing.T) {
		txs, err := repo.List(ctx, TransactionFilters{AccountID: "acc-2"})
		require.NoError(t, err)
		require.Len(t, txs, 1)
		require.Equal(t, "tx-4", txs[0].ID)

		txs, err = repo.List(ctx, TransactionFilters{AccountIDs: []string{"acc-1", "acc-2"}})
		require.NoError(t, err)
		require.Len(t, txs, 4)
	})

	t.Run("section category matches children", func(t *testing.T) {
		txs, err := repo.List(ctx, TransactionFilters{CategoryIDs: []string{"cat-housing"}})
		require.NoError(t, err)
		require.Len(t, txs, 1)
		require.Equal(t, "tx-1", txs[0].ID)
	})

	t.Run("search is case-insensitive over payee and memo", func(t *testing.T) {
		txs, err := repo.List(ctx, TransactionFilters{Search: "albert"})
		require.NoError(t, err)
		require.Len(t, txs, 1)
		require.Equal(t, "tx-2", txs[0].ID)

		txs, err = repo.List(ctx, TransactionFilters{Search: "RENT PAYMENT"})
		require.NoError(t, err)
		require.Len(t, txs, 1)
		require.Equal(t, "tx-1", txs[0].ID)
	})

	t.Run("uncategorized matches null and empty", func(t *testing.T) {
		// imported rows can carry '' instead of NULL; bypass the FK to plant one
		_, err := db.ExecContext(ctx, "PRAGMA foreign_keys=OFF")
		require.NoError(t, err)
		_, err = db.ExecContext(ctx, `
		INSERT INTO transactions(id, date, payee, category_id, amount_cents, account_id)
		VALUES ('tx-empty', '2025-08-03', 'Mystery Shop', '', -100, 'acc-1')`)
		require.NoError(t, err)
		_, err = db.ExecContext(ctx, "PRAGMA foreign_keys=ON")
		require.NoError(t, err)

		txs, err := repo.List(ctx, TransactionFilters{UncategorizedOnly: true})
		require.NoError(t, err)
		require.Len(t, txs, 3)
		for _, tx := range txs {
			require.Nil(t, tx.CategoryID)
		}
	})

	t.Run("signed amount bounds", func(t *testing.T) {
		min := int64(-5000)
		txs, err := repo.List(ctx, TransactionFilters{MinAmount: &min, TransactionType: "expense"})
		require.NoError(t, err)
		ids := make([]string, 0, len(txs))
		for _, tx := range txs {
			ids = append(ids, tx.ID)
		}
		require.ElementsMatch(t, []string{"tx-2", "tx-4", "tx-empty"}, ids)
	})

	t.Run("transaction type", func(t *testing.T) {
		txs, err := repo.List(ctx, TransactionFilters{TransactionType: "income"})
		require.NoError(t, err)
		require.Len(t, txs, 1)
		require.Equal(t, "tx-3", txs[0].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		page1, err := repo.List(ctx, TransactionFilters{AccountIDs: []string{"acc-1"}, Limit: 2})
		require.NoError(t, err)
		require.Len(t, page1, 2)
		page2, err := repo.List(ctx, TransactionFilters{AccountIDs: []string{"acc-1"}, Limit: 2, Offset: 2})
		require.NoError(t, err)
		require.NotEmpty(t, page2)
		require.NotEqual(t, page1[0].ID, page2[0].ID)
	})

	t.Run("no match is empty not error", func(t *testing.T) {
		txs, err := repo.List(ctx, TransactionFilters{Search: "no such payee"})
		require.NoError(t, err)
		require.Empty(t, txs)
	})
}

func TestMalformedTagsFallBackToEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testDB(t)
	insertTestAccount(t, db, "acc-1", "Checking")
	repo := NewTransactionRepo(db)

	require.NoError(t, repo.Insert(ctx, Transaction{
		ID: "tx-1", Date: "2025-08-01", Payee: "Shop", AmountCents: -100, AccountID: "acc-1",
	}))
	_, err := db.ExecContext(ctx, `UPDATE transactions SET tags = 'not-json' WHERE id = 'tx-1'`)
	require.NoError(t, err)

	got, err := repo.Get(ctx, "tx-1")
	require.NoError(t, err)
	require.Equal(t, []string{}, got.Tags)
}

func TestMonthlyAggregations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testDB(t)
	insertTestAccount(t, db, "acc-1", "Checking")
	repo := NewTransactionRepo(db)

	groceries := "cat-essential-groceries"
	rent := "cat-housing-rent"
	fixtures := []Transaction{
		{ID: "tx-1", Date: "2025-08-01", Payee: "Acme Corp", AmountCents: 250000, AccountID: "acc-1"},
		{ID: "tx-2", Date: "2025-08-05", Payee: "Landlord BV", CategoryID: &rent, AmountCents: -120000, AccountID: "acc-1"},
		{ID: "tx-3", Date: "2025-08-12", Payee: "Albert Heijn", CategoryID: &groceries, AmountCents: -4500, AccountID: "acc-1"},
		{ID: "tx-4", Date: "2025-08-19", Payee: "Albert Heijn", CategoryID: &groceries, AmountCents: -5500, AccountID: "acc-1"},
		{ID: "tx-5", Date: "2025-09-01", Payee: "Other Month", AmountCents: -99999, AccountID: "acc-1"},
	}
	for _, tx := range fixtures {
		require.NoError(t, repo.Insert(ctx, tx))
	}

	totals, err := repo.CategoryTotalsForMonth(ctx, "2025-08")
	require.NoError(t, err)
	byCat := map[string]CategoryTotal{}
	for _, ct := range totals {
		key := ""
		if ct.CategoryID != nil {
			key = *ct.CategoryID
		}
		byCat[key] = ct
	}
	require.Equal(t, int64(-10000), byCat[groceries].TotalCents)
	require.Equal(t, 2, byCat[groceries].Count)
	require.Equal(t, int64(-120000), byCat[rent].TotalCents)
	require.Equal(t, int64(250000), byCat[""].TotalCents)

	uncat, err := repo.UncategorizedTotalForMonth(ctx, "2025-08")
	require.NoError(t, err)
	require.Equal(t, int64(250000), uncat)

	summary, err := repo.MonthlySummary(ctx, "2025-08")
	require.NoError(t, err)
	require.Equal(t, int64(250000), summary.IncomeCents)
	require.Equal(t, int64(130000), summary.ExpensesCents)
	require.Equal(t, int64(120000), summary.NetCents)
	require.Equal(t, 4, summary.Count)

	sum, err := repo.SumForAccount(ctx, "acc-1")
	require.NoError(t, err)
	require.Equal(t, int64(250000-120000-4500-5500-99999), sum)
}
