package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func seedSuggestionFixtures(t *testing.T) (*SuggestionRepo, context.Context) {
	t.Helper()
	ctx := context.Background()
	db := testDB(t)
	insertTestAccount(t, db, "acc-1", "Checking")
	txRepo := NewTransactionRepo(db)

	groceries := "cat-essential-groceries"
	restaurants := "cat-lifestyle-restaurants"
	fixtures := []Transaction{
		{ID: "tx-1", Date: "2025-08-01", Payee: "Albert Heijn", CategoryID: &groceries, AmountCents: -100, AccountID: "acc-1", Tags: []string{"food"}},
		{ID: "tx-2", Date: "2025-08-02", Payee: "Albert Heijn", CategoryID: &groceries, AmountCents: -200, AccountID: "acc-1", Tags: []string{"food", "weekly"}},
		{ID: "tx-3", Date: "2025-08-03", Payee: "Albert Heijn", CategoryID: &restaurants, AmountCents: -300, AccountID: "acc-1"},
		{ID: "tx-4", Date: "2025-08-04", Payee: "Coffee Corner", AmountCents: -400, AccountID: "acc-1", Tags: []string{"coffee"}},
	}
	for _, tx := range fixtures {
		require.NoError(t, txRepo.Insert(ctx, tx))
	}
	return NewSuggestionRepo(db), ctx
}

func TestPayeeSuggestionsRankedByFrequency(t *testing.T) {
	t.Parallel()
	repo, ctx := seedSuggestionFixtures(t)

	all, err := repo.PayeeSuggestions(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Albert Heijn", all[0].Payee)
	require.Equal(t, 3, all[0].Frequency)
	require.Equal(t, "Coffee Corner", all[1].Payee)

	filtered, err := repo.PayeeSuggestions(ctx, "coffee", 10)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "Coffee Corner", filtered[0].Payee)
}

func TestPayeeCategoryPicksMostUsed(t *testing.T) {
	t.Parallel()
	repo, ctx := seedSuggestionFixtures(t)

	hint, err := repo.PayeeCategory(ctx, "Albert Heijn")
	require.NoError(t, err)
	require.NotNil(t, hint)
	require.Equal(t, "cat-essential-groceries", hint.CategoryID)
	require.Equal(t, 2, hint.Count)

	// uncategorized history yields no hint
	hint, err = repo.PayeeCategory(ctx, "Coffee Corner")
	require.NoError(t, err)
	require.Nil(t, hint)
}

func TestUniqueTags(t *testing.T) {
	t.Parallel()
	repo, ctx := seedSuggestionFixtures(t)

	tags, err := repo.UniqueTags(ctx, "", 0)
	require.NoError(t, err)
	require.Equal(t, []string{"coffee", "food", "weekly"}, tags)

	tags, err = repo.UniqueTags(ctx, "fo", 0)
	require.NoError(t, err)
	require.Equal(t, []string{"food"}, tags)
}
