package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/stackz/backend/internal/database/repository"
	"github.com/stackz/backend/internal/service"
)

// Deps carries everything the command handlers reach for.
type Deps struct {
	Transactions *repository.TransactionRepo
	Budgets      *repository.BudgetRepo
	History      *repository.BalanceHistoryRepo
	Suggestions  *repository.SuggestionRepo

	Accounts    *service.Accounts
	NetWorth    *service.NetWorth
	Categories  *service.Categories
	Reports     *service.Reports
	Dedupe      *service.Dedupe
	Preferences *service.Preferences
	Maintenance *service.Maintenance
}

// transactionFilters mirrors the frontend filter object.
type transactionFilters struct {
	StartDate         string   `json:"startDate"`
	EndDate           string   `json:"endDate"`
	AccountID         string   `json:"accountId"`
	AccountIDs        []string `json:"accountIds"`
	CategoryID        string   `json:"categoryId"`
	CategoryIDs       []string `json:"categoryIds"`
	Search            string   `json:"search"`
	UncategorizedOnly bool     `json:"uncategorizedOnly"`
	MinAmountCents    *int64   `json:"minAmountCents"`
	MaxAmountCents    *int64   `json:"maxAmountCents"`
	TransactionType   string   `json:"transactionType"`
	Limit             int      `json:"limit"`
	Offset            int      `json:"offset"`
}

func (f transactionFilters) toRepo() repository.TransactionFilters {
	return repository.TransactionFilters{
		StartDate:         f.StartDate,
		EndDate:           f.EndDate,
		AccountID:         f.AccountID,
		AccountIDs:        f.AccountIDs,
		CategoryID:        f.CategoryID,
		CategoryIDs:       f.CategoryIDs,
		Search:            f.Search,
		UncategorizedOnly: f.UncategorizedOnly,
		MinAmount:         f.MinAmountCents,
		MaxAmount:         f.MaxAmountCents,
		TransactionType:   f.TransactionType,
		Limit:             f.Limit,
		Offset:            f.Offset,
	}
}

// transactionInput is the create payload; absent optionals take their
// storage defaults.
type transactionInput struct {
	Date         string   `json:"date"`
	Payee        string   `json:"payee"`
	CategoryID   *string  `json:"categoryId"`
	Memo         *string  `json:"memo"`
	AmountCents  int64    `json:"amountCents"`
	AccountID    string   `json:"accountId"`
	Tags         []string `json:"tags"`
	IsReconciled bool     `json:"isReconciled"`
	ImportSource *string  `json:"importSource"`
}

// transactionUpdate is a partial patch; each present field overrides the
// stored value, a JSON null on categoryId or memo clears it.
type transactionUpdate struct {
	Date         *string         `json:"date"`
	Payee        *string         `json:"payee"`
	CategoryID   json.RawMessage `json:"categoryId"`
	Memo         json.RawMessage `json:"memo"`
	AmountCents  *int64          `json:"amountCents"`
	AccountID    *string         `json:"accountId"`
	Tags         *[]string       `json:"tags"`
	IsReconciled *bool           `json:"isReconciled"`
}

// NewRegistry wires every command the frontend can invoke.
func NewRegistry(d Deps) *Registry {
	r := newRegistry()

	// transactions
	r.register("get_transactions", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			Filters *transactionFilters `json:"filters"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		f := repository.TransactionFilters{}
		if in.Filters != nil {
			f = in.Filters.toRepo()
		}
		txs, err := d.Transactions.List(ctx, f)
		if err != nil {
			return nil, err
		}
		if txs == nil {
			txs = []repository.Transaction{}
		}
		return txs, nil
	})

	r.register("create_transaction", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			Input transactionInput `json:"input"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		t := repository.Transaction{
			ID:           "tx-" + uuid.NewString(),
			Date:         in.Input.Date,
			Payee:        in.Input.Payee,
			CategoryID:   in.Input.CategoryID,
			Memo:         in.Input.Memo,
			AmountCents:  in.Input.AmountCents,
			AccountID:    in.Input.AccountID,
			Tags:         in.Input.Tags,
			IsReconciled: in.Input.IsReconciled,
			ImportSource: in.Input.ImportSource,
		}
		if err := d.Transactions.Insert(ctx, t); err != nil {
			return nil, err
		}
		return d.Transactions.Get(ctx, t.ID)
	})

	r.register("get_transaction", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			ID string `json:"id"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		t, err := d.Transactions.Get(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, fmt.Errorf("transaction %s not found", in.ID)
		}
		return t, nil
	})

	r.register("update_transaction", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			ID     string            `json:"id"`
			Update transactionUpdate `json:"update"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		current, err := d.Transactions.Get(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, fmt.Errorf("transaction %s not found", in.ID)
		}
		merged := *current
		u := in.Update
		if u.Date != nil {
			merged.Date = *u.Date
		}
		if u.Payee != nil {
			merged.Payee = *u.Payee
		}
		if len(u.CategoryID) > 0 {
			if err := json.Unmarshal(u.CategoryID, &merged.CategoryID); err != nil {
				return nil, fmt.Errorf("decode categoryId: %w", err)
			}
		}
		if len(u.Memo) > 0 {
			if err := json.Unmarshal(u.Memo, &merged.Memo); err != nil {
				return nil, fmt.Errorf("decode memo: %w", err)
			}
		}
		if u.AmountCents != nil {
			merged.AmountCents = *u.AmountCents
		}
		if u.AccountID != nil {
			merged.AccountID = *u.AccountID
		}
		if u.Tags != nil {
			merged.Tags = *u.Tags
		}
		if u.IsReconciled != nil {
			merged.IsReconciled = *u.IsReconciled
		}
		if err := d.Transactions.Update(ctx, merged); err != nil {
			return nil, err
		}
		return d.Transactions.Get(ctx, in.ID)
	})

	r.register("delete_transaction", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			ID string `json:"id"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		return d.Transactions.Delete(ctx, in.ID)
	})

	r.register("scan_duplicates", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			AccountID string `json:"accountId"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		pairs, err := d.Dedupe.Scan(ctx, in.AccountID)
		if err != nil {
			return nil, err
		}
		if pairs == nil {
			pairs = []service.DuplicatePair{}
		}
		return pairs, nil
	})

	// reports
	r.register("get_category_totals", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			Month string `json:"month"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		totals, err := d.Reports.CategoryTotals(ctx, in.Month)
		if err != nil {
			return nil, err
		}
		if totals == nil {
			totals = []repository.CategoryTotal{}
		}
		return totals, nil
	})

	r.register("get_uncategorized_total", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			Month string `json:"month"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		return d.Reports.UncategorizedTotal(ctx, in.Month)
	})

	r.register("get_monthly_summary", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			Month string `json:"month"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		return d.Reports.MonthlySummary(ctx, in.Month)
	})

	// suggestions
	r.register("get_payee_suggestions", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			Search string `json:"search"`
			Limit  int    `json:"limit"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		out, err := d.Suggestions.PayeeSuggestions(ctx, in.Search, in.Limit)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = []repository.PayeeSuggestion{}
		}
		return out, nil
	})

	r.register("get_payee_category", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			Payee string `json:"payee"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		return d.Suggestions.PayeeCategory(ctx, in.Payee)
	})

	r.register("get_unique_tags", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			Search string `json:"search"`
			Limit  int    `json:"limit"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		tags, err := d.Suggestions.UniqueTags(ctx, in.Search, in.Limit)
		if err != nil {
			return nil, err
		}
		if tags == nil {
			tags = []string{}
		}
		return tags, nil
	})

	// accounts and net worth
	r.register("get_accounts", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		accounts, err := d.NetWorth.Accounts.ListWithBalances(ctx, false)
		if err != nil {
			return nil, err
		}
		if accounts == nil {
			accounts = []repository.AccountBalance{}
		}
		return accounts, nil
	})

	r.register("create_account", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			Name                 string  `json:"name"`
			AccountType          string  `json:"accountType"`
			Institution          string  `json:"institution"`
			Currency             string  `json:"currency"`
			StartingBalanceCents int64   `json:"startingBalanceCents"`
			BankNumber           *string `json:"bankNumber"`
			Country              *string `json:"country"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		return d.Accounts.Create(ctx, service.CreateAccountInput{
			Name:                 in.Name,
			AccountType:          in.AccountType,
			Institution:          in.Institution,
			Currency:             in.Currency,
			StartingBalanceCents: in.StartingBalanceCents,
			BankNumber:           in.BankNumber,
			Country:              in.Country,
		})
	})

	r.register("update_account", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			ID     string `json:"id"`
			Update struct {
				Name              *string `json:"name"`
				AccountType       *string `json:"accountType"`
				Institution       *string `json:"institution"`
				Currency          *string `json:"currency"`
				IsActive          *bool   `json:"isActive"`
				IncludeInNetWorth *bool   `json:"includeInNetWorth"`
				BankNumber        *string `json:"bankNumber"`
				Country           *string `json:"country"`
			} `json:"update"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		patch := repository.AccountPatch{
			Name:              in.Update.Name,
			AccountType:       in.Update.AccountType,
			Institution:       in.Update.Institution,
			Currency:          in.Update.Currency,
			IsActive:          in.Update.IsActive,
			IncludeInNetWorth: in.Update.IncludeInNetWorth,
			BankNumber:        in.Update.BankNumber,
			Country:           in.Update.Country,
		}
		if err := d.NetWorth.Accounts.Update(ctx, in.ID, patch); err != nil {
			return nil, err
		}
		a, err := d.NetWorth.Accounts.Get(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, fmt.Errorf("account %s not found", in.ID)
		}
		return a, nil
	})

	r.register("update_account_balance", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			AccountID       string `json:"accountId"`
			NewBalanceCents int64  `json:"newBalanceCents"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		return nil, d.Accounts.UpdateBalance(ctx, in.AccountID, in.NewBalanceCents)
	})

	r.register("delete_account", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			ID string `json:"id"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		return d.Accounts.Delete(ctx, in.ID)
	})

	r.register("get_balance_history", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			AccountID string `json:"accountId"`
			Limit     int    `json:"limit"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		records, err := d.History.ForAccount(ctx, in.AccountID, in.Limit)
		if err != nil {
			return nil, err
		}
		if records == nil {
			records = []repository.BalanceRecord{}
		}
		return records, nil
	})

	r.register("get_net_worth_summary", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		return d.NetWorth.Summary(ctx)
	})

	r.register("save_net_worth_snapshot", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			Month                 string `json:"month"`
			TotalAssetsCents      int64  `json:"totalAssetsCents"`
			TotalLiabilitiesCents int64  `json:"totalLiabilitiesCents"`
			NetWorthCents         int64  `json:"netWorthCents"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		return nil, d.NetWorth.SaveSnapshot(ctx, in.Month, in.TotalAssetsCents, in.TotalLiabilitiesCents, in.NetWorthCents)
	})

	r.register("snapshot_current_month", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		return d.NetWorth.SnapshotCurrentMonth(ctx)
	})

	r.register("get_mom_change", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			CurrentMonth         string `json:"currentMonth"`
			CurrentNetWorthCents int64  `json:"currentNetWorthCents"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		return d.NetWorth.MonthOverMonthChange(ctx, in.CurrentMonth, in.CurrentNetWorthCents)
	})

	// categories
	r.register("get_categories", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		tree, err := d.Categories.Tree(ctx)
		if err != nil {
			return nil, err
		}
		if tree == nil {
			tree = []service.CategoryNode{}
		}
		return tree, nil
	})

	r.register("create_category", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			Name      string  `json:"name"`
			ParentID  *string `json:"parentId"`
			Type      string  `json:"type"`
			Icon      *string `json:"icon"`
			Color     *string `json:"color"`
			SortOrder int     `json:"sortOrder"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		return d.Categories.Create(ctx, service.CreateCategoryInput{
			Name:         in.Name,
			ParentID:     in.ParentID,
			CategoryType: in.Type,
			Icon:         in.Icon,
			Color:        in.Color,
			SortOrder:    in.SortOrder,
		})
	})

	// budgets
	r.register("set_budget", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			Input struct {
				CategoryID  string  `json:"categoryId"`
				Month       string  `json:"month"`
				AmountCents int64   `json:"amountCents"`
				Note        *string `json:"note"`
			} `json:"input"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		b := repository.Budget{
			CategoryID:  in.Input.CategoryID,
			Month:       in.Input.Month,
			AmountCents: in.Input.AmountCents,
			Note:        in.Input.Note,
		}
		if err := d.Budgets.Set(ctx, b); err != nil {
			return nil, err
		}
		return d.Budgets.Get(ctx, b.CategoryID, b.Month)
	})

	r.register("get_budget", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			CategoryID string `json:"categoryId"`
			Month      string `json:"month"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		b, err := d.Budgets.Get(ctx, in.CategoryID, in.Month)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, fmt.Errorf("no budget for %s in %s", in.CategoryID, in.Month)
		}
		return b, nil
	})

	r.register("get_budgets_for_month", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			Month string `json:"month"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		budgets, err := d.Budgets.ForMonth(ctx, in.Month)
		if err != nil {
			return nil, err
		}
		if budgets == nil {
			budgets = []repository.Budget{}
		}
		return budgets, nil
	})

	r.register("get_budgets_for_category", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			CategoryID string `json:"categoryId"`
			StartMonth string `json:"startMonth"`
			EndMonth   string `json:"endMonth"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		budgets, err := d.Budgets.ForCategoryRange(ctx, in.CategoryID, in.StartMonth, in.EndMonth)
		if err != nil {
			return nil, err
		}
		if budgets == nil {
			budgets = []repository.Budget{}
		}
		return budgets, nil
	})

	r.register("delete_budget", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			CategoryID string `json:"categoryId"`
			Month      string `json:"month"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		return d.Budgets.Delete(ctx, in.CategoryID, in.Month)
	})

	// onboarding and preferences
	r.register("check_onboarding_status", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		return d.Preferences.OnboardingStatus(ctx)
	})

	r.register("save_user_goals", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in struct {
			Goals []string `json:"goals"`
		}
		if err := decodeInto(payload, &in); err != nil {
			return nil, err
		}
		return nil, d.Preferences.SaveGoals(ctx, in.Goals)
	})

	r.register("complete_onboarding", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		return nil, d.Preferences.CompleteOnboarding(ctx)
	})

	// maintenance
	r.register("reset_all_data", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		return nil, d.Maintenance.Reset(ctx)
	})

	return r
}
