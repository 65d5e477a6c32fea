package service

import (
	"context"

	"github.com/stackz/backend/internal/database/repository"
)

// NetWorth computes net-worth summaries and month-over-month deltas.
type NetWorth struct {
	Accounts  *repository.AccountRepo
	Snapshots *repository.SnapshotRepo
}

// NetWorthSummary is the full classification result: exact integer cents
// plus the per-account breakdown the dashboard renders.
type NetWorthSummary struct {
	TotalAssetsCents      int64                       `json:"totalAssetsCents"`
	TotalLiabilitiesCents int64                       `json:"totalLiabilitiesCents"`
	NetWorthCents         int64                       `json:"netWorthCents"`
	Accounts              []repository.AccountBalance `json:"accounts"`
}

// MonthOverMonth compares a current net worth figure against the latest
// earlier snapshot. HasPrevious false is a valid outcome, not an error.
type MonthOverMonth struct {
	HasPrevious           bool    `json:"hasPrevious"`
	ChangeCents           int64   `json:"changeCents"`
	ChangePercent         float64 `json:"changePercent"`
	PreviousMonth         *string `json:"previousMonth"`
	PreviousNetWorthCents *int64  `json:"previousNetWorthCents"`
	CurrentNetWorthCents  int64   `json:"currentNetWorthCents"`
}

// Summary classifies each eligible account's live balance into assets or
// liabilities. Only active accounts flagged include_in_net_worth
// participate; that rule is applied in the balance projection itself.
//
// A credit account owing money (negative balance) contributes its absolute
// value to liabilities; a positive balance on any other type contributes to
// assets. Everything else, including a negative balance on a non-credit
// account, contributes to neither total.
func (s *NetWorth) Summary(ctx context.Context) (NetWorthSummary, error) {
	accounts, err := s.Accounts.ListWithBalances(ctx, true)
	if err != nil {
		return NetWorthSummary{}, err
	}

	var assets, liabilities int64
	for _, a := range accounts {
		if a.AccountType == "credit" {
			if a.BalanceCents < 0 {
				liabilities += -a.BalanceCents
			}
			continue
		}
		if a.BalanceCents > 0 {
			assets += a.BalanceCents
		}
	}

	return NetWorthSummary{
		TotalAssetsCents:      assets,
		TotalLiabilitiesCents: liabilities,
		NetWorthCents:         assets - liabilities,
		Accounts:              accounts,
	}, nil
}

// SaveSnapshot persists the monthly snapshot; writing the same month again
// replaces the earlier values.
func (s *NetWorth) SaveSnapshot(ctx context.Context, month string, assetsCents, liabilitiesCents, netWorthCents int64) error {
	return s.Snapshots.Save(ctx, repository.Snapshot{
		Month:                 month,
		TotalAssetsCents:      assetsCents,
		TotalLiabilitiesCents: liabilitiesCents,
		NetWorthCents:         netWorthCents,
	})
}

// SnapshotCurrentMonth computes the live summary and persists it under the
// current month in one step.
func (s *NetWorth) SnapshotCurrentMonth(ctx context.Context) (NetWorthSummary, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return NetWorthSummary{}, err
	}
	err = s.SaveSnapshot(ctx, currentMonth(),
		summary.TotalAssetsCents, summary.TotalLiabilitiesCents, summary.NetWorthCents)
	return summary, err
}

// MonthOverMonthChange compares currentNet against the most recent snapshot
// strictly before currentMonth.
func (s *NetWorth) MonthOverMonthChange(ctx context.Context, currentMonth string, currentNet int64) (MonthOverMonth, error) {
	prev, err := s.Snapshots.LatestBefore(ctx, currentMonth)
	if err != nil {
		return MonthOverMonth{}, err
	}
	if prev == nil {
		return MonthOverMonth{CurrentNetWorthCents: currentNet}, nil
	}

	change := currentNet - prev.NetWorthCents
	var percent float64
	switch {
	case prev.NetWorthCents == 0 && currentNet == 0:
		percent = 0
	case prev.NetWorthCents == 0 && currentNet > 0:
		// Fixed convention for a zero baseline; a general percentage would
		// divide by zero.
		percent = 100
	case prev.NetWorthCents == 0:
		percent = -100
	default:
		percent = float64(change) / float64(abs(prev.NetWorthCents)) * 100
	}

	return MonthOverMonth{
		HasPrevious:           true,
		ChangeCents:           change,
		ChangePercent:         percent,
		PreviousMonth:         &prev.Month,
		PreviousNetWorthCents: &prev.NetWorthCents,
		CurrentNetWorthCents:  currentNet,
	}, nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
