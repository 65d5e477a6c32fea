package service

import (
	"context"

	"github.com/stackz/backend/internal/database/repository"
)

// Reports surfaces the monthly aggregations the dashboard consumes.
type Reports struct {
	Transactions *repository.TransactionRepo
}

func (s *Reports) CategoryTotals(ctx context.Context, month string) ([]repository.CategoryTotal, error) {
	return s.Transactions.CategoryTotalsForMonth(ctx, month)
}

func (s *Reports) UncategorizedTotal(ctx context.Context, month string) (int64, error) {
	return s.Transactions.UncategorizedTotalForMonth(ctx, month)
}

func (s *Reports) MonthlySummary(ctx context.Context, month string) (repository.MonthlySummary, error) {
	return s.Transactions.MonthlySummary(ctx, month)
}
