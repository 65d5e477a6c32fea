package testdata

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/stackz/backend/internal/database/repository"
)

// Repos bundles repos used by Seed.
type Repos struct {
	Accounts     *repository.AccountRepo
	Transactions *repository.TransactionRepo
}

var samplePayees = []string{
	"Albert Heijn", "Amazon", "Spotify", "Shell", "Acme Corp Payroll",
	"Restaurant De Kas", "NS Reizigers", "Bol.com",
}

// Seed inserts a sample checking account with a spread of transactions.
// Categories come from the schema's seeded defaults and are not created
// here.
func Seed(ctx context.Context, repos Repos) error {
	rng := rand.New(rand.NewSource(42))

	acct := repository.Account{
		ID:                "acc-" + uuid.NewString(),
		Name:              "Sample Checking",
		AccountType:       "checking",
		Institution:       "Sample Bank",
		Currency:          "EUR",
		IsActive:          true,
		IncludeInNetWorth: true,
	}
	if err := repos.Accounts.Insert(ctx, acct); err != nil {
		return err
	}

	months := []string{"2025-06", "2025-07", "2025-08"}
	for _, month := range months {
		for i := 0; i < 8; i++ {
			amount := -int64(rng.Intn(20000) + 500)
			payee := samplePayees[rng.Intn(len(samplePayees))]
			if payee == "Acme Corp Payroll" {
				amount = 250000
			}
			day := rng.Intn(28) + 1
			tx := repository.Transaction{
				ID:          "tx-" + uuid.NewString(),
				Date:        fmt.Sprintf("%s-%02d", month, day),
				Payee:       payee,
				AmountCents: amount,
				AccountID:   acct.ID,
				Tags:        []string{},
			}
			if err := repos.Transactions.Insert(ctx, tx); err != nil {
				return err
			}
		}
	}
	return nil
}
