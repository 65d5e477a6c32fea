package service

import (
	"context"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/stackz/backend/internal/database/repository"
)

// Dedupe flags likely duplicate transactions for user review.
type Dedupe struct {
	Transactions *repository.TransactionRepo
}

// DuplicatePair is a candidate duplicate with a similarity score in [0,1].
type DuplicatePair struct {
	A          repository.Transaction `json:"a"`
	B          repository.Transaction `json:"b"`
	Similarity float64                `json:"similarity"`
}

// Scan compares every transaction pair within an account and returns
// the pairs that look like the same real-world transaction recorded twice.
func (s *Dedupe) Scan(ctx context.Context, accountID string) ([]DuplicatePair, error) {
	txs, err := s.Transactions.List(ctx, repository.TransactionFilters{AccountID: accountID})
	if err != nil {
		return nil, err
	}
	var pairs []DuplicatePair
	for i := 0; i < len(txs); i++ {
		for j := i + 1; j < len(txs); j++ {
			a, b := txs[i], txs[j]
			if !fuzzyCandidate(a, b) {
				continue
			}
			pairs = append(pairs, DuplicatePair{A: a, B: b, Similarity: payeeSimilarity(a, b)})
		}
	}
	return pairs, nil
}

func fuzzyCandidate(a, b repository.Transaction) bool {
	if a.AmountCents != b.AmountCents {
		return false
	}
	if daysApart(a.Date, b.Date) > 7 {
		return false
	}
	dist := levenshtein.ComputeDistance(strings.ToUpper(a.Payee), strings.ToUpper(b.Payee))
	maxlen := float64(len(a.Payee))
	if len(b.Payee) > len(a.Payee) {
		maxlen = float64(len(b.Payee))
	}
	if maxlen == 0 {
		return true
	}
	return float64(dist)/maxlen < 0.4
}

func payeeSimilarity(a, b repository.Transaction) float64 {
	n := len(a.Payee)
	if len(b.Payee) > n {
		n = len(b.Payee)
	}
	if n == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(strings.ToUpper(a.Payee), strings.ToUpper(b.Payee))
	return 1 - float64(dist)/float64(n)
}

// daysApart tolerates unparseable dates by treating them as distant.
func daysApart(a, b string) int {
	ta, err := time.Parse("2006-01-02", a)
	if err != nil {
		return 1 << 20
	}
	tb, err := time.Parse("2006-01-02", b)
	if err != nil {
		return 1 << 20
	}
	d := ta.Sub(tb)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}
