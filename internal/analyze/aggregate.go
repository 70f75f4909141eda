// Package analyze computes spending aggregates over extracted transaction
// sets. Everything here is a pure function of its inputs: summaries are
// recomputed fresh on every request and nothing is cached between calls.
package analyze

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/domain"
)

// CategoryTotal is the absolute spend within one category. Only negative
// amounts count as spend; Income and refunds never inflate a category total.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// MonthlyNet is the net movement for one calendar month: positive inflow
// minus absolute outflow.
type MonthlyNet struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// Summary is the full aggregate over a union of transaction sets.
type Summary struct {
	CategoryTotals []CategoryTotal
	MonthlyNet     []MonthlyNet
	ByCategory     map[string][]domain.Transaction

	Income   decimal.Decimal
	Expenses decimal.Decimal

	// MonthlySpendByCategory feeds the narrative-insight collaborator:
	// month → category → absolute spend.
	MonthlySpendByCategory map[string]map[string]decimal.Decimal
}

// Aggregate combines transaction sets into a summary. Deterministic for a
// given multiset of transactions: categories and months are emitted in sorted
// order, per-category lists by date descending with original order preserved
// on equal dates.
func Aggregate(sets ...domain.TransactionSet) Summary {
	summary := Summary{
		ByCategory:             make(map[string][]domain.Transaction),
		MonthlySpendByCategory: make(map[string]map[string]decimal.Decimal),
	}

	categoryTotals := make(map[string]decimal.Decimal)
	monthlyNet := make(map[string]decimal.Decimal)

	for _, set := range sets {
		for _, tx := range set.Transactions {
			month := monthKey(tx)
			summary.ByCategory[tx.Category] = append(summary.ByCategory[tx.Category], tx)

			if tx.Amount.IsNegative() {
				spend := tx.Amount.Abs()
				summary.Expenses = summary.Expenses.Add(spend)
				categoryTotals[tx.Category] = categoryTotals[tx.Category].Add(spend)
				monthlyNet[month] = monthlyNet[month].Sub(spend)

				if summary.MonthlySpendByCategory[month] == nil {
					summary.MonthlySpendByCategory[month] = make(map[string]decimal.Decimal)
				}
				spendByCat := summary.MonthlySpendByCategory[month]
				spendByCat[tx.Category] = spendByCat[tx.Category].Add(spend)
			} else {
				summary.Income = summary.Income.Add(tx.Amount)
				monthlyNet[month] = monthlyNet[month].Add(tx.Amount)
			}
		}
	}

	for category, total := range categoryTotals {
		summary.CategoryTotals = append(summary.CategoryTotals, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(summary.CategoryTotals, func(i, j int) bool {
		return summary.CategoryTotals[i].Category < summary.CategoryTotals[j].Category
	})

	for month, net := range monthlyNet {
		summary.MonthlyNet = append(summary.MonthlyNet, MonthlyNet{Month: month, Amount: net})
	}
	sort.Slice(summary.MonthlyNet, func(i, j int) bool {
		return summary.MonthlyNet[i].Month < summary.MonthlyNet[j].Month
	})

	for _, txs := range summary.ByCategory {
		sort.SliceStable(txs, func(i, j int) bool {
			return txs[j].Date.Before(txs[i].Date)
		})
	}

	return summary
}

// HighTicketItems returns the transactions whose absolute amount exceeds the
// threshold, excluding Income, preserving input order.
func HighTicketItems(sets []domain.TransactionSet, threshold decimal.Decimal) []domain.Transaction {
	var items []domain.Transaction
	for _, set := range sets {
		for _, tx := range set.Transactions {
			if tx.Category == domain.CategoryIncome {
				continue
			}
			if tx.Amount.Abs().GreaterThan(threshold) {
				items = append(items, tx)
			}
		}
	}
	return items
}

// monthKey buckets a transaction into its calendar month, e.g. "2024-03".
func monthKey(tx domain.Transaction) string {
	return fmt.Sprintf("%04d-%02d", tx.Date.Year, int(tx.Date.Month))
}
