package processors

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/username/cifra/src/models"
)

// BucketDateFormat is the day-granularity label of the cash-flow series.
const BucketDateFormat = "02/01"

// cashFlowProcessor implements the CashFlowProcessor interface.
type cashFlowProcessor struct{}

// NewCashFlowProcessor creates a new instance of CashFlowProcessor.
func NewCashFlowProcessor() CashFlowProcessor {
	return &cashFlowProcessor{}
}

// Process sorts the transactions ascending by timestamp and accumulates one
// bucket per distinct calendar date, in order of first occurrence. Two
// movements on the same date at different times collapse into one bucket.
// Dates without transactions produce no bucket.
func (p *cashFlowProcessor) Process(transactions []models.Transaction) []models.CashFlowPoint {
	sorted := make([]models.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	index := make(map[string]int)
	var series []models.CashFlowPoint

	for _, tx := range sorted {
		label := tx.Date.Local().Format(BucketDateFormat)
		i, ok := index[label]
		if !ok {
			i = len(series)
			index[label] = i
			series = append(series, models.CashFlowPoint{
				Date:    label,
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			})
		}
		switch tx.Type {
		case models.TypeIncome:
			series[i].Income = series[i].Income.Add(tx.Amount)
		case models.TypeExpense:
			series[i].Expense = series[i].Expense.Add(tx.Amount)
		}
	}

	return series
}
