package processors

import (
	"github.com/shopspring/decimal"

	"github.com/username/cifra/src/models"
)

// summaryProcessor implements the SummaryProcessor interface.
type summaryProcessor struct{}

// NewSummaryProcessor creates a new instance of SummaryProcessor.
func NewSummaryProcessor() SummaryProcessor {
	return &summaryProcessor{}
}

// Process sums income and expense movements and folds in the profile
// baseline. On an empty ledger the balance reduces to
// monthlyIncome - fixedExpenses.
func (p *summaryProcessor) Process(transactions []models.Transaction, profile models.UserProfile) models.Summary {
	income := decimal.Zero
	expense := decimal.Zero

	for _, tx := range transactions {
		switch tx.Type {
		case models.TypeIncome:
			income = income.Add(tx.Amount)
		case models.TypeExpense:
			expense = expense.Add(tx.Amount)
		}
	}

	balance := profile.MonthlyIncome.Add(income).Sub(profile.FixedExpenses.Add(expense))

	return models.Summary{
		IncomeMovements:  income,
		ExpenseMovements: expense,
		Balance:          balance,
	}
}
