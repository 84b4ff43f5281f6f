package models

import "github.com/shopspring/decimal"

// Summary holds the headline dashboard figures. Balance folds the profile
// baseline into the ledger sums:
//
//	balance = (monthlyIncome + incomeMovements) - (fixedExpenses + expenseMovements)
type Summary struct {
	IncomeMovements  decimal.Decimal `json:"incomeMovements"`
	ExpenseMovements decimal.Decimal `json:"expenseMovements"`
	Balance          decimal.Decimal `json:"balance"`
}

// CashFlowPoint is one calendar-day bucket of the cash-flow series.
// Date is the DD/MM label the chart renders.
type CashFlowPoint struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// CategoryTotal is one slice of the expense-by-category breakdown.
type CategoryTotal struct {
	Category Category        `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// AssetAllocation is the invested total for one asset, keyed by the free-text
// transaction description.
type AssetAllocation struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// PortfolioAllocation aggregates all investment-category transactions.
// IncomeRatioPct is totalInvested over monthlyIncome (floored at 1 so an
// unset income never divides by zero), expressed as a percentage.
type PortfolioAllocation struct {
	TotalInvested  decimal.Decimal   `json:"totalInvested"`
	IncomeRatioPct decimal.Decimal   `json:"incomeRatioPct"`
	Assets         []AssetAllocation `json:"assets"`
}
