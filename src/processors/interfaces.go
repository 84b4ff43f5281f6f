package processors

import (
	"github.com/username/cifra/src/models"
)

// The processors are the derived-metrics engine. Each is a pure function of
// the transaction list (plus the profile baseline where relevant): no I/O,
// no mutation of inputs, and defined results for the empty list.

// SummaryProcessor computes the headline income/expense/balance figures.
type SummaryProcessor interface {
	Process(transactions []models.Transaction, profile models.UserProfile) models.Summary
}

// CashFlowProcessor buckets movements per calendar day, in chronological order.
type CashFlowProcessor interface {
	Process(transactions []models.Transaction) []models.CashFlowPoint
}

// CategoryProcessor breaks expenses down by category, largest first.
type CategoryProcessor interface {
	Process(transactions []models.Transaction) []models.CategoryTotal
}

// AllocationProcessor aggregates investment contributions per asset.
type AllocationProcessor interface {
	Process(transactions []models.Transaction, profile models.UserProfile) models.PortfolioAllocation
}
