package services

import (
	"github.com/username/cifra/src/models"
)

// DashboardService exposes the derived metrics the dashboard renders. All
// metrics are recomputed from the ledger on demand and memoized per user
// until the ledger or planning figures change.
type DashboardService interface {
	GetSummary(userID string) (models.Summary, error)
	GetCashFlow(userID string) ([]models.CashFlowPoint, error)
	GetCategoryBreakdown(userID string) ([]models.CategoryTotal, error)
	GetAllocation(userID string) (models.PortfolioAllocation, error)
	InvalidateUserCache(userID string)
}
