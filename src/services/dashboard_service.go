package services

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/username/cifra/src/logger"
	"github.com/username/cifra/src/models"
	"github.com/username/cifra/src/processors"
	"github.com/username/cifra/src/store"
)

const (
	ckSummary    = "agg_summary_user_%s"
	ckCashFlow   = "agg_cashflow_user_%s"
	ckCategories = "agg_categories_user_%s"
	ckAllocation = "agg_allocation_user_%s"

	DefaultCacheExpiration = 5 * time.Minute
	CacheCleanupInterval   = 10 * time.Minute
)

type dashboardServiceImpl struct {
	txs         *store.TransactionStore
	users       *store.UserStore
	summary     processors.SummaryProcessor
	cashFlow    processors.CashFlowProcessor
	categories  processors.CategoryProcessor
	allocation  processors.AllocationProcessor
	reportCache *cache.Cache
}

func NewDashboardService(
	txs *store.TransactionStore,
	users *store.UserStore,
	summary processors.SummaryProcessor,
	cashFlow processors.CashFlowProcessor,
	categories processors.CategoryProcessor,
	allocation processors.AllocationProcessor,
	reportCache *cache.Cache,
) DashboardService {
	return &dashboardServiceImpl{
		txs:         txs,
		users:       users,
		summary:     summary,
		cashFlow:    cashFlow,
		categories:  categories,
		allocation:  allocation,
		reportCache: reportCache,
	}
}

// InvalidateUserCache clears all cached metrics for a user, forcing a
// recomputation on the next request. Called after every ledger or planning
// mutation.
func (s *dashboardServiceImpl) InvalidateUserCache(userID string) {
	s.reportCache.Delete(fmt.Sprintf(ckSummary, userID))
	s.reportCache.Delete(fmt.Sprintf(ckCashFlow, userID))
	s.reportCache.Delete(fmt.Sprintf(ckCategories, userID))
	s.reportCache.Delete(fmt.Sprintf(ckAllocation, userID))
	if logger.L != nil {
		logger.L.Info("Invalidated dashboard caches for user", "userID", userID)
	}
}

func (s *dashboardServiceImpl) GetSummary(userID string) (models.Summary, error) {
	cacheKey := fmt.Sprintf(ckSummary, userID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(models.Summary), nil
	}
	txs, profile, err := s.loadInputs(userID)
	if err != nil {
		return models.Summary{}, err
	}
	result := s.summary.Process(txs, profile)
	s.reportCache.Set(cacheKey, result, cache.DefaultExpiration)
	return result, nil
}

func (s *dashboardServiceImpl) GetCashFlow(userID string) ([]models.CashFlowPoint, error) {
	cacheKey := fmt.Sprintf(ckCashFlow, userID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.([]models.CashFlowPoint), nil
	}
	txs, err := s.txs.Load(userID)
	if err != nil {
		return nil, err
	}
	result := s.cashFlow.Process(txs)
	s.reportCache.Set(cacheKey, result, cache.DefaultExpiration)
	return result, nil
}

func (s *dashboardServiceImpl) GetCategoryBreakdown(userID string) ([]models.CategoryTotal, error) {
	cacheKey := fmt.Sprintf(ckCategories, userID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.([]models.CategoryTotal), nil
	}
	txs, err := s.txs.Load(userID)
	if err != nil {
		return nil, err
	}
	result := s.categories.Process(txs)
	s.reportCache.Set(cacheKey, result, cache.DefaultExpiration)
	return result, nil
}

func (s *dashboardServiceImpl) GetAllocation(userID string) (models.PortfolioAllocation, error) {
	cacheKey := fmt.Sprintf(ckAllocation, userID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(models.PortfolioAllocation), nil
	}
	txs, profile, err := s.loadInputs(userID)
	if err != nil {
		return models.PortfolioAllocation{}, err
	}
	result := s.allocation.Process(txs, profile)
	s.reportCache.Set(cacheKey, result, cache.DefaultExpiration)
	return result, nil
}

func (s *dashboardServiceImpl) loadInputs(userID string) ([]models.Transaction, models.UserProfile, error) {
	txs, err := s.txs.Load(userID)
	if err != nil {
		return nil, models.UserProfile{}, err
	}
	profile, err := s.users.FindByID(userID)
	if err != nil {
		return nil, models.UserProfile{}, err
	}
	return txs, profile, nil
}
