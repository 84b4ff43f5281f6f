package services

import (
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/username/cifra/src/models"
	"github.com/username/cifra/src/processors"
	"github.com/username/cifra/src/storage"
	"github.com/username/cifra/src/store"
)

func newDashboardFixture(t *testing.T) (DashboardService, *store.TransactionStore, string) {
	t.Helper()
	kv := storage.NewMemoryStore()
	users := store.NewUserStore(kv)
	profile, err := users.Create(models.UserProfile{
		Name:          "Maria Souza",
		Email:         "maria@example.com",
		MonthlyIncome: decimal.NewFromInt(5000),
		FixedExpenses: decimal.NewFromInt(2000),
		Currency:      "BRL",
	})
	if err != nil {
		t.Fatalf("creating profile: %v", err)
	}
	txs := store.NewTransactionStore(kv)
	svc := NewDashboardService(
		txs, users,
		processors.NewSummaryProcessor(),
		processors.NewCashFlowProcessor(),
		processors.NewCategoryProcessor(),
		processors.NewAllocationProcessor(),
		cache.New(DefaultCacheExpiration, CacheCleanupInterval),
	)
	return svc, txs, profile.ID
}

func TestGetSummaryUsesPlanningBaseline(t *testing.T) {
	svc, txs, userID := newDashboardFixture(t)
	_, err := txs.Add(userID, models.Transaction{
		Description: "Freelance",
		Amount:      decimal.NewFromInt(300),
		Type:        models.TypeIncome,
		Category:    models.CategoryExtraIncome,
		Date:        time.Now(),
	})
	if err != nil {
		t.Fatalf("adding transaction: %v", err)
	}

	summary, err := svc.GetSummary(userID)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	// 5000 + 300 - (2000 + 0)
	if !summary.Balance.Equal(decimal.NewFromInt(3300)) {
		t.Errorf("balance = %s, want 3300", summary.Balance)
	}
}

func TestCachedResultServedUntilInvalidated(t *testing.T) {
	svc, txs, userID := newDashboardFixture(t)

	before, err := svc.GetSummary(userID)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	if _, err := txs.Add(userID, models.Transaction{
		Description: "Mercado",
		Amount:      decimal.NewFromInt(250),
		Type:        models.TypeExpense,
		Category:    models.CategoryFood,
		Date:        time.Now(),
	}); err != nil {
		t.Fatalf("adding transaction: %v", err)
	}

	// Mutation without invalidation: the memoized value is still served.
	stale, err := svc.GetSummary(userID)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if !stale.Balance.Equal(before.Balance) {
		t.Fatalf("expected cached balance %s, got %s", before.Balance, stale.Balance)
	}

	svc.InvalidateUserCache(userID)
	fresh, err := svc.GetSummary(userID)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if !fresh.Balance.Equal(before.Balance.Sub(decimal.NewFromInt(250))) {
		t.Errorf("balance after invalidation = %s, want %s", fresh.Balance, before.Balance.Sub(decimal.NewFromInt(250)))
	}
}

func TestDashboardMetricsForEmptyLedger(t *testing.T) {
	svc, _, userID := newDashboardFixture(t)

	flow, err := svc.GetCashFlow(userID)
	if err != nil {
		t.Fatalf("GetCashFlow: %v", err)
	}
	if len(flow) != 0 {
		t.Errorf("expected empty cash flow, got %d points", len(flow))
	}

	breakdown, err := svc.GetCategoryBreakdown(userID)
	if err != nil {
		t.Fatalf("GetCategoryBreakdown: %v", err)
	}
	if len(breakdown) != 0 {
		t.Errorf("expected empty breakdown, got %d entries", len(breakdown))
	}

	alloc, err := svc.GetAllocation(userID)
	if err != nil {
		t.Fatalf("GetAllocation: %v", err)
	}
	if !alloc.TotalInvested.IsZero() || len(alloc.Assets) != 0 {
		t.Errorf("expected empty allocation, got %+v", alloc)
	}
}
