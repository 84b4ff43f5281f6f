package processors

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/cifra/src/models"
)

func tx(txType models.TransactionType, category models.Category, amount float64, date time.Time) models.Transaction {
	return models.Transaction{
		ID:          "t",
		UserID:      "u1",
		Description: "movement",
		Amount:      decimal.NewFromFloat(amount),
		Type:        txType,
		Category:    category,
		Date:        date,
	}
}

func profile(income, fixed float64) models.UserProfile {
	return models.UserProfile{
		ID:            "u1",
		MonthlyIncome: decimal.NewFromFloat(income),
		FixedExpenses: decimal.NewFromFloat(fixed),
	}
}

func TestSummaryBalance(t *testing.T) {
	day := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		tx(models.TypeIncome, models.CategorySalary, 300, day),
		tx(models.TypeExpense, models.CategoryFood, 150, day),
	}

	got := NewSummaryProcessor().Process(txs, profile(5000, 2000))

	if want := decimal.NewFromInt(300); !got.IncomeMovements.Equal(want) {
		t.Errorf("income movements = %s, want %s", got.IncomeMovements, want)
	}
	if want := decimal.NewFromInt(150); !got.ExpenseMovements.Equal(want) {
		t.Errorf("expense movements = %s, want %s", got.ExpenseMovements, want)
	}
	if want := decimal.NewFromInt(3150); !got.Balance.Equal(want) {
		t.Errorf("balance = %s, want %s", got.Balance, want)
	}
}

func TestSummaryEmptyLedger(t *testing.T) {
	got := NewSummaryProcessor().Process(nil, profile(5000, 2000))

	if want := decimal.NewFromInt(3000); !got.Balance.Equal(want) {
		t.Errorf("balance = %s, want monthlyIncome - fixedExpenses = %s", got.Balance, want)
	}
	if !got.IncomeMovements.IsZero() || !got.ExpenseMovements.IsZero() {
		t.Errorf("movements on empty ledger = %s / %s, want zero", got.IncomeMovements, got.ExpenseMovements)
	}
}

func TestSummaryIgnoresProducerOrder(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	a := []models.Transaction{
		tx(models.TypeIncome, models.CategorySalary, 100, day),
		tx(models.TypeExpense, models.CategoryBills, 40, day),
		tx(models.TypeExpense, models.CategoryLeisure, 10, day),
	}
	b := []models.Transaction{a[2], a[0], a[1]}

	p := NewSummaryProcessor()
	if first, second := p.Process(a, profile(0, 0)), p.Process(b, profile(0, 0)); !first.Balance.Equal(second.Balance) {
		t.Errorf("balance depends on input order: %s vs %s", first.Balance, second.Balance)
	}
}

// Recomputing every aggregation on the same unmodified inputs must yield
// identical results and leave the inputs untouched.
func TestProcessorsArePure(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		tx(models.TypeIncome, models.CategorySalary, 1200, base),
		tx(models.TypeExpense, models.CategoryFood, 80, base.Add(2*time.Hour)),
		tx(models.TypeExpense, models.CategoryInvestment, 250, base.Add(26*time.Hour)),
	}
	prof := profile(4000, 900)

	summary := NewSummaryProcessor()
	cashflow := NewCashFlowProcessor()
	category := NewCategoryProcessor()
	allocation := NewAllocationProcessor()

	s1, s2 := summary.Process(txs, prof), summary.Process(txs, prof)
	if !s1.Balance.Equal(s2.Balance) {
		t.Errorf("summary not idempotent: %s vs %s", s1.Balance, s2.Balance)
	}

	f1, f2 := cashflow.Process(txs), cashflow.Process(txs)
	if len(f1) != len(f2) {
		t.Fatalf("cash flow not idempotent: %d vs %d buckets", len(f1), len(f2))
	}
	for i := range f1 {
		if f1[i].Date != f2[i].Date || !f1[i].Income.Equal(f2[i].Income) || !f1[i].Expense.Equal(f2[i].Expense) {
			t.Errorf("cash flow bucket %d differs between runs: %+v vs %+v", i, f1[i], f2[i])
		}
	}

	c1, c2 := category.Process(txs), category.Process(txs)
	if len(c1) != len(c2) {
		t.Fatalf("category breakdown not idempotent: %d vs %d entries", len(c1), len(c2))
	}

	a1, a2 := allocation.Process(txs, prof), allocation.Process(txs, prof)
	if !a1.TotalInvested.Equal(a2.TotalInvested) {
		t.Errorf("allocation not idempotent: %s vs %s", a1.TotalInvested, a2.TotalInvested)
	}

	// Inputs must come back out untouched.
	if !txs[0].Amount.Equal(decimal.NewFromInt(1200)) || txs[0].Type != models.TypeIncome {
		t.Errorf("input transaction mutated: %+v", txs[0])
	}
}
