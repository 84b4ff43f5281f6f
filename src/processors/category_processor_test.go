package processors

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/cifra/src/models"
)

func TestCategoryBreakdownOrderingAndZeroFiltering(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		tx(models.TypeExpense, models.CategoryFood, 100, day),
		tx(models.TypeExpense, models.CategoryBills, 300, day),
		tx(models.TypeExpense, models.CategoryLeisure, 50, day),
	}

	got := NewCategoryProcessor().Process(txs)

	want := []models.CategoryTotal{
		{Category: models.CategoryBills, Total: decimal.NewFromInt(300)},
		{Category: models.CategoryFood, Total: decimal.NewFromInt(100)},
		{Category: models.CategoryLeisure, Total: decimal.NewFromInt(50)},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d (zero categories must be absent)", len(got), len(want))
	}
	for i := range want {
		if got[i].Category != want[i].Category || !got[i].Total.Equal(want[i].Total) {
			t.Errorf("entry %d = %s %s, want %s %s", i, got[i].Category, got[i].Total, want[i].Category, want[i].Total)
		}
	}
}

func TestCategoryBreakdownExcludesIncome(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		tx(models.TypeIncome, models.CategoryFood, 500, day),
		tx(models.TypeExpense, models.CategoryFood, 40, day),
	}

	got := NewCategoryProcessor().Process(txs)

	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
	if !got[0].Total.Equal(decimal.NewFromInt(40)) {
		t.Errorf("food total = %s, want 40 (income must not contribute)", got[0].Total)
	}
}

func TestCategoryBreakdownCountsInvestmentExpenses(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		tx(models.TypeExpense, models.CategoryInvestment, 200, day),
	}

	got := NewCategoryProcessor().Process(txs)

	if len(got) != 1 || got[0].Category != models.CategoryInvestment {
		t.Fatalf("investment expenses must appear in the general breakdown, got %+v", got)
	}
}

func TestCategoryBreakdownEmptyInput(t *testing.T) {
	if got := NewCategoryProcessor().Process(nil); len(got) != 0 {
		t.Errorf("got %d entries for empty input, want 0", len(got))
	}
}
