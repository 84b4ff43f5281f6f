package processors

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/cifra/src/models"
)

func investment(description string, amount float64, date time.Time) models.Transaction {
	t := tx(models.TypeExpense, models.CategoryInvestment, amount, date)
	t.Description = description
	return t
}

func TestAllocationGroupsByDescription(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		investment("Ações (Bolsa)", 100, day),
		investment("Ações (Bolsa)", 50, day.Add(24*time.Hour)),
		investment("Tesouro Direto", 30, day),
	}

	got := NewAllocationProcessor().Process(txs, profile(3000, 0))

	if !got.TotalInvested.Equal(decimal.NewFromInt(180)) {
		t.Errorf("total invested = %s, want 180", got.TotalInvested)
	}
	if len(got.Assets) != 2 {
		t.Fatalf("got %d assets, want 2", len(got.Assets))
	}
	if got.Assets[0].Name != "Ações (Bolsa)" || !got.Assets[0].Total.Equal(decimal.NewFromInt(150)) {
		t.Errorf("top asset = %s %s, want Ações (Bolsa) 150", got.Assets[0].Name, got.Assets[0].Total)
	}
	if got.Assets[1].Name != "Tesouro Direto" || !got.Assets[1].Total.Equal(decimal.NewFromInt(30)) {
		t.Errorf("second asset = %s %s, want Tesouro Direto 30", got.Assets[1].Name, got.Assets[1].Total)
	}
}

func TestAllocationIgnoresType(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	incomeSide := tx(models.TypeIncome, models.CategoryInvestment, 75, day)
	incomeSide.Description = "Dividendos"

	got := NewAllocationProcessor().Process([]models.Transaction{incomeSide}, profile(3000, 0))

	if !got.TotalInvested.Equal(decimal.NewFromInt(75)) {
		t.Errorf("total invested = %s, want 75 (category alone selects investments)", got.TotalInvested)
	}
}

func TestAllocationRatioFloorsDivisor(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{investment("Cripto", 200, day)}

	got := NewAllocationProcessor().Process(txs, profile(0, 0))

	if want := decimal.NewFromInt(20000); !got.IncomeRatioPct.Equal(want) {
		t.Errorf("ratio with zero income = %s%%, want %s%%", got.IncomeRatioPct, want)
	}
}

func TestAllocationRatioAgainstIncome(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{investment("Fundo Imobiliário", 500, day)}

	got := NewAllocationProcessor().Process(txs, profile(5000, 0))

	if want := decimal.NewFromInt(10); !got.IncomeRatioPct.Equal(want) {
		t.Errorf("ratio = %s%%, want %s%%", got.IncomeRatioPct, want)
	}
}

func TestAllocationEmptyInput(t *testing.T) {
	got := NewAllocationProcessor().Process(nil, profile(1000, 0))

	if !got.TotalInvested.IsZero() || len(got.Assets) != 0 {
		t.Errorf("empty input should yield zero allocation, got %+v", got)
	}
}
