package processors

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/username/cifra/src/models"
)

var oneHundred = decimal.NewFromInt(100)

// allocationProcessor implements the AllocationProcessor interface.
type allocationProcessor struct{}

// NewAllocationProcessor creates a new instance of AllocationProcessor.
func NewAllocationProcessor() AllocationProcessor {
	return &allocationProcessor{}
}

// Process filters transactions with the investment category (the category is
// the sole signal, independent of type), totals them, and groups the amounts
// by description, which doubles as the asset name. Zero-sum groups are
// dropped and assets are ordered by descending total. The income ratio
// divides by max(monthlyIncome, 1) so an unset income cannot fault.
func (p *allocationProcessor) Process(transactions []models.Transaction, profile models.UserProfile) models.PortfolioAllocation {
	total := decimal.Zero
	byAsset := make(map[string]decimal.Decimal)
	var order []string

	for _, tx := range transactions {
		if !tx.IsInvestment() {
			continue
		}
		total = total.Add(tx.Amount)
		if _, ok := byAsset[tx.Description]; !ok {
			order = append(order, tx.Description)
		}
		byAsset[tx.Description] = byAsset[tx.Description].Add(tx.Amount)
	}

	var assets []models.AssetAllocation
	for _, name := range order {
		if byAsset[name].IsZero() {
			continue
		}
		assets = append(assets, models.AssetAllocation{Name: name, Total: byAsset[name]})
	}
	sort.SliceStable(assets, func(i, j int) bool {
		return assets[i].Total.GreaterThan(assets[j].Total)
	})

	divisor := profile.MonthlyIncome
	if divisor.LessThan(decimal.NewFromInt(1)) {
		divisor = decimal.NewFromInt(1)
	}

	return models.PortfolioAllocation{
		TotalInvested:  total,
		IncomeRatioPct: total.Div(divisor).Mul(oneHundred),
		Assets:         assets,
	}
}
