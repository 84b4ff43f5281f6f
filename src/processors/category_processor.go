package processors

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/username/cifra/src/models"
)

// categoryProcessor implements the CategoryProcessor interface.
type categoryProcessor struct{}

// NewCategoryProcessor creates a new instance of CategoryProcessor.
func NewCategoryProcessor() CategoryProcessor {
	return &categoryProcessor{}
}

// Process sums expense amounts per category over the fixed category set.
// Income movements never contribute, categories with a zero sum are dropped,
// and the result is ordered by descending total. Investment-category expenses
// are counted here as well as in the portfolio allocation.
func (p *categoryProcessor) Process(transactions []models.Transaction) []models.CategoryTotal {
	var breakdown []models.CategoryTotal

	for _, cat := range models.Categories() {
		total := decimal.Zero
		for _, tx := range transactions {
			if tx.Category == cat && tx.Type == models.TypeExpense {
				total = total.Add(tx.Amount)
			}
		}
		if total.IsZero() {
			continue
		}
		breakdown = append(breakdown, models.CategoryTotal{Category: cat, Total: total})
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Total.GreaterThan(breakdown[j].Total)
	})

	return breakdown
}
