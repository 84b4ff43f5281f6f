package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/username/cifra/src/models"
	"github.com/username/cifra/src/utils"
)

// Delegate produces AI insights for a user's ledger. Implementations must not
// fail: when generation is impossible for any reason they return the static
// fallback so callers always have something to display.
type Delegate interface {
	GenerateInsights(ctx context.Context, txs []models.Transaction, profile models.UserProfile) []models.AIInsight
}

// FallbackInsights is what every delegate returns when generation fails or no
// provider is configured.
func FallbackInsights() []models.AIInsight {
	return []models.AIInsight{
		{
			Title:       "Inteligência Ativa",
			Description: "Continue registrando suas transações para receber análises financeiras personalizadas.",
			Type:        models.InsightInfo,
		},
	}
}

// staticDelegate serves the fallback unconditionally. Used when no provider
// is configured, so the rest of the system needs no special casing.
type staticDelegate struct{}

func NewStaticDelegate() Delegate {
	return staticDelegate{}
}

func (staticDelegate) GenerateInsights(ctx context.Context, txs []models.Transaction, profile models.UserProfile) []models.AIInsight {
	return FallbackInsights()
}

// buildPrompt serializes the user's planning figures and ledger into the
// instruction sent to the model. The response contract (JSON with an
// "insights" array) is enforced separately via the response schema.
func buildPrompt(txs []models.Transaction, profile models.UserProfile) string {
	var b strings.Builder
	b.WriteString("Você é um analista financeiro. Analise o perfil e as transações abaixo ")
	b.WriteString("e gere até 3 insights curtos e acionáveis em português.\n\n")
	fmt.Fprintf(&b, "Renda mensal: %s\n", utils.FormatAmount(profile.MonthlyIncome, profile.Currency))
	fmt.Fprintf(&b, "Gastos fixos: %s\n", utils.FormatAmount(profile.FixedExpenses, profile.Currency))
	fmt.Fprintf(&b, "Moeda: %s\n\n", profile.Currency)

	b.WriteString("Transações:\n")
	if len(txs) == 0 {
		b.WriteString("(nenhuma)\n")
		return b.String()
	}
	data, err := json.Marshal(txs)
	if err != nil {
		// Marshaling a transaction slice cannot realistically fail, but the
		// prompt must still be usable if it does.
		b.WriteString("(indisponíveis)\n")
		return b.String()
	}
	b.Write(data)
	b.WriteString("\n")
	return b.String()
}
