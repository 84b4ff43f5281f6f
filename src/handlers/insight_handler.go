package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/cifra/src/models"
	"github.com/username/cifra/src/utils"
)

// InsightProvider yields the latest generated insights and whether a fresher
// generation is still in flight. *insights.Scheduler satisfies it.
type InsightProvider interface {
	Insights(userID string) ([]models.AIInsight, bool)
}

type InsightHandler struct {
	provider InsightProvider
}

func NewInsightHandler(provider InsightProvider) *InsightHandler {
	return &InsightHandler{provider: provider}
}

func (h *InsightHandler) HandleGetInsights(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	list, pending := h.provider.Insights(userID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"insights": list,
		"pending":  pending,
	})
}
