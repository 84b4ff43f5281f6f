package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/username/cifra/src/logger"
	"github.com/username/cifra/src/services"
	"github.com/username/cifra/src/utils"
)

type DashboardHandler struct {
	dashboard services.DashboardService
}

func NewDashboardHandler(dashboard services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	summary, err := h.dashboard.GetSummary(userID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error computing summary: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, userID, summary)
}

func (h *DashboardHandler) HandleGetCashFlow(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	flow, err := h.dashboard.GetCashFlow(userID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error computing cash flow: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, userID, flow)
}

func (h *DashboardHandler) HandleGetCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	breakdown, err := h.dashboard.GetCategoryBreakdown(userID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error computing category breakdown: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, userID, breakdown)
}

func (h *DashboardHandler) HandleGetAllocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	allocation, err := h.dashboard.GetAllocation(userID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error computing allocation: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, userID, allocation)
}

func writeJSON(w http.ResponseWriter, userID string, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.L.Error("Error generating JSON response", "userID", userID, "error", err)
	}
}
