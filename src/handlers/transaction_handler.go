package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/username/cifra/src/logger"
	"github.com/username/cifra/src/models"
	"github.com/username/cifra/src/services"
	"github.com/username/cifra/src/store"
	"github.com/username/cifra/src/utils"
)

// ChangeNotifier is told when a user's transaction count changed, so insight
// generation can be (re)scheduled. *insights.Scheduler satisfies it.
type ChangeNotifier interface {
	NotifyChange(userID string)
}

type TransactionHandler struct {
	txs       *store.TransactionStore
	dashboard services.DashboardService
	notifier  ChangeNotifier
}

func NewTransactionHandler(txs *store.TransactionStore, dashboard services.DashboardService, notifier ChangeNotifier) *TransactionHandler {
	return &TransactionHandler{
		txs:       txs,
		dashboard: dashboard,
		notifier:  notifier,
	}
}

func (h *TransactionHandler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	transactions, err := h.txs.Load(userID)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error loading transactions: %v", err), http.StatusInternalServerError)
		return
	}

	// Newest first for display.
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})

	currentETag, etagErr := utils.GenerateETag(transactions)
	if etagErr != nil {
		logger.L.Error("Failed to generate ETag for transactions", "userID", userID, "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("%q", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, cETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(transactions); err != nil {
		logger.L.Error("Error generating JSON response for transactions", "userID", userID, "error", err)
	}
}

func (h *TransactionHandler) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var tx models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := tx.Validate(); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.txs.Add(userID, tx)
	if err != nil {
		logger.L.Error("Failed to add transaction", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to add transaction", http.StatusInternalServerError)
		return
	}

	h.dashboard.InvalidateUserCache(userID)
	h.notifier.NotifyChange(userID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *TransactionHandler) HandleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	id := r.PathValue("id")
	if id == "" {
		utils.SendJSONError(w, "Transaction id is required", http.StatusBadRequest)
		return
	}

	var tx models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := tx.Validate(); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.txs.Update(userID, id, tx)
	if err != nil {
		if errors.Is(err, store.ErrTransactionNotFound) {
			utils.SendJSONError(w, "Transaction not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to update transaction", "userID", userID, "id", id, "error", err)
		utils.SendJSONError(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}

	// Edits change amounts, not the transaction count, so the insight
	// schedule is untouched.
	h.dashboard.InvalidateUserCache(userID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *TransactionHandler) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	id := r.PathValue("id")
	if id == "" {
		utils.SendJSONError(w, "Transaction id is required", http.StatusBadRequest)
		return
	}

	if err := h.txs.Remove(userID, id); err != nil {
		if errors.Is(err, store.ErrTransactionNotFound) {
			utils.SendJSONError(w, "Transaction not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to delete transaction", "userID", userID, "id", id, "error", err)
		utils.SendJSONError(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}

	h.dashboard.InvalidateUserCache(userID)
	h.notifier.NotifyChange(userID)

	w.WriteHeader(http.StatusNoContent)
}
