package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/cifra/src/config"
	"github.com/username/cifra/src/logger"
	"github.com/username/cifra/src/models"
	"github.com/username/cifra/src/security"
	"github.com/username/cifra/src/services"
	"github.com/username/cifra/src/store"
	"github.com/username/cifra/src/utils"
)

// Define a custom type for context keys to avoid collisions.
// This type is unexported, making it unique to this package.
type contextKey string

// GetUserIDFromContext provides the controlled way to read this key, so the
// constant stays unexported.
const userIDContextKey contextKey = "userID"

type UserHandler struct {
	authService *security.AuthService
	users       *store.UserStore
	sessions    *store.SessionStore
	dashboard   services.DashboardService
}

func NewUserHandler(authService *security.AuthService, users *store.UserStore, sessions *store.SessionStore, dashboard services.DashboardService) *UserHandler {
	return &UserHandler{
		authService: authService,
		users:       users,
		sessions:    sessions,
		dashboard:   dashboard,
	}
}

type registerRequest struct {
	Name          string              `json:"name"`
	Email         string              `json:"email"`
	Password      string              `json:"password"`
	BirthDate     string              `json:"birthDate"`
	DocumentType  models.DocumentType `json:"documentType"`
	DocumentValue string              `json:"documentValue"`
	MonthlyIncome decimal.Decimal     `json:"monthlyIncome"`
	FixedExpenses decimal.Decimal     `json:"fixedExpenses"`
	Currency      string              `json:"currency"`
}

func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Password) < 4 {
		utils.SendJSONError(w, models.ErrPasswordTooShort.Error(), http.StatusBadRequest)
		return
	}

	profile := models.UserProfile{
		Name:          req.Name,
		Email:         req.Email,
		BirthDate:     req.BirthDate,
		DocumentType:  req.DocumentType,
		DocumentValue: req.DocumentValue,
		MonthlyIncome: req.MonthlyIncome,
		FixedExpenses: req.FixedExpenses,
		Currency:      req.Currency,
	}
	if err := profile.Validate(time.Now()); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := profile.SetPassword(req.Password); err != nil {
		utils.SendJSONError(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	created, err := h.users.Create(profile)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			utils.SendJSONError(w, "Email already registered", http.StatusConflict)
			return
		}
		logger.L.Error("Failed to create user", "email", req.Email, "error", err)
		utils.SendJSONError(w, "Failed to create user", http.StatusInternalServerError)
		return
	}
	logger.L.Info("User registered", "userID", created.ID)

	// Registration doubles as the first login: the response carries a session
	// so the client lands on the dashboard directly.
	h.respondWithSession(w, r, created, http.StatusCreated)
}

func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.FindByEmail(credentials.Email)
	if err != nil {
		logger.L.Debug("Login lookup failed", "email", credentials.Email, "error", err)
		utils.SendJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	if err := user.CheckPassword(credentials.Password); err != nil {
		logger.L.Debug("Password check failed", "userID", user.ID)
		utils.SendJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	h.respondWithSession(w, r, user, http.StatusOK)
}

func (h *UserHandler) respondWithSession(w http.ResponseWriter, r *http.Request, user models.UserProfile, status int) {
	accessToken, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		utils.SendJSONError(w, "Failed to generate access token", http.StatusInternalServerError)
		return
	}
	refreshToken, err := h.authService.GenerateRefreshToken()
	if err != nil {
		utils.SendJSONError(w, "Failed to generate refresh token", http.StatusInternalServerError)
		return
	}

	session := store.Session{
		UserID:       user.ID,
		Token:        accessToken,
		RefreshToken: refreshToken,
		UserAgent:    r.UserAgent(),
		ClientIP:     r.RemoteAddr,
		ExpiresAt:    time.Now().Add(config.Cfg.RefreshTokenExpiry),
	}
	if err := h.sessions.Create(session); err != nil {
		utils.SendJSONError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          user.Sanitized(),
	})
}

// RefreshTokenHandler rotates a session. The client presents its (possibly
// expired) access token in the Authorization header plus the refresh token in
// the body; both must match the stored session.
func (h *UserHandler) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if requestBody.RefreshToken == "" {
		utils.SendJSONError(w, "Refresh token is required", http.StatusBadRequest)
		return
	}

	tokenString := bearerToken(r)
	if tokenString == "" {
		utils.SendJSONError(w, "Authorization header required", http.StatusUnauthorized)
		return
	}

	session, err := h.sessions.GetByToken(tokenString)
	if err != nil {
		logger.L.Warn("Refresh failed, session not found", "error", err)
		utils.SendJSONError(w, "Invalid or expired session", http.StatusUnauthorized)
		return
	}
	if session.RefreshToken != requestBody.RefreshToken {
		logger.L.Warn("Refresh token mismatch", "userID", session.UserID)
		utils.SendJSONError(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}

	newAccessToken, err := h.authService.GenerateToken(session.UserID)
	if err != nil {
		utils.SendJSONError(w, "Failed to generate new access token", http.StatusInternalServerError)
		return
	}
	newRefreshToken, err := h.authService.GenerateRefreshToken()
	if err != nil {
		utils.SendJSONError(w, "Failed to generate new refresh token", http.StatusInternalServerError)
		return
	}

	newSession := store.Session{
		UserID:       session.UserID,
		Token:        newAccessToken,
		RefreshToken: newRefreshToken,
		UserAgent:    r.UserAgent(),
		ClientIP:     r.RemoteAddr,
		ExpiresAt:    time.Now().Add(config.Cfg.RefreshTokenExpiry),
	}
	if err := h.sessions.Create(newSession); err != nil {
		utils.SendJSONError(w, "Failed to create new session on refresh", http.StatusInternalServerError)
		return
	}
	if err := h.sessions.DeleteByToken(tokenString); err != nil {
		logger.L.Warn("Failed to delete rotated session", "userID", session.UserID, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"access_token":  newAccessToken,
		"refresh_token": newRefreshToken,
	})
}

func (h *UserHandler) LogoutUserHandler(w http.ResponseWriter, r *http.Request) {
	tokenString := bearerToken(r)
	if tokenString == "" {
		utils.SendJSONError(w, "Authorization header required", http.StatusUnauthorized)
		return
	}

	if err := h.sessions.DeleteByToken(tokenString); err != nil {
		logger.L.Warn("Logout: failed to delete session", "error", err)
	} else {
		logger.L.Info("Session invalidated on logout")
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	user, err := h.users.FindByID(userID)
	if err != nil {
		utils.SendJSONError(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user.Sanitized())
}

// UpdatePlanningHandler adjusts the profile baseline (monthly income and
// fixed expenses). Derived metrics depend on these figures, so the user's
// dashboard cache is invalidated.
func (h *UserHandler) UpdatePlanningHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var req struct {
		MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
		FixedExpenses decimal.Decimal `json:"fixedExpenses"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !req.MonthlyIncome.IsPositive() {
		utils.SendJSONError(w, models.ErrNonPositiveIncome.Error(), http.StatusBadRequest)
		return
	}
	if req.FixedExpenses.IsNegative() {
		utils.SendJSONError(w, models.ErrNegativeExpenses.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.users.FindByID(userID)
	if err != nil {
		utils.SendJSONError(w, "User not found", http.StatusNotFound)
		return
	}
	user.MonthlyIncome = req.MonthlyIncome
	user.FixedExpenses = req.FixedExpenses
	if err := h.users.Update(user); err != nil {
		logger.L.Error("Failed to update planning figures", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}
	h.dashboard.InvalidateUserCache(userID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user.Sanitized())
}

// GetUserIDFromContext retrieves the userID from the context.
// It's defined in this package and can be called by other handlers within the same package.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok
}
