package main

import (
	"context"
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/username/cifra/src/config"
	"github.com/username/cifra/src/database"
	"github.com/username/cifra/src/handlers"
	"github.com/username/cifra/src/insights"
	"github.com/username/cifra/src/logger"
	"github.com/username/cifra/src/processors"
	"github.com/username/cifra/src/security"
	"github.com/username/cifra/src/services"
	"github.com/username/cifra/src/storage"
	"github.com/username/cifra/src/store"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin == config.Cfg.CORSAllowedOrigin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Requested-With, Cookie, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "X-CSRF-Token, ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Cifra backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid. Must be at least 32 bytes.")
		os.Exit(1)
	}
	if len(config.Cfg.CSRFAuthKey) < 32 {
		logger.L.Error("CSRF_AUTH_KEY must be at least 32 bytes long.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	kv := storage.NewSQLiteStore(database.DB)
	userStore := store.NewUserStore(kv)
	sessionStore := store.NewSessionStore(kv)
	transactionStore := store.NewTransactionStore(kv)

	logger.L.Info("Initializing report cache...")
	reportCache := cache.New(config.Cfg.DashboardCacheTTL, config.Cfg.DashboardCacheCleanup)

	logger.L.Info("Initializing services and handlers...")
	authService := security.NewAuthService(config.Cfg.JWTSecret)

	dashboardService := services.NewDashboardService(
		transactionStore, userStore,
		processors.NewSummaryProcessor(),
		processors.NewCashFlowProcessor(),
		processors.NewCategoryProcessor(),
		processors.NewAllocationProcessor(),
		reportCache,
	)

	var delegate insights.Delegate
	gemini, err := insights.NewGeminiDelegate(context.Background(), config.Cfg.GeminiModel, config.Cfg.InsightTimeout)
	if err != nil {
		logger.L.Warn("Gemini client unavailable, insights will serve the static fallback", "error", err)
		delegate = insights.NewStaticDelegate()
	} else {
		delegate = gemini
	}
	scheduler := insights.NewScheduler(delegate, transactionStore, userStore, config.Cfg.InsightDebounce)

	userHandler := handlers.NewUserHandler(authService, userStore, sessionStore, dashboardService)
	txHandler := handlers.NewTransactionHandler(transactionStore, dashboardService, scheduler)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	insightHandler := handlers.NewInsightHandler(scheduler)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	// Public GET route (no CSRF needed)
	apiRouter.HandleFunc("GET /api/auth/csrf", handlers.GetCSRFToken)

	// Auth actions router - POST routes need CSRF
	authActionRouter := http.NewServeMux()
	authActionRouter.HandleFunc("POST /login", userHandler.LoginUserHandler)
	authActionRouter.HandleFunc("POST /register", userHandler.RegisterUserHandler)
	authActionRouter.HandleFunc("POST /refresh", userHandler.RefreshTokenHandler)
	authActionRouter.HandleFunc("POST /logout", userHandler.AuthMiddleware(userHandler.LogoutUserHandler))

	apiRouter.Handle("/api/auth/", http.StripPrefix("/api/auth", handlers.CSRFMiddleware()(authActionRouter)))

	// CSRF and Auth middleware for protected API routes
	csrfProtection := handlers.CSRFMiddleware()
	applyCsrfAndAuth := func(handler http.HandlerFunc) http.Handler {
		return csrfProtection(http.HandlerFunc(userHandler.AuthMiddleware(handler)))
	}

	apiRouter.Handle("GET /api/profile", applyCsrfAndAuth(userHandler.GetProfileHandler))
	apiRouter.Handle("PUT /api/profile/planning", applyCsrfAndAuth(userHandler.UpdatePlanningHandler))

	apiRouter.Handle("GET /api/transactions", applyCsrfAndAuth(txHandler.HandleGetTransactions))
	apiRouter.Handle("POST /api/transactions", applyCsrfAndAuth(txHandler.HandleCreateTransaction))
	apiRouter.Handle("PUT /api/transactions/{id}", applyCsrfAndAuth(txHandler.HandleUpdateTransaction))
	apiRouter.Handle("DELETE /api/transactions/{id}", applyCsrfAndAuth(txHandler.HandleDeleteTransaction))

	apiRouter.Handle("GET /api/dashboard/summary", applyCsrfAndAuth(dashboardHandler.HandleGetSummary))
	apiRouter.Handle("GET /api/dashboard/cashflow", applyCsrfAndAuth(dashboardHandler.HandleGetCashFlow))
	apiRouter.Handle("GET /api/dashboard/categories", applyCsrfAndAuth(dashboardHandler.HandleGetCategoryBreakdown))
	apiRouter.Handle("GET /api/dashboard/allocation", applyCsrfAndAuth(dashboardHandler.HandleGetAllocation))

	apiRouter.Handle("GET /api/insights", applyCsrfAndAuth(insightHandler.HandleGetInsights))

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "CIFRA Backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.L.Info("Server starting", "address", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L.Error("Failed to start server", "error", err)
			stdlog.Fatalf("Failed to start server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.L.Info("Shutdown signal received", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	scheduler.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L.Error("Server shutdown failed", "error", err)
	} else {
		logger.L.Info("Server stopped gracefully.")
	}
}
