package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"spendtrack-backend/infrastructure/config"
	"spendtrack-backend/interfaces/http/rest/handlers"
	"spendtrack-backend/interfaces/http/rest/middleware"
	"spendtrack-backend/pkg/auth"
	pkgerrors "spendtrack-backend/pkg/errors"
	"spendtrack-backend/pkg/observability"
	"spendtrack-backend/pkg/ratelimit"
)

// Router creates and configures the HTTP router
type Router struct {
	config          *config.Config
	expenseHandler  *handlers.ExpenseHandler
	categoryHandler *handlers.CategoryHandler
	jwtValidator    *auth.JWTValidator
	limiter         *ratelimit.Limiter
	policies        map[string]ratelimit.Policy
	errorHandler    *pkgerrors.ErrorHandler
	metrics         *observability.Metrics
	redisClient     *redis.Client
	logger          *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	expenseHandler *handlers.ExpenseHandler,
	categoryHandler *handlers.CategoryHandler,
	jwtValidator *auth.JWTValidator,
	limiter *ratelimit.Limiter,
	policies map[string]ratelimit.Policy,
	errorHandler *pkgerrors.ErrorHandler,
	metrics *observability.Metrics,
	redisClient *redis.Client,
	logger *zap.Logger,
) *Router {
	return &Router{
		config:          cfg,
		expenseHandler:  expenseHandler,
		categoryHandler: categoryHandler,
		jwtValidator:    jwtValidator,
		limiter:         limiter,
		policies:        policies,
		errorHandler:    errorHandler,
		metrics:         metrics,
		redisClient:     redisClient,
		logger:          logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errorHandler.Middleware)
	router.Use(middleware.Logger(rt.logger, rt.metrics))

	if rt.config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.spendtrack.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.jwtValidator, rt.logger))

		// Expense endpoints
		r.Route("/expenses", func(r chi.Router) {
			r.With(rt.rateLimit(ratelimit.ClassWrite)).Post("/", rt.expenseHandler.CreateExpense)
			r.With(rt.rateLimit(ratelimit.ClassRead)).Get("/", rt.expenseHandler.ListExpenses)
			r.With(rt.rateLimit(ratelimit.ClassRead)).Get("/{expenseID}", rt.expenseHandler.GetExpense)
			r.With(rt.rateLimit(ratelimit.ClassWrite)).Put("/{expenseID}", rt.expenseHandler.UpdateExpense)
			r.With(rt.rateLimit(ratelimit.ClassWrite)).Delete("/{expenseID}", rt.expenseHandler.DeleteExpense)
		})

		// Category endpoints
		r.Route("/categories", func(r chi.Router) {
			r.With(rt.rateLimit(ratelimit.ClassWrite)).Post("/", rt.categoryHandler.CreateCategory)
			r.With(rt.rateLimit(ratelimit.ClassRead)).Get("/", rt.categoryHandler.ListCategories)
			r.With(rt.rateLimit(ratelimit.ClassRead)).Get("/{categoryID}", rt.categoryHandler.GetCategory)
			r.With(rt.rateLimit(ratelimit.ClassWrite)).Put("/{categoryID}", rt.categoryHandler.UpdateCategory)
			r.With(rt.rateLimit(ratelimit.ClassWrite)).Delete("/{categoryID}", rt.categoryHandler.DeleteCategory)
		})

		// Summary endpoint
		r.With(rt.rateLimit(ratelimit.ClassRead)).Get("/summary", rt.expenseHandler.GetSummary)
	})

	return router
}

// rateLimit wraps the rate limit middleware for a policy class,
// passing through untouched when rate limiting is disabled.
func (rt *Router) rateLimit(class string) func(next http.Handler) http.Handler {
	if !rt.config.EnableRateLimit {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.RateLimit(rt.limiter, rt.policies, class, rt.metrics, rt.logger)
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck verifies the cache store is reachable before
// reporting ready.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := rt.redisClient.Ping(ctx).Err(); err != nil {
		rt.logger.Warn("readiness check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
