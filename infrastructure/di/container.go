package di

import (
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"spendtrack-backend/application/ports"
	"spendtrack-backend/application/services"
	"spendtrack-backend/infrastructure/cache"
	"spendtrack-backend/infrastructure/config"
	"spendtrack-backend/interfaces/http/rest/handlers"
	"spendtrack-backend/pkg/auth"
	pkgerrors "spendtrack-backend/pkg/errors"
	"spendtrack-backend/pkg/observability"
	"spendtrack-backend/pkg/ratelimit"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	RedisClient     *goredis.Client
	Cache           *cache.Service
	Invalidator     *cache.Invalidator
	Limiter         *ratelimit.Limiter
	Policies        map[string]ratelimit.Policy
	ExpenseRepo     ports.ExpenseRepository
	CategoryRepo    ports.CategoryRepository
	ExpenseService  *services.ExpenseService
	CategoryService *services.CategoryService
	ExpenseHandler  *handlers.ExpenseHandler
	CategoryHandler *handlers.CategoryHandler
	JWTValidator    *auth.JWTValidator
	ErrorHandler    *pkgerrors.ErrorHandler
	Metrics         *observability.Metrics
}
