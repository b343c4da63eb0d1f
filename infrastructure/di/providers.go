package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"spendtrack-backend/application/ports"
	"spendtrack-backend/application/services"
	"spendtrack-backend/infrastructure/cache"
	"spendtrack-backend/infrastructure/config"
	"spendtrack-backend/infrastructure/persistence/dynamodb"
	redisclient "spendtrack-backend/infrastructure/redis"
	"spendtrack-backend/interfaces/http/rest/handlers"
	"spendtrack-backend/pkg/auth"
	pkgerrors "spendtrack-backend/pkg/errors"
	"spendtrack-backend/pkg/observability"
	"spendtrack-backend/pkg/ratelimit"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client, or nil when
// metrics publishing is disabled.
func ProvideCloudWatchClient(awsCfg aws.Config, cfg *config.Config) *awscloudwatch.Client {
	if !cfg.EnableMetrics {
		return nil
	}
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideMetrics creates metrics instance
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	namespace := fmt.Sprintf("SpendTrack/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client, logger)
}

// ProvideRedisClient creates the Redis client backing the cache layer
func ProvideRedisClient(ctx context.Context, cfg *config.Config) (*goredis.Client, error) {
	return redisclient.NewClient(ctx, cfg)
}

// ProvideCacheService creates the cache service
func ProvideCacheService(client *goredis.Client, logger *zap.Logger, metrics *observability.Metrics) *cache.Service {
	return cache.NewService(client, logger).WithMetrics(metrics)
}

// ProvideInvalidator creates the cache invalidator
func ProvideInvalidator(cacheService *cache.Service, logger *zap.Logger) *cache.Invalidator {
	return cache.NewInvalidator(cacheService, logger)
}

// ProvideLimiter creates the distributed rate limiter
func ProvideLimiter(cacheService *cache.Service, logger *zap.Logger) *ratelimit.Limiter {
	return ratelimit.NewLimiter(cacheService, logger)
}

// ProvideRateLimitPolicies returns the per-class rate limit policies
func ProvideRateLimitPolicies() map[string]ratelimit.Policy {
	return ratelimit.DefaultPolicies()
}

// ProvideExpenseRepository creates an expense repository
func ProvideExpenseRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ExpenseRepository {
	return dynamodb.NewExpenseRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideCategoryRepository creates a category repository
func ProvideCategoryRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.CategoryRepository {
	return dynamodb.NewCategoryRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideExpenseService creates the expense service
func ProvideExpenseService(
	repo ports.ExpenseRepository,
	cacheService *cache.Service,
	invalidator *cache.Invalidator,
	logger *zap.Logger,
) *services.ExpenseService {
	return services.NewExpenseService(repo, cacheService, invalidator, logger)
}

// ProvideCategoryService creates the category service
func ProvideCategoryService(
	repo ports.CategoryRepository,
	cacheService *cache.Service,
	invalidator *cache.Invalidator,
	logger *zap.Logger,
) *services.CategoryService {
	return services.NewCategoryService(repo, cacheService, invalidator, logger)
}

// ProvideJWTValidator creates the JWT validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideErrorHandler creates the HTTP error handler
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideExpenseHandler creates the expense HTTP handler
func ProvideExpenseHandler(
	service *services.ExpenseService,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *handlers.ExpenseHandler {
	return handlers.NewExpenseHandler(service, errorHandler, logger)
}

// ProvideCategoryHandler creates the category HTTP handler
func ProvideCategoryHandler(
	service *services.CategoryService,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *handlers.CategoryHandler {
	return handlers.NewCategoryHandler(service, errorHandler, logger)
}
