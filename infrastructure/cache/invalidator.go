package cache

import (
	"context"

	"go.uber.org/zap"
)

// Invalidator translates entity mutations into coordinated glob-pattern
// deletions, so every cached view derived from a mutated entity is purged
// together. It is the only component permitted to issue bulk deletes.
//
// Invalidation is synchronous: services call it before reporting a mutation
// as successful, so a client's next read never observes the pre-mutation
// cached value.
type Invalidator struct {
	cache  *Service
	logger *zap.Logger
}

// NewInvalidator creates an invalidator over the shared cache service
func NewInvalidator(cache *Service, logger *zap.Logger) *Invalidator {
	return &Invalidator{
		cache:  cache,
		logger: logger,
	}
}

// InvalidateUser purges every cached view under the user's namespace,
// covering expense and category derivatives transitively. Used for
// operations that can affect multiple derived views at once.
func (i *Invalidator) InvalidateUser(ctx context.Context, userID string) int {
	return i.purge(ctx, UserKey(userID)+"*")
}

// InvalidateUserExpenses purges only the user's expense-derived views.
// The narrow form used after a single expense mutation, so unrelated cached
// user data survives.
func (i *Invalidator) InvalidateUserExpenses(ctx context.Context, userID string) int {
	return i.purge(ctx, UserKey(userID)+":expenses*")
}

// InvalidateUserCategories purges only the user's category-derived views
func (i *Invalidator) InvalidateUserCategories(ctx context.Context, userID string) int {
	return i.purge(ctx, UserKey(userID)+":categories*")
}

// InvalidateCategory purges the category's own cached views, and the owning
// user's category list when userID is supplied.
func (i *Invalidator) InvalidateCategory(ctx context.Context, categoryID, userID string) int {
	count := i.purge(ctx, CategoryKey(categoryID)+"*")
	if userID != "" {
		count += i.InvalidateUserCategories(ctx, userID)
	}
	return count
}

// InvalidateExpense purges the expense's own cached views, and the owning
// user's expense lists when userID is supplied.
func (i *Invalidator) InvalidateExpense(ctx context.Context, expenseID, userID string) int {
	count := i.purge(ctx, ExpenseKey(expenseID)+"*")
	if userID != "" {
		count += i.InvalidateUserExpenses(ctx, userID)
	}
	return count
}

func (i *Invalidator) purge(ctx context.Context, pattern string) int {
	count := i.cache.DeletePattern(ctx, pattern)
	if count > 0 {
		i.logger.Debug("cache invalidated",
			zap.String("pattern", pattern),
			zap.Int("deleted", count),
		)
	}
	return count
}
