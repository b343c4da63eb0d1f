// Package ports defines the interfaces the application layer depends on.
// Infrastructure provides the implementations.
package ports

import (
	"context"

	"spendtrack-backend/domain/entities"
)

// ExpenseRepository persists expenses. Lookups are always scoped to the
// owning user; no cross-tenant access path exists.
type ExpenseRepository interface {
	Save(ctx context.Context, expense *entities.Expense) error
	FindByID(ctx context.Context, userID, expenseID string) (*entities.Expense, error)
	ListByUser(ctx context.Context, userID string, page, limit int) ([]*entities.Expense, error)
	Delete(ctx context.Context, userID, expenseID string) error
}

// CategoryRepository persists expense categories
type CategoryRepository interface {
	Save(ctx context.Context, category *entities.Category) error
	FindByID(ctx context.Context, userID, categoryID string) (*entities.Category, error)
	ListByUser(ctx context.Context, userID string) ([]*entities.Category, error)
	Delete(ctx context.Context, userID, categoryID string) error
}
