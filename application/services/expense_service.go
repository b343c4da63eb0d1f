// Package services contains the application services coordinating domain
// entities, persistence, and the cache layer. Reads go through the cache;
// every mutation writes the repository and then synchronously invalidates
// the affected cache patterns before reporting success.
package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"spendtrack-backend/application/ports"
	"spendtrack-backend/domain/entities"
	"spendtrack-backend/infrastructure/cache"
)

// ExpenseView is the serializable representation of an expense returned to
// callers and stored in the cache
type ExpenseView struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CategoryID  string    `json:"category_id,omitempty"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategorySummary is one row of a user's per-category spending summary
type CategorySummary struct {
	CategoryID string  `json:"category_id"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
}

// ExpenseService coordinates expense CRUD with caching and invalidation
type ExpenseService struct {
	repo        ports.ExpenseRepository
	cache       *cache.Service
	invalidator *cache.Invalidator
	logger      *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	repo ports.ExpenseRepository,
	cacheService *cache.Service,
	invalidator *cache.Invalidator,
	logger *zap.Logger,
) *ExpenseService {
	return &ExpenseService{
		repo:        repo,
		cache:       cacheService,
		invalidator: invalidator,
		logger:      logger,
	}
}

// CreateExpense records a new expense for the user
func (s *ExpenseService) CreateExpense(ctx context.Context, userID, categoryID string, amount float64, description string, date time.Time) (*ExpenseView, error) {
	expense, err := entities.NewExpense(userID, categoryID, amount, description, date)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, expense); err != nil {
		return nil, err
	}

	s.invalidator.InvalidateExpense(ctx, expense.ID(), userID)
	s.invalidateSummary(ctx, userID)

	view := toExpenseView(expense)
	return &view, nil
}

// GetExpense returns a single expense, served from cache when possible
func (s *ExpenseService) GetExpense(ctx context.Context, userID, expenseID string) (*ExpenseView, error) {
	view, err := cache.Memoize(ctx, s.cache, cache.ExpenseKey(expenseID), cache.TTLMedium, func(ctx context.Context) (ExpenseView, error) {
		expense, err := s.repo.FindByID(ctx, userID, expenseID)
		if err != nil {
			return ExpenseView{}, err
		}
		return toExpenseView(expense), nil
	})
	if err != nil {
		return nil, err
	}

	return &view, nil
}

// ListExpenses returns one page of the user's expenses, served from cache
// when possible. Each (page, limit) combination is cached under its own key
// inside the user's expense namespace.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID string, page, limit int) ([]ExpenseView, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	return cache.Memoize(ctx, s.cache, cache.UserExpensesKey(userID, page, limit), cache.TTLMedium, func(ctx context.Context) ([]ExpenseView, error) {
		expenses, err := s.repo.ListByUser(ctx, userID, page, limit)
		if err != nil {
			return nil, err
		}

		views := make([]ExpenseView, 0, len(expenses))
		for _, expense := range expenses {
			views = append(views, toExpenseView(expense))
		}
		return views, nil
	})
}

// UpdateExpense modifies an existing expense owned by the user
func (s *ExpenseService) UpdateExpense(ctx context.Context, userID, expenseID, categoryID string, amount float64, description string, date time.Time) (*ExpenseView, error) {
	expense, err := s.repo.FindByID(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}

	if err := expense.Update(categoryID, amount, description, date); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, expense); err != nil {
		return nil, err
	}

	s.invalidator.InvalidateExpense(ctx, expenseID, userID)
	s.invalidateSummary(ctx, userID)

	view := toExpenseView(expense)
	return &view, nil
}

// DeleteExpense removes an expense owned by the user
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	// Verify ownership before deleting
	if _, err := s.repo.FindByID(ctx, userID, expenseID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, expenseID); err != nil {
		return err
	}

	s.invalidator.InvalidateExpense(ctx, expenseID, userID)
	s.invalidateSummary(ctx, userID)

	return nil
}

// GetSummary returns the user's per-category spending totals, cached under
// the user's namespace so it is purged with the rest of their views
func (s *ExpenseService) GetSummary(ctx context.Context, userID string) ([]CategorySummary, error) {
	return cache.Memoize(ctx, s.cache, cache.UserSummaryKey(userID), cache.TTLMedium, func(ctx context.Context) ([]CategorySummary, error) {
		const summaryPageSize = 1000
		expenses, err := s.repo.ListByUser(ctx, userID, 1, summaryPageSize)
		if err != nil {
			return nil, err
		}

		totals := make(map[string]*CategorySummary)
		order := []string{}
		for _, expense := range expenses {
			categoryID := expense.CategoryID()
			if categoryID == "" {
				categoryID = "uncategorized"
			}

			row, ok := totals[categoryID]
			if !ok {
				row = &CategorySummary{CategoryID: categoryID}
				totals[categoryID] = row
				order = append(order, categoryID)
			}
			row.Total += expense.Amount()
			row.Count++
		}

		summary := make([]CategorySummary, 0, len(order))
		for _, categoryID := range order {
			summary = append(summary, *totals[categoryID])
		}
		return summary, nil
	})
}

// invalidateSummary purges the cached summary alongside expense mutations.
// The summary lives outside the expenses sub-namespace, so the narrow
// expense invalidation does not cover it.
func (s *ExpenseService) invalidateSummary(ctx context.Context, userID string) {
	s.cache.Delete(ctx, cache.UserSummaryKey(userID))
}

func toExpenseView(expense *entities.Expense) ExpenseView {
	return ExpenseView{
		ID:          expense.ID(),
		UserID:      expense.UserID(),
		CategoryID:  expense.CategoryID(),
		Amount:      expense.Amount(),
		Description: expense.Description(),
		Date:        expense.Date(),
		CreatedAt:   expense.CreatedAt(),
		UpdatedAt:   expense.UpdatedAt(),
	}
}
