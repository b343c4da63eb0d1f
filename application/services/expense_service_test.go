package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"spendtrack-backend/domain/entities"
	"spendtrack-backend/infrastructure/cache"
	pkgerrors "spendtrack-backend/pkg/errors"
)

// stubExpenseRepo is an in-memory ExpenseRepository that counts reads, so
// tests can tell cache hits from repository round trips.
type stubExpenseRepo struct {
	expenses  map[string]*entities.Expense
	findCalls int
	listCalls int
}

func newStubExpenseRepo() *stubExpenseRepo {
	return &stubExpenseRepo{expenses: make(map[string]*entities.Expense)}
}

func (r *stubExpenseRepo) Save(ctx context.Context, expense *entities.Expense) error {
	r.expenses[expense.ID()] = expense
	return nil
}

func (r *stubExpenseRepo) FindByID(ctx context.Context, userID, expenseID string) (*entities.Expense, error) {
	r.findCalls++
	expense, ok := r.expenses[expenseID]
	if !ok || !expense.BelongsTo(userID) {
		return nil, pkgerrors.NewNotFoundError("expense")
	}
	return expense, nil
}

func (r *stubExpenseRepo) ListByUser(ctx context.Context, userID string, page, limit int) ([]*entities.Expense, error) {
	r.listCalls++
	var result []*entities.Expense
	for _, expense := range r.expenses {
		if expense.BelongsTo(userID) {
			result = append(result, expense)
		}
	}
	return result, nil
}

func (r *stubExpenseRepo) Delete(ctx context.Context, userID, expenseID string) error {
	delete(r.expenses, expenseID)
	return nil
}

func newTestExpenseService(t *testing.T) (*ExpenseService, *stubExpenseRepo, *cache.Service) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cacheService := cache.NewService(client, zap.NewNop())
	invalidator := cache.NewInvalidator(cacheService, zap.NewNop())
	repo := newStubExpenseRepo()
	return NewExpenseService(repo, cacheService, invalidator, zap.NewNop()), repo, cacheService
}

func TestExpenseService_GetExpense_SecondReadServedFromCache(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestExpenseService(t)

	created, err := svc.CreateExpense(ctx, "u1", "", 12.50, "lunch", time.Now())
	require.NoError(t, err)

	first, err := svc.GetExpense(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.findCalls)

	second, err := svc.GetExpense(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.findCalls, "second read must not hit the repository")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Amount, second.Amount)
}

func TestExpenseService_UpdateInvalidatesCachedReads(t *testing.T) {
	ctx := context.Background()
	svc, repo, cacheService := newTestExpenseService(t)

	created, err := svc.CreateExpense(ctx, "u1", "", 12.50, "lunch", time.Now())
	require.NoError(t, err)

	_, err = svc.GetExpense(ctx, "u1", created.ID)
	require.NoError(t, err)
	require.True(t, cacheService.Exists(ctx, cache.ExpenseKey(created.ID)))

	_, err = svc.UpdateExpense(ctx, "u1", created.ID, "", 20.00, "dinner", time.Now())
	require.NoError(t, err)

	assert.False(t, cacheService.Exists(ctx, cache.ExpenseKey(created.ID)))

	findCallsBefore := repo.findCalls
	updated, err := svc.GetExpense(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, findCallsBefore+1, repo.findCalls, "stale entry must be recomputed")
	assert.Equal(t, 20.00, updated.Amount)
	assert.Equal(t, "dinner", updated.Description)
}

func TestExpenseService_ListExpenses_CachedPerPage(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestExpenseService(t)

	_, err := svc.CreateExpense(ctx, "u1", "", 5, "coffee", time.Now())
	require.NoError(t, err)

	_, err = svc.ListExpenses(ctx, "u1", 1, 20)
	require.NoError(t, err)
	_, err = svc.ListExpenses(ctx, "u1", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	// A different variant is its own cache entry
	_, err = svc.ListExpenses(ctx, "u1", 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestExpenseService_DeleteExpense_ChecksOwnership(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestExpenseService(t)

	created, err := svc.CreateExpense(ctx, "u1", "", 5, "coffee", time.Now())
	require.NoError(t, err)

	err = svc.DeleteExpense(ctx, "intruder", created.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Contains(t, repo.expenses, created.ID)

	require.NoError(t, svc.DeleteExpense(ctx, "u1", created.ID))
	assert.NotContains(t, repo.expenses, created.ID)
}

func TestExpenseService_GetSummary_GroupsByCategory(t *testing.T) {
	ctx := context.Background()
	svc, repo, cacheService := newTestExpenseService(t)

	_, err := svc.CreateExpense(ctx, "u1", "cat-food", 10, "groceries", time.Now())
	require.NoError(t, err)
	_, err = svc.CreateExpense(ctx, "u1", "cat-food", 15, "more groceries", time.Now())
	require.NoError(t, err)
	_, err = svc.CreateExpense(ctx, "u1", "", 7, "misc", time.Now())
	require.NoError(t, err)

	summary, err := svc.GetSummary(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, summary, 2)

	byCategory := make(map[string]CategorySummary)
	for _, row := range summary {
		byCategory[row.CategoryID] = row
	}
	assert.Equal(t, 25.0, byCategory["cat-food"].Total)
	assert.Equal(t, 2, byCategory["cat-food"].Count)
	assert.Equal(t, 7.0, byCategory["uncategorized"].Total)
	assert.Equal(t, 1, byCategory["uncategorized"].Count)

	// A later mutation purges the cached summary
	require.True(t, cacheService.Exists(ctx, cache.UserSummaryKey("u1")))
	_, err = svc.CreateExpense(ctx, "u1", "cat-food", 1, "snack", time.Now())
	require.NoError(t, err)
	assert.False(t, cacheService.Exists(ctx, cache.UserSummaryKey("u1")))

	listCallsBefore := repo.listCalls
	refreshed, err := svc.GetSummary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, listCallsBefore+1, repo.listCalls)

	byCategory = make(map[string]CategorySummary)
	for _, row := range refreshed {
		byCategory[row.CategoryID] = row
	}
	assert.Equal(t, 26.0, byCategory["cat-food"].Total)
}

func TestExpenseService_CreateExpense_RejectsInvalidAmount(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestExpenseService(t)

	_, err := svc.CreateExpense(ctx, "u1", "", 0, "free lunch", time.Now())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = svc.CreateExpense(ctx, "u1", "", -3, "refund", time.Now())
	require.Error(t, err)
}
