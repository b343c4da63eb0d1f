package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedUserViews(t *testing.T, svc *Service, userID string) {
	t.Helper()
	ctx := context.Background()
	require.True(t, svc.Set(ctx, UserKey(userID), "profile", TTLMedium))
	require.True(t, svc.Set(ctx, UserExpensesKey(userID, 1, 20), "page1", TTLMedium))
	require.True(t, svc.Set(ctx, UserExpensesKey(userID, 2, 20), "page2", TTLMedium))
	require.True(t, svc.Set(ctx, UserCategoriesKey(userID), "cats", TTLLong))
	require.True(t, svc.Set(ctx, UserSummaryKey(userID), "summary", TTLMedium))
}

func TestInvalidator_InvalidateUser_PurgesWholeNamespace(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	inv := NewInvalidator(svc, zap.NewNop())

	seedUserViews(t, svc, "u1")
	seedUserViews(t, svc, "u2")

	deleted := inv.InvalidateUser(ctx, "u1")
	assert.Equal(t, 5, deleted)

	assert.False(t, svc.Exists(ctx, UserKey("u1")))
	assert.False(t, svc.Exists(ctx, UserSummaryKey("u1")))

	// Other tenants are untouched
	assert.True(t, svc.Exists(ctx, UserExpensesKey("u2", 1, 20)))
}

func TestInvalidator_InvalidateUserExpenses_IsScoped(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	inv := NewInvalidator(svc, zap.NewNop())

	seedUserViews(t, svc, "u1")

	deleted := inv.InvalidateUserExpenses(ctx, "u1")
	assert.Equal(t, 2, deleted)

	assert.False(t, svc.Exists(ctx, UserExpensesKey("u1", 1, 20)))
	assert.False(t, svc.Exists(ctx, UserExpensesKey("u1", 2, 20)))

	// Category views and the summary survive an expense-only purge
	assert.True(t, svc.Exists(ctx, UserCategoriesKey("u1")))
	assert.True(t, svc.Exists(ctx, UserSummaryKey("u1")))
}

func TestInvalidator_InvalidateCategory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	inv := NewInvalidator(svc, zap.NewNop())

	require.True(t, svc.Set(ctx, CategoryKey("c1"), "cat", TTLLong))
	seedUserViews(t, svc, "u1")

	deleted := inv.InvalidateCategory(ctx, "c1", "u1")
	assert.Equal(t, 2, deleted)

	assert.False(t, svc.Exists(ctx, CategoryKey("c1")))
	assert.False(t, svc.Exists(ctx, UserCategoriesKey("u1")))

	// Expense views are not category-derived
	assert.True(t, svc.Exists(ctx, UserExpensesKey("u1", 1, 20)))
}

func TestInvalidator_InvalidateCategory_WithoutOwner(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	inv := NewInvalidator(svc, zap.NewNop())

	require.True(t, svc.Set(ctx, CategoryKey("c1"), "cat", TTLLong))
	seedUserViews(t, svc, "u1")

	deleted := inv.InvalidateCategory(ctx, "c1", "")
	assert.Equal(t, 1, deleted)
	assert.True(t, svc.Exists(ctx, UserCategoriesKey("u1")))
}

func TestInvalidator_InvalidateExpense(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	inv := NewInvalidator(svc, zap.NewNop())

	require.True(t, svc.Set(ctx, ExpenseKey("e1"), "expense", TTLMedium))
	seedUserViews(t, svc, "u1")

	deleted := inv.InvalidateExpense(ctx, "e1", "u1")
	assert.Equal(t, 3, deleted)

	assert.False(t, svc.Exists(ctx, ExpenseKey("e1")))
	assert.False(t, svc.Exists(ctx, UserExpensesKey("u1", 1, 20)))
	assert.True(t, svc.Exists(ctx, UserCategoriesKey("u1")))
}
