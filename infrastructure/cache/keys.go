package cache

import "fmt"

// Cache keys follow the namespace convention
// <entity-type>:<entity-id>[:<sub-resource>[:<variant-params>]], so every
// derived view of an entity sits under that entity's prefix and a single
// glob pattern can purge all of them at once.

// UserKey is the canonical namespace prefix for all cached views of a user
func UserKey(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

// UserExpensesKey identifies one page of a user's expense list
func UserExpensesKey(userID string, page, limit int) string {
	return fmt.Sprintf("user:%s:expenses:%d:%d", userID, page, limit)
}

// UserCategoriesKey identifies a user's category list
func UserCategoriesKey(userID string) string {
	return fmt.Sprintf("user:%s:categories", userID)
}

// UserSummaryKey identifies a user's per-category spending summary
func UserSummaryKey(userID string) string {
	return fmt.Sprintf("user:%s:summary", userID)
}

// ExpenseKey identifies a single cached expense
func ExpenseKey(expenseID string) string {
	return fmt.Sprintf("expense:%s", expenseID)
}

// CategoryKey identifies a single cached category
func CategoryKey(categoryID string) string {
	return fmt.Sprintf("category:%s", categoryID)
}
