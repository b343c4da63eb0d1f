// Package dynamodb implements the repository ports on a single DynamoDB
// table. Items are keyed PK=USER#{userID} so every query is tenant-scoped
// by construction.
package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"spendtrack-backend/application/ports"
	"spendtrack-backend/domain/entities"
	pkgerrors "spendtrack-backend/pkg/errors"
)

// ExpenseRepository implements ports.ExpenseRepository using DynamoDB
type ExpenseRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.ExpenseRepository {
	return &ExpenseRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// expenseItem represents the DynamoDB item structure for an expense
type expenseItem struct {
	PK          string  `dynamodbav:"PK"`
	SK          string  `dynamodbav:"SK"`
	EntityType  string  `dynamodbav:"EntityType"`
	ExpenseID   string  `dynamodbav:"ExpenseID"`
	UserID      string  `dynamodbav:"UserID"`
	CategoryID  string  `dynamodbav:"CategoryID,omitempty"`
	Amount      float64 `dynamodbav:"Amount"`
	Description string  `dynamodbav:"Description"`
	Date        string  `dynamodbav:"Date"`
	CreatedAt   string  `dynamodbav:"CreatedAt"`
	UpdatedAt   string  `dynamodbav:"UpdatedAt"`
}

func expensePK(userID string) string {
	return fmt.Sprintf("USER#%s", userID)
}

func expenseSK(expenseID string) string {
	return fmt.Sprintf("EXPENSE#%s", expenseID)
}

// Save persists an expense, overwriting any previous version
func (r *ExpenseRepository) Save(ctx context.Context, expense *entities.Expense) error {
	item := expenseItem{
		PK:          expensePK(expense.UserID()),
		SK:          expenseSK(expense.ID()),
		EntityType:  "EXPENSE",
		ExpenseID:   expense.ID(),
		UserID:      expense.UserID(),
		CategoryID:  expense.CategoryID(),
		Amount:      expense.Amount(),
		Description: expense.Description(),
		Date:        expense.Date().Format(time.RFC3339),
		CreatedAt:   expense.CreatedAt().Format(time.RFC3339),
		UpdatedAt:   expense.UpdatedAt().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal expense", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to save expense",
			zap.Error(err),
			zap.String("expenseID", expense.ID()),
			zap.String("userID", expense.UserID()),
		)
		return pkgerrors.NewDatabaseError("save expense", err)
	}

	return nil
}

// FindByID loads a single expense owned by userID
func (r *ExpenseRepository) FindByID(ctx context.Context, userID, expenseID string) (*entities.Expense, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: expensePK(userID)},
			"SK": &types.AttributeValueMemberS{Value: expenseSK(expenseID)},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		r.logger.Error("Failed to load expense",
			zap.Error(err),
			zap.String("expenseID", expenseID),
		)
		return nil, pkgerrors.NewDatabaseError("find expense", err)
	}

	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("expense")
	}

	var item expenseItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal expense", err)
	}

	return itemToExpense(item)
}

// ListByUser returns one page of a user's expenses, newest first by sort key
func (r *ExpenseRepository) ListByUser(ctx context.Context, userID string, page, limit int) ([]*entities.Expense, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(expensePK(userID))).
		And(expression.Key("SK").BeginsWith("EXPENSE#"))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build expense query", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		r.logger.Error("Failed to list expenses",
			zap.Error(err),
			zap.String("userID", userID),
		)
		return nil, pkgerrors.NewDatabaseError("list expenses", err)
	}

	expenses := make([]*entities.Expense, 0, len(result.Items))
	for _, raw := range result.Items {
		var item expenseItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("Skipping unreadable expense item", zap.Error(err))
			continue
		}

		expense, err := itemToExpense(item)
		if err != nil {
			r.logger.Warn("Skipping invalid expense item",
				zap.Error(err),
				zap.String("expenseID", item.ExpenseID),
			)
			continue
		}
		expenses = append(expenses, expense)
	}

	return paginate(expenses, page, limit), nil
}

// Delete removes an expense. Deleting an absent expense is not an error.
func (r *ExpenseRepository) Delete(ctx context.Context, userID, expenseID string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: expensePK(userID)},
			"SK": &types.AttributeValueMemberS{Value: expenseSK(expenseID)},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		r.logger.Error("Failed to delete expense",
			zap.Error(err),
			zap.String("expenseID", expenseID),
		)
		return pkgerrors.NewDatabaseError("delete expense", err)
	}

	return nil
}

func itemToExpense(item expenseItem) (*entities.Expense, error) {
	date, err := time.Parse(time.RFC3339, item.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid expense date: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid expense createdAt: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339, item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid expense updatedAt: %w", err)
	}

	return entities.ReconstructExpense(
		item.ExpenseID,
		item.UserID,
		item.CategoryID,
		item.Amount,
		item.Description,
		date,
		createdAt,
		updatedAt,
	), nil
}

// paginate slices a full result set into the requested page. Page numbers
// start at 1; an out-of-range page yields an empty slice.
func paginate[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}

	end := start + limit
	if end > len(items) {
		end = len(items)
	}

	return items[start:end]
}
