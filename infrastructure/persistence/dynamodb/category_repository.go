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

// CategoryRepository implements ports.CategoryRepository using DynamoDB
type CategoryRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.CategoryRepository {
	return &CategoryRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// categoryItem represents the DynamoDB item structure for a category
type categoryItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	CategoryID string `dynamodbav:"CategoryID"`
	UserID     string `dynamodbav:"UserID"`
	Name       string `dynamodbav:"Name"`
	Color      string `dynamodbav:"Color,omitempty"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

func categorySK(categoryID string) string {
	return fmt.Sprintf("CATEGORY#%s", categoryID)
}

// Save persists a category, overwriting any previous version
func (r *CategoryRepository) Save(ctx context.Context, category *entities.Category) error {
	item := categoryItem{
		PK:         expensePK(category.UserID()),
		SK:         categorySK(category.ID()),
		EntityType: "CATEGORY",
		CategoryID: category.ID(),
		UserID:     category.UserID(),
		Name:       category.Name(),
		Color:      category.Color(),
		CreatedAt:  category.CreatedAt().Format(time.RFC3339),
		UpdatedAt:  category.UpdatedAt().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal category", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to save category",
			zap.Error(err),
			zap.String("categoryID", category.ID()),
			zap.String("userID", category.UserID()),
		)
		return pkgerrors.NewDatabaseError("save category", err)
	}

	return nil
}

// FindByID loads a single category owned by userID
func (r *CategoryRepository) FindByID(ctx context.Context, userID, categoryID string) (*entities.Category, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: expensePK(userID)},
			"SK": &types.AttributeValueMemberS{Value: categorySK(categoryID)},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		r.logger.Error("Failed to load category",
			zap.Error(err),
			zap.String("categoryID", categoryID),
		)
		return nil, pkgerrors.NewDatabaseError("find category", err)
	}

	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("category")
	}

	var item categoryItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal category", err)
	}

	return itemToCategory(item)
}

// ListByUser returns all of a user's categories
func (r *CategoryRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Category, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(expensePK(userID))).
		And(expression.Key("SK").BeginsWith("CATEGORY#"))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build category query", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		r.logger.Error("Failed to list categories",
			zap.Error(err),
			zap.String("userID", userID),
		)
		return nil, pkgerrors.NewDatabaseError("list categories", err)
	}

	categories := make([]*entities.Category, 0, len(result.Items))
	for _, raw := range result.Items {
		var item categoryItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("Skipping unreadable category item", zap.Error(err))
			continue
		}

		category, err := itemToCategory(item)
		if err != nil {
			r.logger.Warn("Skipping invalid category item",
				zap.Error(err),
				zap.String("categoryID", item.CategoryID),
			)
			continue
		}
		categories = append(categories, category)
	}

	return categories, nil
}

// Delete removes a category. Deleting an absent category is not an error.
func (r *CategoryRepository) Delete(ctx context.Context, userID, categoryID string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: expensePK(userID)},
			"SK": &types.AttributeValueMemberS{Value: categorySK(categoryID)},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		r.logger.Error("Failed to delete category",
			zap.Error(err),
			zap.String("categoryID", categoryID),
		)
		return pkgerrors.NewDatabaseError("delete category", err)
	}

	return nil
}

func itemToCategory(item categoryItem) (*entities.Category, error) {
	createdAt, err := time.Parse(time.RFC3339, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid category createdAt: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339, item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid category updatedAt: %w", err)
	}

	return entities.ReconstructCategory(
		item.CategoryID,
		item.UserID,
		item.Name,
		item.Color,
		createdAt,
		updatedAt,
	), nil
}
