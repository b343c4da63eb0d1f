package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"spendtrack-backend/application/ports"
	"spendtrack-backend/domain/entities"
	"spendtrack-backend/infrastructure/cache"
)

// CategoryView is the serializable representation of a category
type CategoryView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryService coordinates category CRUD with caching and invalidation
type CategoryService struct {
	repo        ports.CategoryRepository
	cache       *cache.Service
	invalidator *cache.Invalidator
	logger      *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	repo ports.CategoryRepository,
	cacheService *cache.Service,
	invalidator *cache.Invalidator,
	logger *zap.Logger,
) *CategoryService {
	return &CategoryService{
		repo:        repo,
		cache:       cacheService,
		invalidator: invalidator,
		logger:      logger,
	}
}

// CreateCategory creates a new category for the user
func (s *CategoryService) CreateCategory(ctx context.Context, userID, name, color string) (*CategoryView, error) {
	category, err := entities.NewCategory(userID, name, color)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}

	s.invalidator.InvalidateCategory(ctx, category.ID(), userID)

	view := toCategoryView(category)
	return &view, nil
}

// GetCategory returns a single category, served from cache when possible
func (s *CategoryService) GetCategory(ctx context.Context, userID, categoryID string) (*CategoryView, error) {
	view, err := cache.Memoize(ctx, s.cache, cache.CategoryKey(categoryID), cache.TTLMedium, func(ctx context.Context) (CategoryView, error) {
		category, err := s.repo.FindByID(ctx, userID, categoryID)
		if err != nil {
			return CategoryView{}, err
		}
		return toCategoryView(category), nil
	})
	if err != nil {
		return nil, err
	}

	return &view, nil
}

// ListCategories returns all the user's categories, served from cache when
// possible. Categories change rarely, so they get a longer TTL.
func (s *CategoryService) ListCategories(ctx context.Context, userID string) ([]CategoryView, error) {
	return cache.Memoize(ctx, s.cache, cache.UserCategoriesKey(userID), cache.TTLLong, func(ctx context.Context) ([]CategoryView, error) {
		categories, err := s.repo.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}

		views := make([]CategoryView, 0, len(categories))
		for _, category := range categories {
			views = append(views, toCategoryView(category))
		}
		return views, nil
	})
}

// UpdateCategory renames a category owned by the user
func (s *CategoryService) UpdateCategory(ctx context.Context, userID, categoryID, name, color string) (*CategoryView, error) {
	category, err := s.repo.FindByID(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	if err := category.Rename(name, color); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}

	s.invalidator.InvalidateCategory(ctx, categoryID, userID)

	view := toCategoryView(category)
	return &view, nil
}

// DeleteCategory removes a category owned by the user. Expenses referencing
// it keep their category ID; their cached views are purged as well since
// list rows embed category data.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	if _, err := s.repo.FindByID(ctx, userID, categoryID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, categoryID); err != nil {
		return err
	}

	s.invalidator.InvalidateCategory(ctx, categoryID, userID)
	s.invalidator.InvalidateUserExpenses(ctx, userID)

	return nil
}

func toCategoryView(category *entities.Category) CategoryView {
	return CategoryView{
		ID:        category.ID(),
		UserID:    category.UserID(),
		Name:      category.Name(),
		Color:     category.Color(),
		CreatedAt: category.CreatedAt(),
		UpdatedAt: category.UpdatedAt(),
	}
}
