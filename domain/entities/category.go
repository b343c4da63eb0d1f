package entities

import (
	"time"

	"github.com/google/uuid"

	pkgerrors "spendtrack-backend/pkg/errors"
)

// Category groups a user's expenses for reporting and budgeting
type Category struct {
	id        string
	userID    string
	name      string
	color     string
	createdAt time.Time
	updatedAt time.Time
}

// NewCategory creates a new category with validation
func NewCategory(userID, name, color string) (*Category, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("name cannot be empty")
	}

	now := time.Now()
	return &Category{
		id:        uuid.NewString(),
		userID:    userID,
		name:      name,
		color:     color,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructCategory rebuilds a category from repository data
func ReconstructCategory(id, userID, name, color string, createdAt, updatedAt time.Time) *Category {
	return &Category{
		id:        id,
		userID:    userID,
		name:      name,
		color:     color,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the category's unique identifier
func (c *Category) ID() string {
	return c.id
}

// UserID returns the owner's ID
func (c *Category) UserID() string {
	return c.userID
}

// Name returns the category name
func (c *Category) Name() string {
	return c.name
}

// Color returns the display color
func (c *Category) Color() string {
	return c.color
}

// CreatedAt returns when the category was created
func (c *Category) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns when the category was last modified
func (c *Category) UpdatedAt() time.Time {
	return c.updatedAt
}

// Rename changes the category's name and color with validation
func (c *Category) Rename(name, color string) error {
	if name == "" {
		return pkgerrors.NewValidationError("name cannot be empty")
	}

	c.name = name
	if color != "" {
		c.color = color
	}
	c.updatedAt = time.Now()

	return nil
}

// BelongsTo reports whether the category is owned by userID
func (c *Category) BelongsTo(userID string) bool {
	return c.userID == userID
}
