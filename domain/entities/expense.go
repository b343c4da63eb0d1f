package entities

import (
	"time"

	"github.com/google/uuid"

	pkgerrors "spendtrack-backend/pkg/errors"
)

// Expense is a single spending record owned by one user
type Expense struct {
	id          string
	userID      string
	categoryID  string
	amount      float64
	description string
	date        time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// NewExpense creates a new expense with business rule validation
func NewExpense(userID, categoryID string, amount float64, description string, date time.Time) (*Expense, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if amount <= 0 {
		return nil, pkgerrors.NewValidationError("amount must be positive")
	}
	if description == "" {
		return nil, pkgerrors.NewValidationError("description cannot be empty")
	}
	if date.IsZero() {
		date = time.Now()
	}

	now := time.Now()
	return &Expense{
		id:          uuid.NewString(),
		userID:      userID,
		categoryID:  categoryID,
		amount:      amount,
		description: description,
		date:        date,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructExpense rebuilds an expense from repository data with preserved
// identity and timestamps
func ReconstructExpense(id, userID, categoryID string, amount float64, description string, date, createdAt, updatedAt time.Time) *Expense {
	return &Expense{
		id:          id,
		userID:      userID,
		categoryID:  categoryID,
		amount:      amount,
		description: description,
		date:        date,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the expense's unique identifier
func (e *Expense) ID() string {
	return e.id
}

// UserID returns the owner's ID
func (e *Expense) UserID() string {
	return e.userID
}

// CategoryID returns the assigned category, empty if uncategorized
func (e *Expense) CategoryID() string {
	return e.categoryID
}

// Amount returns the expense amount
func (e *Expense) Amount() float64 {
	return e.amount
}

// Description returns the expense description
func (e *Expense) Description() string {
	return e.description
}

// Date returns when the expense occurred
func (e *Expense) Date() time.Time {
	return e.date
}

// CreatedAt returns when the expense was recorded
func (e *Expense) CreatedAt() time.Time {
	return e.createdAt
}

// UpdatedAt returns when the expense was last modified
func (e *Expense) UpdatedAt() time.Time {
	return e.updatedAt
}

// Update modifies the expense's mutable fields with validation
func (e *Expense) Update(categoryID string, amount float64, description string, date time.Time) error {
	if amount <= 0 {
		return pkgerrors.NewValidationError("amount must be positive")
	}
	if description == "" {
		return pkgerrors.NewValidationError("description cannot be empty")
	}

	e.categoryID = categoryID
	e.amount = amount
	e.description = description
	if !date.IsZero() {
		e.date = date
	}
	e.updatedAt = time.Now()

	return nil
}

// BelongsTo reports whether the expense is owned by userID
func (e *Expense) BelongsTo(userID string) bool {
	return e.userID == userID
}
