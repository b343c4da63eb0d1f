package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"spendtrack-backend/application/services"
	"spendtrack-backend/pkg/common"
	pkgerrors "spendtrack-backend/pkg/errors"
	"spendtrack-backend/pkg/utils"
)

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	service      *services.ExpenseService
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(service *services.ExpenseService, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		service:      service,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// CreateExpenseRequest represents the request body for creating an expense
type CreateExpenseRequest struct {
	CategoryID  string  `json:"category_id,omitempty" validate:"omitempty,uuid4"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required,min=1,max=500"`
	Date        string  `json:"date,omitempty"`
}

// UpdateExpenseRequest represents the request body for updating an expense
type UpdateExpenseRequest struct {
	CategoryID  string  `json:"category_id,omitempty" validate:"omitempty,uuid4"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required,min=1,max=500"`
	Date        string  `json:"date,omitempty"`
}

// CreateExpense handles POST /expenses
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	var req CreateExpenseRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "Validation error: "+err.Error())
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "Invalid date format, expected RFC3339 or YYYY-MM-DD")
		return
	}

	expense, err := h.service.CreateExpense(r.Context(), userID, req.CategoryID, req.Amount, req.Description, date)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, expense)
}

// GetExpense handles GET /expenses/{expenseID}
func (h *ExpenseHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	expenseID := chi.URLParam(r, "expenseID")

	expense, err := h.service.GetExpense(r.Context(), userID, expenseID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	// Cached entries are tenant-checked on the way out: a key collision must
	// never leak another user's data
	if expense.UserID != userID {
		h.errorHandler.Handle(w, r, pkgerrors.NewNotFoundError("expense"))
		return
	}

	common.RespondJSON(w, http.StatusOK, expense)
}

// ListExpenses handles GET /expenses
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	params := common.ExtractPaginationParams(r)

	expenses, err := h.service.ListExpenses(r.Context(), userID, params.Page, params.Limit)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	meta := &common.MetaInfo{
		Pagination: &common.PaginationInfo{
			Page:    params.Page,
			Limit:   params.Limit,
			HasNext: len(expenses) == params.Limit,
		},
	}
	common.RespondWithMeta(w, http.StatusOK, expenses, meta)
}

// UpdateExpense handles PUT /expenses/{expenseID}
func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	expenseID := chi.URLParam(r, "expenseID")

	var req UpdateExpenseRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "Validation error: "+err.Error())
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "Invalid date format, expected RFC3339 or YYYY-MM-DD")
		return
	}

	expense, err := h.service.UpdateExpense(r.Context(), userID, expenseID, req.CategoryID, req.Amount, req.Description, date)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, expense)
}

// DeleteExpense handles DELETE /expenses/{expenseID}
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	expenseID := chi.URLParam(r, "expenseID")

	if err := h.service.DeleteExpense(r.Context(), userID, expenseID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Expense deleted"})
}

// GetSummary handles GET /summary
func (h *ExpenseHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	summary, err := h.service.GetSummary(r.Context(), userID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, summary)
}

// parseDate accepts RFC3339 timestamps or bare dates; empty means "now"
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	return time.Parse("2006-01-02", value)
}
