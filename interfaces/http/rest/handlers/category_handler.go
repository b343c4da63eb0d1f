package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"spendtrack-backend/application/services"
	"spendtrack-backend/pkg/common"
	pkgerrors "spendtrack-backend/pkg/errors"
	"spendtrack-backend/pkg/utils"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	service      *services.CategoryService
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(service *services.CategoryService, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		service:      service,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// CategoryRequest represents the request body for creating or updating a category
type CategoryRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// CreateCategory handles POST /categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	var req CategoryRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "Validation error: "+err.Error())
		return
	}

	category, err := h.service.CreateCategory(r.Context(), userID, req.Name, req.Color)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, category)
}

// GetCategory handles GET /categories/{categoryID}
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	categoryID := chi.URLParam(r, "categoryID")

	category, err := h.service.GetCategory(r.Context(), userID, categoryID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if category.UserID != userID {
		h.errorHandler.Handle(w, r, pkgerrors.NewNotFoundError("category"))
		return
	}

	common.RespondJSON(w, http.StatusOK, category)
}

// ListCategories handles GET /categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	categories, err := h.service.ListCategories(r.Context(), userID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, categories)
}

// UpdateCategory handles PUT /categories/{categoryID}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	categoryID := chi.URLParam(r, "categoryID")

	var req CategoryRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "Validation error: "+err.Error())
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), userID, categoryID, req.Name, req.Color)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, category)
}

// DeleteCategory handles DELETE /categories/{categoryID}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	categoryID := chi.URLParam(r, "categoryID")

	if err := h.service.DeleteCategory(r.Context(), userID, categoryID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}
