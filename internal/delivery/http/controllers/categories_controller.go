package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"eventboard/internal/delivery/http/helpers"
	"eventboard/internal/domain"
)

// CategoryRequest is the request body for category create and update.
type CategoryRequest struct {
	Name string `json:"name"`
}

// Validate implements Validator.
func (c CategoryRequest) Validate() []string {
	var errs []string
	if l := len(strings.TrimSpace(c.Name)); l < 1 || l > 50 {
		errs = append(errs, "name must be 1..50 characters")
	}
	return errs
}

type CategoryController struct {
	Logger  *slog.Logger
	Service domain.CategoryService
}

func NewCategoryController(logger *slog.Logger, svc domain.CategoryService) *CategoryController {
	return &CategoryController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateCategory godoc
// @Summary Create a category
// @Description Category names are unique; a duplicate name is rejected with 409.
// @Tags admin
// @Accept json
// @Produce json
// @Param body body CategoryRequest true "Category name"
// @Success 201 {object} domain.Category
// @Failure 400 {object} helpers.APIError
// @Failure 409 {object} helpers.APIError
// @Router /admin/categories [post]
func (c *CategoryController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	category, err := c.Service.Create(r.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary Rename a category
// @Tags admin
// @Accept json
// @Produce json
// @Param catID path int true "Category ID"
// @Param body body CategoryRequest true "New category name"
// @Success 200 {object} domain.Category
// @Failure 400 {object} helpers.APIError
// @Failure 404 {object} helpers.APIError
// @Failure 409 {object} helpers.APIError
// @Router /admin/categories/{catID} [patch]
func (c *CategoryController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	catID, ok := helpers.ParseID(w, r, "catID")
	if !ok {
		return
	}
	var req CategoryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	category, err := c.Service.Update(r.Context(), catID, strings.TrimSpace(req.Name))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description A category still referenced by events is rejected with 409.
// @Tags admin
// @Param catID path int true "Category ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIError
// @Failure 409 {object} helpers.APIError
// @Router /admin/categories/{catID} [delete]
func (c *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	catID, ok := helpers.ParseID(w, r, "catID")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), catID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCategories godoc
// @Summary List categories
// @Tags public
// @Produce json
// @Param from query int false "Rows to skip (default 0)"
// @Param size query int false "Page size (default 10)"
// @Success 200 {array} domain.Category
// @Router /categories [get]
func (c *CategoryController) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.Service.GetAll(r.Context(), helpers.ParsePagination(r))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, categories)
}

// GetCategory godoc
// @Summary Get a category by ID
// @Tags public
// @Produce json
// @Param catID path int true "Category ID"
// @Success 200 {object} domain.Category
// @Failure 404 {object} helpers.APIError
// @Router /categories/{catID} [get]
func (c *CategoryController) GetCategory(w http.ResponseWriter, r *http.Request) {
	catID, ok := helpers.ParseID(w, r, "catID")
	if !ok {
		return
	}
	category, err := c.Service.GetByID(r.Context(), catID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, category)
}
