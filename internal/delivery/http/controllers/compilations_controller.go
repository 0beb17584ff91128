package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"eventboard/internal/delivery/http/helpers"
	"eventboard/internal/domain"
)

// NewCompilationRequest is the request body for POST /admin/compilations.
type NewCompilationRequest struct {
	Title  string  `json:"title"`
	Pinned bool    `json:"pinned"`
	Events []int64 `json:"events"`
}

// Validate implements Validator.
func (n NewCompilationRequest) Validate() []string {
	var errs []string
	if l := len(strings.TrimSpace(n.Title)); l < 1 || l > 50 {
		errs = append(errs, "title must be 1..50 characters")
	}
	return errs
}

// UpdateCompilationRequest is the request body for PATCH /admin/compilations/{compID}.
// All fields are optional; an omitted events field keeps the current set.
type UpdateCompilationRequest struct {
	Title  *string `json:"title"`
	Pinned *bool   `json:"pinned"`
	Events []int64 `json:"events"`
}

// Validate implements Validator.
func (u UpdateCompilationRequest) Validate() []string {
	var errs []string
	if u.Title != nil {
		if l := len(strings.TrimSpace(*u.Title)); l < 1 || l > 50 {
			errs = append(errs, "title must be 1..50 characters")
		}
	}
	return errs
}

// CompilationResponse is the compilation payload with its resolved events.
type CompilationResponse struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	Pinned bool            `json:"pinned"`
	Events []EventResponse `json:"events"`
}

func newCompilationResponse(d *domain.CompilationDetails) CompilationResponse {
	events := make([]EventResponse, 0, len(d.Events))
	for _, e := range d.Events {
		events = append(events, newEventResponse(&domain.EventDetails{Event: e}))
	}
	return CompilationResponse{
		ID:     d.Compilation.ID,
		Title:  d.Compilation.Title,
		Pinned: d.Compilation.Pinned,
		Events: events,
	}
}

type CompilationController struct {
	Logger  *slog.Logger
	Service domain.CompilationService
}

func NewCompilationController(logger *slog.Logger, svc domain.CompilationService) *CompilationController {
	return &CompilationController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateCompilation godoc
// @Summary Create a compilation of events
// @Tags admin
// @Accept json
// @Produce json
// @Param body body NewCompilationRequest true "Compilation data"
// @Success 201 {object} controllers.CompilationResponse
// @Failure 400 {object} helpers.APIError
// @Failure 404 {object} helpers.APIError
// @Router /admin/compilations [post]
func (c *CompilationController) CreateCompilation(w http.ResponseWriter, r *http.Request) {
	var req NewCompilationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	details, err := c.Service.Create(r.Context(), &domain.Compilation{
		Title:    strings.TrimSpace(req.Title),
		Pinned:   req.Pinned,
		EventIDs: req.Events,
	})
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, newCompilationResponse(details))
}

// UpdateCompilation godoc
// @Summary Update a compilation
// @Tags admin
// @Accept json
// @Produce json
// @Param compID path int true "Compilation ID"
// @Param body body UpdateCompilationRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.CompilationResponse
// @Failure 400 {object} helpers.APIError
// @Failure 404 {object} helpers.APIError
// @Router /admin/compilations/{compID} [patch]
func (c *CompilationController) UpdateCompilation(w http.ResponseWriter, r *http.Request) {
	compID, ok := helpers.ParseID(w, r, "compID")
	if !ok {
		return
	}
	var req UpdateCompilationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	details, err := c.Service.Update(r.Context(), compID, domain.CompilationUpdate{
		Title:    req.Title,
		Pinned:   req.Pinned,
		EventIDs: req.Events,
	})
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, newCompilationResponse(details))
}

// DeleteCompilation godoc
// @Summary Delete a compilation
// @Tags admin
// @Param compID path int true "Compilation ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIError
// @Router /admin/compilations/{compID} [delete]
func (c *CompilationController) DeleteCompilation(w http.ResponseWriter, r *http.Request) {
	compID, ok := helpers.ParseID(w, r, "compID")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), compID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCompilations godoc
// @Summary List compilations
// @Tags public
// @Produce json
// @Param pinned query bool false "Pinned compilations only"
// @Param from query int false "Rows to skip (default 0)"
// @Param size query int false "Page size (default 10)"
// @Success 200 {array} controllers.CompilationResponse
// @Failure 400 {object} helpers.APIError
// @Router /compilations [get]
func (c *CompilationController) GetCompilations(w http.ResponseWriter, r *http.Request) {
	var pinned *bool
	if s := r.URL.Query().Get("pinned"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			helpers.WriteError(w, domain.ErrBadRequest)
			return
		}
		pinned = &v
	}
	details, err := c.Service.GetAll(r.Context(), pinned, helpers.ParsePagination(r))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	out := make([]CompilationResponse, 0, len(details))
	for _, d := range details {
		out = append(out, newCompilationResponse(d))
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// GetCompilation godoc
// @Summary Get a compilation by ID
// @Tags public
// @Produce json
// @Param compID path int true "Compilation ID"
// @Success 200 {object} controllers.CompilationResponse
// @Failure 404 {object} helpers.APIError
// @Router /compilations/{compID} [get]
func (c *CompilationController) GetCompilation(w http.ResponseWriter, r *http.Request) {
	compID, ok := helpers.ParseID(w, r, "compID")
	if !ok {
		return
	}
	details, err := c.Service.GetByID(r.Context(), compID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, newCompilationResponse(details))
}
