package controllers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"eventboard/internal/delivery/http/helpers"
	"eventboard/internal/domain"
)

// emailRegex matches a simple email format (local@domain with at least one dot in domain).
var emailRegex = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// NewUserRequest is the request body for POST /admin/users.
type NewUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate implements Validator.
func (n NewUserRequest) Validate() []string {
	var errs []string
	if l := len(strings.TrimSpace(n.Name)); l < 2 || l > 250 {
		errs = append(errs, "name must be 2..250 characters")
	}
	if n.Email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegex.MatchString(strings.TrimSpace(n.Email)) {
		errs = append(errs, "email must be a valid email address")
	}
	return errs
}

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateUser godoc
// @Summary Register a user
// @Description Emails are unique; a duplicate email is rejected with 409.
// @Tags admin
// @Accept json
// @Produce json
// @Param body body NewUserRequest true "User data"
// @Success 201 {object} domain.User
// @Failure 400 {object} helpers.APIError
// @Failure 409 {object} helpers.APIError
// @Router /admin/users [post]
func (c *UserController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req NewUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.Create(r.Context(), &domain.User{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
	})
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, user)
}

// GetUsers godoc
// @Summary List users
// @Description Returns users with the given ids, or a page of all users when ids is omitted.
// @Tags admin
// @Produce json
// @Param ids query []int false "User IDs"
// @Param from query int false "Rows to skip (default 0)"
// @Param size query int false "Page size (default 10)"
// @Success 200 {array} domain.User
// @Failure 400 {object} helpers.APIError
// @Router /admin/users [get]
func (c *UserController) GetUsers(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDList(r, "ids")
	if err != nil {
		helpers.WriteError(w, err)
		return
	}
	users, err := c.Service.GetAll(r.Context(), ids, helpers.ParsePagination(r))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, users)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags admin
// @Param userID path int true "User ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIError
// @Router /admin/users/{userID} [delete]
func (c *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(w, r, "userID")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), userID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
