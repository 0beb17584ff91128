package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"eventboard/internal/delivery/http/helpers"
	"eventboard/internal/domain"
)

// CommentRequest is the request body for comment create and edit.
type CommentRequest struct {
	Text string `json:"text"`
}

// Validate implements Validator.
func (c CommentRequest) Validate() []string {
	var errs []string
	if l := len(strings.TrimSpace(c.Text)); l < 1 || l > 2000 {
		errs = append(errs, "text must be 1..2000 characters")
	}
	return errs
}

// CommentResponse is the wire representation of a comment.
type CommentResponse struct {
	ID        int64  `json:"id"`
	EventID   int64  `json:"eventId"`
	AuthorID  int64  `json:"authorId"`
	Text      string `json:"text"`
	CreatedOn string `json:"createdOn"`
	UpdatedOn string `json:"updatedOn,omitempty"`
}

func newCommentResponse(c *domain.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        c.ID,
		EventID:   c.EventID,
		AuthorID:  c.AuthorID,
		Text:      c.Text,
		CreatedOn: c.CreatedOn.Format(domain.DateTimeLayout),
	}
	if c.UpdatedOn != nil {
		resp.UpdatedOn = c.UpdatedOn.Format(domain.DateTimeLayout)
	}
	return resp
}

func newCommentResponses(comments []*domain.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, newCommentResponse(c))
	}
	return out
}

type CommentController struct {
	Logger  *slog.Logger
	Service domain.CommentService
}

func NewCommentController(logger *slog.Logger, svc domain.CommentService) *CommentController {
	return &CommentController{
		Logger:  logger,
		Service: svc,
	}
}

// AddComment godoc
// @Summary Comment on a published event
// @Description Only published events accept comments; an unpublished event is rejected with 409.
// @Tags private
// @Accept json
// @Produce json
// @Param userID path int true "Author ID"
// @Param eventID path int true "Event ID"
// @Param body body CommentRequest true "Comment text"
// @Success 201 {object} CommentResponse
// @Failure 400 {object} helpers.APIError
// @Failure 404 {object} helpers.APIError
// @Failure 409 {object} helpers.APIError
// @Router /users/{userID}/events/{eventID}/comments [post]
func (c *CommentController) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(w, r, "userID")
	if !ok {
		return
	}
	eventID, ok := helpers.ParseID(w, r, "eventID")
	if !ok {
		return
	}
	var req CommentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	comment, err := c.Service.AddComment(r.Context(), userID, eventID, req.Text)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, newCommentResponse(comment))
}

// EditComment godoc
// @Summary Edit an own comment
// @Description Editing is allowed only within the first hours after posting; later edits are rejected with 409.
// @Tags private
// @Accept json
// @Produce json
// @Param userID path int true "Author ID"
// @Param commentID path int true "Comment ID"
// @Param body body CommentRequest true "New comment text"
// @Success 200 {object} CommentResponse
// @Failure 400 {object} helpers.APIError
// @Failure 404 {object} helpers.APIError
// @Failure 409 {object} helpers.APIError
// @Router /users/{userID}/comments/{commentID} [patch]
func (c *CommentController) EditComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(w, r, "userID")
	if !ok {
		return
	}
	commentID, ok := helpers.ParseID(w, r, "commentID")
	if !ok {
		return
	}
	var req CommentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	comment, err := c.Service.EditComment(r.Context(), userID, commentID, req.Text)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, newCommentResponse(comment))
}

// DeleteComment godoc
// @Summary Delete an own comment
// @Tags private
// @Param userID path int true "Author ID"
// @Param commentID path int true "Comment ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIError
// @Router /users/{userID}/comments/{commentID} [delete]
func (c *CommentController) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(w, r, "userID")
	if !ok {
		return
	}
	commentID, ok := helpers.ParseID(w, r, "commentID")
	if !ok {
		return
	}
	if err := c.Service.DeleteComment(r.Context(), userID, commentID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCommentAdmin godoc
// @Summary Delete any comment
// @Tags admin
// @Param commentID path int true "Comment ID"
// @Success 204 "no content"
// @Failure 404 {object} helpers.APIError
// @Router /admin/comments/{commentID} [delete]
func (c *CommentController) DeleteCommentAdmin(w http.ResponseWriter, r *http.Request) {
	commentID, ok := helpers.ParseID(w, r, "commentID")
	if !ok {
		return
	}
	if err := c.Service.DeleteCommentByAdmin(r.Context(), commentID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetEventComments godoc
// @Summary List comments of an event
// @Description Comments are returned newest first.
// @Tags public
// @Produce json
// @Param eventID path int true "Event ID"
// @Param from query int false "Rows to skip (default 0)"
// @Param size query int false "Page size (default 10)"
// @Success 200 {array} CommentResponse
// @Failure 404 {object} helpers.APIError
// @Router /events/{eventID}/comments [get]
func (c *CommentController) GetEventComments(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.ParseID(w, r, "eventID")
	if !ok {
		return
	}
	comments, err := c.Service.GetEventComments(r.Context(), eventID, helpers.ParsePagination(r))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, newCommentResponses(comments))
}
