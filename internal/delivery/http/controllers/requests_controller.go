package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"eventboard/internal/delivery/http/helpers"
	"eventboard/internal/domain"
)

// RequestResponse is the participation request payload.
type RequestResponse struct {
	ID        int64  `json:"id"`
	Created   string `json:"created"`
	Event     int64  `json:"event"`
	Requester int64  `json:"requester"`
	Status    string `json:"status"`
}

func newRequestResponse(req *domain.ParticipationRequest) RequestResponse {
	return RequestResponse{
		ID:        req.ID,
		Created:   req.Created.Format(domain.DateTimeLayout),
		Event:     req.EventID,
		Requester: req.RequesterID,
		Status:    string(req.Status),
	}
}

func newRequestResponses(reqs []*domain.ParticipationRequest) []RequestResponse {
	out := make([]RequestResponse, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, newRequestResponse(req))
	}
	return out
}

// StatusUpdateRequest is the request body for the batch request decision
// endpoint. Status must be CONFIRMED or REJECTED.
type StatusUpdateRequest struct {
	RequestIDs []int64 `json:"requestIds"`
	Status     string  `json:"status"`
}

// Validate implements Validator.
func (s StatusUpdateRequest) Validate() []string {
	var errs []string
	if s.Status == "" {
		errs = append(errs, "status is required")
	}
	return errs
}

// StatusUpdateResponse reports the requests touched by a batch decision.
type StatusUpdateResponse struct {
	ConfirmedRequests []RequestResponse `json:"confirmedRequests"`
	RejectedRequests  []RequestResponse `json:"rejectedRequests"`
}

type RequestController struct {
	Logger  *slog.Logger
	Service domain.RequestService
}

func NewRequestController(logger *slog.Logger, svc domain.RequestService) *RequestController {
	return &RequestController{
		Logger:  logger,
		Service: svc,
	}
}

// GetUserRequests godoc
// @Summary List the user's participation requests
// @Description Returns the user's requests in other users' events.
// @Tags requests
// @Produce json
// @Param userID path int true "Requester user ID"
// @Success 200 {array} controllers.RequestResponse
// @Failure 404 {object} helpers.APIError
// @Router /users/{userID}/requests [get]
func (c *RequestController) GetUserRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(w, r, "userID")
	if !ok {
		return
	}
	reqs, err := c.Service.GetUserRequests(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, newRequestResponses(reqs))
}

// AddRequest godoc
// @Summary Request participation in an event
// @Description Creates a participation request for the event given by the eventId query parameter. Rejected with 409 when the user initiated the event, the event is unpublished, a request already exists, or the participant limit is reached.
// @Tags requests
// @Produce json
// @Param userID path int true "Requester user ID"
// @Param eventId query int true "Event ID"
// @Success 201 {object} controllers.RequestResponse
// @Failure 400 {object} helpers.APIError
// @Failure 404 {object} helpers.APIError
// @Failure 409 {object} helpers.APIError
// @Router /users/{userID}/requests [post]
func (c *RequestController) AddRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(w, r, "userID")
	if !ok {
		return
	}
	eventID, err := strconv.ParseInt(r.URL.Query().Get("eventId"), 10, 64)
	if err != nil || eventID <= 0 {
		helpers.WriteError(w, domain.ErrBadRequest)
		return
	}
	req, err := c.Service.AddRequest(r.Context(), userID, eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, newRequestResponse(req))
}

// CancelRequest godoc
// @Summary Cancel the user's own participation request
// @Tags requests
// @Produce json
// @Param userID path int true "Requester user ID"
// @Param requestID path int true "Request ID"
// @Success 200 {object} controllers.RequestResponse
// @Failure 404 {object} helpers.APIError
// @Router /users/{userID}/requests/{requestID}/cancel [patch]
func (c *RequestController) CancelRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(w, r, "userID")
	if !ok {
		return
	}
	requestID, ok := helpers.ParseID(w, r, "requestID")
	if !ok {
		return
	}
	req, err := c.Service.CancelRequest(r.Context(), userID, requestID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, newRequestResponse(req))
}

// GetEventRequests godoc
// @Summary List participation requests for the user's event
// @Tags requests
// @Produce json
// @Param userID path int true "Initiator user ID"
// @Param eventID path int true "Event ID"
// @Success 200 {array} controllers.RequestResponse
// @Failure 404 {object} helpers.APIError
// @Router /users/{userID}/events/{eventID}/requests [get]
func (c *RequestController) GetEventRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(w, r, "userID")
	if !ok {
		return
	}
	eventID, ok := helpers.ParseID(w, r, "eventID")
	if !ok {
		return
	}
	reqs, err := c.Service.GetEventRequests(r.Context(), userID, eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, newRequestResponses(reqs))
}

// UpdateEventRequests godoc
// @Summary Confirm or reject pending requests for the user's event
// @Description Applies the given status to the listed PENDING requests. Confirmations stop with 409 once the participant limit fills; filling the last slot rejects every remaining pending request.
// @Tags requests
// @Accept json
// @Produce json
// @Param userID path int true "Initiator user ID"
// @Param eventID path int true "Event ID"
// @Param body body StatusUpdateRequest true "Request IDs and the target status"
// @Success 200 {object} controllers.StatusUpdateResponse
// @Failure 400 {object} helpers.APIError
// @Failure 404 {object} helpers.APIError
// @Failure 409 {object} helpers.APIError
// @Router /users/{userID}/events/{eventID}/requests [patch]
func (c *RequestController) UpdateEventRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(w, r, "userID")
	if !ok {
		return
	}
	eventID, ok := helpers.ParseID(w, r, "eventID")
	if !ok {
		return
	}
	var req StatusUpdateRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	status, err := domain.ParseRequestStatus(req.Status)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}
	result, err := c.Service.UpdateEventRequests(r.Context(), userID, eventID, status, req.RequestIDs)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, StatusUpdateResponse{
		ConfirmedRequests: newRequestResponses(result.Confirmed),
		RejectedRequests:  newRequestResponses(result.Rejected),
	})
}
