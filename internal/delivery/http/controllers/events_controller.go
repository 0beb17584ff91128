package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventboard/internal/delivery/http/helpers"
	"eventboard/internal/domain"
)

// writeServiceError logs unexpected failures and writes the mapped APIError.
// Domain sentinel errors are expected outcomes and are not logged.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	known := errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrBadRequest)
	if !known {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	helpers.WriteError(w, err)
}

// clientIP extracts the caller's address for the stats collector.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// parseIDList reads a repeated or comma-separated int64 query parameter.
func parseIDList(r *http.Request, name string) ([]int64, error) {
	var ids []int64
	for _, raw := range r.URL.Query()[name] {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			id, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid %s value %q: %w", name, s, domain.ErrBadRequest)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// parseTimeParam reads an optional timestamp query parameter in the API
// layout. Missing parameter returns nil.
func parseTimeParam(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateTimeLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", name, s, domain.ErrBadRequest)
	}
	return &t, nil
}

// LocationDTO is the geographic point in event payloads.
type LocationDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewEventRequest is the request body for POST /users/{userID}/events.
type NewEventRequest struct {
	Title             string      `json:"title"`
	Annotation        string      `json:"annotation"`
	Description       string      `json:"description"`
	Category          int64       `json:"category"`
	Location          LocationDTO `json:"location"`
	Paid              bool        `json:"paid"`
	ParticipantLimit  int         `json:"participantLimit"`
	RequestModeration *bool       `json:"requestModeration"`
	EventDate         string      `json:"eventDate"`
}

// Validate implements Validator.
func (n NewEventRequest) Validate() []string {
	var errs []string
	if l := len(strings.TrimSpace(n.Title)); l < 3 || l > 120 {
		errs = append(errs, "title must be 3..120 characters")
	}
	if l := len(strings.TrimSpace(n.Annotation)); l < 20 || l > 2000 {
		errs = append(errs, "annotation must be 20..2000 characters")
	}
	if l := len(strings.TrimSpace(n.Description)); l < 20 || l > 7000 {
		errs = append(errs, "description must be 20..7000 characters")
	}
	if n.Category <= 0 {
		errs = append(errs, "category is required")
	}
	if n.ParticipantLimit < 0 {
		errs = append(errs, "participantLimit must be non-negative")
	}
	if n.EventDate == "" {
		errs = append(errs, "eventDate is required")
	}
	return errs
}

// UpdateEventRequest is the request body for the PATCH event endpoints.
// All fields are optional; omitted fields are unchanged. StateAction accepts
// the initiator actions on the user endpoint and the admin actions on the
// admin endpoint.
type UpdateEventRequest struct {
	Title             *string      `json:"title"`
	Annotation        *string      `json:"annotation"`
	Description       *string      `json:"description"`
	Category          *int64       `json:"category"`
	Location          *LocationDTO `json:"location"`
	Paid              *bool        `json:"paid"`
	ParticipantLimit  *int         `json:"participantLimit"`
	RequestModeration *bool        `json:"requestModeration"`
	EventDate         *string      `json:"eventDate"`
	StateAction       string       `json:"stateAction"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil {
		if l := len(strings.TrimSpace(*u.Title)); l < 3 || l > 120 {
			errs = append(errs, "title must be 3..120 characters")
		}
	}
	if u.Annotation != nil {
		if l := len(strings.TrimSpace(*u.Annotation)); l < 20 || l > 2000 {
			errs = append(errs, "annotation must be 20..2000 characters")
		}
	}
	if u.Description != nil {
		if l := len(strings.TrimSpace(*u.Description)); l < 20 || l > 7000 {
			errs = append(errs, "description must be 20..7000 characters")
		}
	}
	if u.ParticipantLimit != nil && *u.ParticipantLimit < 0 {
		errs = append(errs, "participantLimit must be non-negative")
	}
	return errs
}

// patch converts the DTO into a domain patch. The event date string is
// validated against the API layout.
func (u UpdateEventRequest) patch() (domain.EventPatch, error) {
	p := domain.EventPatch{
		Title:             u.Title,
		Annotation:        u.Annotation,
		Description:       u.Description,
		CategoryID:        u.Category,
		Paid:              u.Paid,
		ParticipantLimit:  u.ParticipantLimit,
		RequestModeration: u.RequestModeration,
	}
	if u.Location != nil {
		p.Location = &domain.Location{Lat: u.Location.Lat, Lon: u.Location.Lon}
	}
	if u.EventDate != nil {
		t, err := time.Parse(domain.DateTimeLayout, *u.EventDate)
		if err != nil {
			return domain.EventPatch{}, fmt.Errorf("invalid eventDate %q: %w", *u.EventDate, domain.ErrBadRequest)
		}
		p.EventDate = &t
	}
	return p, nil
}

// EventResponse is the event payload returned by every event endpoint.
type EventResponse struct {
	ID                int64       `json:"id"`
	Title             string      `json:"title"`
	Annotation        string      `json:"annotation"`
	Description       string      `json:"description"`
	Category          int64       `json:"category"`
	Initiator         int64       `json:"initiator"`
	Location          LocationDTO `json:"location"`
	Paid              bool        `json:"paid"`
	ParticipantLimit  int         `json:"participantLimit"`
	RequestModeration bool        `json:"requestModeration"`
	EventDate         string      `json:"eventDate"`
	CreatedOn         string      `json:"createdOn"`
	PublishedOn       string      `json:"publishedOn,omitempty"`
	State             string      `json:"state"`
	ConfirmedRequests int         `json:"confirmedRequests"`
	Views             int64       `json:"views"`
}

func newEventResponse(d *domain.EventDetails) EventResponse {
	e := d.Event
	resp := EventResponse{
		ID:                e.ID,
		Title:             e.Title,
		Annotation:        e.Annotation,
		Description:       e.Description,
		Category:          e.CategoryID,
		Initiator:         e.InitiatorID,
		Location:          LocationDTO{Lat: e.Location.Lat, Lon: e.Location.Lon},
		Paid:              e.Paid,
		ParticipantLimit:  e.ParticipantLimit,
		RequestModeration: e.RequestModeration,
		EventDate:         e.EventDate.Format(domain.DateTimeLayout),
		CreatedOn:         e.CreatedOn.Format(domain.DateTimeLayout),
		State:             string(e.State),
		ConfirmedRequests: d.ConfirmedRequests,
		Views:             d.Views,
	}
	if e.PublishedOn != nil {
		resp.PublishedOn = e.PublishedOn.Format(domain.DateTimeLayout)
	}
	return resp
}

func newEventResponses(details []*domain.EventDetails) []EventResponse {
	out := make([]EventResponse, 0, len(details))
	for _, d := range details {
		out = append(out, newEventResponse(d))
	}
	return out
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create an event owned by the user. The event starts in PENDING state; the event date must be at least two hours in the future.
// @Tags events
// @Accept json
// @Produce json
// @Param userID path int true "Initiator user ID"
// @Param event body NewEventRequest true "Event data"
// @Success 201 {object} controllers.EventResponse
// @Failure 400 {object} helpers.APIError
// @Failure 404 {object} helpers.APIError
// @Failure 409 {object} helpers.APIError
// @Router /users/{userID}/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(w, r, "userID")
	if !ok {
		return
	}
	var req NewEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	eventDate, err := time.Parse(domain.DateTimeLayout, req.EventDate)
	if err != nil {
		helpers.WriteError(w, fmt.Errorf("invalid eventDate %q: %w", req.EventDate, domain.ErrBadRequest))
		return
	}
	moderation := true
	if req.RequestModeration != nil {
		moderation = *req.RequestModeration
	}
	draft := &domain.Event{
		Title:             req.Title,
		Annotation:        req.Annotation,
		Description:       req.Description,
		CategoryID:        req.Category,
		Location:          domain.Location{Lat: req.Location.Lat, Lon: req.Location.Lon},
		Paid:              req.Paid,
		ParticipantLimit:  req.ParticipantLimit,
		RequestModeration: moderation,
		EventDate:         eventDate,
	}
	details, err := c.Service.CreateEvent(r.Context(), userID, draft)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, newEventResponse(details))
}

// GetUserEvents godoc
// @Summary List events created by the user
// @Tags events
// @Produce json
// @Param userID path int true "Initiator user ID"
// @Param from query int false "Rows to skip (default 0)"
// @Param size query int false "Page size (default 10)"
// @Success 200 {array} controllers.EventResponse
// @Failure 404 {object} helpers.APIError
// @Router /users/{userID}/events [get]
func (c *EventController) GetUserEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(w, r, "userID")
	if !ok {
		return
	}
	details, err := c.Service.GetUserEvents(r.Context(), userID, helpers.ParsePagination(r))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, newEventResponses(details))
}

// GetUserEvent godoc
// @Summary Get one of the user's events
// @Tags events
// @Produce json
// @Param userID path int true "Initiator user ID"
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.EventResponse
// @Failure 404 {object} helpers.APIError
// @Router /users/{userID}/events/{eventID} [get]
func (c *EventController) GetUserEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(w, r, "userID")
	if !ok {
		return
	}
	eventID, ok := helpers.ParseID(w, r, "eventID")
	if !ok {
		return
	}
	details, err := c.Service.GetUserEvent(r.Context(), userID, eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, newEventResponse(details))
}

// UpdateUserEvent godoc
// @Summary Edit one of the user's events
// @Description Only PENDING or CANCELED events can be edited. stateAction accepts SEND_TO_REVIEW and CANCEL_REVIEW.
// @Tags events
// @Accept json
// @Produce json
// @Param userID path int true "Initiator user ID"
// @Param eventID path int true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.EventResponse
// @Failure 400 {object} helpers.APIError
// @Failure 404 {object} helpers.APIError
// @Failure 409 {object} helpers.APIError
// @Router /users/{userID}/events/{eventID} [patch]
func (c *EventController) UpdateUserEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(w, r, "userID")
	if !ok {
		return
	}
	eventID, ok := helpers.ParseID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	action, err := domain.ParseUserStateAction(req.StateAction)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}
	patch, err := req.patch()
	if err != nil {
		helpers.WriteError(w, err)
		return
	}
	details, err := c.Service.UpdateUserEvent(r.Context(), userID, eventID, patch, action)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, newEventResponse(details))
}

// SearchAdminEvents godoc
// @Summary Admin event search
// @Description Filter events by initiators, states, categories and event date range.
// @Tags admin
// @Produce json
// @Param users query []int false "Initiator IDs"
// @Param states query []string false "Event states"
// @Param categories query []int false "Category IDs"
// @Param rangeStart query string false "Earliest event date (yyyy-MM-dd HH:mm:ss)"
// @Param rangeEnd query string false "Latest event date (yyyy-MM-dd HH:mm:ss)"
// @Param from query int false "Rows to skip (default 0)"
// @Param size query int false "Page size (default 10)"
// @Success 200 {array} controllers.EventResponse
// @Failure 400 {object} helpers.APIError
// @Router /admin/events [get]
func (c *EventController) SearchAdminEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := adminFilterFromQuery(r)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}
	details, err := c.Service.SearchAdminEvents(r.Context(), filter, helpers.ParsePagination(r))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, newEventResponses(details))
}

func adminFilterFromQuery(r *http.Request) (domain.AdminEventFilter, error) {
	var filter domain.AdminEventFilter
	var err error
	if filter.UserIDs, err = parseIDList(r, "users"); err != nil {
		return filter, err
	}
	if filter.CategoryIDs, err = parseIDList(r, "categories"); err != nil {
		return filter, err
	}
	for _, raw := range r.URL.Query()["states"] {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			state, err := domain.ParseEventState(s)
			if err != nil {
				return filter, err
			}
			filter.States = append(filter.States, state)
		}
	}
	if filter.RangeStart, err = parseTimeParam(r, "rangeStart"); err != nil {
		return filter, err
	}
	if filter.RangeEnd, err = parseTimeParam(r, "rangeEnd"); err != nil {
		return filter, err
	}
	return filter, nil
}

// UpdateAdminEvent godoc
// @Summary Admin event moderation
// @Description Publish or reject a submitted event. stateAction accepts PUBLISH_EVENT and REJECT_EVENT; publishing requires a PENDING event dated at least one hour ahead.
// @Tags admin
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.EventResponse
// @Failure 400 {object} helpers.APIError
// @Failure 404 {object} helpers.APIError
// @Failure 409 {object} helpers.APIError
// @Router /admin/events/{eventID} [patch]
func (c *EventController) UpdateAdminEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.ParseID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	action, err := domain.ParseAdminStateAction(req.StateAction)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}
	patch, err := req.patch()
	if err != nil {
		helpers.WriteError(w, err)
		return
	}
	details, err := c.Service.UpdateAdminEvent(r.Context(), eventID, patch, action)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, newEventResponse(details))
}

// SearchPublicEvents godoc
// @Summary Public event search
// @Description Full-text and filter search over PUBLISHED events. Every call is recorded as a hit with the stats collector.
// @Tags public
// @Produce json
// @Param text query string false "Text matched against title, annotation and description"
// @Param categories query []int false "Category IDs"
// @Param paid query bool false "Paid events only"
// @Param rangeStart query string false "Earliest event date; defaults to now"
// @Param rangeEnd query string false "Latest event date"
// @Param onlyAvailable query bool false "Only events with free slots"
// @Param sort query string false "EVENT_DATE or VIEWS"
// @Param from query int false "Rows to skip (default 0)"
// @Param size query int false "Page size (default 10)"
// @Success 200 {array} controllers.EventResponse
// @Failure 400 {object} helpers.APIError
// @Router /events [get]
func (c *EventController) SearchPublicEvents(w http.ResponseWriter, r *http.Request) {
	filter, opts, err := publicSearchFromQuery(r)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}
	details, err := c.Service.SearchPublicEvents(r.Context(), filter, opts, helpers.ParsePagination(r), clientIP(r), r.URL.Path)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, newEventResponses(details))
}

func publicSearchFromQuery(r *http.Request) (domain.PublicEventFilter, domain.PublicSearchOptions, error) {
	var filter domain.PublicEventFilter
	var opts domain.PublicSearchOptions
	var err error

	filter.Text = strings.TrimSpace(r.URL.Query().Get("text"))
	if filter.CategoryIDs, err = parseIDList(r, "categories"); err != nil {
		return filter, opts, err
	}
	if s := r.URL.Query().Get("paid"); s != "" {
		paid, err := strconv.ParseBool(s)
		if err != nil {
			return filter, opts, fmt.Errorf("invalid paid value %q: %w", s, domain.ErrBadRequest)
		}
		filter.Paid = &paid
	}
	if filter.RangeStart, err = parseTimeParam(r, "rangeStart"); err != nil {
		return filter, opts, err
	}
	if filter.RangeEnd, err = parseTimeParam(r, "rangeEnd"); err != nil {
		return filter, opts, err
	}
	if s := r.URL.Query().Get("onlyAvailable"); s != "" {
		opts.OnlyAvailable, err = strconv.ParseBool(s)
		if err != nil {
			return filter, opts, fmt.Errorf("invalid onlyAvailable value %q: %w", s, domain.ErrBadRequest)
		}
	}
	if opts.Sort, err = domain.ParseEventSort(r.URL.Query().Get("sort")); err != nil {
		return filter, opts, err
	}
	return filter, opts, nil
}

// GetPublicEvent godoc
// @Summary Get a published event
// @Description Returns a PUBLISHED event with its view count. The call itself is recorded as a hit.
// @Tags public
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.EventResponse
// @Failure 404 {object} helpers.APIError
// @Router /events/{eventID} [get]
func (c *EventController) GetPublicEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.ParseID(w, r, "eventID")
	if !ok {
		return
	}
	details, err := c.Service.GetPublicEvent(r.Context(), eventID, clientIP(r), r.URL.Path)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, newEventResponse(details))
}
