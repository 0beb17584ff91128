package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"eventboard/internal/domain"
)

// Minimum lead between "now" and the event date required for an operation to
// succeed.
const (
	editLeadTime    = 2 * time.Hour // initiator create/edit
	publishLeadTime = 1 * time.Hour // admin publish
)

// statsWindowStart is the lower bound used when asking the collector for
// all-time view counts.
var statsWindowStart = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

type eventService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	categoryRepo   domain.CategoryRepository
	requestRepo    domain.RequestRepository
	stats          domain.StatsClient
	contextTimeout time.Duration
}

// NewEventService creates an EventService with the given repositories and
// stats collector client.
func NewEventService(
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	categoryRepo domain.CategoryRepository,
	requestRepo domain.RequestRepository,
	stats domain.StatsClient,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		categoryRepo:   categoryRepo,
		requestRepo:    requestRepo,
		stats:          stats,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, userID int64, draft *domain.Event) (*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("user with id=%d was not found: %w", userID, domain.ErrNotFound)
	}
	if _, err := s.categoryRepo.GetByID(ctx, draft.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("category with id=%d was not found: %w", draft.CategoryID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	if draft.EventDate.Before(time.Now().Add(editLeadTime)) {
		return nil, fmt.Errorf("event date must be at least 2 hours in the future: %w", domain.ErrBadRequest)
	}

	draft.InitiatorID = userID
	draft.CreatedOn = time.Now()
	draft.State = domain.EventStatePending
	if err := s.eventRepo.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	// A fresh event is PENDING and admission requires PUBLISHED, so its
	// confirmed count is zero without recounting.
	return &domain.EventDetails{Event: draft, ConfirmedRequests: 0, Views: 0}, nil
}

func (s *eventService) GetUserEvents(ctx context.Context, userID int64, page domain.PaginationParams) ([]*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("user with id=%d was not found: %w", userID, domain.ErrNotFound)
	}
	events, err := s.eventRepo.ListByInitiator(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return s.enrich(ctx, events)
}

func (s *eventService) GetUserEvent(ctx context.Context, userID, eventID int64) (*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.ownedEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	return s.enrichOne(ctx, event)
}

func (s *eventService) UpdateUserEvent(ctx context.Context, userID, eventID int64, patch domain.EventPatch, action domain.UserStateAction) (*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.ownedEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if event.State == domain.EventStatePublished {
		return nil, fmt.Errorf("only pending or canceled events can be changed: %w", domain.ErrConflict)
	}

	if err := s.applyPatch(ctx, event, patch, editLeadTime); err != nil {
		return nil, err
	}

	switch action {
	case domain.StateActionSendToReview:
		event.State = domain.EventStatePending
	case domain.StateActionCancelReview:
		event.State = domain.EventStateCanceled
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return s.enrichOne(ctx, event)
}

func (s *eventService) SearchAdminEvents(ctx context.Context, filter domain.AdminEventFilter, page domain.PaginationParams) ([]*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.SearchAdmin(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	return s.enrich(ctx, events)
}

func (s *eventService) UpdateAdminEvent(ctx context.Context, eventID int64, patch domain.EventPatch, action domain.AdminStateAction) (*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("event with id=%d was not found: %w", eventID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if err := s.applyPatch(ctx, event, patch, publishLeadTime); err != nil {
		return nil, err
	}

	switch action {
	case domain.StateActionPublishEvent:
		if event.State != domain.EventStatePending {
			return nil, fmt.Errorf("cannot publish the event because it's not in the right state: %s: %w", event.State, domain.ErrConflict)
		}
		if event.EventDate.Before(time.Now().Add(publishLeadTime)) {
			return nil, fmt.Errorf("event date must be at least 1 hour after publish time: %w", domain.ErrConflict)
		}
		now := time.Now()
		event.State = domain.EventStatePublished
		event.PublishedOn = &now
	case domain.StateActionRejectEvent:
		if event.State == domain.EventStatePublished {
			return nil, fmt.Errorf("published event cannot be rejected: %w", domain.ErrConflict)
		}
		event.State = domain.EventStateCanceled
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return s.enrichOne(ctx, event)
}

func (s *eventService) SearchPublicEvents(ctx context.Context, filter domain.PublicEventFilter, opts domain.PublicSearchOptions, page domain.PaginationParams, clientIP, uri string) ([]*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if filter.RangeStart != nil && filter.RangeEnd != nil && filter.RangeEnd.Before(*filter.RangeStart) {
		return nil, fmt.Errorf("rangeEnd must be after rangeStart: %w", domain.ErrBadRequest)
	}
	// With no explicit window, only upcoming events are shown.
	if filter.RangeStart == nil && filter.RangeEnd == nil {
		now := time.Now()
		filter.RangeStart = &now
	}

	s.stats.Hit(ctx, uri, clientIP, time.Now())

	events, err := s.eventRepo.SearchPublic(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}

	if opts.OnlyAvailable {
		available := events[:0]
		for _, e := range events {
			ok, err := s.hasAvailableSlots(ctx, e)
			if err != nil {
				return nil, err
			}
			if ok {
				available = append(available, e)
			}
		}
		events = available
	}

	details, err := s.enrich(ctx, events)
	if err != nil {
		return nil, err
	}
	if opts.Sort == domain.EventSortViews {
		sort.Slice(details, func(i, j int) bool { return details[i].Views > details[j].Views })
	}
	return details, nil
}

func (s *eventService) GetPublicEvent(ctx context.Context, eventID int64, clientIP, uri string) (*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("event with id=%d was not found: %w", eventID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	// Unpublished events are invisible to the public.
	if event.State != domain.EventStatePublished {
		return nil, fmt.Errorf("event with id=%d was not found: %w", eventID, domain.ErrNotFound)
	}

	// Views are read before the hit is recorded, then returned +1 so the
	// caller's own visit is reflected even if the collector lags.
	before := s.views(ctx, []int64{eventID})[eventID]
	s.stats.Hit(ctx, uri, clientIP, time.Now())

	confirmed, err := s.requestRepo.CountByEventAndStatus(ctx, eventID, domain.RequestStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("count confirmed requests: %w", err)
	}
	return &domain.EventDetails{Event: event, ConfirmedRequests: confirmed, Views: before + 1}, nil
}

// ===== helpers =====

func (s *eventService) ownedEvent(ctx context.Context, userID, eventID int64) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("event with id=%d was not found: %w", eventID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.InitiatorID != userID {
		return nil, fmt.Errorf("event with id=%d was not found for user=%d: %w", eventID, userID, domain.ErrNotFound)
	}
	return event, nil
}

// applyPatch copies set fields onto the event. The event date is re-checked
// against the lead-time guard on every edit that changes it.
func (s *eventService) applyPatch(ctx context.Context, event *domain.Event, patch domain.EventPatch, lead time.Duration) error {
	if patch.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *patch.CategoryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("category with id=%d was not found: %w", *patch.CategoryID, domain.ErrNotFound)
			}
			return fmt.Errorf("get category: %w", err)
		}
		event.CategoryID = *patch.CategoryID
	}
	if patch.Title != nil {
		event.Title = *patch.Title
	}
	if patch.Annotation != nil {
		event.Annotation = *patch.Annotation
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Location != nil {
		event.Location = *patch.Location
	}
	if patch.Paid != nil {
		event.Paid = *patch.Paid
	}
	if patch.ParticipantLimit != nil {
		event.ParticipantLimit = *patch.ParticipantLimit
	}
	if patch.RequestModeration != nil {
		event.RequestModeration = *patch.RequestModeration
	}
	if patch.EventDate != nil {
		if patch.EventDate.Before(time.Now().Add(lead)) {
			return fmt.Errorf("event date must be at least %d hour(s) in the future: %w", int(lead.Hours()), domain.ErrBadRequest)
		}
		event.EventDate = *patch.EventDate
	}
	return nil
}

func (s *eventService) hasAvailableSlots(ctx context.Context, e *domain.Event) (bool, error) {
	if e.ParticipantLimit == 0 {
		return true, nil
	}
	confirmed, err := s.requestRepo.CountByEventAndStatus(ctx, e.ID, domain.RequestStatusConfirmed)
	if err != nil {
		return false, fmt.Errorf("count confirmed requests: %w", err)
	}
	return confirmed < e.ParticipantLimit, nil
}

func (s *eventService) enrichOne(ctx context.Context, event *domain.Event) (*domain.EventDetails, error) {
	details, err := s.enrich(ctx, []*domain.Event{event})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

// enrich attaches confirmed counts and collector view counts to events.
func (s *eventService) enrich(ctx context.Context, events []*domain.Event) ([]*domain.EventDetails, error) {
	ids := make([]int64, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	views := s.views(ctx, ids)

	details := make([]*domain.EventDetails, 0, len(events))
	for _, e := range events {
		confirmed, err := s.requestRepo.CountByEventAndStatus(ctx, e.ID, domain.RequestStatusConfirmed)
		if err != nil {
			return nil, fmt.Errorf("count confirmed requests: %w", err)
		}
		details = append(details, &domain.EventDetails{
			Event:             e,
			ConfirmedRequests: confirmed,
			Views:             views[e.ID],
		})
	}
	return details, nil
}

// views maps event ids to all-time unique view counts. The stats client is
// best-effort and falls back to zeros, so this never fails.
func (s *eventService) views(ctx context.Context, ids []int64) map[int64]int64 {
	res := make(map[int64]int64, len(ids))
	if len(ids) == 0 {
		return res
	}
	uris := make([]string, 0, len(ids))
	for _, id := range ids {
		uris = append(uris, fmt.Sprintf("/events/%d", id))
	}
	byURI := s.stats.Views(ctx, uris, statsWindowStart, time.Now().Add(24*time.Hour), true)
	for _, id := range ids {
		res[id] = byURI[fmt.Sprintf("/events/%d", id)]
	}
	return res
}
