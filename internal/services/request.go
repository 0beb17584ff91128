package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventboard/internal/domain"
)

type requestService struct {
	requestRepo    domain.RequestRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	locks          *eventLocks
	contextTimeout time.Duration
}

// NewRequestService creates a RequestService with the given repositories.
func NewRequestService(
	requestRepo domain.RequestRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	timeout time.Duration,
) domain.RequestService {
	return &requestService{
		requestRepo:    requestRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		locks:          newEventLocks(),
		contextTimeout: timeout,
	}
}

func (s *requestService) GetUserRequests(ctx context.Context, userID int64) ([]*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	reqs, err := s.requestRepo.ListByRequester(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	if reqs == nil {
		reqs = []*domain.ParticipationRequest{}
	}
	return reqs, nil
}

func (s *requestService) AddRequest(ctx context.Context, userID, eventID int64) (*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	// The capacity check and the insert below must be one atomic unit per
	// event, otherwise two admissions can both take the last slot.
	unlock := s.locks.lock(eventID)
	defer unlock()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("event with id=%d was not found: %w", eventID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if event.InitiatorID == userID {
		return nil, fmt.Errorf("initiator cannot request participation in own event: %w", domain.ErrConflict)
	}
	if event.State != domain.EventStatePublished {
		return nil, fmt.Errorf("only published events accept participation requests: %w", domain.ErrConflict)
	}

	exists, err := s.requestRepo.ExistsByRequesterAndEvent(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("check existing request: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("request already exists: %w", domain.ErrConflict)
	}

	if event.ParticipantLimit > 0 {
		confirmed, err := s.requestRepo.CountByEventAndStatus(ctx, eventID, domain.RequestStatusConfirmed)
		if err != nil {
			return nil, fmt.Errorf("count confirmed requests: %w", err)
		}
		if confirmed >= event.ParticipantLimit {
			return nil, fmt.Errorf("the participant limit has been reached: %w", domain.ErrConflict)
		}
	}

	status := domain.RequestStatusPending
	if !event.RequestModeration || event.ParticipantLimit == 0 {
		status = domain.RequestStatusConfirmed
	}

	req := &domain.ParticipationRequest{
		Created:     time.Now(),
		EventID:     eventID,
		RequesterID: userID,
		Status:      status,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create request: %w", err)
	}
	return req, nil
}

func (s *requestService) CancelRequest(ctx context.Context, userID, requestID int64) (*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("request with id=%d was not found: %w", requestID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	// Another user's request is reported as absent, not forbidden.
	if req.RequesterID != userID {
		return nil, fmt.Errorf("request with id=%d was not found for user=%d: %w", requestID, userID, domain.ErrNotFound)
	}

	// Unconditional: cancelling an already-confirmed request simply frees its
	// slot. Queued PENDING requests are not promoted to fill it.
	req.Status = domain.RequestStatusCanceled
	if err := s.requestRepo.UpdateStatusByIDs(ctx, []int64{req.ID}, domain.RequestStatusCanceled); err != nil {
		return nil, fmt.Errorf("cancel request: %w", err)
	}
	return req, nil
}

func (s *requestService) GetEventRequests(ctx context.Context, userID, eventID int64) ([]*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedEvent(ctx, userID, eventID); err != nil {
		return nil, err
	}
	reqs, err := s.requestRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event requests: %w", err)
	}
	if reqs == nil {
		reqs = []*domain.ParticipationRequest{}
	}
	return reqs, nil
}

func (s *requestService) UpdateEventRequests(ctx context.Context, userID, eventID int64, target domain.RequestStatus, requestIDs []int64) (*domain.StatusUpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// Serialized against admissions and other batch updates on this event.
	unlock := s.locks.lock(eventID)
	defer unlock()

	event, err := s.ownedEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	// Requests on such events are confirmed automatically; there is nothing
	// to resolve by hand.
	if !event.RequestModeration || event.ParticipantLimit == 0 {
		return nil, fmt.Errorf("confirmation is not required for this event: %w", domain.ErrConflict)
	}

	result := &domain.StatusUpdateResult{
		Confirmed: []*domain.ParticipationRequest{},
		Rejected:  []*domain.ParticipationRequest{},
	}
	// An empty batch short-circuits before the target token is even looked at.
	if len(requestIDs) == 0 {
		return result, nil
	}

	if target != domain.RequestStatusConfirmed && target != domain.RequestStatusRejected {
		return nil, fmt.Errorf("unknown target status %q: %w", target, domain.ErrBadRequest)
	}

	// Ids that match no request are skipped; the batch proceeds on the
	// found subset.
	requests, err := s.requestRepo.ListByIDs(ctx, requestIDs)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	// All-or-nothing precondition check before any mutation.
	for _, r := range requests {
		if r.EventID != eventID {
			return nil, fmt.Errorf("request with id=%d was not found for event=%d: %w", r.ID, eventID, domain.ErrNotFound)
		}
		if r.Status != domain.RequestStatusPending {
			return nil, fmt.Errorf("only pending requests can be modified: %w", domain.ErrConflict)
		}
	}

	if target == domain.RequestStatusRejected {
		ids := make([]int64, 0, len(requests))
		for _, r := range requests {
			r.Status = domain.RequestStatusRejected
			ids = append(ids, r.ID)
			result.Rejected = append(result.Rejected, r)
		}
		if err := s.requestRepo.UpdateStatusByIDs(ctx, ids, domain.RequestStatusRejected); err != nil {
			return nil, fmt.Errorf("reject requests: %w", err)
		}
		return result, nil
	}

	confirmedNow, err := s.requestRepo.CountByEventAndStatus(ctx, eventID, domain.RequestStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("count confirmed requests: %w", err)
	}
	limit := event.ParticipantLimit

	confirmedIDs := make([]int64, 0, len(requests))
	for _, r := range requests {
		if confirmedNow >= limit {
			// The guard trips before the limit is exceeded, so requests
			// confirmed earlier in this batch stay confirmed.
			if len(confirmedIDs) > 0 {
				if err := s.requestRepo.UpdateStatusByIDs(ctx, confirmedIDs, domain.RequestStatusConfirmed); err != nil {
					return nil, fmt.Errorf("confirm requests: %w", err)
				}
			}
			return nil, fmt.Errorf("the participant limit has been reached: %w", domain.ErrConflict)
		}
		r.Status = domain.RequestStatusConfirmed
		confirmedNow++
		confirmedIDs = append(confirmedIDs, r.ID)
		result.Confirmed = append(result.Confirmed, r)
	}
	if err := s.requestRepo.UpdateStatusByIDs(ctx, confirmedIDs, domain.RequestStatusConfirmed); err != nil {
		return nil, fmt.Errorf("confirm requests: %w", err)
	}

	// Once the limit is closed, every leftover PENDING request of the event is
	// rejected as a side effect. Those rows are not part of the returned lists.
	if confirmedNow >= limit {
		if _, err := s.requestRepo.RejectAllPending(ctx, eventID); err != nil {
			return nil, fmt.Errorf("reject pending requests: %w", err)
		}
	}
	return result, nil
}

func (s *requestService) ensureUser(ctx context.Context, userID int64) error {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return fmt.Errorf("user with id=%d was not found: %w", userID, domain.ErrNotFound)
	}
	return nil
}

// ownedEvent loads the event and hides it behind not-found when the caller is
// not its initiator.
func (s *requestService) ownedEvent(ctx context.Context, userID, eventID int64) (*domain.Event, error) {
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
