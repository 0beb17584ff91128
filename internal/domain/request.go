package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RequestStatus is the state of a participation request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusConfirmed RequestStatus = "CONFIRMED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCanceled  RequestStatus = "CANCELED"
)

// ParseRequestStatus converts a status token to a RequestStatus,
// case-insensitively.
func ParseRequestStatus(s string) (RequestStatus, error) {
	switch RequestStatus(strings.ToUpper(s)) {
	case RequestStatusPending:
		return RequestStatusPending, nil
	case RequestStatusConfirmed:
		return RequestStatusConfirmed, nil
	case RequestStatusRejected:
		return RequestStatusRejected, nil
	case RequestStatusCanceled:
		return RequestStatusCanceled, nil
	default:
		return "", fmt.Errorf("unknown request status %q: %w", s, ErrBadRequest)
	}
}

// ParticipationRequest is a user's request to participate in an event. It is
// a join entity: it belongs to neither the user nor the event, and at most
// one request may exist per (event, requester) pair.
type ParticipationRequest struct {
	ID          int64
	Created     time.Time
	EventID     int64
	RequesterID int64
	Status      RequestStatus
}

// StatusUpdateResult reports the requests mutated by a batch status update.
// Requests rejected as a cascade side effect of the limit filling up are not
// included.
type StatusUpdateResult struct {
	Confirmed []*ParticipationRequest
	Rejected  []*ParticipationRequest
}

// RequestRepository defines storage operations for participation requests.
// The unique (event, requester) constraint is enforced at this layer;
// Create reports a violation as ErrConflict.
type RequestRepository interface {
	Create(ctx context.Context, req *ParticipationRequest) error
	GetByID(ctx context.Context, id int64) (*ParticipationRequest, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]*ParticipationRequest, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*ParticipationRequest, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*ParticipationRequest, error)
	ExistsByRequesterAndEvent(ctx context.Context, requesterID, eventID int64) (bool, error)
	// CountByEventAndStatus recomputes the per-event count for a status; with
	// RequestStatusConfirmed it is the capacity ledger.
	CountByEventAndStatus(ctx context.Context, eventID int64, status RequestStatus) (int, error)
	UpdateStatusByIDs(ctx context.Context, ids []int64, status RequestStatus) error
	// RejectAllPending flips every PENDING request of the event to REJECTED and
	// returns the number of rows affected.
	RejectAllPending(ctx context.Context, eventID int64) (int64, error)
}

// RequestService decides the fate of participation requests under the
// capacity invariant: the number of CONFIRMED requests for an event never
// exceeds its participant limit when the limit is positive.
type RequestService interface {
	GetUserRequests(ctx context.Context, userID int64) ([]*ParticipationRequest, error)
	AddRequest(ctx context.Context, userID, eventID int64) (*ParticipationRequest, error)
	CancelRequest(ctx context.Context, userID, requestID int64) (*ParticipationRequest, error)
	GetEventRequests(ctx context.Context, userID, eventID int64) ([]*ParticipationRequest, error)
	UpdateEventRequests(ctx context.Context, userID, eventID int64, target RequestStatus, requestIDs []int64) (*StatusUpdateResult, error)
}
