package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the textual timestamp format used at every API boundary,
// including the stats collector. Fixed, non-ISO, no timezone.
const DateTimeLayout = "2006-01-02 15:04:05"

// EventState is the lifecycle state of an event.
type EventState string

const (
	EventStatePending   EventState = "PENDING"
	EventStatePublished EventState = "PUBLISHED"
	EventStateCanceled  EventState = "CANCELED"
)

// ParseEventState converts a state token to an EventState, case-insensitively.
func ParseEventState(s string) (EventState, error) {
	switch EventState(strings.ToUpper(s)) {
	case EventStatePending:
		return EventStatePending, nil
	case EventStatePublished:
		return EventStatePublished, nil
	case EventStateCanceled:
		return EventStateCanceled, nil
	default:
		return "", fmt.Errorf("unknown event state %q: %w", s, ErrBadRequest)
	}
}

// UserStateAction is a lifecycle action available to the event's initiator.
type UserStateAction string

const (
	StateActionSendToReview UserStateAction = "SEND_TO_REVIEW"
	StateActionCancelReview UserStateAction = "CANCEL_REVIEW"
)

// ParseUserStateAction converts an action token to a UserStateAction.
// The empty string means "no state change" and is returned as-is.
func ParseUserStateAction(s string) (UserStateAction, error) {
	switch UserStateAction(strings.ToUpper(s)) {
	case "":
		return "", nil
	case StateActionSendToReview:
		return StateActionSendToReview, nil
	case StateActionCancelReview:
		return StateActionCancelReview, nil
	default:
		return "", fmt.Errorf("unknown state action %q: %w", s, ErrBadRequest)
	}
}

// AdminStateAction is a lifecycle action available to an administrator.
type AdminStateAction string

const (
	StateActionPublishEvent AdminStateAction = "PUBLISH_EVENT"
	StateActionRejectEvent  AdminStateAction = "REJECT_EVENT"
)

// ParseAdminStateAction converts an action token to an AdminStateAction.
// The empty string means "no state change" and is returned as-is.
func ParseAdminStateAction(s string) (AdminStateAction, error) {
	switch AdminStateAction(strings.ToUpper(s)) {
	case "":
		return "", nil
	case StateActionPublishEvent:
		return StateActionPublishEvent, nil
	case StateActionRejectEvent:
		return StateActionRejectEvent, nil
	default:
		return "", fmt.Errorf("unknown state action %q: %w", s, ErrBadRequest)
	}
}

// EventSort orders public search results.
type EventSort string

const (
	EventSortDate  EventSort = "EVENT_DATE"
	EventSortViews EventSort = "VIEWS"
)

// ParseEventSort converts a sort token to an EventSort. Empty defaults to
// EVENT_DATE.
func ParseEventSort(s string) (EventSort, error) {
	switch EventSort(strings.ToUpper(s)) {
	case "":
		return EventSortDate, nil
	case EventSortDate:
		return EventSortDate, nil
	case EventSortViews:
		return EventSortViews, nil
	default:
		return "", fmt.Errorf("unknown sort %q: %w", s, ErrBadRequest)
	}
}

// Location is a geographic point where an event takes place.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Event is an organizer-published happening with a participant capacity.
// ParticipantLimit zero means unlimited; RequestModeration false means every
// admitted participation request is confirmed automatically.
type Event struct {
	ID                int64
	Title             string
	Annotation        string
	Description       string
	CategoryID        int64
	InitiatorID       int64
	Location          Location
	Paid              bool
	ParticipantLimit  int
	RequestModeration bool
	EventDate         time.Time
	CreatedOn         time.Time
	PublishedOn       *time.Time
	State             EventState
}

// EventPatch carries optional field changes for an event update. A nil field
// leaves the current value untouched.
type EventPatch struct {
	Title             *string
	Annotation        *string
	Description       *string
	CategoryID        *int64
	Location          *Location
	Paid              *bool
	ParticipantLimit  *int
	RequestModeration *bool
	EventDate         *time.Time
}

// EventDetails bundles an event with its derived counters: the confirmed
// participation count recomputed from the request store, and the view count
// reported by the stats collector.
type EventDetails struct {
	Event             *Event
	ConfirmedRequests int
	Views             int64
}

// AdminEventFilter narrows the admin event search. Empty slices and nil
// bounds mean "no restriction".
type AdminEventFilter struct {
	UserIDs     []int64
	States      []EventState
	CategoryIDs []int64
	RangeStart  *time.Time
	RangeEnd    *time.Time
}

// PublicEventFilter narrows the public event search. Only PUBLISHED events
// are ever returned; Text matches title, annotation, or description.
type PublicEventFilter struct {
	Text        string
	CategoryIDs []int64
	Paid        *bool
	RangeStart  *time.Time
	RangeEnd    *time.Time
}

// PublicSearchOptions control post-filtering and ordering of public search.
type PublicSearchOptions struct {
	OnlyAvailable bool
	Sort          EventSort
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	Update(ctx context.Context, event *Event) error
	ListByInitiator(ctx context.Context, initiatorID int64, page PaginationParams) ([]*Event, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*Event, error)
	CountByCategory(ctx context.Context, categoryID int64) (int, error)
	SearchAdmin(ctx context.Context, filter AdminEventFilter, page PaginationParams) ([]*Event, error)
	SearchPublic(ctx context.Context, filter PublicEventFilter, page PaginationParams) ([]*Event, error)
}

// EventService owns the event lifecycle: creation, initiator edits, admin
// publish/reject, and the read paths enriched with confirmed counts and views.
type EventService interface {
	CreateEvent(ctx context.Context, userID int64, draft *Event) (*EventDetails, error)
	GetUserEvents(ctx context.Context, userID int64, page PaginationParams) ([]*EventDetails, error)
	GetUserEvent(ctx context.Context, userID, eventID int64) (*EventDetails, error)
	UpdateUserEvent(ctx context.Context, userID, eventID int64, patch EventPatch, action UserStateAction) (*EventDetails, error)
	SearchAdminEvents(ctx context.Context, filter AdminEventFilter, page PaginationParams) ([]*EventDetails, error)
	UpdateAdminEvent(ctx context.Context, eventID int64, patch EventPatch, action AdminStateAction) (*EventDetails, error)
	SearchPublicEvents(ctx context.Context, filter PublicEventFilter, opts PublicSearchOptions, page PaginationParams, clientIP, uri string) ([]*EventDetails, error)
	GetPublicEvent(ctx context.Context, eventID int64, clientIP, uri string) (*EventDetails, error)
}
