package domain

import (
	"context"
	"time"
)

// Comment is a user remark on a published event. UpdatedOn is nil until the
// first edit.
type Comment struct {
	ID        int64
	EventID   int64
	AuthorID  int64
	Text      string
	CreatedOn time.Time
	UpdatedOn *time.Time
}

// CommentRepository defines the interface for comment storage.
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id int64) (*Comment, error)
	Update(ctx context.Context, comment *Comment) error
	Delete(ctx context.Context, id int64) error
	// ListByEvent returns a page of the event's comments, newest first.
	ListByEvent(ctx context.Context, eventID int64, page PaginationParams) ([]*Comment, error)
}

// CommentService defines comment management and public reads. Authors may only
// comment on published events and may edit a comment within a limited window
// after posting; admins delete without an author check.
type CommentService interface {
	AddComment(ctx context.Context, userID, eventID int64, text string) (*Comment, error)
	EditComment(ctx context.Context, userID, commentID int64, text string) (*Comment, error)
	DeleteComment(ctx context.Context, userID, commentID int64) error
	DeleteCommentByAdmin(ctx context.Context, commentID int64) error
	GetEventComments(ctx context.Context, eventID int64, page PaginationParams) ([]*Comment, error)
}
