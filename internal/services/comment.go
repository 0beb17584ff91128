package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventboard/internal/domain"
)

// commentEditWindow is how long after posting the author may still edit.
const commentEditWindow = 5 * time.Hour

type commentService struct {
	commentRepo    domain.CommentRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

// NewCommentService creates a CommentService with the given repositories.
func NewCommentService(
	commentRepo domain.CommentRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	timeout time.Duration,
) domain.CommentService {
	return &commentService{
		commentRepo:    commentRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

func (s *commentService) AddComment(ctx context.Context, userID, eventID int64, text string) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.ensureAuthor(ctx, userID); err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("event with id=%d was not found: %w", eventID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.State != domain.EventStatePublished {
		return nil, fmt.Errorf("comments are allowed only for published events: %w", domain.ErrConflict)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("comment text must not be empty: %w", domain.ErrBadRequest)
	}

	comment := &domain.Comment{
		EventID:   eventID,
		AuthorID:  userID,
		Text:      text,
		CreatedOn: time.Now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) EditComment(ctx context.Context, userID, commentID int64, text string) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comment, err := s.ownComment(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("comment text must not be empty: %w", domain.ErrBadRequest)
	}
	if comment.CreatedOn.Before(time.Now().Add(-commentEditWindow)) {
		return nil, fmt.Errorf("editing is allowed only within the first %d hours: %w", int(commentEditWindow.Hours()), domain.ErrConflict)
	}

	now := time.Now()
	comment.Text = text
	comment.UpdatedOn = &now
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) DeleteComment(ctx context.Context, userID, commentID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comment, err := s.ownComment(ctx, userID, commentID)
	if err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *commentService) DeleteCommentByAdmin(ctx context.Context, commentID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("comment with id=%d was not found: %w", commentID, domain.ErrNotFound)
		}
		return fmt.Errorf("get comment: %w", err)
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *commentService) GetEventComments(ctx context.Context, eventID int64, page domain.PaginationParams) ([]*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// Comments on nonexistent events are not served.
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("event with id=%d was not found: %w", eventID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	comments, err := s.commentRepo.ListByEvent(ctx, eventID, page)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	return comments, nil
}

func (s *commentService) ensureAuthor(ctx context.Context, userID int64) error {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return fmt.Errorf("user with id=%d was not found: %w", userID, domain.ErrNotFound)
	}
	return nil
}

// ownComment loads a comment and hides other authors' comments as NotFound.
func (s *commentService) ownComment(ctx context.Context, userID, commentID int64) (*domain.Comment, error) {
	if err := s.ensureAuthor(ctx, userID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("comment with id=%d was not found: %w", commentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	if comment.AuthorID != userID {
		return nil, fmt.Errorf("comment with id=%d was not found for user=%d: %w", commentID, userID, domain.ErrNotFound)
	}
	return comment, nil
}
