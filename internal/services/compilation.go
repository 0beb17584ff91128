package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventboard/internal/domain"
)

type compilationService struct {
	compilationRepo domain.CompilationRepository
	eventRepo       domain.EventRepository
	contextTimeout  time.Duration
}

// NewCompilationService creates a CompilationService with the given repositories.
func NewCompilationService(compilationRepo domain.CompilationRepository, eventRepo domain.EventRepository, timeout time.Duration) domain.CompilationService {
	return &compilationService{
		compilationRepo: compilationRepo,
		eventRepo:       eventRepo,
		contextTimeout:  timeout,
	}
}

func (s *compilationService) Create(ctx context.Context, comp *domain.Compilation) (*domain.CompilationDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.resolveEvents(ctx, comp.EventIDs)
	if err != nil {
		return nil, err
	}
	if err := s.compilationRepo.Create(ctx, comp); err != nil {
		return nil, fmt.Errorf("create compilation: %w", err)
	}
	return &domain.CompilationDetails{Compilation: comp, Events: events}, nil
}

func (s *compilationService) Update(ctx context.Context, id int64, upd domain.CompilationUpdate) (*domain.CompilationDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comp, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.EventIDs != nil {
		if _, err := s.resolveEvents(ctx, upd.EventIDs); err != nil {
			return nil, err
		}
		comp.EventIDs = upd.EventIDs
	}
	if upd.Title != nil {
		comp.Title = *upd.Title
	}
	if upd.Pinned != nil {
		comp.Pinned = *upd.Pinned
	}
	if err := s.compilationRepo.Update(ctx, comp); err != nil {
		return nil, fmt.Errorf("update compilation: %w", err)
	}
	return s.withEvents(ctx, comp)
}

func (s *compilationService) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.compilationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete compilation: %w", err)
	}
	return nil
}

func (s *compilationService) GetAll(ctx context.Context, pinned *bool, page domain.PaginationParams) ([]*domain.CompilationDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comps, err := s.compilationRepo.List(ctx, pinned, page)
	if err != nil {
		return nil, fmt.Errorf("list compilations: %w", err)
	}
	result := make([]*domain.CompilationDetails, 0, len(comps))
	for _, comp := range comps {
		details, err := s.withEvents(ctx, comp)
		if err != nil {
			return nil, err
		}
		result = append(result, details)
	}
	return result, nil
}

func (s *compilationService) GetByID(ctx context.Context, id int64) (*domain.CompilationDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comp, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withEvents(ctx, comp)
}

func (s *compilationService) get(ctx context.Context, id int64) (*domain.Compilation, error) {
	comp, err := s.compilationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("compilation with id=%d was not found: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get compilation: %w", err)
	}
	return comp, nil
}

// resolveEvents loads the referenced events and fails when any id is unknown.
func (s *compilationService) resolveEvents(ctx context.Context, ids []int64) ([]*domain.Event, error) {
	if len(ids) == 0 {
		return []*domain.Event{}, nil
	}
	events, err := s.eventRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if len(events) != len(ids) {
		return nil, fmt.Errorf("some events were not found: %w", domain.ErrNotFound)
	}
	return events, nil
}

func (s *compilationService) withEvents(ctx context.Context, comp *domain.Compilation) (*domain.CompilationDetails, error) {
	events, err := s.resolveEvents(ctx, comp.EventIDs)
	if err != nil {
		return nil, err
	}
	return &domain.CompilationDetails{Compilation: comp, Events: events}, nil
}
