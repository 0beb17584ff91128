package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventboard/internal/domain"
)

type categoryService struct {
	categoryRepo   domain.CategoryRepository
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewCategoryService creates a CategoryService with the given repositories.
func NewCategoryService(categoryRepo domain.CategoryRepository, eventRepo domain.EventRepository, timeout time.Duration) domain.CategoryService {
	return &categoryService{
		categoryRepo:   categoryRepo,
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *categoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	exists, err := s.categoryRepo.ExistsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("category name must be unique: %w", domain.ErrConflict)
	}
	cat := &domain.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, cat); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

func (s *categoryService) Update(ctx context.Context, id int64, name string) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	cat, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != cat.Name {
		exists, err := s.categoryRepo.ExistsByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("check category name: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("category name must be unique: %w", domain.ErrConflict)
		}
	}
	cat.Name = name
	if err := s.categoryRepo.Update(ctx, cat); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return cat, nil
}

func (s *categoryService) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	cat, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.eventRepo.CountByCategory(ctx, cat.ID)
	if err != nil {
		return fmt.Errorf("count events in category: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("the category is not empty: %w", domain.ErrConflict)
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *categoryService) GetAll(ctx context.Context, page domain.PaginationParams) ([]*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	cats, err := s.categoryRepo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if cats == nil {
		cats = []*domain.Category{}
	}
	return cats, nil
}

func (s *categoryService) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.get(ctx, id)
}

func (s *categoryService) get(ctx context.Context, id int64) (*domain.Category, error) {
	cat, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("category with id=%d was not found: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return cat, nil
}
