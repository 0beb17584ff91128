package services

import (
	"context"
	"errors"
	"testing"

	"eventboard/internal/domain"
)

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc := NewCategoryService(newMockCategoryRepository(), newMockEventRepository(), testTimeout)

		cat, err := svc.Create(ctx, "concerts")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cat.ID == 0 || cat.Name != "concerts" {
			t.Errorf("unexpected category: %+v", cat)
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		cats := newMockCategoryRepository(&domain.Category{ID: 1, Name: "concerts"})
		svc := NewCategoryService(cats, newMockEventRepository(), testTimeout)

		_, err := svc.Create(ctx, "concerts")
		if !errors.Is(err, domain.ErrConflict) {
			t.Errorf("err = %v, want ErrConflict", err)
		}
	})
}

func TestCategoryService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("rename", func(t *testing.T) {
		cats := newMockCategoryRepository(&domain.Category{ID: 1, Name: "concerts"})
		svc := NewCategoryService(cats, newMockEventRepository(), testTimeout)

		cat, err := svc.Update(ctx, 1, "exhibitions")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cat.Name != "exhibitions" {
			t.Errorf("name = %s, want exhibitions", cat.Name)
		}
	})

	t.Run("same name is allowed", func(t *testing.T) {
		cats := newMockCategoryRepository(&domain.Category{ID: 1, Name: "concerts"})
		svc := NewCategoryService(cats, newMockEventRepository(), testTimeout)

		if _, err := svc.Update(ctx, 1, "concerts"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rename onto a taken name", func(t *testing.T) {
		cats := newMockCategoryRepository(
			&domain.Category{ID: 1, Name: "concerts"},
			&domain.Category{ID: 2, Name: "exhibitions"},
		)
		svc := NewCategoryService(cats, newMockEventRepository(), testTimeout)

		_, err := svc.Update(ctx, 1, "exhibitions")
		if !errors.Is(err, domain.ErrConflict) {
			t.Errorf("err = %v, want ErrConflict", err)
		}
	})

	t.Run("missing category", func(t *testing.T) {
		svc := NewCategoryService(newMockCategoryRepository(), newMockEventRepository(), testTimeout)

		_, err := svc.Update(ctx, 99, "concerts")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("empty category", func(t *testing.T) {
		cats := newMockCategoryRepository(&domain.Category{ID: 1, Name: "concerts"})
		svc := NewCategoryService(cats, newMockEventRepository(), testTimeout)

		if err := svc.Delete(ctx, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := svc.GetByID(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("category still there after delete: %v", err)
		}
	})

	t.Run("category with events", func(t *testing.T) {
		cats := newMockCategoryRepository(&domain.Category{ID: 1, Name: "concerts"})
		event := publishedEvent(10, 1, 0, false)
		event.CategoryID = 1
		svc := NewCategoryService(cats, newMockEventRepository(event), testTimeout)

		err := svc.Delete(ctx, 1)
		if !errors.Is(err, domain.ErrConflict) {
			t.Errorf("err = %v, want ErrConflict", err)
		}
	})
}
