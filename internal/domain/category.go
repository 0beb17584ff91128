package domain

import "context"

// Category classifies events. Names are unique.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryRepository defines the interface for category storage.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id int64) (*Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page PaginationParams) ([]*Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// CategoryService defines category management and public reads.
type CategoryService interface {
	Create(ctx context.Context, name string) (*Category, error)
	Update(ctx context.Context, id int64, name string) (*Category, error)
	// Delete fails with ErrConflict while any event references the category.
	Delete(ctx context.Context, id int64) error
	GetAll(ctx context.Context, page PaginationParams) ([]*Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
}
