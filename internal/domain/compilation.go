package domain

import "context"

// Compilation is a curated list of events, optionally pinned to the front page.
type Compilation struct {
	ID       int64
	Title    string
	Pinned   bool
	EventIDs []int64
}

// CompilationUpdate carries optional field changes for a compilation.
// A nil EventIDs keeps the current event set; an empty non-nil slice clears it.
type CompilationUpdate struct {
	Title    *string
	Pinned   *bool
	EventIDs []int64
}

// CompilationDetails bundles a compilation with its resolved events.
type CompilationDetails struct {
	Compilation *Compilation
	Events      []*Event
}

// CompilationRepository defines the interface for compilation storage.
type CompilationRepository interface {
	Create(ctx context.Context, comp *Compilation) error
	GetByID(ctx context.Context, id int64) (*Compilation, error)
	Update(ctx context.Context, comp *Compilation) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, pinned *bool, page PaginationParams) ([]*Compilation, error)
}

// CompilationService defines compilation management and public reads.
type CompilationService interface {
	Create(ctx context.Context, comp *Compilation) (*CompilationDetails, error)
	Update(ctx context.Context, id int64, upd CompilationUpdate) (*CompilationDetails, error)
	Delete(ctx context.Context, id int64) error
	GetAll(ctx context.Context, pinned *bool, page PaginationParams) ([]*CompilationDetails, error)
	GetByID(ctx context.Context, id int64) (*CompilationDetails, error)
}
