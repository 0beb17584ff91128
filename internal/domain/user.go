package domain

import "context"

// User is a platform account. Identity arrives at the boundary as an already
// trusted numeric id; there is no authentication layer in this service.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserRepository defines the interface for user storage. Create reports an
// email uniqueness violation as ErrConflict.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// List returns users with the given ids, or a page of all users when ids
	// is empty.
	List(ctx context.Context, ids []int64, page PaginationParams) ([]*User, error)
	Delete(ctx context.Context, id int64) error
}

// UserService defines admin user management.
type UserService interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetAll(ctx context.Context, ids []int64, page PaginationParams) ([]*User, error)
	Delete(ctx context.Context, id int64) error
}
