package ports

import (
	"context"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
)

// UserFilter carries the customer-list query parameters.
type UserFilter struct {
	Role    domain.Role // empty = any role
	Search  string      // case-insensitive substring on first name, last name or email
	Blocked *bool       // nil = both
	Page    int         // 1-based
	Limit   int
}

// UserRepository is the identity store.
type UserRepository interface {
	// Create inserts the user and returns it with its assigned ID.
	// Returns domain.ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update replaces the mutable fields of an existing user.
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	// List returns a page of users sorted by first name and the total match count.
	List(ctx context.Context, filter UserFilter) ([]*domain.User, int64, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}
