package ports

import (
	"context"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
)

type CustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// CustomerPatch carries an admin edit. Nil fields are left unchanged.
type CustomerPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Blocked   *bool
}

type ListCustomersInput struct {
	Search string
	Status string // active | blocked | empty for both
	Page   int
	Limit  int
}

type ListCustomersResult struct {
	Items []*domain.User
	Total int64
	Page  int
	Limit int
}

// PasswordReset reports the outcome of a reset. TempPassword is empty unless
// the deployment opted into revealing it.
type PasswordReset struct {
	TempPassword string
	Revealed     bool
}

// CustomerService mutators require an admin actor, like every other admin
// write; reads rely on the router's role gate.
type CustomerService interface {
	List(ctx context.Context, input ListCustomersInput) (*ListCustomersResult, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, actor *domain.Identity, input CustomerInput) (*domain.User, error)
	Update(ctx context.Context, actor *domain.Identity, id string, patch CustomerPatch) (*domain.User, error)
	ResetPassword(ctx context.Context, actor *domain.Identity, id string) (*PasswordReset, error)
	Delete(ctx context.Context, actor *domain.Identity, id string) error
}

type SettingsService interface {
	Branding(ctx context.Context) (domain.Branding, error)
	UpdateBranding(ctx context.Context, actor *domain.Identity, patch domain.Branding) (domain.Branding, error)
	Dashboard(ctx context.Context) (*domain.DashboardStats, error)
}
