package ports

import (
	"context"
	"time"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
)

// RegisterInput carries self-service sign-up data. New accounts are always customers.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Session is a freshly minted token together with the user it was issued for.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
	// ImpersonatedBy is the admin id for delegated sessions.
	ImpersonatedBy string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	AdminLogin(ctx context.Context, email, password string) (*Session, error)
	// Impersonate mints a customer-level token for customerID on behalf of admin.
	Impersonate(ctx context.Context, admin *domain.Identity, customerID string) (*Session, error)
}
