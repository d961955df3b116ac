package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sowndhar-gif/halleyx/internal/api/metrics"
	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
	"github.com/Sowndhar-gif/halleyx/internal/core/ports"
)

// AuthService implements registration, login and admin impersonation.
type AuthService struct {
	users      ports.UserRepository
	hasher     ports.PasswordHasher
	tokens     ports.TokenIssuer
	adminEmail string
	log        zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	adminEmail string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		hasher:     hasher,
		tokens:     tokens,
		adminEmail: domain.NormalizeEmail(adminEmail),
		log:        log,
	}
}

// Register creates a customer account. The role is never taken from the caller.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if in.FirstName == "" || in.LastName == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: all fields are required", domain.ErrValidation)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        domain.NormalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("customer registered")
	return created, nil
}

// Login authenticates any user. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if user.IsCustomer() && user.Blocked {
		return nil, domain.ErrAccountBlocked
	}

	return s.issue(user, "")
}

// AdminLogin succeeds only for the reserved admin address, an admin role and a
// matching password. Every failure looks the same.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*ports.Session, error) {
	if s.adminEmail == "" || domain.NormalizeEmail(email) != s.adminEmail || password == "" {
		return nil, domain.ErrInvalidAdminCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidAdminCredentials
		}
		return nil, fmt.Errorf("admin login: %w", err)
	}
	if user.Role != domain.RoleAdmin || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidAdminCredentials
	}

	return s.issue(user, "")
}

// Impersonate returns a customer-level token for customerID that names the
// admin as provenance. Blocked customers can still be impersonated.
func (s *AuthService) Impersonate(ctx context.Context, admin *domain.Identity, customerID string) (*ports.Session, error) {
	if err := domain.Authorize(admin, domain.RoleAdmin); err != nil {
		return nil, err
	}
	// A delegated token already carries the customer role, so this is only
	// reachable with a genuine admin token.
	if admin.Delegated() {
		return nil, domain.ErrForbidden
	}

	customer, err := s.users.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("impersonate: %w", err)
	}
	if !customer.IsCustomer() {
		return nil, domain.ErrCustomerNotFound
	}

	session, err := s.issue(customer, admin.UserID)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("admin_id", admin.UserID).
		Str("customer_id", customer.ID).
		Msg("impersonation token issued")
	return session, nil
}

// SeedAdmin creates the reserved admin account when it does not exist yet.
// An existing account is left untouched, whatever its role.
func (s *AuthService) SeedAdmin(ctx context.Context, password string) (created bool, err error) {
	if s.adminEmail == "" || password == "" {
		return false, fmt.Errorf("%w: admin email and password are required", domain.ErrValidation)
	}

	existing, err := s.users.FindByEmail(ctx, s.adminEmail)
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			s.log.Warn().Str("user_id", existing.ID).Msg("admin email is held by a non-admin account")
		}
		return false, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return false, fmt.Errorf("seed admin: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	admin, err := s.users.Create(ctx, &domain.User{
		FirstName:    "Store",
		LastName:     "Admin",
		Email:        s.adminEmail,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// Lost a race with a concurrent seed.
		if errors.Is(err, domain.ErrEmailTaken) {
			return false, nil
		}
		return false, fmt.Errorf("seed admin: %w", err)
	}

	s.log.Info().Str("user_id", admin.ID).Msg("admin account created")
	return true, nil
}

func (s *AuthService) issue(user *domain.User, delegatedBy string) (*ports.Session, error) {
	token, expiresAt, err := s.tokens.Issue(user, delegatedBy)
	if err != nil {
		return nil, err
	}

	kind := "session"
	if delegatedBy != "" {
		kind = "impersonation"
	}
	metrics.TokensIssuedTotal.WithLabelValues(kind, string(user.Role)).Inc()

	return &ports.Session{
		Token:          token,
		ExpiresAt:      expiresAt,
		User:           user,
		ImpersonatedBy: delegatedBy,
	}, nil
}
