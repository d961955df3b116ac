package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
	"github.com/Sowndhar-gif/halleyx/internal/core/ports"
)

const (
	defaultCustomerPageSize = 20
	maxCustomerPageSize     = 100
	tempPasswordLength      = 12
	tempPasswordAlphabet    = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"
)

// CustomerService is the admin console's customer management.
type CustomerService struct {
	users      ports.UserRepository
	hasher     ports.PasswordHasher
	revealTemp bool
	log        zerolog.Logger
}

// NewCustomerService returns the service. revealTempPassword controls whether a
// reset returns the generated password to the caller.
func NewCustomerService(users ports.UserRepository, hasher ports.PasswordHasher, revealTempPassword bool, log zerolog.Logger) *CustomerService {
	return &CustomerService{users: users, hasher: hasher, revealTemp: revealTempPassword, log: log}
}

func (s *CustomerService) List(ctx context.Context, in ports.ListCustomersInput) (*ports.ListCustomersResult, error) {
	page, limit := normalizePage(in.Page, in.Limit, defaultCustomerPageSize, maxCustomerPageSize)

	filter := ports.UserFilter{
		Role:   domain.RoleCustomer,
		Search: strings.TrimSpace(in.Search),
		Page:   page,
		Limit:  limit,
	}
	switch in.Status {
	case "active":
		blocked := false
		filter.Blocked = &blocked
	case "blocked":
		blocked := true
		filter.Blocked = &blocked
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return &ports.ListCustomersResult{Items: users, Total: total, Page: page, Limit: limit}, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.findCustomer(ctx, id)
}

func (s *CustomerService) Create(ctx context.Context, actor *domain.Identity, in ports.CustomerInput) (*domain.User, error) {
	if err := domain.Authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" ||
		strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: all fields are required", domain.ErrValidation)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        domain.NormalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	s.log.Info().Str("customer_id", created.ID).Msg("customer created")
	return created, nil
}

func (s *CustomerService) Update(ctx context.Context, actor *domain.Identity, id string, patch ports.CustomerPatch) (*domain.User, error) {
	if err := domain.Authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	u, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.FirstName != nil {
		u.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		u.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Email != nil {
		email := domain.NormalizeEmail(*patch.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: email must not be empty", domain.ErrValidation)
		}
		u.Email = email
	}
	if patch.Blocked != nil {
		u.Blocked = *patch.Blocked
	}
	u.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	s.log.Info().Str("customer_id", id).Bool("blocked", u.Blocked).Msg("customer updated")
	return u, nil
}

// ResetPassword replaces the credential with a random one. The plaintext is
// never logged and is returned only when revealing is enabled.
func (s *CustomerService) ResetPassword(ctx context.Context, actor *domain.Identity, id string) (*ports.PasswordReset, error) {
	if err := domain.Authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	u, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	temp, err := generateTempPassword()
	if err != nil {
		return nil, fmt.Errorf("reset password: %w", err)
	}
	hash, err := s.hasher.Hash(temp)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("reset password: %w", err)
	}

	s.log.Info().Str("customer_id", id).Bool("revealed", s.revealTemp).Msg("customer password reset")
	if !s.revealTemp {
		return &ports.PasswordReset{}, nil
	}
	return &ports.PasswordReset{TempPassword: temp, Revealed: true}, nil
}

func (s *CustomerService) Delete(ctx context.Context, actor *domain.Identity, id string) error {
	if err := domain.Authorize(actor, domain.RoleAdmin); err != nil {
		return err
	}
	if _, err := s.findCustomer(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	s.log.Info().Str("customer_id", id).Msg("customer deleted")
	return nil
}

// findCustomer hides admins behind ErrCustomerNotFound.
func (s *CustomerService) findCustomer(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	if !u.IsCustomer() {
		return nil, domain.ErrCustomerNotFound
	}
	return u, nil
}

func generateTempPassword() (string, error) {
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	b := make([]byte, tempPasswordLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = tempPasswordAlphabet[n.Int64()]
	}
	return string(b), nil
}
