package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
	"github.com/Sowndhar-gif/halleyx/internal/core/ports"
)

// SettingsService serves branding and the admin dashboard.
type SettingsService struct {
	branding ports.BrandingStore
	products ports.ProductRepository
	users    ports.UserRepository
	orders   ports.OrderRepository
	log      zerolog.Logger
}

func NewSettingsService(
	branding ports.BrandingStore,
	products ports.ProductRepository,
	users ports.UserRepository,
	orders ports.OrderRepository,
	log zerolog.Logger,
) *SettingsService {
	return &SettingsService{branding: branding, products: products, users: users, orders: orders, log: log}
}

func (s *SettingsService) Branding(ctx context.Context) (domain.Branding, error) {
	b, err := s.branding.Load(ctx)
	if err != nil {
		return domain.Branding{}, fmt.Errorf("load branding: %w", err)
	}
	return b, nil
}

// UpdateBranding overwrites the fields that are non-empty in patch.
func (s *SettingsService) UpdateBranding(ctx context.Context, actor *domain.Identity, patch domain.Branding) (domain.Branding, error) {
	if err := domain.Authorize(actor, domain.RoleAdmin); err != nil {
		return domain.Branding{}, err
	}
	current, err := s.Branding(ctx)
	if err != nil {
		return domain.Branding{}, err
	}
	merged := current.Merge(patch)
	if err := s.branding.Save(ctx, merged); err != nil {
		return domain.Branding{}, fmt.Errorf("save branding: %w", err)
	}
	s.log.Info().Msg("branding updated")
	return merged, nil
}

func (s *SettingsService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	products, err := s.products.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	customers, err := s.users.CountByRole(ctx, domain.RoleCustomer)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	byStatus, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return &domain.DashboardStats{
		TotalProducts:  products,
		TotalCustomers: customers,
		OrdersByStatus: byStatus,
	}, nil
}
