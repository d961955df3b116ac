package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
	"github.com/Sowndhar-gif/halleyx/internal/infrastructure/db/memory"
)

type stubBrandingStore struct {
	saved *domain.Branding
}

func (s *stubBrandingStore) Load(context.Context) (domain.Branding, error) {
	if s.saved == nil {
		return domain.DefaultBranding(), nil
	}
	return *s.saved, nil
}

func (s *stubBrandingStore) Save(_ context.Context, b domain.Branding) error {
	s.saved = &b
	return nil
}

func TestSettingsService_UpdateBrandingMerges(t *testing.T) {
	store := &stubBrandingStore{}
	svc := NewSettingsService(store, memory.NewProductRepository(), memory.NewUserRepository(), memory.NewOrderRepository(), zerolog.Nop())

	b, err := svc.UpdateBranding(context.Background(), adminIdentity, domain.Branding{PrimaryColor: "#000000"})
	require.NoError(t, err)
	assert.Equal(t, "#000000", b.PrimaryColor)
	assert.Equal(t, "#00AACC", b.SecondaryColor)
	assert.Equal(t, "Roboto", b.FontFamily)

	got, _ := svc.Branding(context.Background())
	assert.Equal(t, b, got)
}

func TestSettingsService_Dashboard(t *testing.T) {
	ctx := context.Background()
	products := memory.NewProductRepository()
	users := memory.NewUserRepository()
	orders := memory.NewOrderRepository()

	_, _ = products.Create(ctx, &domain.Product{Name: "A", Price: decimal.NewFromInt(1)})
	_, _ = products.Create(ctx, &domain.Product{Name: "B", Price: decimal.NewFromInt(1)})
	_, _ = users.Create(ctx, &domain.User{Email: "c@example.com", Role: domain.RoleCustomer})
	_, _ = users.Create(ctx, &domain.User{Email: "admin@example.com", Role: domain.RoleAdmin})
	_, _ = orders.Create(ctx, &domain.Order{ProductID: "x", Quantity: 1, Status: domain.OrderStatusPending})
	_, _ = orders.Create(ctx, &domain.Order{ProductID: "x", Quantity: 1, Status: domain.OrderStatusShipped})

	svc := NewSettingsService(&stubBrandingStore{}, products, users, orders, zerolog.Nop())
	stats, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalProducts)
	assert.EqualValues(t, 1, stats.TotalCustomers)
	assert.EqualValues(t, 1, stats.OrdersByStatus[domain.OrderStatusPending])
	assert.EqualValues(t, 1, stats.OrdersByStatus[domain.OrderStatusShipped])
}
