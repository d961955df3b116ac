package ports

import (
	"context"
	"time"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
)

// OrderFilter carries the admin order-list parameters. Zero values disable a filter.
type OrderFilter struct {
	UserID    string
	ProductID string
	Status    string
	DateFrom  time.Time // created_at >= DateFrom
	DateTo    time.Time // created_at <= DateTo
	Page      int
	Limit     int
}

// OrderRepository is the order ledger. It never touches product stock.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// Update writes o only while the stored quantity still equals
	// expectedQuantity and returns domain.ErrOrderConflict otherwise.
	Update(ctx context.Context, o *domain.Order, expectedQuantity int) error
	// Delete removes the order and returns the removed document.
	Delete(ctx context.Context, id string) (*domain.Order, error)
	// List returns a page of orders, newest first, and the total match count.
	List(ctx context.Context, filter OrderFilter) ([]*domain.Order, int64, error)
	ExistsForProduct(ctx context.Context, productID string) (bool, error)
	CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuditEvent) error
}
