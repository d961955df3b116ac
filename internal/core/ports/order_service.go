package ports

import (
	"context"
	"time"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
)

// PlaceOrderInput is the DTO passed from the transport layer to OrderService.
type PlaceOrderInput struct {
	Actor           *domain.Identity
	ProductID       string
	Quantity        int
	ShippingAddress string
	BillingAddress  string
	IdempotencyKey  string
}

// PlaceOrderResult wraps the created order.
type PlaceOrderResult struct {
	Order *domain.Order
	// Replayed is true when the Idempotency-Key matched an earlier placement.
	Replayed bool
}

// ListOrdersInput carries all parameters for the admin list endpoint.
type ListOrdersInput struct {
	CustomerID string
	ProductID  string
	Status     string
	DateFrom   time.Time
	DateTo     time.Time
	Page       int
	Limit      int
}

// ListOrdersResult is returned by ListOrders.
type ListOrdersResult struct {
	Items []*domain.OrderView
	Total int64
	Page  int
	Limit int
}

// OrderService is the inventory consistency engine plus order queries.
type OrderService interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error)
	ListMine(ctx context.Context, userID string) ([]*domain.OrderView, error)
	ListOrders(ctx context.Context, input ListOrdersInput) (*ListOrdersResult, error)
	UpdateOrder(ctx context.Context, actor *domain.Identity, orderID string, patch domain.OrderPatch) (*domain.Order, error)
	DeleteOrder(ctx context.Context, actor *domain.Identity, orderID string) (*domain.Order, error)
}
