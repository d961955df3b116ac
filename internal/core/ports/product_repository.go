package ports

import (
	"context"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
)

// ProductFilter carries the catalog list parameters.
type ProductFilter struct {
	Search string // case-insensitive substring on name
	SortBy string // name | price | stock | createdAt
	Desc   bool
	Page   int
	Limit  int
}

// ProductRepository is the catalog store.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// FindByIDs returns the products that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Product, error)
	// Update replaces name, description, price, stock and image of an existing product.
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int64, error)
	Count(ctx context.Context) (int64, error)

	// AdjustStock atomically adds delta to the product's stock, but only when the
	// result stays >= 0. It returns the product after the change,
	// domain.ErrInsufficientStock when the guard fails and
	// domain.ErrProductNotFound when the product does not exist.
	AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error)
}
