package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
)

// ProductInput carries the fields of a new catalog entry.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
}

// ProductPatch carries an admin edit. Nil fields are left unchanged.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	ImageURL    *string
}

type ListProductsInput struct {
	Search string
	SortBy string
	Order  string // asc | desc
	Page   int
	Limit  int
}

type ListProductsResult struct {
	Items []*domain.Product
	Total int64
	Page  int
	Limit int
}

// ProductService mutators require an admin actor; reads are open to any caller
// the router lets through.
type ProductService interface {
	Create(ctx context.Context, actor *domain.Identity, input ProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, actor *domain.Identity, id string, patch ProductPatch) (*domain.Product, error)
	// Delete fails with domain.ErrProductHasOrders while any order references the product.
	Delete(ctx context.Context, actor *domain.Identity, id string) error
	List(ctx context.Context, input ListProductsInput) (*ListProductsResult, error)
}
