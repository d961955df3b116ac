package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
	"github.com/Sowndhar-gif/halleyx/internal/core/ports"
)

const (
	defaultProductPageSize = 20
	maxProductPageSize     = 100
)

var productSortFields = map[string]bool{"name": true, "price": true, "stock": true, "createdAt": true}

type ProductService struct {
	products ports.ProductRepository
	orders   ports.OrderRepository
	locker   ports.Locker
	audit    ports.AuditRecorder
	lockWait time.Duration
	log      zerolog.Logger
}

func NewProductService(
	products ports.ProductRepository,
	orders ports.OrderRepository,
	locker ports.Locker,
	audit ports.AuditRecorder,
	lockWait time.Duration,
	log zerolog.Logger,
) *ProductService {
	if audit == nil {
		audit = nopRecorder{}
	}
	return &ProductService{
		products: products,
		orders:   orders,
		locker:   locker,
		audit:    audit,
		lockWait: lockWait,
		log:      log,
	}
}

func (s *ProductService) Create(ctx context.Context, actor *domain.Identity, in ports.ProductInput) (*domain.Product, error) {
	if err := domain.Authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	created, err := s.products.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.log.Info().Str("product_id", created.ID).Int("stock", created.Stock).Msg("product created")
	return created, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update applies an admin edit under the product lock so it cannot interleave
// with an engine adjustment.
func (s *ProductService) Update(ctx context.Context, actor *domain.Identity, id string, patch ports.ProductPatch) (*domain.Product, error) {
	if err := domain.Authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	var updated *domain.Product
	err := withProductLock(ctx, s.locker, s.lockWait, id, func() error {
		p, err := s.products.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			p.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.Stock != nil {
			p.Stock = *patch.Stock
		}
		if patch.ImageURL != nil {
			p.ImageURL = *patch.ImageURL
		}
		if err := p.Validate(); err != nil {
			return err
		}
		p.UpdatedAt = time.Now().UTC()

		if err := s.products.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.log.Info().Str("product_id", id).Int("stock", updated.Stock).Msg("product updated")
	return updated, nil
}

// Delete refuses while any order references the product. The check and the
// delete share the lock that order placement takes.
func (s *ProductService) Delete(ctx context.Context, actor *domain.Identity, id string) (err error) {
	ctx, span := tracer.Start(ctx, "ProductService.Delete", trace.WithAttributes(attribute.String("product.id", id)))
	defer func() { endSpan(span, err) }()

	if err := domain.Authorize(actor, domain.RoleAdmin); err != nil {
		return err
	}

	err = withProductLock(ctx, s.locker, s.lockWait, id, func() error {
		if _, err := s.products.FindByID(ctx, id); err != nil {
			return err
		}
		referenced, err := s.orders.ExistsForProduct(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return domain.ErrProductHasOrders
		}
		return s.products.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.audit.Record(auditEvent(actor, domain.AuditProductDeleted, "", id, 0))
	s.log.Info().Str("product_id", id).Str("actor_id", actor.UserID).Msg("product deleted")
	return nil
}

func (s *ProductService) List(ctx context.Context, in ports.ListProductsInput) (*ports.ListProductsResult, error) {
	page, limit := normalizePage(in.Page, in.Limit, defaultProductPageSize, maxProductPageSize)

	sortBy := in.SortBy
	if !productSortFields[sortBy] {
		sortBy = "name"
	}

	items, total, err := s.products.List(ctx, ports.ProductFilter{
		Search: strings.TrimSpace(in.Search),
		SortBy: sortBy,
		Desc:   strings.EqualFold(in.Order, "desc"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &ports.ListProductsResult{Items: items, Total: total, Page: page, Limit: limit}, nil
}
