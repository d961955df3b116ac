package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
	"github.com/Sowndhar-gif/halleyx/internal/core/ports"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]*domain.Product)}
}

func (r *ProductRepository) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneProduct(p)
	if stored.ID == "" {
		stored.ID = newID()
	}
	r.products[stored.ID] = stored
	return cloneProduct(stored), nil
}

func (r *ProductRepository) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

func (r *ProductRepository) FindByIDs(_ context.Context, ids []string) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

func (r *ProductRepository) Update(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *ProductRepository) List(_ context.Context, f ports.ProductFilter) ([]*domain.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Product
	for _, p := range r.products {
		if f.Search != "" && !containsFold(p.Name, f.Search) {
			continue
		}
		matched = append(matched, cloneProduct(p))
	}

	less := productLess(f.SortBy)
	sort.SliceStable(matched, func(i, j int) bool {
		if f.Desc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

func productLess(sortBy string) func(a, b *domain.Product) bool {
	switch sortBy {
	case "price":
		return func(a, b *domain.Product) bool { return a.Price.LessThan(b.Price) }
	case "stock":
		return func(a, b *domain.Product) bool { return a.Stock < b.Stock }
	case "createdAt":
		return func(a, b *domain.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return func(a, b *domain.Product) bool { return a.Name < b.Name }
	}
}

func (r *ProductRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

// AdjustStock applies delta under the write lock, so the check and the write
// are one step.
func (r *ProductRepository) AdjustStock(_ context.Context, id string, delta int) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return nil, domain.ErrInsufficientStock
	}
	p.Stock += delta
	return cloneProduct(p), nil
}

func cloneProduct(p *domain.Product) *domain.Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
