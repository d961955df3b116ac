package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
	"github.com/Sowndhar-gif/halleyx/internal/core/ports"
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]*domain.Order)}
}

func (r *OrderRepository) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneOrder(o)
	if stored.ID == "" {
		stored.ID = newID()
	}
	r.orders[stored.ID] = stored
	return cloneOrder(stored), nil
}

func (r *OrderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *OrderRepository) Update(_ context.Context, o *domain.Order, expectedQuantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[o.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if stored.Quantity != expectedQuantity {
		return domain.ErrOrderConflict
	}
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *OrderRepository) Delete(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	delete(r.orders, id)
	return o, nil
}

func (r *OrderRepository) List(_ context.Context, f ports.OrderFilter) ([]*domain.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Order
	for _, o := range r.orders {
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.ProductID != "" && o.ProductID != f.ProductID {
			continue
		}
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		if !f.DateFrom.IsZero() && o.CreatedAt.Before(f.DateFrom) {
			continue
		}
		if !f.DateTo.IsZero() && o.CreatedAt.After(f.DateTo) {
			continue
		}
		matched = append(matched, cloneOrder(o))
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

func (r *OrderRepository) ExistsForProduct(_ context.Context, productID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (r *OrderRepository) CountByStatus(_ context.Context) (map[domain.OrderStatus]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[domain.OrderStatus]int64)
	for _, o := range r.orders {
		counts[o.Status]++
	}
	return counts, nil
}

func cloneOrder(o *domain.Order) *domain.Order {
	if o == nil {
		return nil
	}
	clone := *o
	return &clone
}

// AuditRepository keeps audit events in insertion order.
type AuditRepository struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) InsertEvent(_ context.Context, event *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

// Events returns a snapshot of everything recorded so far.
func (r *AuditRepository) Events() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditEvent, len(r.events))
	copy(out, r.events)
	return out
}
