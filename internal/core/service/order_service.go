package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sowndhar-gif/halleyx/internal/api/metrics"
	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
	"github.com/Sowndhar-gif/halleyx/internal/core/ports"
)

const (
	defaultOrderPageSize = 20
	maxOrderPageSize     = 100
)

// OrderService is the inventory consistency engine. Every operation that moves
// stock runs under the product's lock and adjusts stock through the repository's
// conditional AdjustStock, so stock never goes negative even if a lock expires.
type OrderService struct {
	orders   ports.OrderRepository
	products ports.ProductRepository
	users    ports.UserRepository
	locker   ports.Locker
	idem     ports.IdempotencyStore // optional
	audit    ports.AuditRecorder
	lockWait time.Duration
	log      zerolog.Logger
}

// NewOrderService wires the engine. idem may be nil, which disables
// Idempotency-Key handling; audit may be nil. users is only read to show
// customers in the admin order list; nil leaves them out.
func NewOrderService(
	orders ports.OrderRepository,
	products ports.ProductRepository,
	users ports.UserRepository,
	locker ports.Locker,
	idem ports.IdempotencyStore,
	audit ports.AuditRecorder,
	lockWait time.Duration,
	log zerolog.Logger,
) *OrderService {
	if audit == nil {
		audit = nopRecorder{}
	}
	return &OrderService{
		orders:   orders,
		products: products,
		users:    users,
		locker:   locker,
		idem:     idem,
		audit:    audit,
		lockWait: lockWait,
		log:      log,
	}
}

// PlaceOrder reserves stock and records the order. With an idempotency key, a
// retry of a completed placement returns the original order unchanged.
func (s *OrderService) PlaceOrder(ctx context.Context, in ports.PlaceOrderInput) (result *ports.PlaceOrderResult, err error) {
	ctx, span := tracer.Start(ctx, "OrderService.PlaceOrder", trace.WithAttributes(
		attribute.String("product.id", in.ProductID),
		attribute.Int("order.quantity", in.Quantity),
	))
	defer func() {
		endSpan(span, err)
		if result == nil || !result.Replayed {
			metrics.OrderOperationsTotal.WithLabelValues("place", outcomeOf(err)).Inc()
		}
	}()

	if err := domain.Authorize(in.Actor, ""); err != nil {
		return nil, err
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.ProductID == "" {
		return nil, fmt.Errorf("%w: productId is required", domain.ErrValidation)
	}

	idemKey := ""
	if in.IdempotencyKey != "" && s.idem != nil {
		idemKey = in.Actor.UserID + ":" + in.IdempotencyKey
		existing, claimErr := s.claimKey(ctx, idemKey)
		if claimErr != nil {
			return nil, fmt.Errorf("place order: %w", claimErr)
		}
		if existing != nil {
			metrics.OrderOperationsTotal.WithLabelValues("place", "replayed").Inc()
			s.log.Info().Str("idempotency_key", in.IdempotencyKey).Str("order_id", existing.ID).Msg("idempotent replay")
			return &ports.PlaceOrderResult{Order: existing, Replayed: true}, nil
		}
		defer func() {
			if err != nil {
				if relErr := s.idem.Release(context.WithoutCancel(ctx), idemKey); relErr != nil {
					s.log.Warn().Err(relErr).Str("idempotency_key", in.IdempotencyKey).Msg("failed to release idempotency key")
				}
			}
		}()
	}

	var order *domain.Order
	err = withProductLock(ctx, s.locker, s.lockWait, in.ProductID, func() error {
		if _, err := s.products.AdjustStock(ctx, in.ProductID, -in.Quantity); err != nil {
			return err
		}

		now := time.Now().UTC()
		created, err := s.orders.Create(ctx, &domain.Order{
			UserID:          in.Actor.UserID,
			ProductID:       in.ProductID,
			Quantity:        in.Quantity,
			Status:          domain.OrderStatusPending,
			ShippingAddress: in.ShippingAddress,
			BillingAddress:  in.BillingAddress,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			s.compensate(ctx, "place", in.ProductID, in.Quantity)
			return err
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	if idemKey != "" {
		if err := s.idem.Complete(ctx, idemKey, order.ID); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to complete idempotency key")
		}
	}

	s.record(in.Actor, domain.AuditOrderPlaced, order.ID, order.ProductID, -order.Quantity)
	s.actorLog(in.Actor).Info().
		Str("order_id", order.ID).
		Str("product_id", order.ProductID).
		Int("quantity", order.Quantity).
		Msg("order placed")

	return &ports.PlaceOrderResult{Order: order}, nil
}

// claimKey claims key for a new placement, or returns the order an earlier
// placement with the same key produced. A key whose order has since been
// deleted is stale; it is released and claimed again.
func (s *OrderService) claimKey(ctx context.Context, key string) (*domain.Order, error) {
	for attempt := 0; attempt < 2; attempt++ {
		orderID, claimed, err := s.idem.Claim(ctx, key)
		if err != nil {
			return nil, err
		}
		if claimed {
			return nil, nil
		}

		existing, err := s.orders.FindByID(ctx, orderID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, domain.ErrOrderNotFound) {
			return nil, fmt.Errorf("replay: %w", err)
		}
		s.log.Info().Str("order_id", orderID).Msg("idempotency key points at a deleted order; placing afresh")
		if err := s.idem.Release(ctx, key); err != nil {
			return nil, fmt.Errorf("release stale key: %w", err)
		}
	}
	return nil, domain.ErrIdempotencyInFlight
}

// ListMine returns the user's orders, newest first, each with its product.
func (s *OrderService) ListMine(ctx context.Context, userID string) ([]*domain.OrderView, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	orders, _, err := s.orders.List(ctx, ports.OrderFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("list my orders: %w", err)
	}
	views, err := s.views(ctx, orders, false)
	if err != nil {
		return nil, fmt.Errorf("list my orders: %w", err)
	}
	return views, nil
}

func (s *OrderService) ListOrders(ctx context.Context, in ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
	page, limit := normalizePage(in.Page, in.Limit, defaultOrderPageSize, maxOrderPageSize)

	orders, total, err := s.orders.List(ctx, ports.OrderFilter{
		UserID:    in.CustomerID,
		ProductID: in.ProductID,
		Status:    in.Status,
		DateFrom:  in.DateFrom,
		DateTo:    in.DateTo,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	views, err := s.views(ctx, orders, true)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return &ports.ListOrdersResult{Items: views, Total: total, Page: page, Limit: limit}, nil
}

// views joins a page of orders with their products and, when withCustomer is
// set, their owners. Each side costs one batched lookup.
func (s *OrderService) views(ctx context.Context, orders []*domain.Order, withCustomer bool) ([]*domain.OrderView, error) {
	productIDs := make([]string, 0, len(orders))
	userIDs := make([]string, 0, len(orders))
	seen := make(map[string]bool, 2*len(orders))
	for _, o := range orders {
		if !seen["p:"+o.ProductID] {
			seen["p:"+o.ProductID] = true
			productIDs = append(productIDs, o.ProductID)
		}
		if withCustomer && !seen["u:"+o.UserID] {
			seen["u:"+o.UserID] = true
			userIDs = append(userIDs, o.UserID)
		}
	}

	products := make(map[string]*domain.ProductSummary, len(productIDs))
	if len(productIDs) > 0 {
		found, err := s.products.FindByIDs(ctx, productIDs)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			products[p.ID] = p.Summary()
		}
	}

	customers := make(map[string]*domain.CustomerSummary, len(userIDs))
	if len(userIDs) > 0 && s.users != nil {
		found, err := s.users.FindByIDs(ctx, userIDs)
		if err != nil {
			return nil, err
		}
		for _, u := range found {
			customers[u.ID] = u.Summary()
		}
	}

	views := make([]*domain.OrderView, len(orders))
	for i, o := range orders {
		views[i] = &domain.OrderView{Order: o, Product: products[o.ProductID], Customer: customers[o.UserID]}
	}
	return views, nil
}

// UpdateOrder applies an admin edit. A quantity change moves the difference in
// or out of stock; status and addresses are copied as given.
func (s *OrderService) UpdateOrder(ctx context.Context, actor *domain.Identity, orderID string, patch domain.OrderPatch) (updated *domain.Order, err error) {
	ctx, span := tracer.Start(ctx, "OrderService.UpdateOrder", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer func() {
		endSpan(span, err)
		metrics.OrderOperationsTotal.WithLabelValues("update", outcomeOf(err)).Inc()
	}()

	if err := domain.Authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	current, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	if patch.Quantity != nil && *patch.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var delta int
	err = withProductLock(ctx, s.locker, s.lockWait, current.ProductID, func() error {
		// Re-read under the lock; the order may have changed or vanished.
		order, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		readQuantity := order.Quantity

		if patch.Quantity != nil && *patch.Quantity != order.Quantity {
			delta = *patch.Quantity - order.Quantity
			if _, err := s.products.AdjustStock(ctx, order.ProductID, -delta); err != nil {
				delta = 0
				return err
			}
			order.Quantity = *patch.Quantity
		}
		if patch.Status != nil {
			order.Status = *patch.Status
		}
		if patch.ShippingAddress != nil {
			order.ShippingAddress = *patch.ShippingAddress
		}
		if patch.BillingAddress != nil {
			order.BillingAddress = *patch.BillingAddress
		}
		order.UpdatedAt = time.Now().UTC()

		// The write is conditional on readQuantity so that a lapsed lock
		// cannot let two updaters apply deltas against the same quantity.
		if err := s.orders.Update(ctx, order, readQuantity); err != nil {
			if delta != 0 {
				s.compensate(ctx, "update", order.ProductID, delta)
				delta = 0
			}
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	s.record(actor, domain.AuditOrderUpdated, updated.ID, updated.ProductID, -delta)
	s.actorLog(actor).Info().
		Str("order_id", updated.ID).
		Str("product_id", updated.ProductID).
		Int("stock_delta", -delta).
		Str("status", string(updated.Status)).
		Msg("order updated")

	return updated, nil
}

// DeleteOrder removes the order and credits its quantity back to the product.
// When the product no longer exists the credit is skipped.
func (s *OrderService) DeleteOrder(ctx context.Context, actor *domain.Identity, orderID string) (removed *domain.Order, err error) {
	ctx, span := tracer.Start(ctx, "OrderService.DeleteOrder", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer func() {
		endSpan(span, err)
		metrics.OrderOperationsTotal.WithLabelValues("delete", outcomeOf(err)).Inc()
	}()

	if err := domain.Authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	current, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("delete order: %w", err)
	}

	credited := 0
	err = withProductLock(ctx, s.locker, s.lockWait, current.ProductID, func() error {
		order, err := s.orders.Delete(ctx, orderID)
		if err != nil {
			return err
		}

		if _, err := s.products.AdjustStock(ctx, order.ProductID, order.Quantity); err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				removed = order
				return nil
			}
			// Put the order back so stock and orders stay in step.
			if _, restoreErr := s.orders.Create(context.WithoutCancel(ctx), order); restoreErr != nil {
				s.log.Error().Err(restoreErr).
					Str("order_id", order.ID).
					Str("product_id", order.ProductID).
					Int("quantity", order.Quantity).
					Msg("order deleted but stock not restored; invariant breached")
				metrics.CompensationsTotal.WithLabelValues("delete", "failed").Inc()
			} else {
				metrics.CompensationsTotal.WithLabelValues("delete", "ok").Inc()
			}
			return err
		}
		credited = order.Quantity
		removed = order
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete order: %w", err)
	}

	s.record(actor, domain.AuditOrderDeleted, removed.ID, removed.ProductID, credited)
	s.actorLog(actor).Info().
		Str("order_id", removed.ID).
		Str("product_id", removed.ProductID).
		Int("stock_delta", credited).
		Msg("order deleted")

	return removed, nil
}

// compensate reverses a stock adjustment after the paired order write failed.
// delta is the amount to add back.
func (s *OrderService) compensate(ctx context.Context, op, productID string, delta int) {
	if _, err := s.products.AdjustStock(context.WithoutCancel(ctx), productID, delta); err != nil {
		metrics.CompensationsTotal.WithLabelValues(op, "failed").Inc()
		s.log.Error().Err(err).
			Str("operation", op).
			Str("product_id", productID).
			Int("stock_delta", delta).
			Msg("stock compensation failed; invariant breached")
		return
	}
	metrics.CompensationsTotal.WithLabelValues(op, "ok").Inc()
}

func (s *OrderService) record(actor *domain.Identity, action domain.AuditAction, orderID, productID string, delta int) {
	s.audit.Record(auditEvent(actor, action, orderID, productID, delta))
}

func (s *OrderService) actorLog(actor *domain.Identity) *zerolog.Logger {
	l := s.log.With().Str("actor_id", actor.UserID).Logger()
	if actor.Delegated() {
		l = l.With().Str("impersonated_by", actor.ImpersonatedBy).Logger()
	}
	return &l
}

func auditEvent(actor *domain.Identity, action domain.AuditAction, orderID, productID string, delta int) domain.AuditEvent {
	ev := domain.AuditEvent{
		Action:     action,
		OrderID:    orderID,
		ProductID:  productID,
		StockDelta: delta,
		OccurredAt: time.Now().UTC(),
	}
	if actor != nil {
		ev.ActorID = actor.UserID
		ev.ImpersonatedBy = actor.ImpersonatedBy
	}
	return ev
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case domain.IsNotFound(err):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrOrderConflict):
		return "conflict"
	case errors.Is(err, domain.ErrLockTimeout):
		return "lock_timeout"
	default:
		return "error"
	}
}

type nopRecorder struct{}

func (nopRecorder) Record(domain.AuditEvent) {}
