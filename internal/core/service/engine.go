package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sowndhar-gif/halleyx/internal/api/metrics"
	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
	"github.com/Sowndhar-gif/halleyx/internal/core/ports"
)

const tracerName = "github.com/Sowndhar-gif/halleyx/internal/core/service"

// tracer resolves against the global provider, which is a no-op until the
// process installs one.
var tracer = otel.Tracer(tracerName)

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func productLockKey(productID string) string {
	return "product:" + productID
}

// withProductLock runs fn while holding the product's lock. wait bounds only the
// acquisition; fn runs under the caller's ctx. Running out of wait is reported
// as domain.ErrLockTimeout.
func withProductLock(ctx context.Context, locker ports.Locker, wait time.Duration, productID string, fn func() error) error {
	lockCtx := ctx
	if wait > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, wait)
		defer cancel()
	}

	start := time.Now()
	unlock, err := locker.Lock(lockCtx, productLockKey(productID))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			metrics.LockWaitDuration.WithLabelValues("timeout").Observe(time.Since(start).Seconds())
			return fmt.Errorf("lock product %s: %w", productID, domain.ErrLockTimeout)
		}
		metrics.LockWaitDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("lock product %s: %w", productID, err)
	}
	metrics.LockWaitDuration.WithLabelValues("acquired").Observe(time.Since(start).Seconds())
	defer unlock()

	return fn()
}

// normalizePage applies list defaults: page 1, limit def, limit capped at max.
func normalizePage(page, limit, def, max int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return page, limit
}
