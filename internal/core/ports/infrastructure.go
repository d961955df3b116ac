package ports

import (
	"context"
	"time"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
)

// PasswordHasher is the credential verifier: a slow, salted one-way function.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, credential string) bool
}

// TokenIssuer mints and verifies stateless session tokens.
type TokenIssuer interface {
	// Issue signs a token for user. delegatedBy is the admin id for impersonation
	// tokens and empty otherwise.
	Issue(user *domain.User, delegatedBy string) (token string, expiresAt time.Time, err error)
	// Verify returns domain.ErrUnauthenticated for a bad signature, a malformed
	// token or an expired one.
	Verify(token string) (*domain.Identity, error)
}

// Locker provides mutual exclusion per key across every caller sharing the backend.
type Locker interface {
	// Lock blocks until key is held or ctx is done. The returned func releases it.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// IdempotencyStore deduplicates order placement retries.
type IdempotencyStore interface {
	// Claim reserves key. When the key was already completed it returns the
	// stored order id and claimed=false; when it is claimed but not completed it
	// returns domain.ErrIdempotencyInFlight.
	Claim(ctx context.Context, key string) (orderID string, claimed bool, err error)
	Complete(ctx context.Context, key, orderID string) error
	Release(ctx context.Context, key string) error
}

// AuditRecorder accepts audit events without blocking the caller on persistence.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// BrandingStore loads and saves branding settings.
type BrandingStore interface {
	Load(ctx context.Context) (domain.Branding, error)
	Save(ctx context.Context, b domain.Branding) error
}
