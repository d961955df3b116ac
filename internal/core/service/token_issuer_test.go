package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
)

func TestJWTIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour)
	user := &domain.User{ID: "u1", Email: "a@example.com", Role: domain.RoleCustomer}

	token, expiresAt, err := issuer.Issue(user, "admin-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if d := time.Until(expiresAt); d < 59*time.Minute || d > time.Hour {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}

	id, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != "u1" || id.Email != "a@example.com" || id.Role != domain.RoleCustomer || id.ImpersonatedBy != "admin-1" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestJWTIssuer_DefaultTTL(t *testing.T) {
	if got := NewJWTIssuer("secret", 0).ttl; got != time.Hour {
		t.Fatalf("expected 1h default, got %v", got)
	}
}

func TestJWTIssuer_RejectsExpired(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := issuer.Issue(&domain.User{ID: "u1", Role: domain.RoleCustomer}, "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	issuer.now = time.Now
	if _, err := issuer.Verify(token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestJWTIssuer_RejectsWrongSecret(t *testing.T) {
	token, _, _ := NewJWTIssuer("secret", time.Hour).Issue(&domain.User{ID: "u1", Role: domain.RoleAdmin}, "")

	if _, err := NewJWTIssuer("other", time.Hour).Verify(token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestJWTIssuer_RejectsUnsignedAndForeignAlgorithms(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour)
	claims := jwt.MapClaims{"id": "u1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()}

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := issuer.Verify(none); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected none-alg token to be rejected, got %v", err)
	}

	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if _, err := issuer.Verify(hs512); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected HS512 token to be rejected, got %v", err)
	}
}

func TestJWTIssuer_RejectsMissingExpiryAndUnknownRole(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour)

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "u1", "role": "admin"}).SignedString([]byte("secret"))
	if _, err := issuer.Verify(noExp); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected token without exp to be rejected, got %v", err)
	}

	badRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": "u1", "role": "superuser", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if _, err := issuer.Verify(badRole); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unknown role to be rejected, got %v", err)
	}
}
