package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
)

const defaultTokenTTL = time.Hour

// sessionClaims is the token payload. ImpersonatedBy is set only on delegated tokens.
type sessionClaims struct {
	UserID         string `json:"id"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	ImpersonatedBy string `json:"impersonatedBy,omitempty"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 session tokens. Tokens are not revocable: a leaked token
// stays valid until it expires.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *JWTIssuer) Issue(user *domain.User, delegatedBy string) (string, time.Time, error) {
	if user == nil || user.ID == "" {
		return "", time.Time{}, errors.New("issue token: user id is required")
	}

	now := i.now().UTC()
	expiresAt := now.Add(i.ttl)
	claims := sessionClaims{
		UserID:         user.ID,
		Email:          user.Email,
		Role:           string(user.Role),
		ImpersonatedBy: delegatedBy,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (i *JWTIssuer) Verify(token string) (*domain.Identity, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	role := domain.Role(claims.Role)
	if claims.UserID == "" || !role.Valid() {
		return nil, fmt.Errorf("%w: incomplete claims", domain.ErrUnauthenticated)
	}

	return &domain.Identity{
		UserID:         claims.UserID,
		Email:          claims.Email,
		Role:           role,
		ImpersonatedBy: claims.ImpersonatedBy,
	}, nil
}
