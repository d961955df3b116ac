package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
	"github.com/Sowndhar-gif/halleyx/internal/core/ports"
	"github.com/Sowndhar-gif/halleyx/internal/infrastructure/db/memory"
	"github.com/Sowndhar-gif/halleyx/internal/infrastructure/security"
)

const testAdminEmail = "admin@example.com"

func newTestAuthService(t *testing.T) (*AuthService, *memory.UserRepository, *JWTIssuer) {
	t.Helper()
	users := memory.NewUserRepository()
	issuer := NewJWTIssuer("secret", time.Hour)
	svc := NewAuthService(users, security.NewBcryptHasher(bcrypt.MinCost), issuer, testAdminEmail, zerolog.Nop())
	return svc, users, issuer
}

func seedUser(t *testing.T, users ports.UserRepository, email, password string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := users.Create(context.Background(), &domain.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Alice", LastName: "Liddell", Email: "Alice@Example.com", Password: "pass123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleCustomer {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), ports.RegisterInput{FirstName: "Bob", Email: "bob@example.com", Password: "x"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	in := ports.RegisterInput{FirstName: "Bob", LastName: "B", Email: "bob@example.com", Password: "pass"}

	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	in.Email = "BOB@example.com"
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, users, issuer := newTestAuthService(t)
	carol := seedUser(t, users, "carol@example.com", "s3cret", domain.RoleCustomer)

	session, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if session.User.ID != carol.ID {
		t.Fatalf("unexpected user: %+v", session.User)
	}

	id, err := issuer.Verify(session.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if id.UserID != carol.ID || id.Role != domain.RoleCustomer || id.Delegated() {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthService_Login_InvalidPasswordAndUnknownUserLookAlike(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, "dave@example.com", "goodpass", domain.RoleCustomer)

	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAuthService_Login_BlockedCustomer(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	u := seedUser(t, users, "eve@example.com", "pass", domain.RoleCustomer)
	u.Blocked = true
	if err := users.Update(context.Background(), u); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := svc.Login(context.Background(), "eve@example.com", "pass"); err != domain.ErrAccountBlocked {
		t.Fatalf("expected ErrAccountBlocked, got %v", err)
	}
}

func TestAuthService_AdminLogin(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, testAdminEmail, "rootpass", domain.RoleAdmin)
	seedUser(t, users, "other-admin@example.com", "rootpass", domain.RoleAdmin)
	seedUser(t, users, "cust@example.com", "pass", domain.RoleCustomer)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"reserved admin with correct password", testAdminEmail, "rootpass", nil},
		{"reserved address is case-insensitive", "ADMIN@example.com", "rootpass", nil},
		{"wrong password", testAdminEmail, "nope", domain.ErrInvalidAdminCredentials},
		{"admin role on another address", "other-admin@example.com", "rootpass", domain.ErrInvalidAdminCredentials},
		{"customer", "cust@example.com", "pass", domain.ErrInvalidAdminCredentials},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			session, err := svc.AdminLogin(context.Background(), tc.email, tc.password)
			if err != tc.wantErr {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr == nil && session.User.Role != domain.RoleAdmin {
				t.Fatalf("expected admin session, got %+v", session.User)
			}
		})
	}
}

func TestAuthService_AdminLogin_ReservedAddressWithCustomerRole(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, testAdminEmail, "pass", domain.RoleCustomer)

	if _, err := svc.AdminLogin(context.Background(), testAdminEmail, "pass"); err != domain.ErrInvalidAdminCredentials {
		t.Fatalf("expected ErrInvalidAdminCredentials, got %v", err)
	}
}

func TestAuthService_Impersonate(t *testing.T) {
	svc, users, issuer := newTestAuthService(t)
	admin := seedUser(t, users, testAdminEmail, "rootpass", domain.RoleAdmin)
	cust := seedUser(t, users, "cust@example.com", "pass", domain.RoleCustomer)
	adminID := &domain.Identity{UserID: admin.ID, Email: admin.Email, Role: domain.RoleAdmin}

	session, err := svc.Impersonate(context.Background(), adminID, cust.ID)
	if err != nil {
		t.Fatalf("impersonate: %v", err)
	}
	if session.ImpersonatedBy != admin.ID {
		t.Fatalf("expected impersonatedBy %s, got %s", admin.ID, session.ImpersonatedBy)
	}

	id, err := issuer.Verify(session.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != cust.ID || id.Role != domain.RoleCustomer || id.ImpersonatedBy != admin.ID {
		t.Fatalf("unexpected delegated identity: %+v", id)
	}
	if domain.Authorize(id, domain.RoleAdmin) != domain.ErrForbidden {
		t.Fatalf("delegated token must not carry admin rights")
	}

	// A delegated token cannot start another impersonation.
	if _, err := svc.Impersonate(context.Background(), id, cust.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAuthService_Impersonate_Rejections(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	admin := seedUser(t, users, testAdminEmail, "rootpass", domain.RoleAdmin)
	cust := seedUser(t, users, "cust@example.com", "pass", domain.RoleCustomer)
	adminID := &domain.Identity{UserID: admin.ID, Role: domain.RoleAdmin}
	custID := &domain.Identity{UserID: cust.ID, Role: domain.RoleCustomer}

	if _, err := svc.Impersonate(context.Background(), custID, cust.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for customer caller, got %v", err)
	}
	if _, err := svc.Impersonate(context.Background(), adminID, "missing"); err != domain.ErrCustomerNotFound {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
	if _, err := svc.Impersonate(context.Background(), adminID, admin.ID); err != domain.ErrCustomerNotFound {
		t.Fatalf("expected ErrCustomerNotFound for admin target, got %v", err)
	}
}

func TestAuthService_SeedAdmin_Idempotent(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	created, err := svc.SeedAdmin(ctx, "admin-pass")
	if err != nil || !created {
		t.Fatalf("expected first seed to create the admin, got created=%v err=%v", created, err)
	}

	created, err = svc.SeedAdmin(ctx, "other-pass")
	if err != nil || created {
		t.Fatalf("expected second seed to be a no-op, got created=%v err=%v", created, err)
	}

	admin, err := users.FindByEmail(ctx, testAdminEmail)
	if err != nil {
		t.Fatalf("admin not stored: %v", err)
	}
	if admin.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", admin.Role)
	}

	// The first password still works; the second seed did not overwrite it.
	if _, err := svc.AdminLogin(ctx, testAdminEmail, "admin-pass"); err != nil {
		t.Fatalf("admin login after seed: %v", err)
	}
}

func TestAuthService_SeedAdmin_RequiresPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.SeedAdmin(context.Background(), ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
