package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Sowndhar-gif/halleyx/internal/core/service"
	"github.com/Sowndhar-gif/halleyx/internal/infrastructure/db/memory"
	"github.com/Sowndhar-gif/halleyx/internal/infrastructure/security"
	"github.com/Sowndhar-gif/halleyx/internal/infrastructure/settings"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-pass"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zerolog.Nop()
	users := memory.NewUserRepository()
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository()
	locker := memory.NewLocker()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	tokens := service.NewJWTIssuer("test-secret", time.Hour)

	auth := service.NewAuthService(users, hasher, tokens, adminEmail, log)
	_, err := auth.SeedAdmin(context.Background(), adminPassword)
	require.NoError(t, err)

	e := NewRouter(Deps{
		Auth:      auth,
		Orders:    service.NewOrderService(orders, products, users, locker, memory.NewIdempotencyStore(), nil, time.Second, log),
		Products:  service.NewProductService(products, orders, locker, nil, time.Second, log),
		Customers: service.NewCustomerService(users, hasher, false, log),
		Settings: service.NewSettingsService(
			settings.NewFileStore(filepath.Join(t.TempDir(), "branding.json")), products, users, orders, log),
		Tokens:   tokens,
		Registry: prometheus.NewRegistry(),
		Log:      log,
	})
	return &testServer{t: t, handler: e}
}

func (s *testServer) do(method, path, token, body string) (int, map[string]any) {
	s.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	out := map[string]any{}
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func (s *testServer) login(path, email, password string) string {
	s.t.Helper()
	code, resp := s.do(http.MethodPost, path, "", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(s.t, http.StatusOK, code, "login: %v", resp)
	return resp["token"].(string)
}

func (s *testServer) register(email string) (id, token string) {
	s.t.Helper()
	code, resp := s.do(http.MethodPost, "/api/auth/register", "",
		`{"firstName":"Cus","lastName":"Tomer","email":"`+email+`","password":"pw"}`)
	require.Equal(s.t, http.StatusCreated, code, "register: %v", resp)
	return resp["id"].(string), s.login("/api/auth/login", email, "pw")
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)

	code, resp := s.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp["status"])

	code, _ = s.do(http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_AuthErrors(t *testing.T) {
	s := newTestServer(t)
	s.register("amy@example.com")

	code, resp := s.do(http.MethodPost, "/api/auth/register", "", `{"firstName":"A","lastName":"B","email":"AMY@example.com","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "email already registered", resp["error"])

	code, resp = s.do(http.MethodPost, "/api/auth/login", "", `{"email":"amy@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid credentials", resp["error"])

	code, resp = s.do(http.MethodPost, "/api/auth/admin-login", "", `{"email":"amy@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid admin credentials", resp["error"])

	code, _ = s.do(http.MethodGet, "/api/orders/mine", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodGet, "/api/orders/mine", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_RoleGate(t *testing.T) {
	s := newTestServer(t)
	_, customer := s.register("cus@example.com")

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/orders"},
		{http.MethodPut, "/api/orders/x"},
		{http.MethodDelete, "/api/orders/x"},
		{http.MethodPost, "/api/products"},
		{http.MethodGet, "/api/customers"},
		{http.MethodPut, "/api/settings/branding"},
		{http.MethodGet, "/api/settings/admin-dashboard"},
		{http.MethodPost, "/api/auth/impersonate/x"},
	} {
		code, resp := s.do(route.method, route.path, customer, `{}`)
		assert.Equal(t, http.StatusForbidden, code, "%s %s", route.method, route.path)
		assert.NotEmpty(t, resp["error"])
	}

	code, _ := s.do(http.MethodGet, "/api/settings/branding", customer, "")
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_OrderLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("/api/auth/admin-login", adminEmail, adminPassword)
	_, customer := s.register("cus@example.com")

	code, product := s.do(http.MethodPost, "/api/products", admin, `{"name":"Mug","price":"4.50","stock":5}`)
	require.Equal(t, http.StatusCreated, code, "%v", product)
	productID := product["id"].(string)

	code, resp := s.do(http.MethodPost, "/api/orders", customer, `{"productId":"`+productID+`","quantity":6}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "insufficient stock", resp["error"])

	code, resp = s.do(http.MethodPost, "/api/orders", customer, `{"productId":"missing","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "product not found", resp["error"])

	code, order := s.do(http.MethodPost, "/api/orders", customer, `{"productId":"`+productID+`","quantity":2}`)
	require.Equal(t, http.StatusCreated, code, "%v", order)
	orderID := order["id"].(string)

	code, resp = s.do(http.MethodDelete, "/api/products/"+productID, admin, "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "cannot delete product with existing orders", resp["error"])

	code, resp = s.do(http.MethodPut, "/api/orders/"+orderID, admin, `{"quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, code, "%v", resp)

	code, list := s.do(http.MethodGet, "/api/orders?productId="+productID, admin, "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, list["total"])
	assert.EqualValues(t, 20, list["limit"])

	code, resp = s.do(http.MethodDelete, "/api/orders/"+orderID, admin, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Order deleted", resp["message"])

	code, got := s.do(http.MethodGet, "/api/products/"+productID, admin, "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 5, got["stock"])

	code, resp = s.do(http.MethodDelete, "/api/orders/"+orderID, admin, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "order not found", resp["error"])
}

func TestRouter_Impersonation(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("/api/auth/admin-login", adminEmail, adminPassword)
	customerID, _ := s.register("cus@example.com")

	code, session := s.do(http.MethodPost, "/api/auth/impersonate/"+customerID, admin, "")
	require.Equal(t, http.StatusOK, code, "%v", session)
	assert.NotEmpty(t, session["impersonatedBy"])
	delegated := session["token"].(string)

	// The delegated token acts as the customer, never as the admin.
	code, _ = s.do(http.MethodGet, "/api/orders/mine", delegated, "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodGet, "/api/customers", delegated, "")
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodPost, "/api/auth/impersonate/"+customerID, delegated, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, resp := s.do(http.MethodPost, "/api/auth/impersonate/nobody", admin, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "customer not found", resp["error"])
}

func TestRouter_BlockedCustomerCannotLogin(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("/api/auth/admin-login", adminEmail, adminPassword)
	customerID, _ := s.register("cus@example.com")

	code, _ := s.do(http.MethodPut, "/api/customers/"+customerID, admin, `{"isBlocked":true}`)
	require.Equal(t, http.StatusOK, code)

	code, resp := s.do(http.MethodPost, "/api/auth/login", "", `{"email":"cus@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "account is blocked", resp["error"])
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/health", "", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_http_requests_total")
}
