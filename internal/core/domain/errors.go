package domain

import "errors"

// Validation and state errors. Handlers map these to HTTP codes with errors.Is,
// so wrap them with fmt.Errorf("...: %w", err) rather than replacing them.
var (
	ErrValidation          = errors.New("validation failed")
	ErrInvalidQuantity     = errors.New("quantity must be a positive integer")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrProductHasOrders    = errors.New("cannot delete product with existing orders")
	ErrEmailTaken          = errors.New("email already registered")
	ErrIdempotencyInFlight = errors.New("a request with this idempotency key is still in progress")
	ErrOrderConflict       = errors.New("order was modified concurrently; retry")
	ErrLockTimeout         = errors.New("timed out waiting for product lock")
)

// Lookup errors.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
)

// Identity errors.
var (
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrInvalidAdminCredentials = errors.New("invalid admin credentials")
	ErrAccountBlocked          = errors.New("account is blocked")
	ErrUnauthenticated         = errors.New("missing or invalid token")
	ErrForbidden               = errors.New("forbidden: insufficient permissions")
)

// IsNotFound reports whether err is any of the lookup errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}
