package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Sowndhar-gif/halleyx/internal/api/middleware"
	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
)

// actor returns the identity injected by the Auth middleware and fails fast
// with domain.ErrUnauthenticated when the route was mounted without it.
func actor(c echo.Context) (*domain.Identity, error) {
	id := middleware.IdentityFrom(c)
	if id == nil || id.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return id, nil
}

// bindAndValidate decodes the request into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
