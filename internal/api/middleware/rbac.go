package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
)

// RequireRole rejects callers whose identity does not hold role. It must run after Auth.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := domain.Authorize(IdentityFrom(c), role); err != nil {
				return err
			}
			return next(c)
		}
	}
}
