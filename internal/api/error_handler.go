package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
)

// errorStatuses is checked in order; the first sentinel found in the chain wins.
var errorStatuses = []struct {
	target error
	code   int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrInvalidQuantity, http.StatusBadRequest},
	{domain.ErrInsufficientStock, http.StatusBadRequest},
	{domain.ErrEmailTaken, http.StatusBadRequest},
	{domain.ErrInvalidAdminCredentials, http.StatusBadRequest},
	{domain.ErrInvalidCredentials, http.StatusBadRequest},
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrAccountBlocked, http.StatusForbidden},
	{domain.ErrOrderNotFound, http.StatusNotFound},
	{domain.ErrProductNotFound, http.StatusNotFound},
	{domain.ErrCustomerNotFound, http.StatusNotFound},
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrProductHasOrders, http.StatusConflict},
	{domain.ErrIdempotencyInFlight, http.StatusConflict},
	{domain.ErrOrderConflict, http.StatusConflict},
	{domain.ErrLockTimeout, http.StatusServiceUnavailable},
}

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range errorStatuses {
		if errors.Is(err, m.target) {
			if m.code >= http.StatusInternalServerError {
				log.Warn().Err(err).Str("path", c.Path()).Msg("request not served")
			}
			return m.code, publicMessage(err, m.target)
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// publicMessage drops the operation prefixes added while err bubbled up and
// keeps the sentinel text plus any detail appended after it.
func publicMessage(err, target error) string {
	msg := err.Error()
	if i := strings.Index(msg, target.Error()); i >= 0 {
		return msg[i:]
	}
	return target.Error()
}
