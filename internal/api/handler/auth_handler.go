package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Sowndhar-gif/halleyx/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a customer account.
//
// @Summary      Register a new customer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, user)
}

// Login authenticates a customer and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSessionResponse(session))
}

// AdminLogin authenticates the configured administrator.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Admin credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/auth/admin-login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.authService.AdminLogin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSessionResponse(session))
}

// Impersonate issues a customer-level token to the calling admin.
//
// @Summary      Impersonate a customer
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        customerId  path      string  true  "Customer ID"
// @Success      200         {object}  sessionResponse
// @Failure      401         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /api/auth/impersonate/{customerId} [post]
func (h *AuthHandler) Impersonate(c echo.Context) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}

	session, err := h.authService.Impersonate(c.Request().Context(), admin, c.Param("customerId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSessionResponse(session))
}

func toSessionResponse(s *ports.Session) sessionResponse {
	return sessionResponse{
		Token:          s.Token,
		ExpiresAt:      s.ExpiresAt.UTC().Format(time.RFC3339),
		User:           s.User,
		ImpersonatedBy: s.ImpersonatedBy,
	}
}
