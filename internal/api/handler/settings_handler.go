package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
	"github.com/Sowndhar-gif/halleyx/internal/core/ports"
)

type SettingsHandler struct {
	service ports.SettingsService
}

func NewSettingsHandler(service ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Branding handles GET /api/settings/branding.
//
// @Summary      Get branding settings
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Branding
// @Router       /api/settings/branding [get]
func (h *SettingsHandler) Branding(c echo.Context) error {
	b, err := h.service.Branding(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// UpdateBranding handles PUT /api/settings/branding. Empty fields are ignored.
//
// @Summary      Update branding settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      brandingRequest  true  "Non-empty fields overwrite"
// @Success      200   {object}  brandingResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/settings/branding [put]
func (h *SettingsHandler) UpdateBranding(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}

	var req brandingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	b, err := h.service.UpdateBranding(c.Request().Context(), id, domain.Branding{
		LogoURL:        req.LogoURL,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
		FontFamily:     req.FontFamily,
		CustomHTML:     req.CustomHTML,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, brandingResponse{Message: "Branding settings updated", BrandingSettings: b})
}

// Dashboard handles GET /api/settings/admin-dashboard.
//
// @Summary      Admin dashboard counters
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.DashboardStats
// @Failure      403  {object}  errorResponse
// @Router       /api/settings/admin-dashboard [get]
func (h *SettingsHandler) Dashboard(c echo.Context) error {
	stats, err := h.service.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
