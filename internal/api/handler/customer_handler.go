package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
	"github.com/Sowndhar-gif/halleyx/internal/core/ports"
)

// CustomerHandler serves the admin customer directory.
type CustomerHandler struct {
	service ports.CustomerService
}

func NewCustomerHandler(service ports.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// List handles GET /api/customers.
//
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Matches first name, last name or email"
// @Param        status  query     string  false  "active | blocked"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  listCustomersResponse
// @Failure      403     {object}  errorResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	var q listCustomersQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	result, err := h.service.List(c.Request().Context(), ports.ListCustomersInput{
		Search: q.Search,
		Status: q.Status,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		return err
	}

	customers := result.Items
	if customers == nil {
		customers = []*domain.User{}
	}
	return c.JSON(http.StatusOK, listCustomersResponse{
		Total:     result.Total,
		Page:      result.Page,
		Limit:     result.Limit,
		Customers: customers,
	})
}

// Get handles GET /api/customers/:id.
//
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  errorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Create handles POST /api/customers.
//
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCustomerRequest  true  "Customer"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}

	var req createCustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), id, ports.CustomerInput{
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

// Update handles PUT /api/customers/:id.
//
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Customer ID"
// @Param        body  body      updateCustomerRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}

	var req updateCustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), id, c.Param("id"), ports.CustomerPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Blocked:   req.Blocked,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ResetPassword handles POST /api/customers/:id/reset-password.
//
// @Summary      Reset a customer's password
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  resetPasswordResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/customers/{id}/reset-password [post]
func (h *CustomerHandler) ResetPassword(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}

	reset, err := h.service.ResetPassword(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}

	if !reset.Revealed {
		return c.JSON(http.StatusOK, resetPasswordResponse{
			Message: "Password reset; deliver the temporary password to the customer out of band",
		})
	}
	return c.JSON(http.StatusOK, resetPasswordResponse{Message: "Password reset", TempPassword: reset.TempPassword})
}

// Delete handles DELETE /api/customers/:id.
//
// @Summary      Delete a customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Customer deleted"})
}
