package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
	"github.com/Sowndhar-gif/halleyx/internal/core/ports"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
)

// OrderHandler exposes the inventory engine over HTTP.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Place handles POST /api/orders.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Replays the original order when reused"
// @Param        body             body      placeOrderRequest  true   "Order details"
// @Success      201              {object}  domain.Order
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}

	var req placeOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.service.PlaceOrder(c.Request().Context(), ports.PlaceOrderInput{
		Actor:           id,
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		IdempotencyKey:  c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return err
	}

	if result.Replayed {
		c.Response().Header().Set(headerReplayed, "true")
	}
	return c.JSON(http.StatusCreated, result.Order)
}

// Mine handles GET /api/orders/mine.
//
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.OrderView
// @Failure      401  {object}  errorResponse
// @Router       /api/orders/mine [get]
func (h *OrderHandler) Mine(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListMine(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	if orders == nil {
		orders = []*domain.OrderView{}
	}
	return c.JSON(http.StatusOK, orders)
}

// List handles GET /api/orders.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status      query     string  false  "Exact status"
// @Param        customerId  query     string  false  "Customer ID"
// @Param        productId   query     string  false  "Product ID"
// @Param        startDate   query     string  false  "RFC3339 or YYYY-MM-DD, inclusive"
// @Param        endDate     query     string  false  "RFC3339 or YYYY-MM-DD, inclusive"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Page size (default 20, max 100)"
// @Success      200         {object}  listOrdersResponse
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	var q listOrdersQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	from, err := parseDate("startDate", q.StartDate, false)
	if err != nil {
		return err
	}
	to, err := parseDate("endDate", q.EndDate, true)
	if err != nil {
		return err
	}

	result, err := h.service.ListOrders(c.Request().Context(), ports.ListOrdersInput{
		CustomerID: q.CustomerID,
		ProductID:  q.ProductID,
		Status:     q.Status,
		DateFrom:   from,
		DateTo:     to,
		Page:       q.Page,
		Limit:      q.Limit,
	})
	if err != nil {
		return err
	}

	orders := result.Items
	if orders == nil {
		orders = []*domain.OrderView{}
	}
	return c.JSON(http.StatusOK, listOrdersResponse{
		Total:  result.Total,
		Page:   result.Page,
		Limit:  result.Limit,
		Orders: orders,
	})
}

// Update handles PUT /api/orders/:id.
//
// @Summary      Update an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Order ID"
// @Param        body  body      updateOrderRequest  true  "Fields to change"
// @Success      200   {object}  domain.Order
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}

	var req updateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	patch := domain.OrderPatch{
		Quantity:        req.Quantity,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
	}
	if req.Status != nil {
		status := domain.OrderStatus(*req.Status)
		patch.Status = &status
	}

	order, err := h.service.UpdateOrder(c.Request().Context(), id, c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Delete handles DELETE /api/orders/:id.
//
// @Summary      Delete an order and restore its stock
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  deleteOrderResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}

	removed, err := h.service.DeleteOrder(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteOrderResponse{Message: "Order deleted", Order: removed})
}

// parseDate accepts RFC3339 or a bare YYYY-MM-DD. A bare end date covers
// the whole day.
func parseDate(field, value string, endOfDay bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC3339 or YYYY-MM-DD", domain.ErrValidation, field)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
