package order

import (
	"errors"
	"net/http"
	"strconv"

	"aunt-joys-restaurant/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for orders.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new order handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// PlaceOrder accepts a cart snapshot from a customer.
func (h *Handler) PlaceOrder(c echo.Context) error {
	customerID := c.Get("userID").(int64)

	var req models.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Missing required fields: delivery_address, contact_number, items"))
	}

	resp, err := h.svc.PlaceOrder(c.Request().Context(), customerID, req)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		}
		c.Logger().Error("Handler.PlaceOrder: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to place order"))
	}

	return c.JSON(http.StatusCreated, models.OK(resp, "Order placed successfully"))
}

// UpdateStatus moves an order along the transition table (staff only).
func (h *Handler) UpdateStatus(c echo.Context) error {
	staffID := c.Get("userID").(int64)

	var req models.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Order ID and new status are required"))
	}

	resp, err := h.svc.UpdateStatus(c.Request().Context(), staffID, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.Fail("Order not found"))
		case errors.Is(err, models.ErrSameStatus):
			return c.JSON(http.StatusConflict, models.Fail("Order is already in "+req.NewStatus+" status"))
		case errors.Is(err, models.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, models.Fail(err.Error()))
		case errors.Is(err, models.ErrValidation):
			return c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		}
		c.Logger().Error("Handler.UpdateStatus: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to update order status"))
	}

	return c.JSON(http.StatusOK, models.OK(resp, "Order status updated successfully"))
}

// ListMyOrders returns the authenticated customer's orders.
func (h *Handler) ListMyOrders(c echo.Context) error {
	customerID := c.Get("userID").(int64)

	orders, err := h.svc.ListCustomerOrders(c.Request().Context(), customerID, c.QueryParam("status"))
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		}
		c.Logger().Error("Handler.ListMyOrders: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch orders"))
	}

	return c.JSON(http.StatusOK, models.OK(orders, "Orders retrieved successfully"))
}

// GetMyOrder returns one of the customer's own orders with its items.
func (h *Handler) GetMyOrder(c echo.Context) error {
	customerID := c.Get("userID").(int64)

	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Invalid order ID"))
	}

	order, err := h.svc.GetCustomerOrder(c.Request().Context(), customerID, orderID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Fail("Order not found"))
		}
		c.Logger().Error("Handler.GetMyOrder: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch order"))
	}

	return c.JSON(http.StatusOK, models.OK(order, "Order details retrieved"))
}

// ListOrders returns all orders for the staff dashboard.
func (h *Handler) ListOrders(c echo.Context) error {
	limit := 0
	offset := 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			offset = n
		}
	}

	orders, err := h.svc.ListOrders(c.Request().Context(), c.QueryParam("status"), limit, offset)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		}
		c.Logger().Error("Handler.ListOrders: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch orders"))
	}

	return c.JSON(http.StatusOK, models.OK(orders, "Orders retrieved successfully"))
}

// GetOrder returns a single order with items and full status history.
func (h *Handler) GetOrder(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Invalid order ID"))
	}

	order, err := h.svc.GetOrder(c.Request().Context(), orderID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Fail("Order not found"))
		}
		c.Logger().Error("Handler.GetOrder: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch order"))
	}

	return c.JSON(http.StatusOK, models.OK(order, "Order details retrieved"))
}
