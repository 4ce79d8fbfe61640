package order

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"aunt-joys-restaurant/internal/models"

	"github.com/google/uuid"
)

// ServiceInterface defines the contract for the order service.
type ServiceInterface interface {
	PlaceOrder(ctx context.Context, customerID int64, req models.PlaceOrderRequest) (*models.PlaceOrderResponse, error)
	UpdateStatus(ctx context.Context, staffID int64, req models.UpdateStatusRequest) (*models.UpdateStatusResponse, error)
	GetCustomerOrder(ctx context.Context, customerID, orderID int64) (*models.Order, error)
	ListCustomerOrders(ctx context.Context, customerID int64, status string) ([]*models.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*models.Order, error)
	ListOrders(ctx context.Context, status string, limit, offset int) ([]*models.Order, error)
}

// Service implements the order placement, transition and query logic.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new order service.
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// generateOrderNumber builds a human-readable order identifier,
// ORD-<UTC date>-<6 hex chars>. Collisions are treated as negligible and
// backed by a unique constraint on the column.
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:6]
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}

// PlaceOrder validates a cart snapshot and persists it atomically: order
// header, line items in input order, and the initial Pending history row.
func (s *Service) PlaceOrder(ctx context.Context, customerID int64, req models.PlaceOrderRequest) (*models.PlaceOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", models.ErrValidation)
	}
	if req.TotalAmount <= 0 {
		return nil, fmt.Errorf("%w: invalid order total", models.ErrValidation)
	}

	deliveryFee := models.DefaultDeliveryFee
	if req.DeliveryFee != nil {
		deliveryFee = *req.DeliveryFee
	}

	if math.Abs(req.Subtotal+deliveryFee-req.DiscountAmount-req.TotalAmount) > 0.009 {
		return nil, fmt.Errorf("%w: total amount does not match subtotal, delivery fee and discount", models.ErrValidation)
	}

	order := &models.Order{
		OrderNumber:         generateOrderNumber(),
		CustomerID:          customerID,
		DeliveryAddress:     req.DeliveryAddress,
		ContactNumber:       req.ContactNumber,
		SpecialInstructions: req.SpecialInstructions,
		Subtotal:            req.Subtotal,
		DeliveryFee:         deliveryFee,
		DiscountAmount:      req.DiscountAmount,
		TotalAmount:         req.TotalAmount,
		Status:              models.StatusPending,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			MealID:    item.MealID,
			MealName:  item.MealName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}

	if err := s.repo.Place(ctx, order); err != nil {
		return nil, fmt.Errorf("service.PlaceOrder: %w", err)
	}

	return &models.PlaceOrderResponse{
		OrderID:              order.ID,
		OrderNumber:          order.OrderNumber,
		TotalAmount:          order.TotalAmount,
		TotalAmountFormatted: models.FormatCurrency(order.TotalAmount),
	}, nil
}

// UpdateStatus moves an order along the transition table on behalf of a staff
// principal. No-op requests are rejected, as is anything outside the table.
func (s *Service) UpdateStatus(ctx context.Context, staffID int64, req models.UpdateStatusRequest) (*models.UpdateStatusResponse, error) {
	newStatus, err := models.ParseOrderStatus(req.NewStatus)
	if err != nil {
		return nil, err
	}

	notes := req.Notes
	if notes == "" {
		notes = fmt.Sprintf("Status updated to %s", newStatus)
	}

	oldStatus, updatedAt, err := s.repo.Transition(ctx, req.OrderID, newStatus, staffID, notes)
	if err != nil {
		return nil, err
	}

	return &models.UpdateStatusResponse{
		OrderID:   req.OrderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Timestamp: updatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// GetCustomerOrder retrieves one of the customer's own orders with its items.
// An order belonging to someone else is indistinguishable from a missing one.
func (s *Service) GetCustomerOrder(ctx context.Context, customerID, orderID int64) (*models.Order, error) {
	order, err := s.repo.FindByIDForCustomer(ctx, orderID, customerID)
	if err != nil {
		return nil, err
	}
	formatOrderAmounts(order)
	return order, nil
}

// ListCustomerOrders retrieves the customer's orders, newest first, with an
// optional status filter.
func (s *Service) ListCustomerOrders(ctx context.Context, customerID int64, status string) ([]*models.Order, error) {
	filter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.ListByCustomer(ctx, customerID, filter)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.TotalAmountFormatted = models.FormatCurrency(o.TotalAmount)
	}
	return orders, nil
}

// GetOrder retrieves any order with items and full status history (staff view).
func (s *Service) GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	formatOrderAmounts(order)
	return order, nil
}

// ListOrders retrieves all orders for the staff dashboard.
func (s *Service) ListOrders(ctx context.Context, status string, limit, offset int) ([]*models.Order, error) {
	filter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	orders, err := s.repo.ListAll(ctx, models.OrderFilter{Status: filter, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.TotalAmountFormatted = models.FormatCurrency(o.TotalAmount)
	}
	return orders, nil
}

func parseStatusFilter(status string) (*models.OrderStatus, error) {
	if status == "" {
		return nil, nil
	}
	parsed, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func formatOrderAmounts(o *models.Order) {
	o.SubtotalFormatted = models.FormatCurrency(o.Subtotal)
	o.DeliveryFeeFormatted = models.FormatCurrency(o.DeliveryFee)
	o.DiscountAmountFormatted = models.FormatCurrency(o.DiscountAmount)
	o.TotalAmountFormatted = models.FormatCurrency(o.TotalAmount)
}
