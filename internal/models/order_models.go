package models

import "time"

// DefaultDeliveryFee applies when a placement request omits delivery_fee.
const DefaultDeliveryFee = 500.0

// Order is one purchase transaction. Orders are never deleted; once placed,
// only the transition service mutates them (status, processed_by, timestamps).
type Order struct {
	ID                  int64                `json:"order_id"`
	OrderNumber         string               `json:"order_number"`
	CustomerID          int64                `json:"customer_id"`
	CustomerName        string               `json:"customer_name,omitempty"`
	CustomerEmail       string               `json:"customer_email,omitempty"`
	CustomerPhone       string               `json:"customer_phone,omitempty"`
	DeliveryAddress     string               `json:"delivery_address"`
	ContactNumber       string               `json:"contact_number"`
	SpecialInstructions string               `json:"special_instructions,omitempty"`
	Subtotal            float64              `json:"subtotal"`
	DeliveryFee         float64              `json:"delivery_fee"`
	DiscountAmount      float64              `json:"discount_amount"`
	TotalAmount         float64              `json:"total_amount"`
	Status              OrderStatus          `json:"order_status"`
	ItemCount           int                  `json:"item_count,omitempty"`
	Items               []OrderItem          `json:"items,omitempty"`
	StatusHistory       []StatusHistoryEntry `json:"status_history,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
	DeliveredAt         *time.Time           `json:"delivered_at,omitempty"`
	ProcessedBy         *int64               `json:"processed_by,omitempty"`

	SubtotalFormatted       string `json:"subtotal_formatted,omitempty"`
	DeliveryFeeFormatted    string `json:"delivery_fee_formatted,omitempty"`
	DiscountAmountFormatted string `json:"discount_amount_formatted,omitempty"`
	TotalAmountFormatted    string `json:"total_amount_formatted,omitempty"`
}

// OrderItem is one line within an order. MealName and UnitPrice are snapshots
// taken at order time and must never be re-derived from the meals table.
type OrderItem struct {
	ID        int64   `json:"order_item_id"`
	OrderID   int64   `json:"order_id"`
	MealID    int64   `json:"meal_id"`
	MealName  string  `json:"meal_name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
	ImageURL  *string `json:"image_url,omitempty"`
}

// StatusHistoryEntry is one row of an order's append-only audit trail.
// OldStatus is nil for the initial Pending entry written at placement.
type StatusHistoryEntry struct {
	ID            int64        `json:"history_id"`
	OrderID       int64        `json:"order_id"`
	OldStatus     *OrderStatus `json:"old_status"`
	NewStatus     OrderStatus  `json:"new_status"`
	ChangedBy     int64        `json:"changed_by"`
	ChangedByName string       `json:"changed_by_name,omitempty"`
	Notes         string       `json:"notes"`
	ChangedAt     time.Time    `json:"changed_at"`
}

// PlaceOrderItem is one cart line in a placement request.
type PlaceOrderItem struct {
	MealID    int64   `json:"meal_id" validate:"required"`
	MealName  string  `json:"meal_name" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	UnitPrice float64 `json:"unit_price" validate:"required,gt=0"`
	Subtotal  float64 `json:"subtotal" validate:"required,gt=0"`
}

// PlaceOrderRequest is the cart snapshot a customer submits.
type PlaceOrderRequest struct {
	DeliveryAddress     string           `json:"delivery_address" validate:"required"`
	ContactNumber       string           `json:"contact_number" validate:"required"`
	SpecialInstructions string           `json:"special_instructions"`
	Subtotal            float64          `json:"subtotal" validate:"required,gt=0"`
	DeliveryFee         *float64         `json:"delivery_fee,omitempty" validate:"omitempty,gte=0"`
	DiscountAmount      float64          `json:"discount_amount" validate:"gte=0"`
	TotalAmount         float64          `json:"total_amount" validate:"required,gt=0"`
	Items               []PlaceOrderItem `json:"items" validate:"required,min=1,dive"`
}

// PlaceOrderResponse is returned on successful placement.
type PlaceOrderResponse struct {
	OrderID              int64   `json:"order_id"`
	OrderNumber          string  `json:"order_number"`
	TotalAmount          float64 `json:"total_amount"`
	TotalAmountFormatted string  `json:"total_amount_formatted"`
}

// UpdateStatusRequest asks the transition service to move an order.
type UpdateStatusRequest struct {
	OrderID   int64  `json:"order_id" validate:"required"`
	NewStatus string `json:"new_status" validate:"required"`
	Notes     string `json:"notes"`
}

// UpdateStatusResponse reports a completed transition.
type UpdateStatusResponse struct {
	OrderID   int64       `json:"order_id"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
	Timestamp string      `json:"timestamp"`
}

// OrderFilter narrows the staff order listing.
type OrderFilter struct {
	Status *OrderStatus
	Limit  int
	Offset int
}
