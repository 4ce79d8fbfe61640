package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aunt-joys-restaurant/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the order repository.
type RepositoryInterface interface {
	Place(ctx context.Context, order *models.Order) error
	Transition(ctx context.Context, orderID int64, newStatus models.OrderStatus, changedBy int64, notes string) (models.OrderStatus, time.Time, error)
	FindByID(ctx context.Context, orderID int64) (*models.Order, error)
	FindByIDForCustomer(ctx context.Context, orderID, customerID int64) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID int64, status *models.OrderStatus) ([]*models.Order, error)
	ListAll(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new order repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// Place inserts the order header, its items in input order, and the initial
// Pending history row inside one transaction. On any failure the whole
// placement rolls back; a partial order is never visible.
func (r *Repository) Place(ctx context.Context, order *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository.Place: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (
			order_number, customer_id, delivery_address, contact_number,
			special_instructions, subtotal, delivery_fee, discount_amount,
			total_amount, order_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING order_id, created_at, updated_at`,
		order.OrderNumber, order.CustomerID, order.DeliveryAddress, order.ContactNumber,
		order.SpecialInstructions, order.Subtotal, order.DeliveryFee, order.DiscountAmount,
		order.TotalAmount, order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("repository.Place: insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, meal_id, meal_name, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING order_item_id`,
			order.ID, item.MealID, item.MealName, item.Quantity, item.UnitPrice, item.Subtotal,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("repository.Place: insert item: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_history (order_id, old_status, new_status, changed_by, notes)
		VALUES ($1, NULL, $2, $3, $4)`,
		order.ID, models.StatusPending, order.CustomerID, "Order placed by customer")
	if err != nil {
		return fmt.Errorf("repository.Place: insert history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository.Place: commit: %w", err)
	}
	return nil
}

// Transition moves an order to newStatus. The order row is locked with
// SELECT ... FOR UPDATE so two concurrent transitions against the same order
// serialize instead of losing an update; the allowed-transitions table is
// re-checked under the lock.
func (r *Repository) Transition(ctx context.Context, orderID int64, newStatus models.OrderStatus, changedBy int64, notes string) (models.OrderStatus, time.Time, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("repository.Transition: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var oldStatus models.OrderStatus
	err = tx.QueryRow(ctx,
		`SELECT order_status FROM orders WHERE order_id = $1 FOR UPDATE`,
		orderID,
	).Scan(&oldStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, models.ErrNotFound
		}
		return "", time.Time{}, fmt.Errorf("repository.Transition: lock order: %w", err)
	}

	if oldStatus == newStatus {
		return oldStatus, time.Time{}, models.ErrSameStatus
	}
	if !oldStatus.CanTransitionTo(newStatus) {
		return oldStatus, time.Time{}, fmt.Errorf("cannot change status from %s to %s: %w",
			oldStatus, newStatus, models.ErrInvalidTransition)
	}

	var updatedAt time.Time
	err = tx.QueryRow(ctx, `
		UPDATE orders
		SET order_status = $1,
		    delivered_at = CASE WHEN $1 = 'Delivered' THEN CURRENT_TIMESTAMP ELSE delivered_at END,
		    processed_by = $2,
		    updated_at = CURRENT_TIMESTAMP
		WHERE order_id = $3
		RETURNING updated_at`,
		newStatus, changedBy, orderID,
	).Scan(&updatedAt)
	if err != nil {
		return oldStatus, time.Time{}, fmt.Errorf("repository.Transition: update order: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_history (order_id, old_status, new_status, changed_by, notes)
		VALUES ($1, $2, $3, $4, $5)`,
		orderID, oldStatus, newStatus, changedBy, notes)
	if err != nil {
		return oldStatus, time.Time{}, fmt.Errorf("repository.Transition: insert history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return oldStatus, time.Time{}, fmt.Errorf("repository.Transition: commit: %w", err)
	}
	return oldStatus, updatedAt, nil
}

const orderColumns = `
	o.order_id, o.order_number, o.customer_id, o.delivery_address, o.contact_number,
	o.special_instructions, o.subtotal, o.delivery_fee, o.discount_amount, o.total_amount,
	o.order_status, o.created_at, o.updated_at, o.delivered_at, o.processed_by`

// scanOrder is a helper to scan a joined orders row into an Order model.
func scanOrder(row pgx.Row, withCustomer bool) (*models.Order, error) {
	var o models.Order
	dest := []any{
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.DeliveryAddress, &o.ContactNumber,
		&o.SpecialInstructions, &o.Subtotal, &o.DeliveryFee, &o.DiscountAmount, &o.TotalAmount,
		&o.Status, &o.CreatedAt, &o.UpdatedAt, &o.DeliveredAt, &o.ProcessedBy,
	}
	if withCustomer {
		dest = append(dest, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return &o, nil
}

// FindByID retrieves a single order with items and full status history
// (staff view, unscoped).
func (r *Repository) FindByID(ctx context.Context, orderID int64) (*models.Order, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+orderColumns+`, u.full_name, u.email, u.phone_number
		FROM orders o
		INNER JOIN users u ON o.customer_id = u.user_id
		WHERE o.order_id = $1`, orderID)

	order, err := scanOrder(row, true)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}

	if err := r.loadItems(ctx, order, true); err != nil {
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	if err := r.loadHistory(ctx, order); err != nil {
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return order, nil
}

// FindByIDForCustomer retrieves a single order with items, scoped to the
// owning customer. A foreign order id resolves to ErrNotFound; the caller
// cannot tell the two cases apart.
func (r *Repository) FindByIDForCustomer(ctx context.Context, orderID, customerID int64) (*models.Order, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+orderColumns+`, u.full_name, u.email, u.phone_number
		FROM orders o
		INNER JOIN users u ON o.customer_id = u.user_id
		WHERE o.order_id = $1 AND o.customer_id = $2`, orderID, customerID)

	order, err := scanOrder(row, true)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("repository.FindByIDForCustomer: %w", err)
	}

	if err := r.loadItems(ctx, order, false); err != nil {
		return nil, fmt.Errorf("repository.FindByIDForCustomer: %w", err)
	}
	return order, nil
}

func (r *Repository) loadItems(ctx context.Context, order *models.Order, withImage bool) error {
	query := `
		SELECT oi.order_item_id, oi.order_id, oi.meal_id, oi.meal_name,
		       oi.quantity, oi.unit_price, oi.subtotal
		FROM order_items oi
		WHERE oi.order_id = $1
		ORDER BY oi.order_item_id`
	if withImage {
		// The meal may have been deleted since ordering; the snapshot line
		// survives with a NULL image.
		query = `
			SELECT oi.order_item_id, oi.order_id, oi.meal_id, oi.meal_name,
			       oi.quantity, oi.unit_price, oi.subtotal, m.image_url
			FROM order_items oi
			LEFT JOIN meals m ON oi.meal_id = m.meal_id
			WHERE oi.order_id = $1
			ORDER BY oi.order_item_id`
	}

	rows, err := r.db.Query(ctx, query, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		dest := []any{&item.ID, &item.OrderID, &item.MealID, &item.MealName,
			&item.Quantity, &item.UnitPrice, &item.Subtotal}
		if withImage {
			dest = append(dest, &item.ImageURL)
		}
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

func (r *Repository) loadHistory(ctx context.Context, order *models.Order) error {
	rows, err := r.db.Query(ctx, `
		SELECT h.history_id, h.order_id, h.old_status, h.new_status,
		       h.changed_by, u.full_name, h.notes, h.changed_at
		FROM order_status_history h
		INNER JOIN users u ON h.changed_by = u.user_id
		WHERE h.order_id = $1
		ORDER BY h.changed_at ASC`, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.StatusHistoryEntry
		if err := rows.Scan(&entry.ID, &entry.OrderID, &entry.OldStatus, &entry.NewStatus,
			&entry.ChangedBy, &entry.ChangedByName, &entry.Notes, &entry.ChangedAt); err != nil {
			return err
		}
		order.StatusHistory = append(order.StatusHistory, entry)
	}
	return rows.Err()
}

// ListByCustomer retrieves a customer's own orders, newest first.
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64, status *models.OrderStatus) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		WHERE o.customer_id = $1`
	args := []any{customerID}

	if status != nil {
		query += ` AND o.order_status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY o.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.ListByCustomer: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows, false)
		if err != nil {
			return nil, fmt.Errorf("repository.ListByCustomer: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// ListAll retrieves all orders with customer details and item counts for the
// staff dashboard, newest first.
func (r *Repository) ListAll(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `,
		       u.full_name, u.email, u.phone_number,
		       COUNT(oi.order_item_id) AS item_count
		FROM orders o
		INNER JOIN users u ON o.customer_id = u.user_id
		LEFT JOIN order_items oi ON o.order_id = oi.order_id`
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" WHERE o.order_status = $%d", len(args))
	}
	query += ` GROUP BY o.order_id, u.user_id ORDER BY o.created_at DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.ListAll: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		var o models.Order
		err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.CustomerID, &o.DeliveryAddress, &o.ContactNumber,
			&o.SpecialInstructions, &o.Subtotal, &o.DeliveryFee, &o.DiscountAmount, &o.TotalAmount,
			&o.Status, &o.CreatedAt, &o.UpdatedAt, &o.DeliveredAt, &o.ProcessedBy,
			&o.CustomerName, &o.CustomerEmail, &o.CustomerPhone, &o.ItemCount,
		)
		if err != nil {
			return nil, fmt.Errorf("repository.ListAll: %w", err)
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}
