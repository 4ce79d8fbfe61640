package reports

import (
	"context"
	"fmt"

	"aunt-joys-restaurant/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the report repository.
type RepositoryInterface interface {
	MonthlySummary(ctx context.Context, month, year int) (*models.ReportSummary, error)
	BestSellers(ctx context.Context, month, year, limit int) ([]models.BestSeller, error)
	DailySales(ctx context.Context, month, year int) ([]models.DailySales, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new report repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// MonthlySummary aggregates order counts and revenue for one month.
func (r *Repository) MonthlySummary(ctx context.Context, month, year int) (*models.ReportSummary, error) {
	var s models.ReportSummary
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(total_amount), 0),
		       COALESCE(AVG(total_amount), 0),
		       COUNT(*) FILTER (WHERE order_status = 'Delivered'),
		       COUNT(*) FILTER (WHERE order_status = 'Cancelled')
		FROM orders
		WHERE EXTRACT(MONTH FROM created_at) = $1
		  AND EXTRACT(YEAR FROM created_at) = $2`,
		month, year,
	).Scan(&s.TotalOrders, &s.TotalRevenue, &s.AverageOrderValue, &s.CompletedOrders, &s.CancelledOrders)
	if err != nil {
		return nil, fmt.Errorf("repository.MonthlySummary: %w", err)
	}
	return &s, nil
}

// BestSellers ranks meals by quantity sold in orders that reached the
// delivery pipeline during the month.
func (r *Repository) BestSellers(ctx context.Context, month, year, limit int) ([]models.BestSeller, error) {
	rows, err := r.db.Query(ctx, `
		SELECT m.meal_id, m.meal_name, m.image_url, c.category_name,
		       SUM(oi.quantity), SUM(oi.subtotal), COUNT(DISTINCT o.order_id)
		FROM order_items oi
		INNER JOIN meals m ON oi.meal_id = m.meal_id
		INNER JOIN categories c ON m.category_id = c.category_id
		INNER JOIN orders o ON oi.order_id = o.order_id
		WHERE EXTRACT(MONTH FROM o.created_at) = $1
		  AND EXTRACT(YEAR FROM o.created_at) = $2
		  AND o.order_status IN ('Delivered', 'Out for Delivery')
		GROUP BY m.meal_id, m.meal_name, m.image_url, c.category_name
		ORDER BY SUM(oi.quantity) DESC
		LIMIT $3`,
		month, year, limit)
	if err != nil {
		return nil, fmt.Errorf("repository.BestSellers: %w", err)
	}
	defer rows.Close()

	var sellers []models.BestSeller
	for rows.Next() {
		var b models.BestSeller
		err := rows.Scan(&b.MealID, &b.MealName, &b.ImageURL, &b.CategoryName,
			&b.TotalQuantity, &b.TotalRevenue, &b.OrderCount)
		if err != nil {
			return nil, fmt.Errorf("repository.BestSellers: %w", err)
		}
		sellers = append(sellers, b)
	}
	return sellers, rows.Err()
}

// DailySales breaks delivered revenue down by day of month.
func (r *Repository) DailySales(ctx context.Context, month, year int) ([]models.DailySales, error) {
	rows, err := r.db.Query(ctx, `
		SELECT EXTRACT(DAY FROM created_at)::INT, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE EXTRACT(MONTH FROM created_at) = $1
		  AND EXTRACT(YEAR FROM created_at) = $2
		  AND order_status = 'Delivered'
		GROUP BY EXTRACT(DAY FROM created_at)
		ORDER BY 1`,
		month, year)
	if err != nil {
		return nil, fmt.Errorf("repository.DailySales: %w", err)
	}
	defer rows.Close()

	var days []models.DailySales
	for rows.Next() {
		var d models.DailySales
		if err := rows.Scan(&d.Day, &d.OrderCount, &d.DailyRevenue); err != nil {
			return nil, fmt.Errorf("repository.DailySales: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
