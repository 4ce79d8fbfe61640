package menu

import (
	"context"
	"errors"
	"fmt"

	"aunt-joys-restaurant/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the menu repository.
type RepositoryInterface interface {
	ListMeals(ctx context.Context, filter models.MealFilter) ([]*models.Meal, error)
	FindMealByID(ctx context.Context, mealID int64) (*models.Meal, error)
	CategoryExists(ctx context.Context, categoryID int64) (bool, error)
	CreateMeal(ctx context.Context, req models.SaveMealRequest, createdBy int64) (int64, error)
	UpdateMeal(ctx context.Context, req models.SaveMealRequest) error
	DeleteMeal(ctx context.Context, mealID int64) error
	ListCategories(ctx context.Context, includeInactive bool) ([]*models.Category, error)
	CreateCategory(ctx context.Context, req models.SaveCategoryRequest) (int64, error)
	UpdateCategory(ctx context.Context, req models.SaveCategoryRequest) error
	DeleteCategory(ctx context.Context, categoryID int64) error
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new menu repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// ListMeals retrieves meals joined with their active categories. Unavailable
// meals are only included when the filter says so (staff views).
func (r *Repository) ListMeals(ctx context.Context, filter models.MealFilter) ([]*models.Meal, error) {
	query := `
		SELECT m.meal_id, m.category_id, c.category_name, m.meal_name, m.meal_description,
		       m.price, m.image_url, m.preparation_time, m.is_available, m.is_featured,
		       m.created_at, m.updated_at
		FROM meals m
		INNER JOIN categories c ON m.category_id = c.category_id
		WHERE c.is_active = TRUE`
	args := []any{}

	if !filter.IncludeAll {
		query += ` AND m.is_available = TRUE`
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(" AND m.category_id = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (m.meal_name ILIKE $%d OR m.meal_description ILIKE $%d)", len(args), len(args))
	}
	if filter.Featured {
		query += ` AND m.is_featured = TRUE`
	}
	query += ` ORDER BY c.display_order, m.meal_name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.ListMeals: %w", err)
	}
	defer rows.Close()

	var meals []*models.Meal
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListMeals: %w", err)
		}
		meals = append(meals, meal)
	}
	return meals, rows.Err()
}

func scanMeal(row pgx.Row) (*models.Meal, error) {
	var m models.Meal
	err := row.Scan(&m.ID, &m.CategoryID, &m.CategoryName, &m.Name, &m.Description,
		&m.Price, &m.ImageURL, &m.PreparationTime, &m.IsAvailable, &m.IsFeatured,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan meal: %w", err)
	}
	return &m, nil
}

// FindMealByID retrieves a single meal with its category name.
func (r *Repository) FindMealByID(ctx context.Context, mealID int64) (*models.Meal, error) {
	row := r.db.QueryRow(ctx, `
		SELECT m.meal_id, m.category_id, c.category_name, m.meal_name, m.meal_description,
		       m.price, m.image_url, m.preparation_time, m.is_available, m.is_featured,
		       m.created_at, m.updated_at
		FROM meals m
		INNER JOIN categories c ON m.category_id = c.category_id
		WHERE m.meal_id = $1`, mealID)
	return scanMeal(row)
}

func (r *Repository) CategoryExists(ctx context.Context, categoryID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE category_id = $1)`, categoryID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("repository.CategoryExists: %w", err)
	}
	return exists, nil
}

// CreateMeal inserts a new meal.
func (r *Repository) CreateMeal(ctx context.Context, req models.SaveMealRequest, createdBy int64) (int64, error) {
	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}
	isFeatured := false
	if req.IsFeatured != nil {
		isFeatured = *req.IsFeatured
	}
	prepTime := req.PreparationTime
	if prepTime <= 0 {
		prepTime = 20
	}

	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO meals (category_id, meal_name, meal_description, price, image_url,
		                   preparation_time, is_available, is_featured, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING meal_id`,
		req.CategoryID, req.Name, req.Description, req.Price, req.ImageURL,
		prepTime, isAvailable, isFeatured, createdBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("repository.CreateMeal: %w", err)
	}
	return id, nil
}

// UpdateMeal rewrites an existing meal.
func (r *Repository) UpdateMeal(ctx context.Context, req models.SaveMealRequest) error {
	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}
	isFeatured := false
	if req.IsFeatured != nil {
		isFeatured = *req.IsFeatured
	}
	prepTime := req.PreparationTime
	if prepTime <= 0 {
		prepTime = 20
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE meals SET
			category_id = $1, meal_name = $2, meal_description = $3, price = $4,
			image_url = $5, preparation_time = $6, is_available = $7, is_featured = $8,
			updated_at = CURRENT_TIMESTAMP
		WHERE meal_id = $9`,
		req.CategoryID, req.Name, req.Description, req.Price,
		req.ImageURL, prepTime, isAvailable, isFeatured, *req.MealID)
	if err != nil {
		return fmt.Errorf("repository.UpdateMeal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteMeal removes a meal. Historical order items keep their snapshot of
// the name and price; only their meal reference goes stale.
func (r *Repository) DeleteMeal(ctx context.Context, mealID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM meals WHERE meal_id = $1`, mealID)
	if err != nil {
		return fmt.Errorf("repository.DeleteMeal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListCategories retrieves categories ordered for display.
func (r *Repository) ListCategories(ctx context.Context, includeInactive bool) ([]*models.Category, error) {
	query := `
		SELECT category_id, category_name, description, display_order, is_active
		FROM categories`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY display_order, category_name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.ListCategories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.DisplayOrder, &cat.IsActive); err != nil {
			return nil, fmt.Errorf("repository.ListCategories: %w", err)
		}
		categories = append(categories, &cat)
	}
	return categories, rows.Err()
}

// CreateCategory inserts a new category.
func (r *Repository) CreateCategory(ctx context.Context, req models.SaveCategoryRequest) (int64, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO categories (category_name, description, display_order, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING category_id`,
		req.Name, req.Description, req.DisplayOrder, isActive,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("repository.CreateCategory: %w", err)
	}
	return id, nil
}

// UpdateCategory rewrites an existing category.
func (r *Repository) UpdateCategory(ctx context.Context, req models.SaveCategoryRequest) error {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE categories SET
			category_name = $1, description = $2, display_order = $3, is_active = $4
		WHERE category_id = $5`,
		req.Name, req.Description, req.DisplayOrder, isActive, *req.CategoryID)
	if err != nil {
		return fmt.Errorf("repository.UpdateCategory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category.
func (r *Repository) DeleteCategory(ctx context.Context, categoryID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE category_id = $1`, categoryID)
	if err != nil {
		return fmt.Errorf("repository.DeleteCategory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
