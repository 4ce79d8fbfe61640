package models

import "time"

// Category groups meals on the menu.
type Category struct {
	ID           int64  `json:"category_id"`
	Name         string `json:"category_name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

// Meal is one menu entry. Order items copy its name and price at order time;
// editing or deleting a meal never rewrites history.
type Meal struct {
	ID              int64     `json:"meal_id"`
	CategoryID      int64     `json:"category_id"`
	CategoryName    string    `json:"category_name,omitempty"`
	Name            string    `json:"meal_name"`
	Description     string    `json:"meal_description"`
	Price           float64   `json:"price"`
	PriceFormatted  string    `json:"price_formatted,omitempty"`
	ImageURL        string    `json:"image_url"`
	PreparationTime int       `json:"preparation_time"`
	IsAvailable     bool      `json:"is_available"`
	IsFeatured      bool      `json:"is_featured"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MealFilter narrows the meal listing. IncludeAll is only honoured for staff
// roles; customers always see available meals under active categories.
type MealFilter struct {
	CategoryID *int64
	Search     string
	Featured   bool
	IncludeAll bool
}

// SaveMealRequest creates or updates a meal. The image itself arrives as a
// multipart file; ImageURL carries the already-stored path on updates.
type SaveMealRequest struct {
	MealID          *int64  `json:"meal_id,omitempty"`
	CategoryID      int64   `json:"category_id" validate:"required"`
	Name            string  `json:"meal_name" validate:"required"`
	Description     string  `json:"meal_description" validate:"required"`
	Price           float64 `json:"price" validate:"required,gt=0"`
	ImageURL        string  `json:"image_url"`
	PreparationTime int     `json:"preparation_time"`
	IsAvailable     *bool   `json:"is_available,omitempty"`
	IsFeatured      *bool   `json:"is_featured,omitempty"`
}

// SaveCategoryRequest creates or updates a category.
type SaveCategoryRequest struct {
	CategoryID   *int64 `json:"category_id,omitempty"`
	Name         string `json:"category_name" validate:"required"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
	IsActive     *bool  `json:"is_active,omitempty"`
}
