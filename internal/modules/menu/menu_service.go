package menu

import (
	"context"
	"encoding/json"
	"fmt"

	"aunt-joys-restaurant/internal/models"
)

// ServiceInterface defines the contract for the menu service.
type ServiceInterface interface {
	ListMeals(ctx context.Context, filter models.MealFilter) ([]*models.Meal, error)
	GetMeal(ctx context.Context, mealID int64) (*models.Meal, error)
	SaveMeal(ctx context.Context, req models.SaveMealRequest, userID int64) (int64, error)
	DeleteMeal(ctx context.Context, mealID int64) error
	ListCategories(ctx context.Context, includeInactive bool) ([]*models.Category, error)
	SaveCategory(ctx context.Context, req models.SaveCategoryRequest) (int64, error)
	DeleteCategory(ctx context.Context, categoryID int64) error
}

// Service implements menu management and the cached public listing.
type Service struct {
	repo  RepositoryInterface
	cache Cache
}

// NewService creates a new menu service.
func NewService(repo RepositoryInterface, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// ListMeals returns meals matching the filter. The default, unfiltered
// customer listing is served from the cache when warm; every menu write
// drops the cached value.
func (s *Service) ListMeals(ctx context.Context, filter models.MealFilter) ([]*models.Meal, error) {
	cacheable := filter == models.MealFilter{}

	if cacheable {
		if cached, err := s.cache.Get(ctx, mealListKey); err == nil {
			var meals []*models.Meal
			if json.Unmarshal([]byte(cached), &meals) == nil {
				return meals, nil
			}
		}
	}

	meals, err := s.repo.ListMeals(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, m := range meals {
		m.PriceFormatted = models.FormatCurrency(m.Price)
	}

	if cacheable && len(meals) > 0 {
		if payload, err := json.Marshal(meals); err == nil {
			// Cache failures only cost a database round trip next time.
			_ = s.cache.Set(ctx, mealListKey, string(payload), mealListTTL)
		}
	}
	return meals, nil
}

// GetMeal returns one meal with its category.
func (s *Service) GetMeal(ctx context.Context, mealID int64) (*models.Meal, error) {
	meal, err := s.repo.FindMealByID(ctx, mealID)
	if err != nil {
		return nil, err
	}
	meal.PriceFormatted = models.FormatCurrency(meal.Price)
	return meal, nil
}

// SaveMeal creates a meal when req.MealID is absent, updates otherwise.
func (s *Service) SaveMeal(ctx context.Context, req models.SaveMealRequest, userID int64) (int64, error) {
	if req.Price <= 0 {
		return 0, fmt.Errorf("%w: price must be greater than zero", models.ErrValidation)
	}
	if req.ImageURL == "" {
		return 0, fmt.Errorf("%w: meal image is required", models.ErrValidation)
	}

	exists, err := s.repo.CategoryExists(ctx, req.CategoryID)
	if err != nil {
		return 0, fmt.Errorf("service.SaveMeal: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: invalid category", models.ErrValidation)
	}

	var mealID int64
	if req.MealID == nil {
		mealID, err = s.repo.CreateMeal(ctx, req, userID)
	} else {
		mealID = *req.MealID
		err = s.repo.UpdateMeal(ctx, req)
	}
	if err != nil {
		return 0, err
	}

	s.invalidate(ctx)
	return mealID, nil
}

// DeleteMeal removes a meal from the menu. Existing order items are
// untouched; their name and price snapshots outlive the meal.
func (s *Service) DeleteMeal(ctx context.Context, mealID int64) error {
	if err := s.repo.DeleteMeal(ctx, mealID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ListCategories returns categories for display or administration.
func (s *Service) ListCategories(ctx context.Context, includeInactive bool) ([]*models.Category, error) {
	return s.repo.ListCategories(ctx, includeInactive)
}

// SaveCategory creates or updates a category.
func (s *Service) SaveCategory(ctx context.Context, req models.SaveCategoryRequest) (int64, error) {
	var categoryID int64
	var err error
	if req.CategoryID == nil {
		categoryID, err = s.repo.CreateCategory(ctx, req)
	} else {
		categoryID = *req.CategoryID
		err = s.repo.UpdateCategory(ctx, req)
	}
	if err != nil {
		return 0, err
	}

	// Category visibility affects the joined meal listing.
	s.invalidate(ctx)
	return categoryID, nil
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(ctx context.Context, categoryID int64) error {
	if err := s.repo.DeleteCategory(ctx, categoryID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	// A failed delete leaves a stale menu that expires with the TTL.
	_ = s.cache.Del(ctx, mealListKey)
}
