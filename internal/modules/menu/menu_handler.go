package menu

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"aunt-joys-restaurant/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxImageSize = 2 << 20 // 2 MB

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// Handler handles HTTP requests for the menu.
type Handler struct {
	svc       ServiceInterface
	validate  *validator.Validate
	uploadDir string
}

// NewHandler creates a new menu handler. uploadDir is where meal images are
// stored and must be served statically under the same relative path.
func NewHandler(svc ServiceInterface, uploadDir string) *Handler {
	return &Handler{
		svc:       svc,
		validate:  validator.New(),
		uploadDir: uploadDir,
	}
}

// GetMeals lists meals for the menu. include_all is only honoured for staff
// roles; on the public route there is no principal and it is ignored.
func (h *Handler) GetMeals(c echo.Context) error {
	var filter models.MealFilter

	if v := c.QueryParam("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Fail("Invalid category ID"))
		}
		filter.CategoryID = &id
	}
	filter.Search = c.QueryParam("search")
	filter.Featured = c.QueryParam("featured") == "1"

	if c.QueryParam("include_all") == "1" {
		role, _ := c.Get("userRole").(string)
		switch role {
		case models.RoleAdministrator, models.RoleSales, models.RoleManager:
			filter.IncludeAll = true
		}
	}

	meals, err := h.svc.ListMeals(c.Request().Context(), filter)
	if err != nil {
		c.Logger().Error("Handler.GetMeals: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch meals"))
	}

	return c.JSON(http.StatusOK, models.OK(meals, "Meals retrieved successfully"))
}

// GetMeal returns a single meal.
func (h *Handler) GetMeal(c echo.Context) error {
	mealID, err := strconv.ParseInt(c.Param("mealId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Invalid meal ID"))
	}

	meal, err := h.svc.GetMeal(c.Request().Context(), mealID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Fail("Meal not found"))
		}
		c.Logger().Error("Handler.GetMeal: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch meal"))
	}

	return c.JSON(http.StatusOK, models.OK(meal, "Meal retrieved successfully"))
}

// SaveMeal creates or updates a meal. The request is either JSON (no image
// change) or multipart form data carrying an image_file.
func (h *Handler) SaveMeal(c echo.Context) error {
	userID := c.Get("userID").(int64)

	req, oldImage, err := h.bindSaveMeal(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Category, meal name, description and price are required"))
	}

	mealID, err := h.svc.SaveMeal(c.Request().Context(), *req, userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			return c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.Fail("Meal not found"))
		}
		c.Logger().Error("Handler.SaveMeal: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to save meal"))
	}

	// Remove the replaced image only after the row is saved.
	if oldImage != "" && oldImage != req.ImageURL && strings.HasPrefix(oldImage, h.uploadDir) {
		_ = os.Remove(oldImage)
	}

	message := "Meal updated successfully"
	if req.MealID == nil {
		message = "Meal created successfully"
	}
	return c.JSON(http.StatusOK, models.OK(map[string]int64{"meal_id": mealID}, message))
}

// bindSaveMeal reads the save request from JSON or multipart form data,
// storing an uploaded image when one is present. It returns the request and
// the previous image path (for cleanup after a successful replace).
func (h *Handler) bindSaveMeal(c echo.Context) (*models.SaveMealRequest, string, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		var req models.SaveMealRequest
		if err := c.Bind(&req); err != nil {
			return nil, "", errors.New("Invalid request body")
		}
		return &req, "", nil
	}

	var req models.SaveMealRequest
	if v := c.FormValue("meal_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, "", errors.New("Invalid meal ID")
		}
		req.MealID = &id
	}
	req.CategoryID, _ = strconv.ParseInt(c.FormValue("category_id"), 10, 64)
	req.Name = c.FormValue("meal_name")
	req.Description = c.FormValue("meal_description")
	req.Price, _ = strconv.ParseFloat(c.FormValue("price"), 64)
	req.PreparationTime, _ = strconv.Atoi(c.FormValue("preparation_time"))
	if v := c.FormValue("is_available"); v != "" {
		b := v == "1" || v == "true"
		req.IsAvailable = &b
	}
	if v := c.FormValue("is_featured"); v != "" {
		b := v == "1" || v == "true"
		req.IsFeatured = &b
	}

	oldImage := c.FormValue("existing_image")
	req.ImageURL = oldImage

	file, err := c.FormFile("image_file")
	if err == nil {
		path, err := h.storeImage(file)
		if err != nil {
			return nil, "", err
		}
		req.ImageURL = path
	}

	return &req, oldImage, nil
}

// storeImage validates and writes an uploaded meal image, returning its
// relative path. Only JPEG and PNG up to 2 MB are accepted; the stored name
// is a uuid so uploads never collide or leak original file names.
func (h *Handler) storeImage(file *multipart.FileHeader) (string, error) {
	if file.Size > maxImageSize {
		return "", errors.New("Image is too large. Maximum size is 2MB.")
	}

	src, err := file.Open()
	if err != nil {
		return "", errors.New("Failed to upload meal image.")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxImageSize+1))
	if err != nil || int64(len(data)) > maxImageSize {
		return "", errors.New("Image is too large. Maximum size is 2MB.")
	}

	ext, ok := imageExtensions[http.DetectContentType(data)]
	if !ok {
		return "", errors.New("Invalid image format. Upload JPG or PNG.")
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", errors.New("Unable to save meal image.")
	}

	name := fmt.Sprintf("meal_%s%s", uuid.New().String(), ext)
	path := filepath.Join(h.uploadDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.New("Unable to save meal image.")
	}
	return path, nil
}

// DeleteMeal removes a meal from the menu.
func (h *Handler) DeleteMeal(c echo.Context) error {
	mealID, err := strconv.ParseInt(c.Param("mealId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Invalid meal ID"))
	}

	if err := h.svc.DeleteMeal(c.Request().Context(), mealID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Fail("Meal not found"))
		}
		c.Logger().Error("Handler.DeleteMeal: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to delete meal"))
	}

	return c.JSON(http.StatusOK, models.OK(nil, "Meal deleted successfully"))
}

// GetCategories lists categories; admins may include inactive ones.
func (h *Handler) GetCategories(c echo.Context) error {
	includeInactive := false
	if c.QueryParam("include_inactive") == "1" {
		role, _ := c.Get("userRole").(string)
		includeInactive = role == models.RoleAdministrator
	}

	categories, err := h.svc.ListCategories(c.Request().Context(), includeInactive)
	if err != nil {
		c.Logger().Error("Handler.GetCategories: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch categories"))
	}

	return c.JSON(http.StatusOK, models.OK(categories, "Categories retrieved successfully"))
}

// SaveCategory creates or updates a category.
func (h *Handler) SaveCategory(c echo.Context) error {
	var req models.SaveCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Category name is required"))
	}

	categoryID, err := h.svc.SaveCategory(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Fail("Category not found"))
		}
		c.Logger().Error("Handler.SaveCategory: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to save category"))
	}

	message := "Category updated successfully"
	if req.CategoryID == nil {
		message = "Category created successfully"
	}
	return c.JSON(http.StatusOK, models.OK(map[string]int64{"category_id": categoryID}, message))
}

// DeleteCategory removes a category.
func (h *Handler) DeleteCategory(c echo.Context) error {
	categoryID, err := strconv.ParseInt(c.Param("categoryId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Invalid category ID"))
	}

	if err := h.svc.DeleteCategory(c.Request().Context(), categoryID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Fail("Category not found"))
		}
		c.Logger().Error("Handler.DeleteCategory: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to delete category"))
	}

	return c.JSON(http.StatusOK, models.OK(nil, "Category deleted successfully"))
}
