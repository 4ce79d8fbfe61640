package users

import (
	"errors"
	"net/http"
	"strconv"

	"aunt-joys-restaurant/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for staff user management.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new user admin handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

func (h *Handler) ListUsers(c echo.Context) error {
	var roleID *int64
	var isActive *bool

	if v := c.QueryParam("role_id"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Fail("Invalid role ID"))
		}
		roleID = &n
	}
	if v := c.QueryParam("is_active"); v != "" {
		b := v == "1" || v == "true"
		isActive = &b
	}

	users, err := h.svc.ListUsers(c.Request().Context(), roleID, isActive)
	if err != nil {
		c.Logger().Error("Handler.ListUsers: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch users"))
	}

	return c.JSON(http.StatusOK, models.OK(users, "Users retrieved successfully"))
}

func (h *Handler) SaveUser(c echo.Context) error {
	var req models.SaveUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Role, username, email and full name are required"))
	}

	userID, err := h.svc.SaveUser(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUsernameTaken):
			return c.JSON(http.StatusConflict, models.Fail("Username or email already exists"))
		case errors.Is(err, models.ErrValidation):
			return c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.Fail("User not found"))
		}
		c.Logger().Error("Handler.SaveUser: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to save user"))
	}

	message := "User updated successfully"
	if req.UserID == nil {
		message = "User created successfully"
	}
	return c.JSON(http.StatusOK, models.OK(map[string]int64{"user_id": userID}, message))
}

func (h *Handler) DeleteUser(c echo.Context) error {
	actorID := c.Get("userID").(int64)

	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Invalid user ID"))
	}

	if err := h.svc.DeleteUser(c.Request().Context(), actorID, userID); err != nil {
		switch {
		case errors.Is(err, models.ErrProtectedUser):
			return c.JSON(http.StatusForbidden, models.Fail("Cannot delete system administrator"))
		case errors.Is(err, models.ErrValidation):
			return c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.Fail("User not found"))
		}
		c.Logger().Error("Handler.DeleteUser: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to delete user"))
	}

	return c.JSON(http.StatusOK, models.OK(nil, "User deleted successfully"))
}
