package auth

import (
	"errors"
	"net/http"

	"aunt-joys-restaurant/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for authentication.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new auth handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

func (h *Handler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Username, email, full name and a password of at least 6 characters are required"))
	}

	resp, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUsernameTaken):
			return c.JSON(http.StatusConflict, models.Fail("Username already exists"))
		case errors.Is(err, models.ErrEmailTaken):
			return c.JSON(http.StatusConflict, models.Fail("Email already registered"))
		}
		c.Logger().Error("Handler.Register: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Registration failed"))
	}

	return c.JSON(http.StatusCreated, models.OK(resp, "Registration successful"))
}

func (h *Handler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Username and password are required"))
	}

	resp, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, models.Fail("Invalid username or password"))
		case errors.Is(err, models.ErrUserInactive):
			return c.JSON(http.StatusForbidden, models.Fail("Account is deactivated"))
		}
		c.Logger().Error("Handler.Login: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Login failed"))
	}

	return c.JSON(http.StatusOK, models.OK(resp, "Login successful"))
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c echo.Context) error {
	userID := c.Get("userID").(int64)

	user, err := h.svc.Profile(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Fail("User not found"))
		}
		c.Logger().Error("Handler.Me: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch profile"))
	}

	return c.JSON(http.StatusOK, models.OK(user, "Profile retrieved"))
}
