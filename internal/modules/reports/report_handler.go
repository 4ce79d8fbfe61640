package reports

import (
	"errors"
	"net/http"
	"strconv"

	"aunt-joys-restaurant/internal/models"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for manager reports.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new report handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// GetMonthlyReport returns the sales report for the requested month.
func (h *Handler) GetMonthlyReport(c echo.Context) error {
	month, errM := strconv.Atoi(c.QueryParam("month"))
	year, errY := strconv.Atoi(c.QueryParam("year"))
	if errM != nil || errY != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Month and year are required"))
	}

	report, err := h.svc.MonthlyReport(c.Request().Context(), month, year)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		}
		c.Logger().Error("Handler.GetMonthlyReport: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to generate report"))
	}

	return c.JSON(http.StatusOK, models.OK(report, "Report generated successfully"))
}
