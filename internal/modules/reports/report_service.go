package reports

import (
	"context"
	"fmt"

	"aunt-joys-restaurant/internal/models"
)

const bestSellerLimit = 10

// ServiceInterface defines the contract for the report service.
type ServiceInterface interface {
	MonthlyReport(ctx context.Context, month, year int) (*models.MonthlyReport, error)
}

// Service assembles manager analytics.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new report service.
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// MonthlyReport builds the manager dashboard for one month: summary totals,
// best sellers, and per-day delivered revenue.
func (s *Service) MonthlyReport(ctx context.Context, month, year int) (*models.MonthlyReport, error) {
	if month < 1 || month > 12 || year < 2000 {
		return nil, fmt.Errorf("%w: month and year are required", models.ErrValidation)
	}

	summary, err := s.repo.MonthlySummary(ctx, month, year)
	if err != nil {
		return nil, fmt.Errorf("service.MonthlyReport: %w", err)
	}
	summary.TotalRevenueFormatted = models.FormatCurrency(summary.TotalRevenue)

	sellers, err := s.repo.BestSellers(ctx, month, year, bestSellerLimit)
	if err != nil {
		return nil, fmt.Errorf("service.MonthlyReport: %w", err)
	}

	days, err := s.repo.DailySales(ctx, month, year)
	if err != nil {
		return nil, fmt.Errorf("service.MonthlyReport: %w", err)
	}

	return &models.MonthlyReport{
		Month:       month,
		Year:        year,
		Summary:     *summary,
		BestSellers: sellers,
		DailySales:  days,
	}, nil
}
