package models

// ReportSummary aggregates a month of orders.
type ReportSummary struct {
	TotalOrders       int     `json:"total_orders"`
	TotalRevenue      float64 `json:"total_revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
	CompletedOrders   int     `json:"completed_orders"`
	CancelledOrders   int     `json:"cancelled_orders"`

	TotalRevenueFormatted string `json:"total_revenue_formatted,omitempty"`
}

// BestSeller is one meal ranked by quantity sold in the report month.
type BestSeller struct {
	MealID        int64   `json:"meal_id"`
	MealName      string  `json:"meal_name"`
	ImageURL      string  `json:"image_url"`
	CategoryName  string  `json:"category_name"`
	TotalQuantity int     `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
	OrderCount    int     `json:"order_count"`
}

// DailySales is one day's delivered revenue within the report month.
type DailySales struct {
	Day          int     `json:"day"`
	OrderCount   int     `json:"order_count"`
	DailyRevenue float64 `json:"daily_revenue"`
}

// MonthlyReport is the manager dashboard payload.
type MonthlyReport struct {
	Month       int           `json:"month"`
	Year        int           `json:"year"`
	Summary     ReportSummary `json:"summary"`
	BestSellers []BestSeller  `json:"best_sellers"`
	DailySales  []DailySales  `json:"daily_sales"`
}
