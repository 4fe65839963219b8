package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TopBookResult represents a book's sales performance
type TopBookResult struct {
	BookID       uuid.UUID
	Title        string
	Code         string
	QuantitySold int
	Revenue      float64
}

// ClassSalesResult represents sales aggregated by class level
type ClassSalesResult struct {
	Class        string
	TotalSales   float64
	ReceiptCount int
	Percentage   float64
}

// CashierSalesResult represents a cashier's takings over a period
type CashierSalesResult struct {
	CashierID    uuid.UUID
	CashierName  string
	TotalSales   float64
	ReceiptCount int
}

// PaymentMethodResult represents takings aggregated by payment method
type PaymentMethodResult struct {
	Method string
	Total  float64
	Count  int
}

// DailySalesResult represents sales data for a single day
type DailySalesResult struct {
	Date     time.Time
	Revenue  float64
	Discount float64
	Receipts int
}

// AnalyticsRepository defines interface for analytics/aggregation queries
type AnalyticsRepository interface {
	// GetTopBooks returns top selling books by revenue
	GetTopBooks(ctx context.Context, limit int) ([]TopBookResult, error)

	// GetSalesByClass returns sales aggregated by class level with percentages
	GetSalesByClass(ctx context.Context) ([]ClassSalesResult, error)

	// GetSalesByCashier returns takings per cashier in a date range
	GetSalesByCashier(ctx context.Context, startDate, endDate time.Time) ([]CashierSalesResult, error)

	// GetSalesByPaymentMethod returns takings per payment method in a date range
	GetSalesByPaymentMethod(ctx context.Context, startDate, endDate time.Time) ([]PaymentMethodResult, error)

	// GetDailySales returns daily sales data for the last N days
	GetDailySales(ctx context.Context, days int) ([]DailySalesResult, error)

	// GetTotalRevenue returns all-time takings
	GetTotalRevenue(ctx context.Context) (float64, error)

	// GetMonthlyRevenue returns takings for the current month
	GetMonthlyRevenue(ctx context.Context) (float64, error)

	// GetTotalDiscounts returns the discount given away in a date range
	GetTotalDiscounts(ctx context.Context, startDate, endDate time.Time) (float64, error)

	// GetStockValuation returns the cost and sell valuation of stock on hand
	GetStockValuation(ctx context.Context) (costValue, sellValue float64, err error)
}
