package service

import (
	"context"
	"time"

	"github.com/kiplagat/bookshop-api/internal/domain/repository"
	"github.com/kiplagat/bookshop-api/pkg/pagination"
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
	bookRepo      repository.BookRepository
	studentRepo   repository.StudentRepository
	supplierRepo  repository.SupplierRepository
	receiptRepo   repository.ReceiptRepository
	orderRepo     repository.SupplyOrderRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	analyticsRepo repository.AnalyticsRepository,
	bookRepo repository.BookRepository,
	studentRepo repository.StudentRepository,
	supplierRepo repository.SupplierRepository,
	receiptRepo repository.ReceiptRepository,
	orderRepo repository.SupplyOrderRepository,
) *DashboardService {
	return &DashboardService{
		analyticsRepo: analyticsRepo,
		bookRepo:      bookRepo,
		studentRepo:   studentRepo,
		supplierRepo:  supplierRepo,
		receiptRepo:   receiptRepo,
		orderRepo:     orderRepo,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalBooks      int64             `json:"total_books"`
	TotalStudents   int64             `json:"total_students"`
	TotalSuppliers  int64             `json:"total_suppliers"`
	TotalReceipts   int64             `json:"total_receipts"`
	TotalRevenue    float64           `json:"total_revenue"`
	MonthlyRevenue  float64           `json:"monthly_revenue"`
	LowStockCount   int64             `json:"low_stock_count"`
	SupplierDebt    float64           `json:"supplier_debt"`
	OverduePayments int64             `json:"overdue_payments"`
	StockCostValue  float64           `json:"stock_cost_value"`
	StockSellValue  float64           `json:"stock_sell_value"`
	DailySalesData  []DailySalesPoint `json:"daily_sales_data"`
	ClassSalesData  []ClassSalesPoint `json:"class_sales_data"`
	TopBooks        []TopBookPoint    `json:"top_books"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date     string  `json:"date"`
	Revenue  float64 `json:"revenue"`
	Discount float64 `json:"discount"`
	Receipts int     `json:"receipts"`
}

// ClassSalesPoint represents sales by class level
type ClassSalesPoint struct {
	Class      string  `json:"class"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// TopBookPoint represents one of the best selling titles
type TopBookPoint struct {
	Title        string  `json:"title"`
	Code         string  `json:"code"`
	QuantitySold int     `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

// GetDashboardStats returns dashboard statistics
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	// Counts only; one row per query keeps the payloads small
	countParams := pagination.DefaultPagination()
	countParams.PerPage = 1

	_, bookCount, err := s.bookRepo.List(ctx, &repository.BookFilterParams{Pagination: countParams})
	if err != nil {
		return nil, err
	}
	stats.TotalBooks = bookCount

	_, studentCount, err := s.studentRepo.List(ctx, countParams, "", "")
	if err != nil {
		return nil, err
	}
	stats.TotalStudents = studentCount

	_, receiptCount, err := s.receiptRepo.List(ctx, &repository.ReceiptFilterParams{Pagination: countParams})
	if err != nil {
		return nil, err
	}
	stats.TotalReceipts = receiptCount

	lowStock, err := s.bookRepo.GetLowStock(ctx)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = int64(len(lowStock))

	// Outstanding supplier debt is the sum of cached balances
	suppliers, supplierCount, err := s.supplierRepo.List(ctx, &repository.SupplierFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 1000},
	})
	if err != nil {
		return nil, err
	}
	stats.TotalSuppliers = supplierCount
	for _, sup := range suppliers {
		stats.SupplierDebt += sup.GetBalance()
	}

	_, overdueCount, err := s.orderRepo.GetOverdue(ctx, time.Now(), countParams)
	if err != nil {
		return nil, err
	}
	stats.OverduePayments = overdueCount

	stats.TotalRevenue, err = s.analyticsRepo.GetTotalRevenue(ctx)
	if err != nil {
		return nil, err
	}

	stats.MonthlyRevenue, err = s.analyticsRepo.GetMonthlyRevenue(ctx)
	if err != nil {
		return nil, err
	}

	stats.StockCostValue, stats.StockSellValue, err = s.analyticsRepo.GetStockValuation(ctx)
	if err != nil {
		return nil, err
	}

	daily, err := s.analyticsRepo.GetDailySales(ctx, 7)
	if err != nil {
		return nil, err
	}
	stats.DailySalesData = make([]DailySalesPoint, 0, len(daily))
	for _, d := range daily {
		stats.DailySalesData = append(stats.DailySalesData, DailySalesPoint{
			Date:     d.Date.Format("Jan 02"),
			Revenue:  d.Revenue,
			Discount: d.Discount,
			Receipts: d.Receipts,
		})
	}

	byClass, err := s.analyticsRepo.GetSalesByClass(ctx)
	if err != nil {
		return nil, err
	}
	stats.ClassSalesData = make([]ClassSalesPoint, 0, len(byClass))
	for _, c := range byClass {
		stats.ClassSalesData = append(stats.ClassSalesData, ClassSalesPoint{
			Class:      c.Class,
			Amount:     c.TotalSales,
			Percentage: c.Percentage,
		})
	}

	topBooks, err := s.analyticsRepo.GetTopBooks(ctx, 5)
	if err != nil {
		return nil, err
	}
	stats.TopBooks = make([]TopBookPoint, 0, len(topBooks))
	for _, b := range topBooks {
		stats.TopBooks = append(stats.TopBooks, TopBookPoint{
			Title:        b.Title,
			Code:         b.Code,
			QuantitySold: b.QuantitySold,
			Revenue:      b.Revenue,
		})
	}

	return stats, nil
}

// SalesReport is a period breakdown of takings by cashier and payment method
type SalesReport struct {
	StartDate       time.Time            `json:"start_date"`
	EndDate         time.Time            `json:"end_date"`
	TotalDiscounts  float64              `json:"total_discounts"`
	ByCashier       []CashierSalesPoint  `json:"by_cashier"`
	ByPaymentMethod []PaymentMethodPoint `json:"by_payment_method"`
}

// CashierSalesPoint represents a cashier's takings in the report period
type CashierSalesPoint struct {
	CashierName  string  `json:"cashier_name"`
	TotalSales   float64 `json:"total_sales"`
	ReceiptCount int     `json:"receipt_count"`
}

// PaymentMethodPoint represents takings by payment method in the report period
type PaymentMethodPoint struct {
	Method string  `json:"method"`
	Total  float64 `json:"total"`
	Count  int     `json:"count"`
}

// GetSalesReport builds a sales report for a date range
func (s *DashboardService) GetSalesReport(ctx context.Context, startDate, endDate time.Time) (*SalesReport, error) {
	report := &SalesReport{StartDate: startDate, EndDate: endDate}

	byCashier, err := s.analyticsRepo.GetSalesByCashier(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	report.ByCashier = make([]CashierSalesPoint, 0, len(byCashier))
	for _, c := range byCashier {
		report.ByCashier = append(report.ByCashier, CashierSalesPoint{
			CashierName:  c.CashierName,
			TotalSales:   c.TotalSales,
			ReceiptCount: c.ReceiptCount,
		})
	}

	byMethod, err := s.analyticsRepo.GetSalesByPaymentMethod(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	report.ByPaymentMethod = make([]PaymentMethodPoint, 0, len(byMethod))
	for _, m := range byMethod {
		report.ByPaymentMethod = append(report.ByPaymentMethod, PaymentMethodPoint{
			Method: m.Method,
			Total:  m.Total,
			Count:  m.Count,
		})
	}

	report.TotalDiscounts, err = s.analyticsRepo.GetTotalDiscounts(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	return report, nil
}
