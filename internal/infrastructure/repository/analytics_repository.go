package repository

import (
	"context"
	"database/sql"
	"time"

	domainRepo "github.com/kiplagat/bookshop-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetTopBooks(ctx context.Context, limit int) ([]domainRepo.TopBookResult, error) {
	var results []domainRepo.TopBookResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			b.id as book_id,
			b.title as title,
			b.code as code,
			COALESCE(SUM(rl.quantity), 0) as quantity_sold,
			COALESCE(SUM(rl.total), 0) / 100.0 as revenue
		FROM receipt_lines rl
		JOIN books b ON b.id = rl.book_id
		GROUP BY b.id, b.title, b.code
		ORDER BY revenue DESC
		LIMIT ?
	`, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetSalesByClass(ctx context.Context) ([]domainRepo.ClassSalesResult, error) {
	var results []domainRepo.ClassSalesResult

	// First get total sales for percentage calculation
	var totalSales float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0) / 100.0
		FROM receipt_lines
	`).Scan(&totalSales).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(NULLIF(b.class, ''), 'Unclassified') as class,
			COALESCE(SUM(rl.total), 0) / 100.0 as total_sales,
			COUNT(DISTINCT rl.receipt_id) as receipt_count
		FROM receipt_lines rl
		JOIN books b ON b.id = rl.book_id
		GROUP BY COALESCE(NULLIF(b.class, ''), 'Unclassified')
		ORDER BY total_sales DESC
	`).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	// Calculate percentages
	for i := range results {
		if totalSales > 0 {
			results[i].Percentage = (results[i].TotalSales / totalSales) * 100
		}
	}

	return results, nil
}

func (r *analyticsRepository) GetSalesByCashier(ctx context.Context, startDate, endDate time.Time) ([]domainRepo.CashierSalesResult, error) {
	var results []domainRepo.CashierSalesResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			r.user_id as cashier_id,
			r.cashier_name as cashier_name,
			COALESCE(SUM(r.total), 0) / 100.0 as total_sales,
			COUNT(r.id) as receipt_count
		FROM receipts r
		WHERE r.created_at >= ? AND r.created_at <= ?
		GROUP BY r.user_id, r.cashier_name
		ORDER BY total_sales DESC
	`, startDate, endDate).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetSalesByPaymentMethod(ctx context.Context, startDate, endDate time.Time) ([]domainRepo.PaymentMethodResult, error) {
	var results []domainRepo.PaymentMethodResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			rp.method as method,
			COALESCE(SUM(rp.amount), 0) / 100.0 as total,
			COUNT(rp.id) as count
		FROM receipt_payments rp
		JOIN receipts r ON r.id = rp.receipt_id
		WHERE r.created_at >= ? AND r.created_at <= ?
		GROUP BY rp.method
		ORDER BY total DESC
	`, startDate, endDate).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetDailySales(ctx context.Context, days int) ([]domainRepo.DailySalesResult, error) {
	results := make([]domainRepo.DailySalesResult, 0, days)
	now := time.Now()

	// Generate dates for the last N days and get sales for each
	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)

		var row struct {
			Revenue  sql.NullFloat64
			Discount sql.NullFloat64
			Receipts sql.NullInt64
		}
		err := r.db.WithContext(ctx).Raw(`
			SELECT
				COALESCE(SUM(total), 0) / 100.0 as revenue,
				COALESCE(SUM(discount_amount), 0) / 100.0 as discount,
				COUNT(id) as receipts
			FROM receipts
			WHERE created_at >= ? AND created_at < ?
		`, startOfDay, endOfDay).Scan(&row).Error

		if err != nil {
			return nil, err
		}

		results = append(results, domainRepo.DailySalesResult{
			Date:     startOfDay,
			Revenue:  row.Revenue.Float64,
			Discount: row.Discount.Float64,
			Receipts: int(row.Receipts.Int64),
		})
	}

	return results, nil
}

func (r *analyticsRepository) GetTotalRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0) / 100.0
		FROM receipts
	`).Scan(&revenue).Error

	return revenue, err
}

func (r *analyticsRepository) GetMonthlyRevenue(ctx context.Context) (float64, error) {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var revenue float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0) / 100.0
		FROM receipts
		WHERE created_at >= ?
	`, startOfMonth).Scan(&revenue).Error

	return revenue, err
}

func (r *analyticsRepository) GetTotalDiscounts(ctx context.Context, startDate, endDate time.Time) (float64, error) {
	var discount float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(discount_amount), 0) / 100.0
		FROM receipts
		WHERE created_at >= ? AND created_at <= ?
	`, startDate, endDate).Scan(&discount).Error

	return discount, err
}

func (r *analyticsRepository) GetStockValuation(ctx context.Context) (float64, float64, error) {
	var row struct {
		CostValue sql.NullFloat64
		SellValue sql.NullFloat64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(stock * cost_price), 0) / 100.0 as cost_value,
			COALESCE(SUM(stock * sell_price), 0) / 100.0 as sell_value
		FROM books
		WHERE deleted_at IS NULL
	`).Scan(&row).Error

	return row.CostValue.Float64, row.SellValue.Float64, err
}
