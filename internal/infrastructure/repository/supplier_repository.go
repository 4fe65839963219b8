package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	"github.com/kiplagat/bookshop-api/internal/domain/enum"
	domainRepo "github.com/kiplagat/bookshop-api/internal/domain/repository"
	"github.com/kiplagat/bookshop-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type supplierRepository struct {
	db *gorm.DB
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *gorm.DB) domainRepo.SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) Create(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *supplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	var supplier entity.Supplier
	err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &supplier, err
}

func (r *supplierRepository) Update(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

func (r *supplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Supplier{}, "id = ?", id).Error
}

func (r *supplierRepository) List(ctx context.Context, params *domainRepo.SupplierFilterParams) ([]entity.Supplier, int64, error) {
	var suppliers []entity.Supplier
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Supplier{})

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR contact_person ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.WithDebt {
		query = query.Where("balance > 0")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "name"
	sortOrder := "ASC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "DESC" || params.SortOrder == "desc" {
		sortOrder = "DESC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order(sortBy + " " + sortOrder).
		Find(&suppliers).Error

	return suppliers, total, err
}

// UpdateBalance rebuilds the cached balance from received orders minus
// recorded payments and writes it back
func (r *supplierRepository) UpdateBalance(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var balance int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owed struct {
			Total int64
		}
		if err := tx.Model(&entity.SupplyOrder{}).
			Select("COALESCE(SUM(total_amount), 0) as total").
			Where("supplier_id = ? AND status != ?", supplierID, enum.SupplyOrderStatusCancelled).
			Scan(&owed).Error; err != nil {
			return err
		}

		var paid struct {
			Total int64
		}
		if err := tx.Model(&entity.SupplierPayment{}).
			Select("COALESCE(SUM(amount), 0) as total").
			Where("supplier_id = ?", supplierID).
			Scan(&paid).Error; err != nil {
			return err
		}

		balance = owed.Total - paid.Total
		return tx.Model(&entity.Supplier{}).
			Where("id = ?", supplierID).
			Update("balance", balance).Error
	})

	return balance, err
}

type supplyOrderRepository struct {
	db *gorm.DB
}

// NewSupplyOrderRepository creates a new supply order repository
func NewSupplyOrderRepository(db *gorm.DB) domainRepo.SupplyOrderRepository {
	return &supplyOrderRepository{db: db}
}

// CreateWithBalanceUpdate persists the order with its items and raises the
// supplier's owed balance by the order total in one transaction
func (r *supplyOrderRepository) CreateWithBalanceUpdate(ctx context.Context, order *entity.SupplyOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		if order.Status == enum.SupplyOrderStatusCancelled {
			return nil
		}

		return tx.Model(&entity.Supplier{}).
			Where("id = ?", order.SupplierID).
			Update("balance", gorm.Expr("balance + ?", order.TotalAmount)).Error
	})
}

func (r *supplyOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SupplyOrder, error) {
	var order entity.SupplyOrder
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *supplyOrderRepository) GetByOrderNo(ctx context.Context, orderNo string) (*entity.SupplyOrder, error) {
	var order entity.SupplyOrder
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Supplier").
		First(&order, "order_no = ?", orderNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *supplyOrderRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.SupplyOrder, error) {
	var order entity.SupplyOrder
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Items.Book").Preload("Supplier").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *supplyOrderRepository) Update(ctx context.Context, order *entity.SupplyOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *supplyOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.SupplyOrder{}, "id = ?", id).Error
}

func (r *supplyOrderRepository) List(ctx context.Context, params *domainRepo.SupplyOrderFilterParams) ([]entity.SupplyOrder, int64, error) {
	var orders []entity.SupplyOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SupplyOrder{})

	if params.Search != "" {
		query = query.Where("order_no ILIKE ? OR invoice_number ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.SupplierID != nil {
		query = query.Where("supplier_id = ?", *params.SupplierID)
	}

	if params.StartDate != nil {
		query = query.Where("supply_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("supply_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "supply_date"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Supplier").Preload("Items").
		Order(sortBy + " " + sortOrder).
		Find(&orders).Error

	return orders, total, err
}

func (r *supplyOrderRepository) ListAllBySupplier(ctx context.Context, supplierID uuid.UUID) ([]entity.SupplyOrder, error) {
	var orders []entity.SupplyOrder
	err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("supply_date ASC, created_at ASC").
		Find(&orders).Error
	return orders, err
}

// MarkReceived flips a pending order to received and appends an addition
// movement per item in one transaction. The balance moved at creation time.
func (r *supplyOrderRepository) MarkReceived(ctx context.Context, id uuid.UUID, movements []entity.StockMovement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order entity.SupplyOrder
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", id).Error; err != nil {
			return err
		}

		if order.Status != enum.SupplyOrderStatusPending {
			return fmt.Errorf("supply order %s is not pending", order.OrderNo)
		}

		if err := tx.Model(&entity.SupplyOrder{}).
			Where("id = ?", id).
			Update("status", enum.SupplyOrderStatusReceived).Error; err != nil {
			return err
		}

		for i := range movements {
			ref := order.OrderNo
			movements[i].Reference = &ref
			if err := applyMovement(tx, &movements[i]); err != nil {
				return err
			}
		}

		return nil
	})
}

// Cancel flips a pending order to cancelled and reverses its balance
// contribution
func (r *supplyOrderRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order entity.SupplyOrder
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", id).Error; err != nil {
			return err
		}

		if order.Status != enum.SupplyOrderStatusPending {
			return fmt.Errorf("supply order %s is not pending", order.OrderNo)
		}

		if err := tx.Model(&entity.SupplyOrder{}).
			Where("id = ?", id).
			Update("status", enum.SupplyOrderStatusCancelled).Error; err != nil {
			return err
		}

		return tx.Model(&entity.Supplier{}).
			Where("id = ?", order.SupplierID).
			Update("balance", gorm.Expr("balance - ?", order.TotalAmount)).Error
	})
}

// GetOverdue returns open orders whose expected payment date has passed
func (r *supplyOrderRepository) GetOverdue(ctx context.Context, asOf time.Time, params *pagination.PaginationParams) ([]entity.SupplyOrder, int64, error) {
	var orders []entity.SupplyOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SupplyOrder{}).
		Where("status IN ? AND expected_payment_date IS NOT NULL AND expected_payment_date < ?",
			[]enum.SupplyOrderStatus{enum.SupplyOrderStatusPending, enum.SupplyOrderStatusReceived}, asOf)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Supplier").
		Order("expected_payment_date ASC").
		Find(&orders).Error

	return orders, total, err
}

// GetUpcoming returns open orders due within the window from asOf
func (r *supplyOrderRepository) GetUpcoming(ctx context.Context, asOf time.Time, window time.Duration, params *pagination.PaginationParams) ([]entity.SupplyOrder, int64, error) {
	var orders []entity.SupplyOrder
	var total int64

	until := asOf.Add(window)
	query := r.db.WithContext(ctx).Model(&entity.SupplyOrder{}).
		Where("status IN ? AND expected_payment_date >= ? AND expected_payment_date <= ?",
			[]enum.SupplyOrderStatus{enum.SupplyOrderStatusPending, enum.SupplyOrderStatusReceived}, asOf, until)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Supplier").
		Order("expected_payment_date ASC").
		Find(&orders).Error

	return orders, total, err
}

type supplierPaymentRepository struct {
	db *gorm.DB
}

// NewSupplierPaymentRepository creates a new supplier payment repository
func NewSupplierPaymentRepository(db *gorm.DB) domainRepo.SupplierPaymentRepository {
	return &supplierPaymentRepository{db: db}
}

// CreateWithBalanceUpdate records the payment and lowers the supplier's owed
// balance in one transaction
func (r *supplierPaymentRepository) CreateWithBalanceUpdate(ctx context.Context, payment *entity.SupplierPayment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		return tx.Model(&entity.Supplier{}).
			Where("id = ?", payment.SupplierID).
			Update("balance", gorm.Expr("balance - ?", payment.Amount)).Error
	})
}

func (r *supplierPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SupplierPayment, error) {
	var payment entity.SupplierPayment
	err := r.db.WithContext(ctx).
		Preload("Supplier").Preload("SupplyOrder").
		First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *supplierPaymentRepository) ListBySupplier(ctx context.Context, supplierID uuid.UUID, params *pagination.PaginationParams) ([]entity.SupplierPayment, int64, error) {
	var payments []entity.SupplierPayment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SupplierPayment{}).
		Where("supplier_id = ?", supplierID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("payment_date DESC").
		Find(&payments).Error

	return payments, total, err
}

func (r *supplierPaymentRepository) ListAllBySupplier(ctx context.Context, supplierID uuid.UUID) ([]entity.SupplierPayment, error) {
	var payments []entity.SupplierPayment
	err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("payment_date ASC, created_at ASC").
		Find(&payments).Error
	return payments, err
}

func (r *supplierPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.SupplierPayment{}, "id = ?", id).Error
}
