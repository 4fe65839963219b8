package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	"github.com/kiplagat/bookshop-api/internal/domain/enum"
	"github.com/kiplagat/bookshop-api/pkg/pagination"
)

// SupplierRepository defines the interface for supplier data operations
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *SupplierFilterParams) ([]entity.Supplier, int64, error)
	// UpdateBalance rebuilds the cached balance for a supplier from its
	// received orders and payments
	UpdateBalance(ctx context.Context, supplierID uuid.UUID) (int64, error)
}

// SupplierFilterParams contains filtering parameters for supplier queries
type SupplierFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	WithDebt   bool // only suppliers the shop still owes
	SortBy     string
	SortOrder  string
}

// SupplyOrderRepository defines the interface for supply order data operations.
// The supplier's owed balance moves when an order is recorded, not when the
// stock arrives, so creation and cancellation adjust it transactionally.
type SupplyOrderRepository interface {
	// CreateWithBalanceUpdate persists the order with its items and raises
	// the supplier's owed balance by the order total in one transaction
	CreateWithBalanceUpdate(ctx context.Context, order *entity.SupplyOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SupplyOrder, error)
	GetByOrderNo(ctx context.Context, orderNo string) (*entity.SupplyOrder, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.SupplyOrder, error)
	Update(ctx context.Context, order *entity.SupplyOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *SupplyOrderFilterParams) ([]entity.SupplyOrder, int64, error)
	// ListAllBySupplier returns every order for a supplier, oldest first,
	// for ledger statements
	ListAllBySupplier(ctx context.Context, supplierID uuid.UUID) ([]entity.SupplyOrder, error)
	// MarkReceived flips a pending order to received and appends an addition
	// movement per item, all in one transaction
	MarkReceived(ctx context.Context, id uuid.UUID, movements []entity.StockMovement) error
	// Cancel flips a pending order to cancelled and reverses its balance
	// contribution
	Cancel(ctx context.Context, id uuid.UUID) error
	// GetOverdue returns open (pending or received) orders whose expected
	// payment date has passed
	GetOverdue(ctx context.Context, asOf time.Time, params *pagination.PaginationParams) ([]entity.SupplyOrder, int64, error)
	// GetUpcoming returns open orders whose expected payment date falls
	// within the given window from asOf
	GetUpcoming(ctx context.Context, asOf time.Time, window time.Duration, params *pagination.PaginationParams) ([]entity.SupplyOrder, int64, error)
}

// SupplyOrderFilterParams contains filtering parameters for supply order queries
type SupplyOrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.SupplyOrderStatus
	SupplierID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// SupplierPaymentRepository defines the interface for supplier payment data operations
type SupplierPaymentRepository interface {
	// CreateWithBalanceUpdate records the payment and lowers the supplier's
	// owed balance in one transaction
	CreateWithBalanceUpdate(ctx context.Context, payment *entity.SupplierPayment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SupplierPayment, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, params *pagination.PaginationParams) ([]entity.SupplierPayment, int64, error)
	// ListAllBySupplier returns every payment for a supplier, oldest first,
	// for ledger statements
	ListAllBySupplier(ctx context.Context, supplierID uuid.UUID) ([]entity.SupplierPayment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
