package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	"github.com/kiplagat/bookshop-api/pkg/pagination"
)

// ReceiptRepository defines the interface for receipt data operations.
// Receipts are immutable once written; there is deliberately no Update.
type ReceiptRepository interface {
	// CreateWithStockReduction persists the receipt with its lines and
	// payments and appends a reduction movement per line, all in one
	// transaction. Either everything lands or nothing does.
	CreateWithStockReduction(ctx context.Context, receipt *entity.Receipt, movements []entity.StockMovement) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	GetByReceiptNo(ctx context.Context, receiptNo string) (*entity.Receipt, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	List(ctx context.Context, params *ReceiptFilterParams) ([]entity.Receipt, int64, error)
	ListWithCursor(ctx context.Context, params *ReceiptCursorFilterParams) ([]entity.Receipt, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, params *pagination.PaginationParams) ([]entity.Receipt, int64, error)
	// ListForExport streams all receipts in a date range without pagination
	ListForExport(ctx context.Context, startDate, endDate *time.Time) ([]entity.Receipt, error)
}

// ReceiptFilterParams contains filtering parameters for receipt queries
type ReceiptFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CashierID  *uuid.UUID
	StudentID  *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// ReceiptCursorFilterParams contains cursor-based filtering for receipt queries
type ReceiptCursorFilterParams struct {
	Cursor    *pagination.CursorParams
	Search    string
	CashierID *uuid.UUID
	StudentID *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}
