package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	domainRepo "github.com/kiplagat/bookshop-api/internal/domain/repository"
	"github.com/kiplagat/bookshop-api/pkg/pagination"
	"gorm.io/gorm"
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

// CreateWithStockReduction persists the receipt and applies one stock
// movement per line in a single transaction. A failure anywhere rolls back
// both the receipt and every ledger entry.
func (r *receiptRepository) CreateWithStockReduction(ctx context.Context, receipt *entity.Receipt, movements []entity.StockMovement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(receipt).Error; err != nil {
			return err
		}

		for i := range movements {
			ref := receipt.ReceiptNo
			movements[i].Reference = &ref
			if err := applyMovement(tx, &movements[i]); err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *receiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := r.db.WithContext(ctx).First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) GetByReceiptNo(ctx context.Context, receiptNo string) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := r.db.WithContext(ctx).
		Preload("Lines").Preload("Payments").
		First(&receipt, "receipt_no = ?", receiptNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := r.db.WithContext(ctx).
		Preload("Lines").Preload("Payments").Preload("Student").
		First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) List(ctx context.Context, params *domainRepo.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	var receipts []entity.Receipt
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Receipt{})

	if params.Search != "" {
		query = query.Where("receipt_no ILIKE ? OR student_name ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.CashierID != nil {
		query = query.Where("user_id = ?", *params.CashierID)
	}

	if params.StudentID != nil {
		query = query.Where("student_id = ?", *params.StudentID)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Lines").Preload("Payments").
		Order(sortBy + " " + sortOrder).
		Find(&receipts).Error

	return receipts, total, err
}

// ListWithCursor returns receipts using cursor-based pagination
func (r *receiptRepository) ListWithCursor(ctx context.Context, params *domainRepo.ReceiptCursorFilterParams) ([]entity.Receipt, error) {
	var receipts []entity.Receipt

	params.Cursor.Validate()
	query := r.db.WithContext(ctx).Model(&entity.Receipt{})

	if params.Search != "" {
		query = query.Where("receipt_no ILIKE ? OR student_name ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.CashierID != nil {
		query = query.Where("user_id = ?", *params.CashierID)
	}

	if params.StudentID != nil {
		query = query.Where("student_id = ?", *params.StudentID)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Cursor.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	err = query.Limit(params.Cursor.Limit + 1).
		Preload("Lines").Preload("Payments").
		Order("created_at ASC, id ASC").
		Find(&receipts).Error

	return receipts, err
}

func (r *receiptRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, params *pagination.PaginationParams) ([]entity.Receipt, int64, error) {
	var receipts []entity.Receipt
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Receipt{}).
		Where("student_id = ?", studentID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Lines").Preload("Payments").
		Order("created_at DESC").
		Find(&receipts).Error

	return receipts, total, err
}

// ListForExport streams all receipts in a date range without pagination
func (r *receiptRepository) ListForExport(ctx context.Context, startDate, endDate *time.Time) ([]entity.Receipt, error) {
	var receipts []entity.Receipt

	query := r.db.WithContext(ctx).Model(&entity.Receipt{})
	if startDate != nil {
		query = query.Where("created_at >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("created_at <= ?", *endDate)
	}

	err := query.
		Preload("Lines").Preload("Payments").
		Order("created_at ASC").
		Find(&receipts).Error

	return receipts, err
}
