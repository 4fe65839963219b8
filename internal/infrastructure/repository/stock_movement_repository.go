package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	domainRepo "github.com/kiplagat/bookshop-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type stockMovementRepository struct {
	db *gorm.DB
}

// NewStockMovementRepository creates a new stock movement repository
func NewStockMovementRepository(db *gorm.DB) domainRepo.StockMovementRepository {
	return &stockMovementRepository{db: db}
}

// Apply appends a movement to the ledger and updates the book's cached stock
// in one transaction. The book row is locked for the duration so concurrent
// movements serialize and every entry sees a consistent previous stock.
func (r *stockMovementRepository) Apply(ctx context.Context, movement *entity.StockMovement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyMovement(tx, movement)
	})
}

// applyMovement runs inside an open transaction so the receipt repository can
// reuse it for sale reductions.
func applyMovement(tx *gorm.DB, movement *entity.StockMovement) error {
	var book entity.Book
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&book, "id = ?", movement.BookID).Error; err != nil {
		return fmt.Errorf("failed to lock book %s: %w", movement.BookID, err)
	}

	movement.PreviousStock = book.Stock
	if movement.Type.Increases() {
		movement.NewStock = book.Stock + movement.Quantity
	} else {
		movement.NewStock = book.Stock - movement.Quantity
		if movement.NewStock < 0 {
			movement.NewStock = 0
		}
	}

	if err := tx.Create(movement).Error; err != nil {
		return err
	}

	return tx.Model(&entity.Book{}).
		Where("id = ?", movement.BookID).
		Update("stock", movement.NewStock).Error
}

func (r *stockMovementRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.StockMovement, error) {
	var movement entity.StockMovement
	err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &movement, err
}

func (r *stockMovementRepository) ListByBook(ctx context.Context, bookID uuid.UUID, params *domainRepo.MovementFilterParams) ([]entity.StockMovement, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.StockMovement{}).
		Where("book_id = ?", bookID)
	return r.list(query, params)
}

func (r *stockMovementRepository) List(ctx context.Context, params *domainRepo.MovementFilterParams) ([]entity.StockMovement, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.StockMovement{})
	return r.list(query, params)
}

func (r *stockMovementRepository) list(query *gorm.DB, params *domainRepo.MovementFilterParams) ([]entity.StockMovement, int64, error) {
	var movements []entity.StockMovement
	var total int64

	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}

	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
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

	sortOrder := "DESC"
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at " + sortOrder).
		Find(&movements).Error

	return movements, total, err
}

// SumByBook folds the full ledger for a book into the implied stock level
func (r *stockMovementRepository) SumByBook(ctx context.Context, bookID uuid.UUID) (int, error) {
	var result struct {
		Total int
	}
	err := r.db.WithContext(ctx).Model(&entity.StockMovement{}).
		Select("COALESCE(SUM(new_stock - previous_stock), 0) as total").
		Where("book_id = ?", bookID).
		Scan(&result).Error
	return result.Total, err
}

func (r *stockMovementRepository) ResetBookStock(ctx context.Context, bookID uuid.UUID, stock int) error {
	return r.db.WithContext(ctx).Model(&entity.Book{}).
		Where("id = ?", bookID).
		Update("stock", stock).Error
}
