package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	"github.com/kiplagat/bookshop-api/internal/domain/enum"
	"github.com/kiplagat/bookshop-api/pkg/pagination"
)

// StockMovementRepository defines the interface for the append-only stock
// ledger. Movements are written through Apply so the book's cached stock
// stays consistent with the ledger.
type StockMovementRepository interface {
	// Apply locks the book row, fills in PreviousStock and NewStock from the
	// current cache (clamping reductions at zero), appends the movement and
	// updates the cache in one transaction. The movement is returned with
	// both stock levels populated.
	Apply(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.StockMovement, error)
	ListByBook(ctx context.Context, bookID uuid.UUID, params *MovementFilterParams) ([]entity.StockMovement, int64, error)
	List(ctx context.Context, params *MovementFilterParams) ([]entity.StockMovement, int64, error)
	// SumByBook folds the full ledger for a book, returning the stock level
	// implied by its movements. Used to verify or rebuild the cache.
	SumByBook(ctx context.Context, bookID uuid.UUID) (int, error)
	// ResetBookStock writes a corrected stock cache for a book
	ResetBookStock(ctx context.Context, bookID uuid.UUID, stock int) error
}

// MovementFilterParams contains filtering parameters for stock ledger queries
type MovementFilterParams struct {
	Pagination *pagination.PaginationParams
	Type       *enum.MovementType
	UserID     *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortOrder  string
}
