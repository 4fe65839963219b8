package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	"github.com/kiplagat/bookshop-api/internal/domain/enum"
	"github.com/kiplagat/bookshop-api/internal/domain/repository"
	"github.com/kiplagat/bookshop-api/pkg/apperror"
	"github.com/kiplagat/bookshop-api/pkg/pagination"
)

// StockService owns the append-only stock ledger. Every operation appends
// exactly one movement and updates exactly one book's cached stock.
type StockService struct {
	movementRepo repository.StockMovementRepository
	bookRepo     repository.BookRepository
}

// NewStockService creates a new stock service
func NewStockService(
	movementRepo repository.StockMovementRepository,
	bookRepo repository.BookRepository,
) *StockService {
	return &StockService{
		movementRepo: movementRepo,
		bookRepo:     bookRepo,
	}
}

// MovementInput carries the common fields for a manual stock operation
type MovementInput struct {
	BookID    uuid.UUID
	Quantity  int
	Reference *string
	Note      *string
	UserID    uuid.UUID
	UserName  string
}

// AddStock appends an addition entry; new stock = previous + quantity
func (s *StockService) AddStock(ctx context.Context, input *MovementInput) (*entity.StockMovement, error) {
	return s.apply(ctx, input, enum.MovementTypeAddition)
}

// MarkWastage appends a wastage entry; new stock floors at zero rather than
// going negative, so the ledger can under-report a shortfall
func (s *StockService) MarkWastage(ctx context.Context, input *MovementInput) (*entity.StockMovement, error) {
	return s.apply(ctx, input, enum.MovementTypeWastage)
}

// MarkReturn appends a return entry; new stock = previous + quantity
func (s *StockService) MarkReturn(ctx context.Context, input *MovementInput) (*entity.StockMovement, error) {
	return s.apply(ctx, input, enum.MovementTypeReturn)
}

func (s *StockService) apply(ctx context.Context, input *MovementInput, movementType enum.MovementType) (*entity.StockMovement, error) {
	if input.Quantity <= 0 {
		return nil, apperror.NewBadRequestError("Quantity must be greater than zero")
	}

	book, err := s.bookRepo.GetByID(ctx, input.BookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperror.NewNotFoundError("Book")
	}

	movement := &entity.StockMovement{
		BookID:    input.BookID,
		Type:      movementType,
		Quantity:  input.Quantity,
		Reference: input.Reference,
		Note:      input.Note,
		UserID:    input.UserID,
		UserName:  input.UserName,
	}

	if err := s.movementRepo.Apply(ctx, movement); err != nil {
		return nil, err
	}

	return movement, nil
}

// GetHistory returns the movement history for a book, newest first
func (s *StockService) GetHistory(ctx context.Context, bookID uuid.UUID, params *repository.MovementFilterParams) (*pagination.PaginatedResult[entity.StockMovement], error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperror.NewNotFoundError("Book")
	}

	movements, total, err := s.movementRepo.ListByBook(ctx, bookID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(movements, pag), nil
}

// ListMovements returns ledger entries across all books
func (s *StockService) ListMovements(ctx context.Context, params *repository.MovementFilterParams) (*pagination.PaginatedResult[entity.StockMovement], error) {
	movements, total, err := s.movementRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(movements, pag), nil
}

// GetLowStockBooks returns every book at or below its minimum stock level
func (s *StockService) GetLowStockBooks(ctx context.Context) ([]entity.Book, error) {
	return s.bookRepo.GetLowStock(ctx)
}

// RecomputeFromHistory rebuilds a book's cached stock from its ledger fold
// and reports both values. The cache and the fold only diverge if a movement
// was ever written outside the transactional path.
func (s *StockService) RecomputeFromHistory(ctx context.Context, bookID uuid.UUID) (cached, derived int, err error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return 0, 0, err
	}
	if book == nil {
		return 0, 0, apperror.NewNotFoundError("Book")
	}

	derived, err = s.movementRepo.SumByBook(ctx, bookID)
	if err != nil {
		return 0, 0, err
	}

	if derived != book.Stock {
		if err := s.movementRepo.ResetBookStock(ctx, bookID, derived); err != nil {
			return 0, 0, err
		}
	}

	return book.Stock, derived, nil
}
