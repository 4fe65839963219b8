package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	"github.com/kiplagat/bookshop-api/pkg/pagination"
)

// BookRepository defines the interface for book data operations
type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	CreateBatch(ctx context.Context, books []entity.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Book, error)
	// GetByIDs retrieves multiple books by their IDs in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Book, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Book, error)
	GetByCode(ctx context.Context, code string) (*entity.Book, error)
	Update(ctx context.Context, book *entity.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *BookFilterParams) ([]entity.Book, int64, error)
	ListWithCursor(ctx context.Context, params *BookCursorFilterParams) ([]entity.Book, error)
	GetLowStock(ctx context.Context) ([]entity.Book, error)
}

// BookFilterParams contains filtering parameters for book queries
type BookFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Class      string
	Subject    string
	Type       string
	SupplierID *uuid.UUID
	LowStock   bool
	SortBy     string
	SortOrder  string
}

// BookCursorFilterParams contains cursor-based filtering parameters for book queries
type BookCursorFilterParams struct {
	Cursor   *pagination.CursorParams
	Search   string
	Class    string
	Subject  string
	LowStock bool
}
