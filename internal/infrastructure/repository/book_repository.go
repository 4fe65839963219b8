package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	domainRepo "github.com/kiplagat/bookshop-api/internal/domain/repository"
	"github.com/kiplagat/bookshop-api/pkg/pagination"
	"gorm.io/gorm"
)

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) domainRepo.BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *entity.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepository) CreateBatch(ctx context.Context, books []entity.Book) error {
	if len(books) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(books, 100).Error
}

func (r *bookRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	var book entity.Book
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		First(&book, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &book, err
}

// GetByIDs retrieves multiple books by their IDs in a single query
func (r *bookRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Book, error) {
	if len(ids) == 0 {
		return []entity.Book{}, nil
	}
	var books []entity.Book
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&books).Error
	return books, err
}

func (r *bookRepository) GetBySlug(ctx context.Context, slug string) (*entity.Book, error) {
	var book entity.Book
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		First(&book, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &book, err
}

func (r *bookRepository) GetByCode(ctx context.Context, code string) (*entity.Book, error) {
	var book entity.Book
	err := r.db.WithContext(ctx).First(&book, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &book, err
}

func (r *bookRepository) Update(ctx context.Context, book *entity.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

func (r *bookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Book{}, "id = ?", id).Error
}

func (r *bookRepository) List(ctx context.Context, params *domainRepo.BookFilterParams) ([]entity.Book, int64, error) {
	var books []entity.Book
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Book{})

	if params.Search != "" {
		query = query.Where("title ILIKE ? OR code ILIKE ? OR author ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Class != "" {
		query = query.Where("class = ?", params.Class)
	}

	if params.Subject != "" {
		query = query.Where("subject = ?", params.Subject)
	}

	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}

	if params.SupplierID != nil {
		query = query.Where("supplier_id = ?", *params.SupplierID)
	}

	if params.LowStock {
		query = query.Where("stock <= min_stock")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder != "" && (params.SortOrder == "ASC" || params.SortOrder == "asc") {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Supplier").
		Order(sortBy + " " + sortOrder).
		Find(&books).Error

	return books, total, err
}

func (r *bookRepository) GetLowStock(ctx context.Context) ([]entity.Book, error) {
	var books []entity.Book
	err := r.db.WithContext(ctx).
		Where("stock <= min_stock").
		Order("stock ASC").
		Find(&books).Error
	return books, err
}

// ListWithCursor returns books using cursor-based pagination
func (r *bookRepository) ListWithCursor(ctx context.Context, params *domainRepo.BookCursorFilterParams) ([]entity.Book, error) {
	var books []entity.Book

	params.Cursor.Validate()
	query := r.db.WithContext(ctx).Model(&entity.Book{})

	if params.Search != "" {
		query = query.Where("title ILIKE ? OR code ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Class != "" {
		query = query.Where("class = ?", params.Class)
	}

	if params.Subject != "" {
		query = query.Where("subject = ?", params.Subject)
	}

	if params.LowStock {
		query = query.Where("stock <= min_stock")
	}

	// Decode cursor if provided
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

	// Fetch limit+1 to detect hasMore
	err = query.Limit(params.Cursor.Limit + 1).
		Order("created_at ASC, id ASC").
		Find(&books).Error

	return books, err
}
