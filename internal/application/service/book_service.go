package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	"github.com/kiplagat/bookshop-api/internal/domain/repository"
	"github.com/kiplagat/bookshop-api/pkg/apperror"
	"github.com/kiplagat/bookshop-api/pkg/pagination"
	"github.com/kiplagat/bookshop-api/pkg/utils"
	"github.com/xuri/excelize/v2"
)

// BookService handles the book catalogue
type BookService struct {
	bookRepo     repository.BookRepository
	supplierRepo repository.SupplierRepository
}

// NewBookService creates a new book service
func NewBookService(bookRepo repository.BookRepository, supplierRepo repository.SupplierRepository) *BookService {
	return &BookService{
		bookRepo:     bookRepo,
		supplierRepo: supplierRepo,
	}
}

// CreateBookInput represents the create book input
type CreateBookInput struct {
	UserID      uuid.UUID
	SupplierID  *uuid.UUID
	Title       string
	Code        string
	Class       string
	Subject     string
	Author      string
	Type        string
	CostPrice   float64
	SellPrice   float64
	Stock       int
	MinStock    int
	Description *string
}

// CreateBook creates a new book
func (s *BookService) CreateBook(ctx context.Context, input *CreateBookInput) (*entity.Book, error) {
	// Auto-generate code if not provided
	code := input.Code
	if code == "" {
		code = utils.GenerateBookCode()
	}

	existing, err := s.bookRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Book code already exists")
	}

	if input.SupplierID != nil {
		supplier, err := s.supplierRepo.GetByID(ctx, *input.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, apperror.NewNotFoundError("Supplier")
		}
	}

	bookType := input.Type
	if bookType == "" {
		bookType = "textbook"
	}

	book := &entity.Book{
		UserID:      input.UserID,
		SupplierID:  input.SupplierID,
		Title:       input.Title,
		Slug:        utils.Slugify(input.Title),
		Code:        code,
		Class:       input.Class,
		Subject:     input.Subject,
		Author:      input.Author,
		Type:        bookType,
		Stock:       input.Stock,
		MinStock:    input.MinStock,
		Description: input.Description,
	}
	book.SetCostPriceFromDecimal(input.CostPrice)
	book.SetSellPriceFromDecimal(input.SellPrice)

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}

	return s.bookRepo.GetByID(ctx, book.ID)
}

// GetBook retrieves a book by slug
func (s *BookService) GetBook(ctx context.Context, slug string) (*entity.Book, error) {
	book, err := s.bookRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperror.NewNotFoundError("Book")
	}
	return book, nil
}

// GetBookByID retrieves a book by ID
func (s *BookService) GetBookByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperror.NewNotFoundError("Book")
	}
	return book, nil
}

// ListBooks lists books with filtering
func (s *BookService) ListBooks(ctx context.Context, params *repository.BookFilterParams) (*pagination.PaginatedResult[entity.Book], error) {
	books, total, err := s.bookRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(books, pag), nil
}

// ListBooksWithCursor lists books with cursor-based pagination
func (s *BookService) ListBooksWithCursor(ctx context.Context, params *repository.BookCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Book], error) {
	books, err := s.bookRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(books, params.Cursor.Limit,
		func(b entity.Book) string { return b.ID.String() },
		func(b entity.Book) time.Time { return b.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// UpdateBookInput represents the update book input
type UpdateBookInput struct {
	BookSlug    string
	SupplierID  *uuid.UUID
	Title       *string
	Code        *string
	Class       *string
	Subject     *string
	Author      *string
	Type        *string
	CostPrice   *float64
	SellPrice   *float64
	MinStock    *int
	Description *string
}

// UpdateBook updates a book. Stock is not settable here; it only moves
// through the movement ledger.
func (s *BookService) UpdateBook(ctx context.Context, input *UpdateBookInput) (*entity.Book, error) {
	book, err := s.bookRepo.GetBySlug(ctx, input.BookSlug)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperror.NewNotFoundError("Book")
	}

	if input.Code != nil && *input.Code != book.Code {
		existing, err := s.bookRepo.GetByCode(ctx, *input.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != book.ID {
			return nil, apperror.NewConflictError("Book code already exists")
		}
		book.Code = *input.Code
	}

	if input.SupplierID != nil {
		supplier, err := s.supplierRepo.GetByID(ctx, *input.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, apperror.NewNotFoundError("Supplier")
		}
		book.SupplierID = input.SupplierID
	}

	if input.Title != nil {
		book.Title = *input.Title
		book.Slug = utils.Slugify(*input.Title)
	}
	if input.Class != nil {
		book.Class = *input.Class
	}
	if input.Subject != nil {
		book.Subject = *input.Subject
	}
	if input.Author != nil {
		book.Author = *input.Author
	}
	if input.Type != nil {
		book.Type = *input.Type
	}
	if input.CostPrice != nil {
		book.SetCostPriceFromDecimal(*input.CostPrice)
	}
	if input.SellPrice != nil {
		book.SetSellPriceFromDecimal(*input.SellPrice)
	}
	if input.MinStock != nil {
		book.MinStock = *input.MinStock
	}
	if input.Description != nil {
		book.Description = input.Description
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}

	return s.bookRepo.GetByID(ctx, book.ID)
}

// DeleteBook deletes a book
func (s *BookService) DeleteBook(ctx context.Context, slug string) error {
	book, err := s.bookRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if book == nil {
		return apperror.NewNotFoundError("Book")
	}

	return s.bookRepo.Delete(ctx, book.ID)
}

// ImportBookRow represents a single row from the import file
type ImportBookRow struct {
	Title        string
	Code         string
	Class        string
	Subject      string
	Author       string
	Type         string
	CostPrice    float64
	SellPrice    float64
	Stock        int
	MinStock     int
	Description  string
	SupplierName string
}

// ImportResult contains the result of a book import operation
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseImportFile reads an xlsx upload into import rows. The first sheet is
// used and row 1 is treated as the header.
func (s *BookService) ParseImportFile(r io.Reader) ([]ImportBookRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.NewBadRequestError("Could not read the uploaded file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperror.NewBadRequestError("The uploaded file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperror.NewBadRequestError("Could not read the uploaded file")
	}
	if len(rows) < 2 {
		return nil, apperror.NewBadRequestError("The uploaded file has no data rows")
	}

	col := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	num := func(row []string, i int) float64 {
		v, _ := strconv.ParseFloat(col(row, i), 64)
		return v
	}
	count := func(row []string, i int) int {
		v, _ := strconv.Atoi(col(row, i))
		return v
	}

	// Expected columns: Title, Code, Class, Subject, Author, Type,
	// CostPrice, SellPrice, Stock, MinStock, Description, Supplier
	parsed := make([]ImportBookRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		parsed = append(parsed, ImportBookRow{
			Title:        col(row, 0),
			Code:         col(row, 1),
			Class:        col(row, 2),
			Subject:      col(row, 3),
			Author:       col(row, 4),
			Type:         col(row, 5),
			CostPrice:    num(row, 6),
			SellPrice:    num(row, 7),
			Stock:        count(row, 8),
			MinStock:     count(row, 9),
			Description:  col(row, 10),
			SupplierName: col(row, 11),
		})
	}

	return parsed, nil
}

// ImportBooks validates and bulk-creates books from parsed import rows
func (s *BookService) ImportBooks(ctx context.Context, userID uuid.UUID, rows []ImportBookRow) (*ImportResult, error) {
	result := &ImportResult{TotalRows: len(rows)}
	var rowErrors []ImportRowError

	// Load suppliers for name-based matching
	supplierMap := make(map[string]*uuid.UUID)
	suppliers, _, _ := s.supplierRepo.List(ctx, &repository.SupplierFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 1000},
	})
	for i := range suppliers {
		supplierMap[strings.ToLower(suppliers[i].Name)] = &suppliers[i].ID
	}

	// Track codes seen in this import batch to detect duplicates within the file
	seenCodes := make(map[string]int) // code -> row number

	var validBooks []entity.Book

	for i, row := range rows {
		rowNum := i + 2 // row 1 is the header, data starts at row 2

		if strings.TrimSpace(row.Title) == "" {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "title", Message: "Title is required"})
			continue
		}
		if row.SellPrice < 0 || row.CostPrice < 0 {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "price", Message: "Prices cannot be negative"})
			continue
		}

		code := strings.TrimSpace(row.Code)
		if code == "" {
			code = utils.GenerateBookCode()
		}

		if prevRow, exists := seenCodes[code]; exists {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "code",
				Message: fmt.Sprintf("Duplicate code '%s' (same as row %d)", code, prevRow),
			})
			continue
		}

		existing, err := s.bookRepo.GetByCode(ctx, code)
		if err != nil {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "code", Message: "Error checking code: " + err.Error()})
			continue
		}
		if existing != nil {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "code",
				Message: fmt.Sprintf("Book code '%s' already exists", code),
			})
			continue
		}

		seenCodes[code] = rowNum

		// Uniqueness suffix keeps repeated titles from colliding on slug
		slug := utils.Slugify(row.Title) + "-" + strings.ToLower(uuid.New().String()[:8])

		var supplierID *uuid.UUID
		if row.SupplierName != "" {
			if id, ok := supplierMap[strings.ToLower(strings.TrimSpace(row.SupplierName))]; ok {
				supplierID = id
			}
		}

		bookType := strings.TrimSpace(row.Type)
		if bookType == "" {
			bookType = "textbook"
		}

		book := entity.Book{
			UserID:     userID,
			SupplierID: supplierID,
			Title:      strings.TrimSpace(row.Title),
			Slug:       slug,
			Code:       code,
			Class:      strings.TrimSpace(row.Class),
			Subject:    strings.TrimSpace(row.Subject),
			Author:     strings.TrimSpace(row.Author),
			Type:       bookType,
			Stock:      row.Stock,
			MinStock:   row.MinStock,
		}
		book.SetCostPriceFromDecimal(row.CostPrice)
		book.SetSellPriceFromDecimal(row.SellPrice)

		if row.Description != "" {
			desc := row.Description
			book.Description = &desc
		}

		validBooks = append(validBooks, book)
	}

	if len(validBooks) > 0 {
		if err := s.bookRepo.CreateBatch(ctx, validBooks); err != nil {
			return nil, apperror.NewAppError(500, "Failed to import books: "+err.Error())
		}
	}

	result.Successful = len(validBooks)
	result.Failed = len(rowErrors)
	result.Errors = rowErrors

	return result, nil
}

// ExportExcel writes the full catalogue as an Excel workbook
func (s *BookService) ExportExcel(ctx context.Context) (*excelize.File, error) {
	books, _, err := s.bookRepo.List(ctx, &repository.BookFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 10000},
	})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Books"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Title", "Code", "Class", "Subject", "Author", "Type", "Cost Price", "Sell Price", "Stock", "Min Stock"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, b := range books {
		values := []interface{}{
			b.Title,
			b.Code,
			b.Class,
			b.Subject,
			b.Author,
			b.Type,
			b.GetCostPriceDecimal(),
			b.GetSellPriceDecimal(),
			b.Stock,
			b.MinStock,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f, nil
}
