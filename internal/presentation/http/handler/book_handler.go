package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/application/service"
	"github.com/kiplagat/bookshop-api/internal/domain/repository"
	"github.com/kiplagat/bookshop-api/internal/presentation/http/dto/request"
	"github.com/kiplagat/bookshop-api/internal/presentation/http/dto/response"
	"github.com/kiplagat/bookshop-api/pkg/pagination"
)

// BookHandler handles catalogue HTTP requests
type BookHandler struct {
	bookService *service.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *service.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// List handles listing books (supports both page-based and cursor-based pagination)
func (h *BookHandler) List(c *gin.Context) {
	// Check if cursor-based pagination is requested
	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c)
		return
	}

	var filter request.BookFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.BookFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		Class:     filter.Class,
		Subject:   filter.Subject,
		Type:      filter.Type,
		LowStock:  filter.LowStock,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	if filter.SupplierID != "" {
		supplierID, err := uuid.Parse(filter.SupplierID)
		if err == nil {
			params.SupplierID = &supplierID
		}
	}

	result, err := h.bookService.ListBooks(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Books retrieved successfully", result)
}

// listWithCursor handles listing books with cursor-based pagination
func (h *BookHandler) listWithCursor(c *gin.Context) {
	var filter request.BookFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	limit := 15
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	cursor := c.Query("cursor")
	direction := c.DefaultQuery("direction", "next")

	params := &repository.BookCursorFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor:    cursor,
			Direction: pagination.CursorDirection(direction),
			Limit:     limit,
		},
		Search:   filter.Search,
		Class:    filter.Class,
		Subject:  filter.Subject,
		LowStock: filter.LowStock,
	}

	result, err := h.bookService.ListBooksWithCursor(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Books retrieved successfully", result)
}

// Create handles creating a book
func (h *BookHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	book, err := h.bookService.CreateBook(c.Request.Context(), &service.CreateBookInput{
		UserID:      *userID,
		SupplierID:  req.SupplierID,
		Title:       req.Title,
		Code:        req.Code,
		Class:       req.Class,
		Subject:     req.Subject,
		Author:      req.Author,
		Type:        req.Type,
		CostPrice:   req.CostPrice,
		SellPrice:   req.SellPrice,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Book created successfully", book)
}

// Get handles getting a single book
func (h *BookHandler) Get(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Book slug is required")
		return
	}

	book, err := h.bookService.GetBook(c.Request.Context(), slug)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Book retrieved successfully", book)
}

// Update handles updating a book
func (h *BookHandler) Update(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Book slug is required")
		return
	}

	var req request.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	book, err := h.bookService.UpdateBook(c.Request.Context(), &service.UpdateBookInput{
		BookSlug:    slug,
		SupplierID:  req.SupplierID,
		Title:       req.Title,
		Code:        req.Code,
		Class:       req.Class,
		Subject:     req.Subject,
		Author:      req.Author,
		Type:        req.Type,
		CostPrice:   req.CostPrice,
		SellPrice:   req.SellPrice,
		MinStock:    req.MinStock,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Book updated successfully", book)
}

// Delete handles deleting a book by slug
func (h *BookHandler) Delete(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Book slug is required")
		return
	}

	if err := h.bookService.DeleteBook(c.Request.Context(), slug); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Import handles bulk book import from an xlsx upload
func (h *BookHandler) Import(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "An xlsx file upload is required")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.BadRequest(c, "Could not read the uploaded file")
		return
	}
	defer f.Close()

	rows, err := h.bookService.ParseImportFile(f)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.bookService.ImportBooks(c.Request.Context(), *userID, rows)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Import completed", result)
}

// Export handles exporting the catalogue as an Excel workbook
func (h *BookHandler) Export(c *gin.Context) {
	f, err := h.bookService.ExportExcel(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("books-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		response.InternalServerError(c, "Failed to write export")
	}
}
