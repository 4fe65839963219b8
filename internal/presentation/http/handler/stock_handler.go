package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/application/service"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	"github.com/kiplagat/bookshop-api/internal/domain/enum"
	"github.com/kiplagat/bookshop-api/internal/domain/repository"
	"github.com/kiplagat/bookshop-api/internal/presentation/http/dto/request"
	"github.com/kiplagat/bookshop-api/internal/presentation/http/dto/response"
	"github.com/kiplagat/bookshop-api/pkg/pagination"
)

// StockHandler handles stock ledger HTTP requests
type StockHandler struct {
	stockService *service.StockService
	userService  *service.UserService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stockService *service.StockService, userService *service.UserService) *StockHandler {
	return &StockHandler{stockService: stockService, userService: userService}
}

// AddStock handles recording a stock addition (delivery, correction)
func (h *StockHandler) AddStock(c *gin.Context) {
	h.applyMovement(c, h.stockService.AddStock, "Stock added successfully")
}

// MarkWastage handles recording damaged or lost copies
func (h *StockHandler) MarkWastage(c *gin.Context) {
	h.applyMovement(c, h.stockService.MarkWastage, "Wastage recorded successfully")
}

// MarkReturn handles recording copies returned to the shelf
func (h *StockHandler) MarkReturn(c *gin.Context) {
	h.applyMovement(c, h.stockService.MarkReturn, "Return recorded successfully")
}

func (h *StockHandler) applyMovement(
	c *gin.Context,
	op func(ctx context.Context, input *service.MovementInput) (*entity.StockMovement, error),
	message string,
) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.StockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	movement, err := op(c.Request.Context(), &service.MovementInput{
		BookID:    req.BookID,
		Quantity:  req.Quantity,
		Reference: req.Reference,
		Note:      req.Note,
		UserID:    *userID,
		UserName:  user.FullName(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, message, movement)
}

// History handles a single book's movement history
func (h *StockHandler) History(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	params, ok := h.bindMovementFilter(c)
	if !ok {
		return
	}

	result, err := h.stockService.GetHistory(c.Request.Context(), bookID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Stock history retrieved successfully", result)
}

// List handles listing movements across the whole ledger
func (h *StockHandler) List(c *gin.Context) {
	params, ok := h.bindMovementFilter(c)
	if !ok {
		return
	}

	result, err := h.stockService.ListMovements(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Stock movements retrieved successfully", result)
}

// LowStock handles listing books at or below their minimum stock level
func (h *StockHandler) LowStock(c *gin.Context) {
	books, err := h.stockService.GetLowStockBooks(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock books retrieved successfully", books)
}

// Recompute handles rebuilding a book's cached stock from its ledger
func (h *StockHandler) Recompute(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	cached, derived, err := h.stockService.RecomputeFromHistory(c.Request.Context(), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock recomputed successfully", gin.H{
		"previous_cached": cached,
		"derived":         derived,
		"adjusted":        cached != derived,
	})
}

func (h *StockHandler) bindMovementFilter(c *gin.Context) (*repository.MovementFilterParams, bool) {
	var filter request.MovementFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, false
	}

	params := &repository.MovementFilterParams{
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		SortOrder:  filter.SortOrder,
	}
	params.Pagination.Validate()

	if filter.Type != nil {
		t := enum.MovementType(*filter.Type)
		params.Type = &t
	}
	if filter.UserID != "" {
		if id, err := uuid.Parse(filter.UserID); err == nil {
			params.UserID = &id
		}
	}
	var err error
	params.StartDate, params.EndDate, err = parseDateRange(filter.StartDate, filter.EndDate)
	if err != nil {
		response.BadRequest(c, err.Error())
		return nil, false
	}

	return params, true
}
