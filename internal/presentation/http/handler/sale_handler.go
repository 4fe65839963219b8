package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/application/service"
	"github.com/kiplagat/bookshop-api/internal/domain/enum"
	"github.com/kiplagat/bookshop-api/internal/domain/repository"
	"github.com/kiplagat/bookshop-api/internal/presentation/http/dto/request"
	"github.com/kiplagat/bookshop-api/internal/presentation/http/dto/response"
	"github.com/kiplagat/bookshop-api/pkg/pagination"
)

// SaleHandler handles point-of-sale HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
	userService *service.UserService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService, userService *service.UserService) *SaleHandler {
	return &SaleHandler{saleService: saleService, userService: userService}
}

// Checkout handles finalizing a sale
func (h *SaleHandler) Checkout(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	// The token only carries the user ID; look the cashier up so the
	// receipt snapshot gets a display name.
	cashier, err := h.userService.GetUser(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	input := &service.CheckoutInput{
		UserID:        *userID,
		CashierName:   cashier.FullName(),
		Role:          GetUserRole(c),
		StudentID:     req.StudentID,
		DiscountMode:  enum.DiscountMode(req.DiscountMode),
		DiscountValue: req.DiscountValue,
		OverrideCode:  req.OverrideCode,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.CheckoutItemInput{
			BookID:   item.BookID,
			Quantity: item.Quantity,
		})
	}
	for _, p := range req.Payments {
		input.Payments = append(input.Payments, service.CheckoutPaymentInput{
			Method:    enum.PaymentMethod(p.Method),
			Amount:    p.Amount,
			Reference: p.Reference,
		})
	}

	receipt, err := h.saleService.Checkout(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale completed successfully", receipt)
}

// List handles listing receipts (supports both page-based and cursor-based pagination)
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	var cashierID, studentID *uuid.UUID
	if filter.CashierID != "" {
		if id, err := uuid.Parse(filter.CashierID); err == nil {
			cashierID = &id
		}
	}
	if filter.StudentID != "" {
		if id, err := uuid.Parse(filter.StudentID); err == nil {
			studentID = &id
		}
	}
	startDate, endDate, err := parseDateRange(filter.StartDate, filter.EndDate)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		limit := 15
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		params := &repository.ReceiptCursorFilterParams{
			Cursor: &pagination.CursorParams{
				Cursor:    cursor,
				Direction: pagination.CursorDirection(c.DefaultQuery("direction", "next")),
				Limit:     limit,
			},
			Search:    filter.Search,
			CashierID: cashierID,
			StudentID: studentID,
			StartDate: startDate,
			EndDate:   endDate,
		}

		result, err := h.saleService.ListSalesWithCursor(c.Request.Context(), params)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, 200, "Sales retrieved successfully", result)
		return
	}

	params := &repository.ReceiptFilterParams{
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		Search:     filter.Search,
		CashierID:  cashierID,
		StudentID:  studentID,
		StartDate:  startDate,
		EndDate:    endDate,
		SortBy:     filter.SortBy,
		SortOrder:  filter.SortOrder,
	}
	params.Pagination.Validate()

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// Get handles getting a single receipt with its lines and payments
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// Fall back to the printed document number
		receipt, rerr := h.saleService.GetSaleByReceiptNo(c.Request.Context(), c.Param("id"))
		if rerr != nil {
			response.Error(c, rerr)
			return
		}
		response.OK(c, "Receipt retrieved successfully", receipt)
		return
	}

	receipt, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// ListByStudent handles a student's purchase history
func (h *SaleHandler) ListByStudent(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid student ID")
		return
	}

	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	params.Validate()

	result, err := h.saleService.ListSalesByStudent(c.Request.Context(), studentID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// ExportCSV handles streaming receipts in a date range as CSV
func (h *SaleHandler) ExportCSV(c *gin.Context) {
	startDate, endDate, err := parseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	filename := fmt.Sprintf("sales-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "text/csv")

	if err := h.saleService.ExportCSV(c.Request.Context(), c.Writer, startDate, endDate); err != nil {
		response.InternalServerError(c, "Failed to write export")
	}
}

// ExportExcel handles exporting receipts in a date range as an Excel workbook
func (h *SaleHandler) ExportExcel(c *gin.Context) {
	startDate, endDate, err := parseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	f, err := h.saleService.ExportExcel(c.Request.Context(), startDate, endDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("sales-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		response.InternalServerError(c, "Failed to write export")
	}
}

// Resend handles emailing a copy of a receipt
func (h *SaleHandler) Resend(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req request.ResendReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.saleService.ResendReceipt(c.Request.Context(), id, req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt sent successfully", nil)
}

// parseDateRange parses optional YYYY-MM-DD bounds. The end date is pushed to
// the end of its day so the range is inclusive.
func parseDateRange(start, end string) (*time.Time, *time.Time, error) {
	var startDate, endDate *time.Time
	if start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start_date, expected YYYY-MM-DD")
		}
		startDate = &t
	}
	if end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid end_date, expected YYYY-MM-DD")
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		endDate = &t
	}
	return startDate, endDate, nil
}
