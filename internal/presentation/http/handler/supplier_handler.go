package handler

import (
	"strconv"
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

// SupplierHandler handles supplier HTTP requests
type SupplierHandler struct {
	supplierService *service.SupplierService
	userService     *service.UserService
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(supplierService *service.SupplierService, userService *service.UserService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService, userService: userService}
}

// List handles listing suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	var filter request.SupplierFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.SupplierFilterParams{
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		Search:     filter.Search,
		WithDebt:   filter.WithDebt,
		SortBy:     filter.SortBy,
		SortOrder:  filter.SortOrder,
	}
	params.Pagination.Validate()

	result, err := h.supplierService.ListSuppliers(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Suppliers retrieved successfully", result)
}

// Create handles creating a supplier
func (h *SupplierHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	supplier, err := h.supplierService.CreateSupplier(c.Request.Context(), &service.CreateSupplierInput{
		UserID:        *userID,
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		KRAPin:        req.KRAPin,
		AccountHolder: req.AccountHolder,
		AccountNumber: req.AccountNumber,
		BankName:      req.BankName,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Supplier created successfully", supplier)
}

// Get handles getting a single supplier
func (h *SupplierHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid supplier ID")
		return
	}

	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier retrieved successfully", supplier)
}

// Update handles updating a supplier
func (h *SupplierHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid supplier ID")
		return
	}

	var req request.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	supplier, err := h.supplierService.UpdateSupplier(c.Request.Context(), id, &service.UpdateSupplierInput{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		KRAPin:        req.KRAPin,
		AccountHolder: req.AccountHolder,
		AccountNumber: req.AccountNumber,
		BankName:      req.BankName,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier updated successfully", supplier)
}

// Delete handles deleting a supplier
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid supplier ID")
		return
	}

	if err := h.supplierService.DeleteSupplier(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// CreateOrder handles recording an incoming supply order
func (h *SupplierHandler) CreateOrder(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateSupplyOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	supplyDate, err := time.Parse("2006-01-02", req.SupplyDate)
	if err != nil {
		response.BadRequest(c, "Invalid supply_date, expected YYYY-MM-DD")
		return
	}
	var expectedPaymentDate *time.Time
	if req.ExpectedPaymentDate != nil && *req.ExpectedPaymentDate != "" {
		t, err := time.Parse("2006-01-02", *req.ExpectedPaymentDate)
		if err != nil {
			response.BadRequest(c, "Invalid expected_payment_date, expected YYYY-MM-DD")
			return
		}
		expectedPaymentDate = &t
	}

	input := &service.RecordSupplyOrderInput{
		UserID:              *userID,
		SupplierID:          req.SupplierID,
		InvoiceNumber:       req.InvoiceNumber,
		SupplyDate:          supplyDate,
		ExpectedPaymentDate: expectedPaymentDate,
		Notes:               req.Notes,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.SupplyOrderItemInput{
			BookID:   item.BookID,
			Quantity: item.Quantity,
			UnitCost: item.UnitCost,
		})
	}

	order, err := h.supplierService.RecordSupplyOrder(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Supply order recorded successfully", order)
}

// ListOrders handles listing supply orders
func (h *SupplierHandler) ListOrders(c *gin.Context) {
	var filter request.SupplyOrderFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.SupplyOrderFilterParams{
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		Search:     filter.Search,
		SortBy:     filter.SortBy,
		SortOrder:  filter.SortOrder,
	}
	params.Pagination.Validate()

	if filter.Status != nil {
		status := enum.SupplyOrderStatus(*filter.Status)
		params.Status = &status
	}
	if filter.SupplierID != "" {
		if id, err := uuid.Parse(filter.SupplierID); err == nil {
			params.SupplierID = &id
		}
	}
	var err error
	params.StartDate, params.EndDate, err = parseDateRange(filter.StartDate, filter.EndDate)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.supplierService.ListSupplyOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Supply orders retrieved successfully", result)
}

// GetOrder handles getting a supply order with its items
func (h *SupplierHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid supply order ID")
		return
	}

	order, err := h.supplierService.GetSupplyOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supply order retrieved successfully", order)
}

// ReceiveOrder handles marking a pending supply order as received, booking
// its items into stock
func (h *SupplierHandler) ReceiveOrder(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid supply order ID")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.supplierService.ReceiveSupplyOrder(c.Request.Context(), id, *userID, user.FullName())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supply order received successfully", order)
}

// CancelOrder handles cancelling a pending supply order
func (h *SupplierHandler) CancelOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid supply order ID")
		return
	}

	if err := h.supplierService.CancelSupplyOrder(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supply order cancelled successfully", nil)
}

// RecordPayment handles recording a payment to a supplier
func (h *SupplierHandler) RecordPayment(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid supplier ID")
		return
	}

	var req request.RecordSupplierPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		response.BadRequest(c, "Invalid payment_date, expected YYYY-MM-DD")
		return
	}

	payment, err := h.supplierService.RecordPayment(c.Request.Context(), &service.RecordPaymentInput{
		UserID:        *userID,
		SupplierID:    supplierID,
		SupplyOrderID: req.SupplyOrderID,
		Amount:        req.Amount,
		Method:        enum.PaymentMethod(req.Method),
		Reference:     req.Reference,
		PaymentDate:   paymentDate,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", payment)
}

// Ledger handles a supplier's full chronological statement
func (h *SupplierHandler) Ledger(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid supplier ID")
		return
	}

	entries, err := h.supplierService.GetLedger(c.Request.Context(), supplierID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier ledger retrieved successfully", entries)
}

// Overdue handles listing supply orders past their expected payment date
func (h *SupplierHandler) Overdue(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	params.Validate()

	result, err := h.supplierService.GetOverdue(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Overdue payments retrieved successfully", result)
}

// Upcoming handles listing supply orders due within a window (default 7 days)
func (h *SupplierHandler) Upcoming(c *gin.Context) {
	withinDays := 0
	if d := c.Query("days"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 1 {
			response.BadRequest(c, "Invalid days parameter")
			return
		}
		withinDays = n
	}

	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	params.Validate()

	result, err := h.supplierService.GetUpcoming(c.Request.Context(), withinDays, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Upcoming payments retrieved successfully", result)
}

// RecomputeBalance handles rebuilding a supplier's owed balance from orders
// and payments
func (h *SupplierHandler) RecomputeBalance(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid supplier ID")
		return
	}

	balance, err := h.supplierService.RecomputeBalance(c.Request.Context(), supplierID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier balance recomputed successfully", gin.H{"balance": balance})
}
