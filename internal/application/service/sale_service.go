package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	"github.com/kiplagat/bookshop-api/internal/domain/enum"
	"github.com/kiplagat/bookshop-api/internal/domain/pricing"
	"github.com/kiplagat/bookshop-api/internal/domain/repository"
	"github.com/kiplagat/bookshop-api/pkg/apperror"
	"github.com/kiplagat/bookshop-api/pkg/email"
	"github.com/kiplagat/bookshop-api/pkg/pagination"
	"github.com/kiplagat/bookshop-api/pkg/utils"
	"github.com/xuri/excelize/v2"
)

// SaleService turns a validated cart into an immutable receipt and exposes
// read-only projections over issued receipts
type SaleService struct {
	receiptRepo repository.ReceiptRepository
	bookRepo    repository.BookRepository
	studentRepo repository.StudentRepository
	emailSvc    *email.EmailService
	policy      pricing.DiscountPolicy
}

// NewSaleService creates a new sale service
func NewSaleService(
	receiptRepo repository.ReceiptRepository,
	bookRepo repository.BookRepository,
	studentRepo repository.StudentRepository,
	emailSvc *email.EmailService,
	policy pricing.DiscountPolicy,
) *SaleService {
	return &SaleService{
		receiptRepo: receiptRepo,
		bookRepo:    bookRepo,
		studentRepo: studentRepo,
		emailSvc:    emailSvc,
		policy:      policy,
	}
}

// CheckoutItemInput is one cart line in a checkout request. The unit price
// is resolved server side from the book record, never trusted from the client.
type CheckoutItemInput struct {
	BookID   uuid.UUID
	Quantity int
}

// CheckoutPaymentInput is one tendered payment line
type CheckoutPaymentInput struct {
	Method    enum.PaymentMethod
	Amount    float64
	Reference string
}

// CheckoutInput represents the checkout request
type CheckoutInput struct {
	UserID        uuid.UUID
	CashierName   string
	Role          enum.Role
	StudentID     *uuid.UUID
	Items         []CheckoutItemInput
	DiscountMode  enum.DiscountMode
	DiscountValue float64
	OverrideCode  string
	Payments      []CheckoutPaymentInput
}

// Checkout finalizes a sale: it prices the cart, enforces the discount
// policy, validates the split payments against the post-discount total and
// writes the receipt together with one stock reduction per line in a single
// transaction. On success the returned receipt is immutable.
func (s *SaleService) Checkout(ctx context.Context, input *CheckoutInput) (*entity.Receipt, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Cart is empty")
	}

	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, apperror.NewBadRequestError("Item quantity must be at least 1")
		}
	}

	// Resolve the student snapshot if provided; walk-in sales carry none
	var studentName *string
	if input.StudentID != nil {
		student, err := s.studentRepo.GetByID(ctx, *input.StudentID)
		if err != nil {
			return nil, err
		}
		if student == nil {
			return nil, apperror.NewNotFoundError("Student")
		}
		studentName = &student.Name
	}

	// Batch fetch all books in one query (prevents N+1)
	bookIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		bookIDs[i] = item.BookID
	}

	books, err := s.bookRepo.GetByIDs(ctx, bookIDs)
	if err != nil {
		return nil, err
	}

	bookMap := make(map[uuid.UUID]*entity.Book, len(books))
	for i := range books {
		bookMap[books[i].ID] = &books[i]
	}

	// Price the cart from the catalogue
	cart := make([]pricing.CartLine, 0, len(input.Items))
	for _, item := range input.Items {
		book, exists := bookMap[item.BookID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Book %s", item.BookID))
		}
		cart = append(cart, pricing.CartLine{
			BookID:         book.ID,
			Title:          book.Title,
			UnitPriceCents: book.SellPrice,
			Quantity:       item.Quantity,
		})
	}

	subTotal := pricing.Subtotal(cart)

	discount, err := pricing.ComputeDiscount(subTotal, input.DiscountMode, input.DiscountValue, input.Role, input.OverrideCode, s.policy)
	if err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}
	if !discount.Authorized {
		return nil, apperror.NewAppError(403, "Discount exceeds your limit; an override code is required")
	}

	total := subTotal - discount.AmountCents

	// Validate the split payments against the post-discount total
	payments := make([]pricing.PaymentLine, 0, len(input.Payments))
	for _, p := range input.Payments {
		if !p.Method.IsValid() {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown payment method %q", p.Method))
		}
		payments = append(payments, pricing.PaymentLine{
			Method:      p.Method,
			AmountCents: pricing.ToCents(p.Amount),
			Reference:   p.Reference,
		})
	}

	check := pricing.ValidatePayments(payments, total)
	if !check.Valid {
		return nil, apperror.NewAppError(422,
			fmt.Sprintf("Payments (%.2f) do not match total (%.2f)", float64(check.SumCents)/100, float64(total)/100))
	}

	// Snapshot the cart and payments onto the receipt
	receipt := &entity.Receipt{
		ReceiptNo:      utils.GenerateReceiptNo(),
		UserID:         input.UserID,
		CashierName:    input.CashierName,
		StudentID:      input.StudentID,
		StudentName:    studentName,
		SubTotal:       subTotal,
		DiscountMode:   input.DiscountMode,
		DiscountValue:  input.DiscountValue,
		DiscountAmount: discount.AmountCents,
		Total:          total,
	}

	movements := make([]entity.StockMovement, 0, len(cart))
	for _, line := range cart {
		receipt.Lines = append(receipt.Lines, entity.ReceiptLine{
			BookID:    line.BookID,
			Title:     line.Title,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPriceCents,
			Total:     line.TotalCents(),
		})
		movements = append(movements, entity.StockMovement{
			BookID:   line.BookID,
			Type:     enum.MovementTypeReduction,
			Quantity: line.Quantity,
			UserID:   input.UserID,
			UserName: input.CashierName,
		})
	}

	for _, p := range payments {
		var ref *string
		if p.Reference != "" {
			r := p.Reference
			ref = &r
		}
		receipt.Payments = append(receipt.Payments, entity.ReceiptPayment{
			Method:    p.Method,
			Amount:    p.AmountCents,
			Reference: ref,
		})
	}

	if err := s.receiptRepo.CreateWithStockReduction(ctx, receipt, movements); err != nil {
		return nil, err
	}

	return s.receiptRepo.GetWithDetails(ctx, receipt.ID)
}

// GetSale retrieves a receipt by ID
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// GetSaleByReceiptNo retrieves a receipt by its document number
func (s *SaleService) GetSaleByReceiptNo(ctx context.Context, receiptNo string) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByReceiptNo(ctx, receiptNo)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// ListSales lists receipts with filtering
func (s *SaleService) ListSales(ctx context.Context, params *repository.ReceiptFilterParams) (*pagination.PaginatedResult[entity.Receipt], error) {
	receipts, total, err := s.receiptRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(receipts, pag), nil
}

// ListSalesWithCursor lists receipts with cursor-based pagination
func (s *SaleService) ListSalesWithCursor(ctx context.Context, params *repository.ReceiptCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Receipt], error) {
	receipts, err := s.receiptRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(receipts, params.Cursor.Limit,
		func(r entity.Receipt) string { return r.ID.String() },
		func(r entity.Receipt) time.Time { return r.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// ListSalesByStudent lists a student's purchase history
func (s *SaleService) ListSalesByStudent(ctx context.Context, studentID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Receipt], error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperror.NewNotFoundError("Student")
	}

	receipts, total, err := s.receiptRepo.ListByStudent(ctx, studentID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(receipts, pag), nil
}

// ExportCSV writes receipts in a date range as CSV, one row per line item
func (s *SaleService) ExportCSV(ctx context.Context, w io.Writer, startDate, endDate *time.Time) error {
	receipts, err := s.receiptRepo.ListForExport(ctx, startDate, endDate)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"Receipt No", "Date", "Cashier", "Student", "Item", "Quantity", "Unit Price", "Line Total", "Subtotal", "Discount", "Total"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range receipts {
		student := ""
		if r.StudentName != nil {
			student = *r.StudentName
		}
		for _, line := range r.Lines {
			row := []string{
				r.ReceiptNo,
				r.CreatedAt.Format("2006-01-02 15:04:05"),
				r.CashierName,
				student,
				line.Title,
				strconv.Itoa(line.Quantity),
				strconv.FormatFloat(float64(line.UnitPrice)/100, 'f', 2, 64),
				strconv.FormatFloat(float64(line.Total)/100, 'f', 2, 64),
				strconv.FormatFloat(float64(r.SubTotal)/100, 'f', 2, 64),
				strconv.FormatFloat(float64(r.DiscountAmount)/100, 'f', 2, 64),
				strconv.FormatFloat(float64(r.Total)/100, 'f', 2, 64),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportExcel writes receipts in a date range as an Excel workbook
func (s *SaleService) ExportExcel(ctx context.Context, startDate, endDate *time.Time) (*excelize.File, error) {
	receipts, err := s.receiptRepo.ListForExport(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Sales"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Receipt No", "Date", "Cashier", "Student", "Items", "Subtotal", "Discount", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, r := range receipts {
		student := ""
		if r.StudentName != nil {
			student = *r.StudentName
		}
		items := 0
		for _, line := range r.Lines {
			items += line.Quantity
		}
		values := []interface{}{
			r.ReceiptNo,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.CashierName,
			student,
			items,
			float64(r.SubTotal) / 100,
			float64(r.DiscountAmount) / 100,
			float64(r.Total) / 100,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f, nil
}

// ResendReceipt emails a copy of a receipt
func (s *SaleService) ResendReceipt(ctx context.Context, id uuid.UUID, toEmail string) error {
	receipt, err := s.receiptRepo.GetWithDetails(ctx, id)
	if err != nil {
		return err
	}
	if receipt == nil {
		return apperror.NewNotFoundError("Receipt")
	}

	data := email.ReceiptEmailData{
		ReceiptNo:      receipt.ReceiptNo,
		CashierName:    receipt.CashierName,
		CreatedAt:      receipt.CreatedAt,
		SubTotal:       float64(receipt.SubTotal) / 100,
		DiscountAmount: float64(receipt.DiscountAmount) / 100,
		Total:          float64(receipt.Total) / 100,
		Currency:       "KES",
	}
	if receipt.StudentName != nil {
		data.StudentName = *receipt.StudentName
	}
	for _, line := range receipt.Lines {
		data.Lines = append(data.Lines, email.ReceiptEmailLine{
			Title:     line.Title,
			Quantity:  line.Quantity,
			UnitPrice: float64(line.UnitPrice) / 100,
			Total:     float64(line.Total) / 100,
		})
	}
	for _, p := range receipt.Payments {
		data.Payments = append(data.Payments, email.ReceiptEmailPayment{
			Method: p.Method.String(),
			Amount: float64(p.Amount) / 100,
		})
	}

	return s.emailSvc.SendReceiptEmail(toEmail, data)
}
