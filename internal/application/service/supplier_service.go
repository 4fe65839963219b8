package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	"github.com/kiplagat/bookshop-api/internal/domain/enum"
	"github.com/kiplagat/bookshop-api/internal/domain/pricing"
	"github.com/kiplagat/bookshop-api/internal/domain/repository"
	"github.com/kiplagat/bookshop-api/pkg/apperror"
	"github.com/kiplagat/bookshop-api/pkg/pagination"
	"github.com/kiplagat/bookshop-api/pkg/utils"
)

// SupplierService manages suppliers and their ledger: supply orders raise
// the owed balance, payments lower it, and the statement is a fresh fold
// over both sets on every read
type SupplierService struct {
	supplierRepo repository.SupplierRepository
	orderRepo    repository.SupplyOrderRepository
	paymentRepo  repository.SupplierPaymentRepository
	bookRepo     repository.BookRepository
}

// NewSupplierService creates a new supplier service
func NewSupplierService(
	supplierRepo repository.SupplierRepository,
	orderRepo repository.SupplyOrderRepository,
	paymentRepo repository.SupplierPaymentRepository,
	bookRepo repository.BookRepository,
) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		bookRepo:     bookRepo,
	}
}

// CreateSupplierInput represents the create supplier input
type CreateSupplierInput struct {
	UserID        uuid.UUID
	Name          string
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *string
	KRAPin        *string
	AccountHolder *string
	AccountNumber *string
	BankName      *string
	Notes         *string
}

// CreateSupplier creates a new supplier with a zero balance
func (s *SupplierService) CreateSupplier(ctx context.Context, input *CreateSupplierInput) (*entity.Supplier, error) {
	supplier := &entity.Supplier{
		UserID:        input.UserID,
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Email:         input.Email,
		Phone:         input.Phone,
		Address:       input.Address,
		KRAPin:        input.KRAPin,
		AccountHolder: input.AccountHolder,
		AccountNumber: input.AccountNumber,
		BankName:      input.BankName,
		Notes:         input.Notes,
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}

	return supplier, nil
}

// GetSupplier retrieves a supplier by ID
func (s *SupplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}
	return supplier, nil
}

// UpdateSupplierInput represents the update supplier input
type UpdateSupplierInput struct {
	Name          *string
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *string
	KRAPin        *string
	AccountHolder *string
	AccountNumber *string
	BankName      *string
	Notes         *string
}

// UpdateSupplier updates a supplier's details. The balance is never set
// directly; it only moves through orders, payments and RecomputeBalance.
func (s *SupplierService) UpdateSupplier(ctx context.Context, id uuid.UUID, input *UpdateSupplierInput) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}

	if input.Name != nil {
		supplier.Name = *input.Name
	}
	if input.ContactPerson != nil {
		supplier.ContactPerson = input.ContactPerson
	}
	if input.Email != nil {
		supplier.Email = input.Email
	}
	if input.Phone != nil {
		supplier.Phone = input.Phone
	}
	if input.Address != nil {
		supplier.Address = input.Address
	}
	if input.KRAPin != nil {
		supplier.KRAPin = input.KRAPin
	}
	if input.AccountHolder != nil {
		supplier.AccountHolder = input.AccountHolder
	}
	if input.AccountNumber != nil {
		supplier.AccountNumber = input.AccountNumber
	}
	if input.BankName != nil {
		supplier.BankName = input.BankName
	}
	if input.Notes != nil {
		supplier.Notes = input.Notes
	}

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}

	return supplier, nil
}

// DeleteSupplier soft-deletes a supplier
func (s *SupplierService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return apperror.NewNotFoundError("Supplier")
	}
	return s.supplierRepo.Delete(ctx, id)
}

// ListSuppliers lists suppliers with filtering
func (s *SupplierService) ListSuppliers(ctx context.Context, params *repository.SupplierFilterParams) (*pagination.PaginatedResult[entity.Supplier], error) {
	suppliers, total, err := s.supplierRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(suppliers, pag), nil
}

// SupplyOrderItemInput is one line in a supply order
type SupplyOrderItemInput struct {
	BookID   uuid.UUID
	Quantity int
	UnitCost float64
}

// RecordSupplyOrderInput represents the record supply order input
type RecordSupplyOrderInput struct {
	UserID              uuid.UUID
	SupplierID          uuid.UUID
	InvoiceNumber       *string
	SupplyDate          time.Time
	ExpectedPaymentDate *time.Time
	Notes               *string
	Items               []SupplyOrderItemInput
}

// RecordSupplyOrder records a pending supply order and raises the supplier's
// owed balance by its total in the same transaction
func (s *SupplierService) RecordSupplyOrder(ctx context.Context, input *RecordSupplyOrderInput) (*entity.SupplyOrder, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Supply order needs at least one item")
	}

	supplier, err := s.supplierRepo.GetByID(ctx, input.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}

	bookIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Item quantity must be greater than zero")
		}
		if item.UnitCost < 0 {
			return nil, apperror.NewBadRequestError("Item cost cannot be negative")
		}
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

	var totalAmount int64
	items := make([]entity.SupplyOrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		if _, exists := bookMap[item.BookID]; !exists {
			return nil, apperror.NewNotFoundError("Book")
		}
		unitCost := pricing.ToCents(item.UnitCost)
		lineTotal := unitCost * int64(item.Quantity)
		totalAmount += lineTotal
		items = append(items, entity.SupplyOrderItem{
			BookID:   item.BookID,
			Quantity: item.Quantity,
			UnitCost: unitCost,
			Total:    lineTotal,
		})
	}

	order := &entity.SupplyOrder{
		UserID:              input.UserID,
		SupplierID:          input.SupplierID,
		OrderNo:             utils.GenerateOrderNo(),
		InvoiceNumber:       input.InvoiceNumber,
		Status:              enum.SupplyOrderStatusPending,
		SupplyDate:          input.SupplyDate,
		ExpectedPaymentDate: input.ExpectedPaymentDate,
		TotalAmount:         totalAmount,
		Notes:               input.Notes,
		Items:               items,
	}

	if err := s.orderRepo.CreateWithBalanceUpdate(ctx, order); err != nil {
		return nil, err
	}

	return s.orderRepo.GetWithItems(ctx, order.ID)
}

// ReceiveSupplyOrder marks a pending order received and books the delivered
// quantities into the stock ledger
func (s *SupplierService) ReceiveSupplyOrder(ctx context.Context, id uuid.UUID, userID uuid.UUID, userName string) (*entity.SupplyOrder, error) {
	order, err := s.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Supply order")
	}
	if order.Status != enum.SupplyOrderStatusPending {
		return nil, apperror.NewBadRequestError("Supply order is not pending")
	}

	movements := make([]entity.StockMovement, 0, len(order.Items))
	for _, item := range order.Items {
		movements = append(movements, entity.StockMovement{
			BookID:   item.BookID,
			Type:     enum.MovementTypeAddition,
			Quantity: item.Quantity,
			UserID:   userID,
			UserName: userName,
		})
	}

	if err := s.orderRepo.MarkReceived(ctx, id, movements); err != nil {
		return nil, err
	}

	return s.orderRepo.GetWithItems(ctx, id)
}

// CancelSupplyOrder cancels a pending order and reverses its balance
// contribution
func (s *SupplierService) CancelSupplyOrder(ctx context.Context, id uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Supply order")
	}
	if order.Status != enum.SupplyOrderStatusPending {
		return apperror.NewBadRequestError("Only pending supply orders can be cancelled")
	}

	return s.orderRepo.Cancel(ctx, id)
}

// GetSupplyOrder retrieves a supply order with its items
func (s *SupplierService) GetSupplyOrder(ctx context.Context, id uuid.UUID) (*entity.SupplyOrder, error) {
	order, err := s.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Supply order")
	}
	return order, nil
}

// ListSupplyOrders lists supply orders with filtering
func (s *SupplierService) ListSupplyOrders(ctx context.Context, params *repository.SupplyOrderFilterParams) (*pagination.PaginatedResult[entity.SupplyOrder], error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// RecordPaymentInput represents the record supplier payment input
type RecordPaymentInput struct {
	UserID        uuid.UUID
	SupplierID    uuid.UUID
	SupplyOrderID *uuid.UUID
	Amount        float64
	Method        enum.PaymentMethod
	Reference     *string
	PaymentDate   time.Time
	Notes         *string
}

// RecordPayment records a payment to a supplier and lowers the owed balance
// in the same transaction
func (s *SupplierService) RecordPayment(ctx context.Context, input *RecordPaymentInput) (*entity.SupplierPayment, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Payment amount must be greater than zero")
	}
	if !input.Method.IsValid() {
		return nil, apperror.NewBadRequestError("Unknown payment method")
	}

	supplier, err := s.supplierRepo.GetByID(ctx, input.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}

	if input.SupplyOrderID != nil {
		order, err := s.orderRepo.GetByID(ctx, *input.SupplyOrderID)
		if err != nil {
			return nil, err
		}
		if order == nil || order.SupplierID != input.SupplierID {
			return nil, apperror.NewNotFoundError("Supply order")
		}
	}

	payment := &entity.SupplierPayment{
		UserID:        input.UserID,
		SupplierID:    input.SupplierID,
		SupplyOrderID: input.SupplyOrderID,
		PaymentNo:     utils.GeneratePaymentNo(),
		Amount:        pricing.ToCents(input.Amount),
		Method:        input.Method,
		Reference:     input.Reference,
		PaymentDate:   input.PaymentDate,
		Notes:         input.Notes,
	}

	if err := s.paymentRepo.CreateWithBalanceUpdate(ctx, payment); err != nil {
		return nil, err
	}

	return payment, nil
}

// LedgerEntry is one row of a supplier statement. It is a pure projection
// over the supplier's orders and payments, never stored.
type LedgerEntry struct {
	Date        time.Time `json:"date"`
	Type        string    `json:"type"` // "supply_order" or "payment"
	DocumentNo  string    `json:"document_no"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`  // signed; positive raises what the shop owes
	Balance     float64   `json:"balance"` // running balance after this entry
	ReferenceID uuid.UUID `json:"reference_id"`
	CreatedAt   time.Time `json:"created_at"`

	amountCents int64
}

// GetLedger derives a supplier's statement: orders and payments merged,
// sorted by date ascending, with the running balance folded left to right
func (s *SupplierService) GetLedger(ctx context.Context, supplierID uuid.UUID) ([]LedgerEntry, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}

	orders, err := s.orderRepo.ListAllBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ListAllBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	entries := make([]LedgerEntry, 0, len(orders)+len(payments))
	for _, o := range orders {
		if o.Status == enum.SupplyOrderStatusCancelled {
			continue
		}
		desc := "Supply order"
		if o.InvoiceNumber != nil {
			desc = "Supply order, invoice " + *o.InvoiceNumber
		}
		entries = append(entries, LedgerEntry{
			Date:        o.SupplyDate,
			Type:        "supply_order",
			DocumentNo:  o.OrderNo,
			Description: desc,
			amountCents: o.TotalAmount,
			ReferenceID: o.ID,
			CreatedAt:   o.CreatedAt,
		})
	}
	for _, p := range payments {
		entries = append(entries, LedgerEntry{
			Date:        p.PaymentDate,
			Type:        "payment",
			DocumentNo:  p.PaymentNo,
			Description: "Payment (" + p.Method.String() + ")",
			amountCents: -p.Amount,
			ReferenceID: p.ID,
			CreatedAt:   p.CreatedAt,
		})
	}

	// Ascending by date; entries on the same day fall back to insertion time
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date.Equal(entries[j].Date) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].Date.Before(entries[j].Date)
	})

	// Fold in cents; decimals appear only on the serialized rows
	var balance int64
	for i := range entries {
		balance += entries[i].amountCents
		entries[i].Amount = float64(entries[i].amountCents) / 100
		entries[i].Balance = float64(balance) / 100
	}

	return entries, nil
}

// GetOverdue returns open supply orders whose expected payment date has
// passed. Cancelled orders and future dates are excluded.
func (s *SupplierService) GetOverdue(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.SupplyOrder], error) {
	orders, total, err := s.orderRepo.GetOverdue(ctx, time.Now(), params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// GetUpcoming returns open supply orders due within the next withinDays days
func (s *SupplierService) GetUpcoming(ctx context.Context, withinDays int, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.SupplyOrder], error) {
	if withinDays <= 0 {
		withinDays = 7
	}

	window := time.Duration(withinDays) * 24 * time.Hour
	orders, total, err := s.orderRepo.GetUpcoming(ctx, time.Now(), window, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// RecomputeBalance rebuilds the cached balance from the ledger and returns
// the fresh value as a decimal amount
func (s *SupplierService) RecomputeBalance(ctx context.Context, supplierID uuid.UUID) (float64, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return 0, err
	}
	if supplier == nil {
		return 0, apperror.NewNotFoundError("Supplier")
	}

	balance, err := s.supplierRepo.UpdateBalance(ctx, supplierID)
	if err != nil {
		return 0, err
	}

	return float64(balance) / 100, nil
}
