package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	"github.com/kiplagat/bookshop-api/internal/domain/enum"
	"github.com/kiplagat/bookshop-api/internal/domain/repository"
	"github.com/kiplagat/bookshop-api/pkg/pagination"
)

var paginationParamsForTest = pagination.PaginationParams{Page: 1, PerPage: 50}

// In-memory repository fakes. They mirror the transactional semantics of the
// real implementations closely enough for service-level tests: movements
// clamp reductions at zero and keep the book's cached stock in step, and
// supply orders and payments move the supplier balance the same way the SQL
// transactions do.

type fakeBookRepo struct {
	books map[uuid.UUID]*entity.Book
}

func newFakeBookRepo(books ...*entity.Book) *fakeBookRepo {
	r := &fakeBookRepo{books: make(map[uuid.UUID]*entity.Book)}
	for _, b := range books {
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		r.books[b.ID] = b
	}
	return r
}

func (r *fakeBookRepo) Create(ctx context.Context, book *entity.Book) error {
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	r.books[book.ID] = book
	return nil
}

func (r *fakeBookRepo) CreateBatch(ctx context.Context, books []entity.Book) error {
	for i := range books {
		b := books[i]
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		r.books[b.ID] = &b
	}
	return nil
}

func (r *fakeBookRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	return r.books[id], nil
}

func (r *fakeBookRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Book, error) {
	var out []entity.Book
	for _, id := range ids {
		if b, ok := r.books[id]; ok {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookRepo) GetBySlug(ctx context.Context, slug string) (*entity.Book, error) {
	for _, b := range r.books {
		if b.Slug == slug {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookRepo) GetByCode(ctx context.Context, code string) (*entity.Book, error) {
	for _, b := range r.books {
		if b.Code == code {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookRepo) Update(ctx context.Context, book *entity.Book) error {
	r.books[book.ID] = book
	return nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepo) List(ctx context.Context, params *repository.BookFilterParams) ([]entity.Book, int64, error) {
	var out []entity.Book
	for _, b := range r.books {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookRepo) ListWithCursor(ctx context.Context, params *repository.BookCursorFilterParams) ([]entity.Book, error) {
	out, _, _ := r.List(ctx, nil)
	return out, nil
}

func (r *fakeBookRepo) GetLowStock(ctx context.Context) ([]entity.Book, error) {
	var out []entity.Book
	for _, b := range r.books {
		if b.IsLowStock() {
			out = append(out, *b)
		}
	}
	return out, nil
}

type fakeMovementRepo struct {
	books     *fakeBookRepo
	movements []entity.StockMovement
}

func newFakeMovementRepo(books *fakeBookRepo) *fakeMovementRepo {
	return &fakeMovementRepo{books: books}
}

func (r *fakeMovementRepo) apply(movement *entity.StockMovement) error {
	book := r.books.books[movement.BookID]
	movement.PreviousStock = book.Stock
	if movement.Type.Increases() {
		movement.NewStock = book.Stock + movement.Quantity
	} else {
		movement.NewStock = book.Stock - movement.Quantity
		if movement.NewStock < 0 {
			movement.NewStock = 0
		}
	}
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	book.Stock = movement.NewStock
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *fakeMovementRepo) Apply(ctx context.Context, movement *entity.StockMovement) error {
	return r.apply(movement)
}

func (r *fakeMovementRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.StockMovement, error) {
	for i := range r.movements {
		if r.movements[i].ID == id {
			return &r.movements[i], nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) ListByBook(ctx context.Context, bookID uuid.UUID, params *repository.MovementFilterParams) ([]entity.StockMovement, int64, error) {
	var out []entity.StockMovement
	for _, m := range r.movements {
		if m.BookID == bookID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeMovementRepo) List(ctx context.Context, params *repository.MovementFilterParams) ([]entity.StockMovement, int64, error) {
	return r.movements, int64(len(r.movements)), nil
}

func (r *fakeMovementRepo) SumByBook(ctx context.Context, bookID uuid.UUID) (int, error) {
	sum := 0
	for _, m := range r.movements {
		if m.BookID == bookID {
			sum += m.NewStock - m.PreviousStock
		}
	}
	return sum, nil
}

func (r *fakeMovementRepo) ResetBookStock(ctx context.Context, bookID uuid.UUID, stock int) error {
	if b, ok := r.books.books[bookID]; ok {
		b.Stock = stock
	}
	return nil
}

type fakeReceiptRepo struct {
	movements *fakeMovementRepo
	receipts  map[uuid.UUID]*entity.Receipt
}

func newFakeReceiptRepo(movements *fakeMovementRepo) *fakeReceiptRepo {
	return &fakeReceiptRepo{
		movements: movements,
		receipts:  make(map[uuid.UUID]*entity.Receipt),
	}
}

func (r *fakeReceiptRepo) CreateWithStockReduction(ctx context.Context, receipt *entity.Receipt, movements []entity.StockMovement) error {
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	receipt.CreatedAt = time.Now()
	for i := range movements {
		ref := receipt.ReceiptNo
		movements[i].Reference = &ref
		if err := r.movements.apply(&movements[i]); err != nil {
			return err
		}
	}
	r.receipts[receipt.ID] = receipt
	return nil
}

func (r *fakeReceiptRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	return r.receipts[id], nil
}

func (r *fakeReceiptRepo) GetByReceiptNo(ctx context.Context, receiptNo string) (*entity.Receipt, error) {
	for _, rc := range r.receipts {
		if rc.ReceiptNo == receiptNo {
			return rc, nil
		}
	}
	return nil, nil
}

func (r *fakeReceiptRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	return r.receipts[id], nil
}

func (r *fakeReceiptRepo) List(ctx context.Context, params *repository.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	var out []entity.Receipt
	for _, rc := range r.receipts {
		out = append(out, *rc)
	}
	return out, int64(len(out)), nil
}

func (r *fakeReceiptRepo) ListWithCursor(ctx context.Context, params *repository.ReceiptCursorFilterParams) ([]entity.Receipt, error) {
	out, _, _ := r.List(ctx, nil)
	return out, nil
}

func (r *fakeReceiptRepo) ListByStudent(ctx context.Context, studentID uuid.UUID, params *pagination.PaginationParams) ([]entity.Receipt, int64, error) {
	var out []entity.Receipt
	for _, rc := range r.receipts {
		if rc.StudentID != nil && *rc.StudentID == studentID {
			out = append(out, *rc)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeReceiptRepo) ListForExport(ctx context.Context, startDate, endDate *time.Time) ([]entity.Receipt, error) {
	out, _, _ := r.List(ctx, nil)
	return out, nil
}

type fakeStudentRepo struct {
	students map[uuid.UUID]*entity.Student
}

func newFakeStudentRepo(students ...*entity.Student) *fakeStudentRepo {
	r := &fakeStudentRepo{students: make(map[uuid.UUID]*entity.Student)}
	for _, s := range students {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		r.students[s.ID] = s
	}
	return r
}

func (r *fakeStudentRepo) Create(ctx context.Context, student *entity.Student) error {
	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}
	r.students[student.ID] = student
	return nil
}

func (r *fakeStudentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Student, error) {
	return r.students[id], nil
}

func (r *fakeStudentRepo) GetByAdmissionNo(ctx context.Context, admissionNo string) (*entity.Student, error) {
	for _, s := range r.students {
		if s.AdmissionNo == admissionNo {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeStudentRepo) Update(ctx context.Context, student *entity.Student) error {
	r.students[student.ID] = student
	return nil
}

func (r *fakeStudentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.students, id)
	return nil
}

func (r *fakeStudentRepo) List(ctx context.Context, params *pagination.PaginationParams, search, class string) ([]entity.Student, int64, error) {
	var out []entity.Student
	for _, s := range r.students {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeStudentRepo) ListWithCursor(ctx context.Context, params *pagination.CursorParams, search, class string) ([]entity.Student, error) {
	out, _, _ := r.List(ctx, nil, "", "")
	return out, nil
}

type fakeSupplierRepo struct {
	suppliers map[uuid.UUID]*entity.Supplier
	orders    *fakeOrderRepo
	payments  *fakePaymentRepo
}

func newFakeSupplierRepo(suppliers ...*entity.Supplier) *fakeSupplierRepo {
	r := &fakeSupplierRepo{suppliers: make(map[uuid.UUID]*entity.Supplier)}
	for _, s := range suppliers {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		r.suppliers[s.ID] = s
	}
	return r
}

func (r *fakeSupplierRepo) Create(ctx context.Context, supplier *entity.Supplier) error {
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	r.suppliers[supplier.ID] = supplier
	return nil
}

func (r *fakeSupplierRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	return r.suppliers[id], nil
}

func (r *fakeSupplierRepo) Update(ctx context.Context, supplier *entity.Supplier) error {
	r.suppliers[supplier.ID] = supplier
	return nil
}

func (r *fakeSupplierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.suppliers, id)
	return nil
}

func (r *fakeSupplierRepo) List(ctx context.Context, params *repository.SupplierFilterParams) ([]entity.Supplier, int64, error) {
	var out []entity.Supplier
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeSupplierRepo) UpdateBalance(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var balance int64
	for _, o := range r.orders.orders {
		if o.SupplierID == supplierID && o.Status != enum.SupplyOrderStatusCancelled {
			balance += o.TotalAmount
		}
	}
	for _, p := range r.payments.payments {
		if p.SupplierID == supplierID {
			balance -= p.Amount
		}
	}
	r.suppliers[supplierID].Balance = balance
	return balance, nil
}

type fakeOrderRepo struct {
	suppliers *fakeSupplierRepo
	movements *fakeMovementRepo
	orders    map[uuid.UUID]*entity.SupplyOrder
}

func newFakeOrderRepo(suppliers *fakeSupplierRepo, movements *fakeMovementRepo) *fakeOrderRepo {
	r := &fakeOrderRepo{
		suppliers: suppliers,
		movements: movements,
		orders:    make(map[uuid.UUID]*entity.SupplyOrder),
	}
	suppliers.orders = r
	return r
}

func (r *fakeOrderRepo) CreateWithBalanceUpdate(ctx context.Context, order *entity.SupplyOrder) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	r.orders[order.ID] = order
	if order.Status != enum.SupplyOrderStatusCancelled {
		r.suppliers.suppliers[order.SupplierID].Balance += order.TotalAmount
	}
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.SupplyOrder, error) {
	return r.orders[id], nil
}

func (r *fakeOrderRepo) GetByOrderNo(ctx context.Context, orderNo string) (*entity.SupplyOrder, error) {
	for _, o := range r.orders {
		if o.OrderNo == orderNo {
			return o, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.SupplyOrder, error) {
	return r.orders[id], nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *entity.SupplyOrder) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) List(ctx context.Context, params *repository.SupplyOrderFilterParams) ([]entity.SupplyOrder, int64, error) {
	var out []entity.SupplyOrder
	for _, o := range r.orders {
		if params != nil && params.SupplierID != nil && o.SupplierID != *params.SupplierID {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) ListAllBySupplier(ctx context.Context, supplierID uuid.UUID) ([]entity.SupplyOrder, error) {
	var out []entity.SupplyOrder
	for _, o := range r.orders {
		if o.SupplierID == supplierID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) MarkReceived(ctx context.Context, id uuid.UUID, movements []entity.StockMovement) error {
	order := r.orders[id]
	order.Status = enum.SupplyOrderStatusReceived
	for i := range movements {
		ref := order.OrderNo
		movements[i].Reference = &ref
		if err := r.movements.apply(&movements[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeOrderRepo) Cancel(ctx context.Context, id uuid.UUID) error {
	order := r.orders[id]
	order.Status = enum.SupplyOrderStatusCancelled
	r.suppliers.suppliers[order.SupplierID].Balance -= order.TotalAmount
	return nil
}

func (r *fakeOrderRepo) GetOverdue(ctx context.Context, asOf time.Time, params *pagination.PaginationParams) ([]entity.SupplyOrder, int64, error) {
	var out []entity.SupplyOrder
	for _, o := range r.orders {
		if o.IsOverdue(asOf) {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) GetUpcoming(ctx context.Context, asOf time.Time, window time.Duration, params *pagination.PaginationParams) ([]entity.SupplyOrder, int64, error) {
	var out []entity.SupplyOrder
	limit := asOf.Add(window)
	for _, o := range r.orders {
		if o.Status == enum.SupplyOrderStatusCancelled || o.ExpectedPaymentDate == nil {
			continue
		}
		if o.ExpectedPaymentDate.After(asOf) && o.ExpectedPaymentDate.Before(limit) {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

type fakePaymentRepo struct {
	suppliers *fakeSupplierRepo
	payments  []entity.SupplierPayment
}

func newFakePaymentRepo(suppliers *fakeSupplierRepo) *fakePaymentRepo {
	r := &fakePaymentRepo{suppliers: suppliers}
	suppliers.payments = r
	return r
}

func (r *fakePaymentRepo) CreateWithBalanceUpdate(ctx context.Context, payment *entity.SupplierPayment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.CreatedAt = time.Now()
	r.payments = append(r.payments, *payment)
	r.suppliers.suppliers[payment.SupplierID].Balance -= payment.Amount
	return nil
}

func (r *fakePaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.SupplierPayment, error) {
	for i := range r.payments {
		if r.payments[i].ID == id {
			return &r.payments[i], nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) ListBySupplier(ctx context.Context, supplierID uuid.UUID, params *pagination.PaginationParams) ([]entity.SupplierPayment, int64, error) {
	out, _ := r.ListAllBySupplier(ctx, supplierID)
	return out, int64(len(out)), nil
}

func (r *fakePaymentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range r.payments {
		if r.payments[i].ID == id {
			r.payments = append(r.payments[:i], r.payments[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakePaymentRepo) ListAllBySupplier(ctx context.Context, supplierID uuid.UUID) ([]entity.SupplierPayment, error) {
	var out []entity.SupplierPayment
	for _, p := range r.payments {
		if p.SupplierID == supplierID {
			out = append(out, p)
		}
	}
	return out, nil
}
