package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	"github.com/kiplagat/bookshop-api/internal/domain/enum"
)

type supplierFixture struct {
	svc       *SupplierService
	suppliers *fakeSupplierRepo
	orders    *fakeOrderRepo
	payments  *fakePaymentRepo
	books     *fakeBookRepo
	movements *fakeMovementRepo
}

func newSupplierFixture(books ...*entity.Book) *supplierFixture {
	bookRepo := newFakeBookRepo(books...)
	movementRepo := newFakeMovementRepo(bookRepo)
	supplierRepo := newFakeSupplierRepo()
	orderRepo := newFakeOrderRepo(supplierRepo, movementRepo)
	paymentRepo := newFakePaymentRepo(supplierRepo)

	return &supplierFixture{
		svc:       NewSupplierService(supplierRepo, orderRepo, paymentRepo, bookRepo),
		suppliers: supplierRepo,
		orders:    orderRepo,
		payments:  paymentRepo,
		books:     bookRepo,
		movements: movementRepo,
	}
}

func (f *supplierFixture) mustCreateSupplier(t *testing.T, name string) *entity.Supplier {
	t.Helper()
	supplier, err := f.svc.CreateSupplier(context.Background(), &CreateSupplierInput{
		UserID: uuid.New(),
		Name:   name,
	})
	if err != nil {
		t.Fatalf("CreateSupplier returned error: %v", err)
	}
	return supplier
}

func TestRecordSupplyOrderRaisesBalance(t *testing.T) {
	book := &entity.Book{Title: "Set Book", Stock: 0}
	f := newSupplierFixture(book)
	supplier := f.mustCreateSupplier(t, "Longhorn Publishers")

	order, err := f.svc.RecordSupplyOrder(context.Background(), &RecordSupplyOrderInput{
		UserID:     uuid.New(),
		SupplierID: supplier.ID,
		SupplyDate: time.Now(),
		Items: []SupplyOrderItemInput{
			{BookID: book.ID, Quantity: 10, UnitCost: 300.00},
			{BookID: book.ID, Quantity: 5, UnitCost: 100.00},
		},
	})
	if err != nil {
		t.Fatalf("RecordSupplyOrder returned error: %v", err)
	}

	// 10 x 300 + 5 x 100 = 3500.00
	if order.TotalAmount != 350000 {
		t.Errorf("order total = %d, want 350000", order.TotalAmount)
	}
	if !strings.HasPrefix(order.OrderNo, "SUP-") {
		t.Errorf("order no %q missing SUP- prefix", order.OrderNo)
	}
	if order.Status != enum.SupplyOrderStatusPending {
		t.Errorf("status = %v, want pending", order.Status)
	}

	// Debt rises when the order is recorded, not when stock arrives
	if supplier.Balance != 350000 {
		t.Errorf("balance = %d, want 350000", supplier.Balance)
	}
	// Stock must not move until the order is received
	if book.Stock != 0 {
		t.Errorf("stock = %d, want 0 before receiving", book.Stock)
	}
}

func TestReceiveSupplyOrderBooksStock(t *testing.T) {
	book := &entity.Book{Title: "Set Book", Stock: 3}
	f := newSupplierFixture(book)
	supplier := f.mustCreateSupplier(t, "Longhorn Publishers")
	ctx := context.Background()

	order, err := f.svc.RecordSupplyOrder(ctx, &RecordSupplyOrderInput{
		UserID:     uuid.New(),
		SupplierID: supplier.ID,
		SupplyDate: time.Now(),
		Items:      []SupplyOrderItemInput{{BookID: book.ID, Quantity: 10, UnitCost: 300.00}},
	})
	if err != nil {
		t.Fatalf("RecordSupplyOrder returned error: %v", err)
	}
	balanceBefore := supplier.Balance

	received, err := f.svc.ReceiveSupplyOrder(ctx, order.ID, uuid.New(), "Jane")
	if err != nil {
		t.Fatalf("ReceiveSupplyOrder returned error: %v", err)
	}

	if received.Status != enum.SupplyOrderStatusReceived {
		t.Errorf("status = %v, want received", received.Status)
	}
	if book.Stock != 13 {
		t.Errorf("stock = %d, want 13", book.Stock)
	}
	if len(f.movements.movements) != 1 {
		t.Fatalf("got %d movements, want 1", len(f.movements.movements))
	}
	m := f.movements.movements[0]
	if m.Type != enum.MovementTypeAddition {
		t.Errorf("movement type = %v, want addition", m.Type)
	}
	if m.Reference == nil || *m.Reference != order.OrderNo {
		t.Error("movement not referenced to the order")
	}
	// Receiving must not touch the balance again
	if supplier.Balance != balanceBefore {
		t.Errorf("balance moved on receive: %d -> %d", balanceBefore, supplier.Balance)
	}

	// An order is only receivable once
	if _, err := f.svc.ReceiveSupplyOrder(ctx, order.ID, uuid.New(), "Jane"); err == nil {
		t.Error("receiving a received order should be rejected")
	}
}

func TestCancelSupplyOrderReversesBalance(t *testing.T) {
	book := &entity.Book{Title: "Set Book"}
	f := newSupplierFixture(book)
	supplier := f.mustCreateSupplier(t, "Longhorn Publishers")
	ctx := context.Background()

	order, err := f.svc.RecordSupplyOrder(ctx, &RecordSupplyOrderInput{
		UserID:     uuid.New(),
		SupplierID: supplier.ID,
		SupplyDate: time.Now(),
		Items:      []SupplyOrderItemInput{{BookID: book.ID, Quantity: 10, UnitCost: 300.00}},
	})
	if err != nil {
		t.Fatalf("RecordSupplyOrder returned error: %v", err)
	}
	if supplier.Balance != 300000 {
		t.Fatalf("balance = %d, want 300000", supplier.Balance)
	}

	if err := f.svc.CancelSupplyOrder(ctx, order.ID); err != nil {
		t.Fatalf("CancelSupplyOrder returned error: %v", err)
	}
	if supplier.Balance != 0 {
		t.Errorf("balance = %d, want 0 after cancel", supplier.Balance)
	}

	// Cancelled orders are terminal
	if err := f.svc.CancelSupplyOrder(ctx, order.ID); err == nil {
		t.Error("cancelling a cancelled order should be rejected")
	}
	if _, err := f.svc.ReceiveSupplyOrder(ctx, order.ID, uuid.New(), "Jane"); err == nil {
		t.Error("receiving a cancelled order should be rejected")
	}
}

func TestRecordPayment(t *testing.T) {
	book := &entity.Book{Title: "Set Book"}
	f := newSupplierFixture(book)
	supplier := f.mustCreateSupplier(t, "Longhorn Publishers")
	ctx := context.Background()

	if _, err := f.svc.RecordSupplyOrder(ctx, &RecordSupplyOrderInput{
		UserID:     uuid.New(),
		SupplierID: supplier.ID,
		SupplyDate: time.Now(),
		Items:      []SupplyOrderItemInput{{BookID: book.ID, Quantity: 10, UnitCost: 300.00}},
	}); err != nil {
		t.Fatalf("RecordSupplyOrder returned error: %v", err)
	}

	payment, err := f.svc.RecordPayment(ctx, &RecordPaymentInput{
		UserID:      uuid.New(),
		SupplierID:  supplier.ID,
		Amount:      1000.00,
		Method:      enum.PaymentMethodBankTransfer,
		PaymentDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("RecordPayment returned error: %v", err)
	}

	if !strings.HasPrefix(payment.PaymentNo, "PAY-") {
		t.Errorf("payment no %q missing PAY- prefix", payment.PaymentNo)
	}
	if supplier.Balance != 200000 {
		t.Errorf("balance = %d, want 200000 after paying 1000.00", supplier.Balance)
	}

	// Overpayment is allowed and swings the balance negative (shop in credit)
	if _, err := f.svc.RecordPayment(ctx, &RecordPaymentInput{
		UserID:      uuid.New(),
		SupplierID:  supplier.ID,
		Amount:      2500.00,
		Method:      enum.PaymentMethodCash,
		PaymentDate: time.Now(),
	}); err != nil {
		t.Fatalf("RecordPayment returned error: %v", err)
	}
	if supplier.Balance != -50000 {
		t.Errorf("balance = %d, want -50000 after overpayment", supplier.Balance)
	}
}

func TestRecordPaymentValidation(t *testing.T) {
	f := newSupplierFixture()
	supplier := f.mustCreateSupplier(t, "Longhorn Publishers")
	ctx := context.Background()

	if _, err := f.svc.RecordPayment(ctx, &RecordPaymentInput{
		SupplierID: supplier.ID, Amount: 0, Method: enum.PaymentMethodCash, PaymentDate: time.Now(),
	}); err == nil {
		t.Error("zero amount should be rejected")
	}
	if _, err := f.svc.RecordPayment(ctx, &RecordPaymentInput{
		SupplierID: supplier.ID, Amount: -50, Method: enum.PaymentMethodCash, PaymentDate: time.Now(),
	}); err == nil {
		t.Error("negative amount should be rejected")
	}
	if _, err := f.svc.RecordPayment(ctx, &RecordPaymentInput{
		SupplierID: uuid.New(), Amount: 100, Method: enum.PaymentMethodCash, PaymentDate: time.Now(),
	}); err == nil {
		t.Error("unknown supplier should be rejected")
	}
	if _, err := f.svc.RecordPayment(ctx, &RecordPaymentInput{
		SupplierID: supplier.ID, Amount: 100, Method: enum.PaymentMethod("cheque"), PaymentDate: time.Now(),
	}); err == nil {
		t.Error("unknown payment method should be rejected")
	}
}

func TestGetLedgerFold(t *testing.T) {
	book := &entity.Book{Title: "Set Book"}
	f := newSupplierFixture(book)
	supplier := f.mustCreateSupplier(t, "Longhorn Publishers")
	ctx := context.Background()
	user := uuid.New()

	day := func(n int) time.Time {
		return time.Date(2026, 3, n, 0, 0, 0, 0, time.UTC)
	}

	// Day 1: order for 3000.00. Day 5: pay 1000.00. Day 10: order for 500.00.
	// Day 12: pay 2500.00.
	if _, err := f.svc.RecordSupplyOrder(ctx, &RecordSupplyOrderInput{
		UserID: user, SupplierID: supplier.ID, SupplyDate: day(1),
		Items: []SupplyOrderItemInput{{BookID: book.ID, Quantity: 10, UnitCost: 300.00}},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.RecordPayment(ctx, &RecordPaymentInput{
		UserID: user, SupplierID: supplier.ID, Amount: 1000.00,
		Method: enum.PaymentMethodCash, PaymentDate: day(5),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.RecordSupplyOrder(ctx, &RecordSupplyOrderInput{
		UserID: user, SupplierID: supplier.ID, SupplyDate: day(10),
		Items: []SupplyOrderItemInput{{BookID: book.ID, Quantity: 5, UnitCost: 100.00}},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.RecordPayment(ctx, &RecordPaymentInput{
		UserID: user, SupplierID: supplier.ID, Amount: 2500.00,
		Method: enum.PaymentMethodBankTransfer, PaymentDate: day(12),
	}); err != nil {
		t.Fatal(err)
	}

	entries, err := f.svc.GetLedger(ctx, supplier.ID)
	if err != nil {
		t.Fatalf("GetLedger returned error: %v", err)
	}

	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}

	wantBalances := []float64{3000.00, 2000.00, 2500.00, 0.00}
	for i, want := range wantBalances {
		if entries[i].Balance != want {
			t.Errorf("entry %d running balance = %.2f, want %.2f", i, entries[i].Balance, want)
		}
	}

	// Entries come back date ascending
	for i := 1; i < len(entries); i++ {
		if entries[i].Date.Before(entries[i-1].Date) {
			t.Errorf("entries out of order at %d", i)
		}
	}

	// Final running balance matches the cached balance
	final := entries[len(entries)-1].Balance
	if final != supplier.GetBalance() {
		t.Errorf("ledger fold %.2f diverges from cached balance %.2f", final, supplier.GetBalance())
	}
}

func TestGetLedgerFoldsInCents(t *testing.T) {
	book := &entity.Book{Title: "Set Book"}
	f := newSupplierFixture(book)
	supplier := f.mustCreateSupplier(t, "Longhorn Publishers")
	ctx := context.Background()
	user := uuid.New()

	// 0.10 + 0.20 accumulates to 0.30000000000000004 in float64; the fold
	// must run in cents so the statement settles to an exact zero.
	if _, err := f.svc.RecordSupplyOrder(ctx, &RecordSupplyOrderInput{
		UserID: user, SupplierID: supplier.ID, SupplyDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Items: []SupplyOrderItemInput{
			{BookID: book.ID, Quantity: 1, UnitCost: 0.10},
			{BookID: book.ID, Quantity: 1, UnitCost: 0.20},
		},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.RecordPayment(ctx, &RecordPaymentInput{
		UserID: user, SupplierID: supplier.ID, Amount: 0.30,
		Method: enum.PaymentMethodCash, PaymentDate: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatal(err)
	}

	entries, err := f.svc.GetLedger(ctx, supplier.ID)
	if err != nil {
		t.Fatalf("GetLedger returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Balance != 0.30 {
		t.Errorf("balance after order = %v, want 0.30", entries[0].Balance)
	}
	if entries[1].Balance != 0 {
		t.Errorf("settled balance = %v, want exactly 0", entries[1].Balance)
	}
}

func TestGetLedgerExcludesCancelled(t *testing.T) {
	book := &entity.Book{Title: "Set Book"}
	f := newSupplierFixture(book)
	supplier := f.mustCreateSupplier(t, "Longhorn Publishers")
	ctx := context.Background()

	order, err := f.svc.RecordSupplyOrder(ctx, &RecordSupplyOrderInput{
		UserID: uuid.New(), SupplierID: supplier.ID, SupplyDate: time.Now(),
		Items: []SupplyOrderItemInput{{BookID: book.ID, Quantity: 1, UnitCost: 100.00}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.svc.CancelSupplyOrder(ctx, order.ID); err != nil {
		t.Fatal(err)
	}

	entries, err := f.svc.GetLedger(ctx, supplier.ID)
	if err != nil {
		t.Fatalf("GetLedger returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("cancelled order appears in ledger: %d entries", len(entries))
	}
}

func TestOverdueAndUpcoming(t *testing.T) {
	book := &entity.Book{Title: "Set Book"}
	f := newSupplierFixture(book)
	supplier := f.mustCreateSupplier(t, "Longhorn Publishers")
	ctx := context.Background()
	user := uuid.New()

	past := time.Now().AddDate(0, 0, -5)
	soon := time.Now().AddDate(0, 0, 3)
	far := time.Now().AddDate(0, 0, 30)

	mk := func(due *time.Time) *entity.SupplyOrder {
		order, err := f.svc.RecordSupplyOrder(ctx, &RecordSupplyOrderInput{
			UserID: user, SupplierID: supplier.ID, SupplyDate: time.Now().AddDate(0, 0, -10),
			ExpectedPaymentDate: due,
			Items:               []SupplyOrderItemInput{{BookID: book.ID, Quantity: 1, UnitCost: 100.00}},
		})
		if err != nil {
			t.Fatal(err)
		}
		return order
	}

	overdueOrder := mk(&past)
	mk(&soon)
	mk(&far)
	mk(nil) // no expected date, never overdue

	cancelled := mk(&past)
	if err := f.svc.CancelSupplyOrder(ctx, cancelled.ID); err != nil {
		t.Fatal(err)
	}

	// A received order past its date still counts as overdue
	if _, err := f.svc.ReceiveSupplyOrder(ctx, overdueOrder.ID, user, "Jane"); err != nil {
		t.Fatal(err)
	}

	overdue, err := f.svc.GetOverdue(ctx, &paginationParamsForTest)
	if err != nil {
		t.Fatalf("GetOverdue returned error: %v", err)
	}
	if len(overdue.Items) != 1 {
		t.Errorf("got %d overdue orders, want 1", len(overdue.Items))
	}

	upcoming, err := f.svc.GetUpcoming(ctx, 7, &paginationParamsForTest)
	if err != nil {
		t.Fatalf("GetUpcoming returned error: %v", err)
	}
	if len(upcoming.Items) != 1 {
		t.Errorf("got %d upcoming orders, want 1", len(upcoming.Items))
	}
}

func TestRecomputeBalance(t *testing.T) {
	book := &entity.Book{Title: "Set Book"}
	f := newSupplierFixture(book)
	supplier := f.mustCreateSupplier(t, "Longhorn Publishers")
	ctx := context.Background()
	user := uuid.New()

	if _, err := f.svc.RecordSupplyOrder(ctx, &RecordSupplyOrderInput{
		UserID: user, SupplierID: supplier.ID, SupplyDate: time.Now(),
		Items: []SupplyOrderItemInput{{BookID: book.ID, Quantity: 10, UnitCost: 300.00}},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.RecordPayment(ctx, &RecordPaymentInput{
		UserID: user, SupplierID: supplier.ID, Amount: 1200.00,
		Method: enum.PaymentMethodCash, PaymentDate: time.Now(),
	}); err != nil {
		t.Fatal(err)
	}

	// Corrupt the cache, then rebuild it from the ledger
	supplier.Balance = 999999

	balance, err := f.svc.RecomputeBalance(ctx, supplier.ID)
	if err != nil {
		t.Fatalf("RecomputeBalance returned error: %v", err)
	}
	if balance != 1800.00 {
		t.Errorf("recomputed balance = %.2f, want 1800.00", balance)
	}
	if supplier.Balance != 180000 {
		t.Errorf("cached balance = %d, want 180000", supplier.Balance)
	}
}
