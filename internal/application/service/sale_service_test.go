package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	"github.com/kiplagat/bookshop-api/internal/domain/enum"
	"github.com/kiplagat/bookshop-api/internal/domain/pricing"
	"github.com/kiplagat/bookshop-api/pkg/apperror"
)

var checkoutPolicy = pricing.DiscountPolicy{
	CashierPercentCeiling: 10,
	OverrideCode:          "4711",
}

type saleFixture struct {
	svc       *SaleService
	books     *fakeBookRepo
	movements *fakeMovementRepo
	receipts  *fakeReceiptRepo
	students  *fakeStudentRepo
}

func newSaleFixture(books ...*entity.Book) *saleFixture {
	bookRepo := newFakeBookRepo(books...)
	movementRepo := newFakeMovementRepo(bookRepo)
	receiptRepo := newFakeReceiptRepo(movementRepo)
	studentRepo := newFakeStudentRepo()

	return &saleFixture{
		svc:       NewSaleService(receiptRepo, bookRepo, studentRepo, nil, checkoutPolicy),
		books:     bookRepo,
		movements: movementRepo,
		receipts:  receiptRepo,
		students:  studentRepo,
	}
}

func TestCheckoutTotals(t *testing.T) {
	mathBook := &entity.Book{Title: "Primary Maths 4", SellPrice: 45000, Stock: 10}
	atlas := &entity.Book{Title: "School Atlas", SellPrice: 65000, Stock: 5}
	f := newSaleFixture(mathBook, atlas)

	receipt, err := f.svc.Checkout(context.Background(), &CheckoutInput{
		UserID:      uuid.New(),
		CashierName: "Jane",
		Role:        enum.RoleAdmin,
		Items: []CheckoutItemInput{
			{BookID: mathBook.ID, Quantity: 2},
			{BookID: atlas.ID, Quantity: 1},
		},
		DiscountMode:  enum.DiscountModePercent,
		DiscountValue: 10,
		Payments: []CheckoutPaymentInput{
			{Method: enum.PaymentMethodCash, Amount: 1395.00},
		},
	})
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}

	// 2 x 450.00 + 650.00 = 1550.00, minus 10% = 1395.00
	if receipt.SubTotal != 155000 {
		t.Errorf("subtotal = %d, want 155000", receipt.SubTotal)
	}
	if receipt.DiscountAmount != 15500 {
		t.Errorf("discount = %d, want 15500", receipt.DiscountAmount)
	}
	if receipt.Total != 139500 {
		t.Errorf("total = %d, want 139500", receipt.Total)
	}
	if !strings.HasPrefix(receipt.ReceiptNo, "RCT-") {
		t.Errorf("receipt no %q missing RCT- prefix", receipt.ReceiptNo)
	}
	if len(receipt.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(receipt.Lines))
	}

	// Stock moved with the sale
	if mathBook.Stock != 8 {
		t.Errorf("maths stock = %d, want 8", mathBook.Stock)
	}
	if atlas.Stock != 4 {
		t.Errorf("atlas stock = %d, want 4", atlas.Stock)
	}
	if len(f.movements.movements) != 2 {
		t.Fatalf("got %d movements, want 2", len(f.movements.movements))
	}
	for _, m := range f.movements.movements {
		if m.Type != enum.MovementTypeReduction {
			t.Errorf("movement type = %v, want reduction", m.Type)
		}
		if m.Reference == nil || *m.Reference != receipt.ReceiptNo {
			t.Errorf("movement not referenced to receipt")
		}
	}
}

func TestCheckoutSnapshotsCatalogue(t *testing.T) {
	book := &entity.Book{Title: "Science Revision", SellPrice: 30000, Stock: 10}
	f := newSaleFixture(book)

	receipt, err := f.svc.Checkout(context.Background(), &CheckoutInput{
		UserID:       uuid.New(),
		CashierName:  "Jane",
		Role:         enum.RoleAdmin,
		Items:        []CheckoutItemInput{{BookID: book.ID, Quantity: 1}},
		DiscountMode: enum.DiscountModePercent,
		Payments:     []CheckoutPaymentInput{{Method: enum.PaymentMethodCash, Amount: 300.00}},
	})
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}

	// Later catalogue edits must not leak into the issued receipt
	book.Title = "Science Revision (2nd ed)"
	book.SellPrice = 35000

	got, err := f.svc.GetSale(context.Background(), receipt.ID)
	if err != nil {
		t.Fatalf("GetSale returned error: %v", err)
	}
	if got.Lines[0].Title != "Science Revision" {
		t.Errorf("line title = %q, want snapshot of original title", got.Lines[0].Title)
	}
	if got.Lines[0].UnitPrice != 30000 {
		t.Errorf("line unit price = %d, want snapshotted 30000", got.Lines[0].UnitPrice)
	}
}

func TestCheckoutDiscountGating(t *testing.T) {
	tests := []struct {
		name         string
		role         enum.Role
		mode         enum.DiscountMode
		value        float64
		overrideCode string
		wantErr      bool
	}{
		{"cashier under ceiling", enum.RoleCashier, enum.DiscountModePercent, 10, "", false},
		{"cashier over ceiling blocked", enum.RoleCashier, enum.DiscountModePercent, 15, "", true},
		{"cashier over ceiling with code", enum.RoleCashier, enum.DiscountModePercent, 15, "4711", false},
		{"cashier over ceiling wrong code", enum.RoleCashier, enum.DiscountModePercent, 15, "9999", true},
		{"admin over ceiling", enum.RoleAdmin, enum.DiscountModePercent, 50, "", false},
		{"cashier flat never gated", enum.RoleCashier, enum.DiscountModeFlat, 200, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := &entity.Book{Title: "Set Book", SellPrice: 100000, Stock: 50}
			f := newSaleFixture(book)

			// Pay the exact post-discount total so only the gate can fail
			var discount int64
			switch tt.mode {
			case enum.DiscountModePercent:
				discount = int64(100000 * tt.value / 100)
			case enum.DiscountModeFlat:
				discount = int64(tt.value * 100)
			}
			amount := float64(100000-discount) / 100

			_, err := f.svc.Checkout(context.Background(), &CheckoutInput{
				UserID:        uuid.New(),
				CashierName:   "Jane",
				Role:          tt.role,
				Items:         []CheckoutItemInput{{BookID: book.ID, Quantity: 1}},
				DiscountMode:  tt.mode,
				DiscountValue: tt.value,
				OverrideCode:  tt.overrideCode,
				Payments:      []CheckoutPaymentInput{{Method: enum.PaymentMethodCash, Amount: amount}},
			})

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected authorization error, got nil")
				}
				appErr, ok := err.(*apperror.AppError)
				if !ok || appErr.Code != 403 {
					t.Errorf("expected 403 AppError, got %v", err)
				}
				if len(f.movements.movements) != 0 {
					t.Error("blocked checkout must not move stock")
				}
			} else if err != nil {
				t.Fatalf("Checkout returned error: %v", err)
			}
		})
	}
}

func TestCheckoutPaymentValidation(t *testing.T) {
	tests := []struct {
		name     string
		payments []CheckoutPaymentInput
		wantCode int
	}{
		{"exact single payment", []CheckoutPaymentInput{
			{Method: enum.PaymentMethodCash, Amount: 500.00},
		}, 0},
		{"exact split payment", []CheckoutPaymentInput{
			{Method: enum.PaymentMethodCash, Amount: 200.00},
			{Method: enum.PaymentMethodMobileMoney, Amount: 300.00},
		}, 0},
		{"underpayment", []CheckoutPaymentInput{
			{Method: enum.PaymentMethodCash, Amount: 499.00},
		}, 422},
		{"overpayment", []CheckoutPaymentInput{
			{Method: enum.PaymentMethodCash, Amount: 501.00},
		}, 422},
		{"no payments", nil, 422},
		{"negative line", []CheckoutPaymentInput{
			{Method: enum.PaymentMethodCash, Amount: 600.00},
			{Method: enum.PaymentMethodMobileMoney, Amount: -100.00},
		}, 422},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := &entity.Book{Title: "Set Book", SellPrice: 50000, Stock: 50}
			f := newSaleFixture(book)

			_, err := f.svc.Checkout(context.Background(), &CheckoutInput{
				UserID:       uuid.New(),
				CashierName:  "Jane",
				Role:         enum.RoleAdmin,
				Items:        []CheckoutItemInput{{BookID: book.ID, Quantity: 1}},
				DiscountMode: enum.DiscountModePercent,
				Payments:     tt.payments,
			})

			if tt.wantCode == 0 {
				if err != nil {
					t.Fatalf("Checkout returned error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatal("expected payment validation error, got nil")
			}
			appErr, ok := err.(*apperror.AppError)
			if !ok || appErr.Code != tt.wantCode {
				t.Errorf("expected %d AppError, got %v", tt.wantCode, err)
			}
			if len(f.movements.movements) != 0 {
				t.Error("rejected checkout must not move stock")
			}
		})
	}
}

func TestCheckoutExactTenderNotLostToFloatTruncation(t *testing.T) {
	// 39.98 has no exact float64 representation; a truncating cents
	// conversion turns it into 39.97 and rejects an exact cash tender.
	book := &entity.Book{Title: "English Workbook", SellPrice: 3998, Stock: 10}
	f := newSaleFixture(book)

	receipt, err := f.svc.Checkout(context.Background(), &CheckoutInput{
		UserID:      uuid.New(),
		CashierName: "Jane",
		Role:        enum.RoleCashier,
		Items: []CheckoutItemInput{
			{BookID: book.ID, Quantity: 1},
		},
		DiscountMode: enum.DiscountModePercent,
		Payments: []CheckoutPaymentInput{
			{Method: enum.PaymentMethodCash, Amount: 39.98},
		},
	})
	if err != nil {
		t.Fatalf("exact tender rejected: %v", err)
	}
	if receipt.Total != 3998 {
		t.Errorf("total = %d, want 3998", receipt.Total)
	}
	if len(receipt.Payments) != 1 || receipt.Payments[0].Amount != 3998 {
		t.Errorf("payment not recorded at exactly 3998 cents: %+v", receipt.Payments)
	}
}

func TestCheckoutValidation(t *testing.T) {
	book := &entity.Book{Title: "Set Book", SellPrice: 50000, Stock: 50}
	f := newSaleFixture(book)
	ctx := context.Background()

	if _, err := f.svc.Checkout(ctx, &CheckoutInput{
		Role:         enum.RoleAdmin,
		DiscountMode: enum.DiscountModePercent,
	}); err == nil {
		t.Error("empty cart should be rejected")
	}

	if _, err := f.svc.Checkout(ctx, &CheckoutInput{
		Role:         enum.RoleAdmin,
		Items:        []CheckoutItemInput{{BookID: book.ID, Quantity: 0}},
		DiscountMode: enum.DiscountModePercent,
	}); err == nil {
		t.Error("zero quantity should be rejected")
	}

	if _, err := f.svc.Checkout(ctx, &CheckoutInput{
		Role:         enum.RoleAdmin,
		Items:        []CheckoutItemInput{{BookID: uuid.New(), Quantity: 1}},
		DiscountMode: enum.DiscountModePercent,
		Payments:     []CheckoutPaymentInput{{Method: enum.PaymentMethodCash, Amount: 1}},
	}); err == nil {
		t.Error("unknown book should be rejected")
	}

	unknownStudent := uuid.New()
	if _, err := f.svc.Checkout(ctx, &CheckoutInput{
		Role:         enum.RoleAdmin,
		StudentID:    &unknownStudent,
		Items:        []CheckoutItemInput{{BookID: book.ID, Quantity: 1}},
		DiscountMode: enum.DiscountModePercent,
		Payments:     []CheckoutPaymentInput{{Method: enum.PaymentMethodCash, Amount: 500}},
	}); err == nil {
		t.Error("unknown student should be rejected")
	}

	if _, err := f.svc.Checkout(ctx, &CheckoutInput{
		Role:         enum.RoleAdmin,
		Items:        []CheckoutItemInput{{BookID: book.ID, Quantity: 1}},
		DiscountMode: enum.DiscountModePercent,
		Payments:     []CheckoutPaymentInput{{Method: enum.PaymentMethod("cheque"), Amount: 500}},
	}); err == nil {
		t.Error("unknown payment method should be rejected")
	}
}

func TestCheckoutStudentSnapshot(t *testing.T) {
	book := &entity.Book{Title: "Set Book", SellPrice: 50000, Stock: 50}
	f := newSaleFixture(book)

	student := &entity.Student{Name: "Amina O.", AdmissionNo: "ADM-001", Class: "Grade 4"}
	if err := f.students.Create(context.Background(), student); err != nil {
		t.Fatal(err)
	}

	receipt, err := f.svc.Checkout(context.Background(), &CheckoutInput{
		UserID:       uuid.New(),
		CashierName:  "Jane",
		Role:         enum.RoleCashier,
		StudentID:    &student.ID,
		Items:        []CheckoutItemInput{{BookID: book.ID, Quantity: 1}},
		DiscountMode: enum.DiscountModePercent,
		Payments:     []CheckoutPaymentInput{{Method: enum.PaymentMethodCash, Amount: 500.00}},
	})
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}

	if receipt.StudentName == nil || *receipt.StudentName != "Amina O." {
		t.Errorf("student name not snapshotted onto receipt")
	}
}

func TestCheckoutOversellClampsAtZero(t *testing.T) {
	book := &entity.Book{Title: "Set Book", SellPrice: 10000, Stock: 2}
	f := newSaleFixture(book)

	// Selling more than is on hand is permitted; the ledger floors at zero
	receipt, err := f.svc.Checkout(context.Background(), &CheckoutInput{
		UserID:       uuid.New(),
		CashierName:  "Jane",
		Role:         enum.RoleAdmin,
		Items:        []CheckoutItemInput{{BookID: book.ID, Quantity: 5}},
		DiscountMode: enum.DiscountModePercent,
		Payments:     []CheckoutPaymentInput{{Method: enum.PaymentMethodCash, Amount: 500.00}},
	})
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}

	if book.Stock != 0 {
		t.Errorf("stock = %d, want clamp at 0", book.Stock)
	}
	if receipt.Lines[0].Quantity != 5 {
		t.Errorf("receipt still records the sold quantity, got %d", receipt.Lines[0].Quantity)
	}
	m := f.movements.movements[0]
	if m.PreviousStock != 2 || m.NewStock != 0 {
		t.Errorf("movement stocks = %d -> %d, want 2 -> 0", m.PreviousStock, m.NewStock)
	}
}
