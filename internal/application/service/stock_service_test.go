package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	"github.com/kiplagat/bookshop-api/internal/domain/enum"
)

func newStockFixture(books ...*entity.Book) (*StockService, *fakeBookRepo, *fakeMovementRepo) {
	bookRepo := newFakeBookRepo(books...)
	movementRepo := newFakeMovementRepo(bookRepo)
	return NewStockService(movementRepo, bookRepo), bookRepo, movementRepo
}

func TestStockMovements(t *testing.T) {
	tests := []struct {
		name       string
		startStock int
		op         func(svc *StockService, ctx context.Context, input *MovementInput) (*entity.StockMovement, error)
		quantity   int
		wantStock  int
		wantType   enum.MovementType
	}{
		{"addition", 5, (*StockService).AddStock, 10, 15, enum.MovementTypeAddition},
		{"wastage", 5, (*StockService).MarkWastage, 2, 3, enum.MovementTypeWastage},
		{"wastage clamps at zero", 5, (*StockService).MarkWastage, 8, 0, enum.MovementTypeWastage},
		{"return", 5, (*StockService).MarkReturn, 1, 6, enum.MovementTypeReturn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := &entity.Book{Title: "Set Book", Stock: tt.startStock}
			svc, _, movements := newStockFixture(book)

			m, err := tt.op(svc, context.Background(), &MovementInput{
				BookID:   book.ID,
				Quantity: tt.quantity,
				UserID:   uuid.New(),
				UserName: "Jane",
			})
			if err != nil {
				t.Fatalf("movement returned error: %v", err)
			}

			if m.Type != tt.wantType {
				t.Errorf("type = %v, want %v", m.Type, tt.wantType)
			}
			if m.PreviousStock != tt.startStock {
				t.Errorf("previous stock = %d, want %d", m.PreviousStock, tt.startStock)
			}
			if m.NewStock != tt.wantStock {
				t.Errorf("new stock = %d, want %d", m.NewStock, tt.wantStock)
			}
			if book.Stock != tt.wantStock {
				t.Errorf("cached stock = %d, want %d", book.Stock, tt.wantStock)
			}
			if len(movements.movements) != 1 {
				t.Errorf("ledger has %d entries, want 1", len(movements.movements))
			}
		})
	}
}

func TestStockMovementValidation(t *testing.T) {
	book := &entity.Book{Title: "Set Book", Stock: 5}
	svc, _, _ := newStockFixture(book)
	ctx := context.Background()

	if _, err := svc.AddStock(ctx, &MovementInput{BookID: book.ID, Quantity: 0}); err == nil {
		t.Error("zero quantity should be rejected")
	}
	if _, err := svc.AddStock(ctx, &MovementInput{BookID: book.ID, Quantity: -3}); err == nil {
		t.Error("negative quantity should be rejected")
	}
	if _, err := svc.AddStock(ctx, &MovementInput{BookID: uuid.New(), Quantity: 1}); err == nil {
		t.Error("unknown book should be rejected")
	}
}

func TestLedgerFoldMatchesCache(t *testing.T) {
	book := &entity.Book{Title: "Set Book", Stock: 0}
	svc, _, _ := newStockFixture(book)
	ctx := context.Background()
	user := uuid.New()

	steps := []struct {
		op  func(svc *StockService, ctx context.Context, input *MovementInput) (*entity.StockMovement, error)
		qty int
	}{
		{(*StockService).AddStock, 20},
		{(*StockService).MarkWastage, 3},
		{(*StockService).MarkReturn, 1},
		{(*StockService).MarkWastage, 25}, // clamps, under-reports by 7
		{(*StockService).AddStock, 4},
	}
	for _, step := range steps {
		if _, err := step.op(svc, ctx, &MovementInput{BookID: book.ID, Quantity: step.qty, UserID: user, UserName: "Jane"}); err != nil {
			t.Fatalf("movement returned error: %v", err)
		}
	}

	cached, derived, err := svc.RecomputeFromHistory(ctx, book.ID)
	if err != nil {
		t.Fatalf("RecomputeFromHistory returned error: %v", err)
	}
	if cached != derived {
		t.Errorf("cache %d diverged from ledger fold %d", cached, derived)
	}
	if derived != 4 {
		t.Errorf("ledger fold = %d, want 4", derived)
	}
}

func TestGetLowStockBooks(t *testing.T) {
	low := &entity.Book{Title: "Low", Stock: 2, MinStock: 5}
	atThreshold := &entity.Book{Title: "At threshold", Stock: 5, MinStock: 5}
	healthy := &entity.Book{Title: "Healthy", Stock: 50, MinStock: 5}
	svc, _, _ := newStockFixture(low, atThreshold, healthy)

	books, err := svc.GetLowStockBooks(context.Background())
	if err != nil {
		t.Fatalf("GetLowStockBooks returned error: %v", err)
	}

	if len(books) != 2 {
		t.Fatalf("got %d low stock books, want 2 (at-threshold counts)", len(books))
	}
	for _, b := range books {
		if b.Title == "Healthy" {
			t.Error("healthy book reported as low stock")
		}
	}
}

func TestGetHistoryUnknownBook(t *testing.T) {
	svc, _, _ := newStockFixture()
	if _, err := svc.GetHistory(context.Background(), uuid.New(), nil); err == nil {
		t.Error("unknown book should be rejected")
	}
}
