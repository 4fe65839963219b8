package pricing

import (
	"testing"

	"github.com/kiplagat/bookshop-api/internal/domain/enum"
)

var testPolicy = DiscountPolicy{
	CashierPercentCeiling: 10,
	OverrideCode:          "4711",
}

func TestComputeDiscountPercent(t *testing.T) {
	tests := []struct {
		name       string
		subtotal   int64
		value      float64
		wantAmount int64
	}{
		{"zero value", 14000, 0, 0},
		{"ten percent", 14000, 10, 1400},
		{"fractional percent", 10000, 12.5, 1250},
		{"hundred percent", 14000, 100, 14000},
		{"over hundred clamps to subtotal", 14000, 150, 14000},
		{"negative clamps to zero", 14000, -5, 0},
		{"zero subtotal", 0, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeDiscount(tt.subtotal, enum.DiscountModePercent, tt.value, enum.RoleAdmin, "", testPolicy)
			if err != nil {
				t.Fatalf("ComputeDiscount returned error: %v", err)
			}
			if got.AmountCents != tt.wantAmount {
				t.Errorf("amount = %d, want %d", got.AmountCents, tt.wantAmount)
			}
			if got.AmountCents < 0 || got.AmountCents > tt.subtotal {
				t.Errorf("amount %d outside [0, %d]", got.AmountCents, tt.subtotal)
			}
			if !got.Authorized {
				t.Errorf("admin discount should always be authorized")
			}
		})
	}
}

func TestToCents(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   int64
	}{
		{"whole amount", 45, 4500},
		{"inexact representation", 39.98, 3998}, // 39.98*100 is 3997.99... in float64
		{"another inexact value", 19.99, 1999},
		{"zero", 0, 0},
		{"negative", -5.05, -505},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToCents(tt.amount); got != tt.want {
				t.Errorf("ToCents(%v) = %d, want %d", tt.amount, got, tt.want)
			}
		})
	}
}

func TestComputeDiscountFlat(t *testing.T) {
	tests := []struct {
		name       string
		subtotal   int64
		value      float64
		wantAmount int64
	}{
		{"normal flat", 14000, 20, 2000},
		{"flat equals subtotal", 14000, 140, 14000},
		{"flat above subtotal clamps", 14000, 200, 14000},
		{"negative flat clamps to zero", 14000, -10, 0},
		{"inexact float rounds to the cent", 14000, 39.98, 3998},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeDiscount(tt.subtotal, enum.DiscountModeFlat, tt.value, enum.RoleCashier, "", testPolicy)
			if err != nil {
				t.Fatalf("ComputeDiscount returned error: %v", err)
			}
			if got.AmountCents != tt.wantAmount {
				t.Errorf("amount = %d, want %d", got.AmountCents, tt.wantAmount)
			}
			// Flat discounts are never gated, regardless of size or role.
			if !got.Authorized {
				t.Errorf("flat discount must not require authorization")
			}
		})
	}
}

func TestComputeDiscountCashierCeiling(t *testing.T) {
	tests := []struct {
		name           string
		value          float64
		override       string
		wantAuthorized bool
	}{
		{"at ceiling", 10, "", true},
		{"above ceiling no override", 15, "", false},
		{"above ceiling wrong override", 15, "0000", false},
		{"above ceiling correct override", 15, "4711", true},
		{"zero value always authorized", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeDiscount(10000, enum.DiscountModePercent, tt.value, enum.RoleCashier, tt.override, testPolicy)
			if err != nil {
				t.Fatalf("ComputeDiscount returned error: %v", err)
			}
			if got.Authorized != tt.wantAuthorized {
				t.Errorf("authorized = %v, want %v", got.Authorized, tt.wantAuthorized)
			}
		})
	}
}

func TestComputeDiscountAdminNeverGated(t *testing.T) {
	got, err := ComputeDiscount(10000, enum.DiscountModePercent, 50, enum.RoleAdmin, "", testPolicy)
	if err != nil {
		t.Fatalf("ComputeDiscount returned error: %v", err)
	}
	if !got.Authorized {
		t.Errorf("admin must not be subject to the percent ceiling")
	}
	if got.AmountCents != 5000 {
		t.Errorf("amount = %d, want 5000", got.AmountCents)
	}
}

func TestComputeDiscountEmptyOverrideCodeNeverUnlocks(t *testing.T) {
	policy := DiscountPolicy{CashierPercentCeiling: 10, OverrideCode: ""}
	got, err := ComputeDiscount(10000, enum.DiscountModePercent, 20, enum.RoleCashier, "", policy)
	if err != nil {
		t.Fatalf("ComputeDiscount returned error: %v", err)
	}
	if got.Authorized {
		t.Errorf("an unconfigured override code must not authorize anything")
	}
}

func TestComputeDiscountInvalidMode(t *testing.T) {
	_, err := ComputeDiscount(10000, enum.DiscountMode("bogus"), 10, enum.RoleAdmin, "", testPolicy)
	if err != ErrInvalidDiscountMode {
		t.Errorf("err = %v, want ErrInvalidDiscountMode", err)
	}
}

func TestValidatePayments(t *testing.T) {
	tests := []struct {
		name      string
		lines     []PaymentLine
		total     int64
		wantValid bool
		wantSum   int64
	}{
		{
			"exact split settles",
			[]PaymentLine{
				{Method: enum.PaymentMethodCash, AmountCents: 7000},
				{Method: enum.PaymentMethodMobileMoney, AmountCents: 5000},
			},
			12000, true, 12000,
		},
		{
			"one cent short fails",
			[]PaymentLine{
				{Method: enum.PaymentMethodCash, AmountCents: 7000},
				{Method: enum.PaymentMethodMobileMoney, AmountCents: 4900},
			},
			12000, false, 11900,
		},
		{
			"overpayment fails",
			[]PaymentLine{{Method: enum.PaymentMethodCash, AmountCents: 12100}},
			12000, false, 12100,
		},
		{
			"no lines fails",
			nil,
			12000, false, 0,
		},
		{
			"zero total fails even when matched",
			[]PaymentLine{{Method: enum.PaymentMethodCash, AmountCents: 0}},
			0, false, 0,
		},
		{
			"zero amount line contributes nothing",
			[]PaymentLine{
				{Method: enum.PaymentMethodCash, AmountCents: 12000},
				{Method: enum.PaymentMethodOther, AmountCents: 0},
			},
			12000, true, 12000,
		},
		{
			"negative line fails",
			[]PaymentLine{
				{Method: enum.PaymentMethodCash, AmountCents: 13000},
				{Method: enum.PaymentMethodOther, AmountCents: -1000},
			},
			12000, false, 12000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePayments(tt.lines, tt.total)
			if got.Valid != tt.wantValid {
				t.Errorf("valid = %v, want %v", got.Valid, tt.wantValid)
			}
			if got.SumCents != tt.wantSum {
				t.Errorf("sum = %d, want %d", got.SumCents, tt.wantSum)
			}
		})
	}
}

func TestSubtotal(t *testing.T) {
	lines := []CartLine{
		{Title: "Mathematics Grade 5", UnitPriceCents: 5000, Quantity: 2},
		{Title: "English Grade 5", UnitPriceCents: 4000, Quantity: 1},
	}
	if got := Subtotal(lines); got != 14000 {
		t.Errorf("Subtotal = %d, want 14000", got)
	}
	if got := Subtotal(nil); got != 0 {
		t.Errorf("Subtotal(nil) = %d, want 0", got)
	}
}
