// Package pricing holds the pure computations behind a sale: cart subtotal,
// discount derivation with role-gated authorization, and split-payment
// validation. Everything here works on integer cents and is deterministic,
// so exact-equality checks on money are safe.
package pricing

import (
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/enum"
)

// ToCents converts a decimal currency amount to integer cents, rounding half
// away from zero. Float inputs like 39.98 are not exactly representable, so
// truncation would lose a cent; every decimal boundary must go through here.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// ErrInvalidDiscountMode is returned when a discount carries a mode outside
// the known set. This is a configuration error, not a user-recoverable one.
var ErrInvalidDiscountMode = errors.New("pricing: invalid discount mode")

// CartLine is a single line of an in-progress sale. It is transient and owned
// by the cart; Checkout snapshots it into an immutable receipt line.
type CartLine struct {
	BookID         uuid.UUID
	Title          string
	UnitPriceCents int64
	Quantity       int
}

// TotalCents returns the line total.
func (l CartLine) TotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// Subtotal returns the cart subtotal in cents.
func Subtotal(lines []CartLine) int64 {
	var sum int64
	for _, l := range lines {
		sum += l.TotalCents()
	}
	return sum
}

// DiscountPolicy holds the configured authorization rule for discounts.
// Cashiers may not grant percentage discounts above CashierPercentCeiling
// unless they supply the shared override code.
type DiscountPolicy struct {
	CashierPercentCeiling float64
	OverrideCode          string
}

// DiscountResult is the outcome of computing a discount.
type DiscountResult struct {
	AmountCents int64
	Authorized  bool
}

// ComputeDiscount derives the discount amount for a cart subtotal.
//
// For percent mode, value is percentage points; for flat mode, value is a
// decimal currency amount. The derived amount is clamped to [0, subtotal]:
// out-of-range values are clamped, never rejected. Only percent-mode
// discounts are subject to the cashier ceiling; flat discounts are never
// gated (the source system behaves this way deliberately).
//
// Authorized=false is a gate, not an error: the caller must block checkout
// until the discount is reduced or a correct override code is supplied.
func ComputeDiscount(subtotalCents int64, mode enum.DiscountMode, value float64, role enum.Role, overrideCode string, policy DiscountPolicy) (DiscountResult, error) {
	if !mode.IsValid() {
		return DiscountResult{}, ErrInvalidDiscountMode
	}

	if value < 0 {
		value = 0
	}

	var amount int64
	switch mode {
	case enum.DiscountModePercent:
		amount = int64(float64(subtotalCents) * value / 100)
	case enum.DiscountModeFlat:
		amount = ToCents(value)
	}

	// Never discount below a zero total, never exceed the subtotal.
	if amount < 0 {
		amount = 0
	}
	if amount > subtotalCents {
		amount = subtotalCents
	}

	authorized := true
	if role == enum.RoleCashier && mode == enum.DiscountModePercent && value > policy.CashierPercentCeiling {
		authorized = policy.OverrideCode != "" && overrideCode == policy.OverrideCode
	}

	return DiscountResult{AmountCents: amount, Authorized: authorized}, nil
}

// PaymentLine is a single tendered payment toward a sale total.
type PaymentLine struct {
	Method      enum.PaymentMethod
	AmountCents int64
	Reference   string
}

// PaymentCheck is the outcome of validating a set of payment lines.
type PaymentCheck struct {
	Valid    bool
	SumCents int64
}

// ValidatePayments checks that the tendered payment lines settle the
// post-discount total exactly. Valid requires: at least one line, a positive
// total, no negative line, and sum(amounts) == total with exact cent
// equality. Zero-amount lines are permitted and simply contribute nothing.
func ValidatePayments(lines []PaymentLine, totalCents int64) PaymentCheck {
	var sum int64
	negative := false
	for _, l := range lines {
		if l.AmountCents < 0 {
			negative = true
		}
		sum += l.AmountCents
	}

	valid := len(lines) >= 1 && totalCents > 0 && !negative && sum == totalCents
	return PaymentCheck{Valid: valid, SumCents: sum}
}
