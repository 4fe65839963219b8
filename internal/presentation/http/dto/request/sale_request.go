package request

import "github.com/google/uuid"

// CheckoutItemRequest is one cart line. Prices are resolved server side.
type CheckoutItemRequest struct {
	BookID   uuid.UUID `json:"book_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

// CheckoutPaymentRequest is one tendered payment line
type CheckoutPaymentRequest struct {
	Method    string  `json:"method" binding:"required"`
	Amount    float64 `json:"amount" binding:"min=0"`
	Reference string  `json:"reference"`
}

// CheckoutRequest represents a checkout request
type CheckoutRequest struct {
	StudentID     *uuid.UUID               `json:"student_id"`
	Items         []CheckoutItemRequest    `json:"items" binding:"required,min=1,dive"`
	DiscountMode  string                   `json:"discount_mode" binding:"omitempty,oneof=percent flat"`
	DiscountValue float64                  `json:"discount_value" binding:"min=0"`
	OverrideCode  string                   `json:"override_code"`
	Payments      []CheckoutPaymentRequest `json:"payments" binding:"required,min=1,dive"`
}

// SaleFilterRequest represents sale filter parameters
type SaleFilterRequest struct {
	Search    string `form:"search"`
	CashierID string `form:"cashier_id"`
	StudentID string `form:"student_id"`
	StartDate string `form:"start_date"` // YYYY-MM-DD
	EndDate   string `form:"end_date"`   // YYYY-MM-DD
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
	Limit     int    `form:"limit"`
}

// ResendReceiptRequest represents a receipt resend request
type ResendReceiptRequest struct {
	Email string `json:"email" binding:"required,email"`
}
