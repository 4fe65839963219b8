package request

import "github.com/google/uuid"

// CreateSupplierRequest represents a supplier creation request
type CreateSupplierRequest struct {
	Name          string  `json:"name" binding:"required,min=2,max=255"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	KRAPin        *string `json:"kra_pin"`
	AccountHolder *string `json:"account_holder"`
	AccountNumber *string `json:"account_number"`
	BankName      *string `json:"bank_name"`
	Notes         *string `json:"notes"`
}

// UpdateSupplierRequest represents a supplier update request
type UpdateSupplierRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=2,max=255"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	KRAPin        *string `json:"kra_pin"`
	AccountHolder *string `json:"account_holder"`
	AccountNumber *string `json:"account_number"`
	BankName      *string `json:"bank_name"`
	Notes         *string `json:"notes"`
}

// SupplierFilterRequest represents supplier filter parameters
type SupplierFilterRequest struct {
	Search    string `form:"search"`
	WithDebt  bool   `form:"with_debt"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}

// SupplyOrderItemRequest is one line of a supply order
type SupplyOrderItemRequest struct {
	BookID   uuid.UUID `json:"book_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
	UnitCost float64   `json:"unit_cost" binding:"min=0"`
}

// CreateSupplyOrderRequest represents a supply order creation request
type CreateSupplyOrderRequest struct {
	SupplierID          uuid.UUID                `json:"supplier_id" binding:"required"`
	InvoiceNumber       *string                  `json:"invoice_number"`
	SupplyDate          string                   `json:"supply_date" binding:"required"` // YYYY-MM-DD
	ExpectedPaymentDate *string                  `json:"expected_payment_date"`          // YYYY-MM-DD
	Notes               *string                  `json:"notes"`
	Items               []SupplyOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// SupplyOrderFilterRequest represents supply order filter parameters
type SupplyOrderFilterRequest struct {
	Search     string `form:"search"`
	Status     *int   `form:"status"`
	SupplierID string `form:"supplier_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// RecordSupplierPaymentRequest represents a supplier payment request
type RecordSupplierPaymentRequest struct {
	SupplyOrderID *uuid.UUID `json:"supply_order_id"`
	Amount        float64    `json:"amount" binding:"required,gt=0"`
	Method        string     `json:"method" binding:"required"`
	Reference     *string    `json:"reference"`
	PaymentDate   string     `json:"payment_date" binding:"required"` // YYYY-MM-DD
	Notes         *string    `json:"notes"`
}
