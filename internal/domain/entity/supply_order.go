package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/enum"
	"gorm.io/gorm"
)

// SupplyOrder represents a delivery of stock from a supplier. Receiving an
// order appends addition movements to each book's ledger and raises the
// supplier's owed balance by the order total.
type SupplyOrder struct {
	ID                  uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	UserID              uuid.UUID              `gorm:"type:uuid;not null;index" json:"user_id"`
	SupplierID          uuid.UUID              `gorm:"type:uuid;not null;index" json:"supplier_id"`
	CreatedByID         *uuid.UUID             `gorm:"type:uuid;column:created_by" json:"created_by,omitempty"`
	OrderNo             string                 `gorm:"size:100;unique;not null" json:"order_no"`
	InvoiceNumber       *string                `gorm:"size:100" json:"invoice_number,omitempty"`
	Status              enum.SupplyOrderStatus `gorm:"default:0" json:"status"`
	SupplyDate          time.Time              `gorm:"type:date;not null" json:"supply_date"`
	ExpectedPaymentDate *time.Time             `gorm:"type:date" json:"expected_payment_date,omitempty"`
	TotalAmount         int64                  `gorm:"not null;default:0" json:"-"` // Stored in cents
	Notes               *string                `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
	DeletedAt           gorm.DeletedAt         `gorm:"index" json:"-"`

	// Relationships
	User      User              `gorm:"foreignKey:UserID" json:"-"`
	Supplier  *Supplier         `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	CreatedBy *User             `gorm:"foreignKey:CreatedByID" json:"created_by_user,omitempty"`
	Items     []SupplyOrderItem `gorm:"foreignKey:SupplyOrderID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new supply order
func (o *SupplyOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SupplyOrder model
func (SupplyOrder) TableName() string {
	return "supply_orders"
}

// GetTotalAmount returns the total as a decimal amount
func (o *SupplyOrder) GetTotalAmount() float64 {
	return float64(o.TotalAmount) / 100
}

// IsOverdue reports whether the order is still unpaid past its expected
// payment date. Cancelled orders and orders without an expected date never
// fall overdue.
func (o *SupplyOrder) IsOverdue(now time.Time) bool {
	if o.Status == enum.SupplyOrderStatusCancelled || o.ExpectedPaymentDate == nil {
		return false
	}
	return o.ExpectedPaymentDate.Before(now)
}

// MarshalJSON customizes JSON serialization to expose the total as a decimal
func (o SupplyOrder) MarshalJSON() ([]byte, error) {
	type Alias SupplyOrder
	return json.Marshal(&struct {
		Alias
		TotalAmount float64 `json:"total_amount"`
	}{
		Alias:       Alias(o),
		TotalAmount: o.GetTotalAmount(),
	})
}

// SupplyOrderItem represents a line item in a supply order
type SupplyOrderItem struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	SupplyOrderID uuid.UUID      `gorm:"type:uuid;not null;index" json:"supply_order_id"`
	BookID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"book_id"`
	Quantity      int            `gorm:"not null" json:"quantity"`
	UnitCost      int64          `gorm:"not null" json:"unit_cost"` // Stored in cents
	Total         int64          `gorm:"not null" json:"total"`     // Stored in cents
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	SupplyOrder SupplyOrder `gorm:"foreignKey:SupplyOrderID" json:"-"`
	Book        Book        `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

// BeforeCreate generates a UUID before creating a new supply order item
func (i *SupplyOrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SupplyOrderItem model
func (SupplyOrderItem) TableName() string {
	return "supply_order_items"
}
