package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/enum"
	"gorm.io/gorm"
)

// SupplierPayment records money paid out to a supplier. Recording one lowers
// the supplier's owed balance in the same transaction.
type SupplierPayment struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	SupplierID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"supplier_id"`
	SupplyOrderID *uuid.UUID         `gorm:"type:uuid;index" json:"supply_order_id,omitempty"`
	PaymentNo     string             `gorm:"size:100;unique;not null" json:"payment_no"`
	Amount        int64              `gorm:"not null" json:"-"` // Stored in cents
	Method        enum.PaymentMethod `gorm:"size:50;default:'cash'" json:"method"`
	Reference     *string            `gorm:"size:255" json:"reference,omitempty"`
	PaymentDate   time.Time          `gorm:"type:date;not null" json:"payment_date"`
	Notes         *string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	DeletedAt     gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	User        User         `gorm:"foreignKey:UserID" json:"-"`
	Supplier    *Supplier    `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	SupplyOrder *SupplyOrder `gorm:"foreignKey:SupplyOrderID" json:"supply_order,omitempty"`
}

// BeforeCreate generates a UUID before creating a new supplier payment
func (p *SupplierPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SupplierPayment model
func (SupplierPayment) TableName() string {
	return "supplier_payments"
}

// GetAmount returns the amount as a decimal value
func (p *SupplierPayment) GetAmount() float64 {
	return float64(p.Amount) / 100
}

// MarshalJSON customizes JSON serialization to expose the amount as a decimal
func (p SupplierPayment) MarshalJSON() ([]byte, error) {
	type Alias SupplierPayment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: p.GetAmount(),
	})
}
