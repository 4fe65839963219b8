package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supplier represents a publisher or distributor the shop buys stock from.
// Balance is a cached ledger position in cents, positive when the shop owes
// the supplier. It is derived from supply orders and payments and kept in
// step transactionally; RecomputeBalance rebuilds it from the ledger.
type Supplier struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	ContactPerson *string        `gorm:"size:255" json:"contact_person,omitempty"`
	Email         *string        `gorm:"size:255" json:"email,omitempty"`
	Phone         *string        `gorm:"size:50" json:"phone,omitempty"`
	Address       *string        `gorm:"type:text" json:"address,omitempty"`
	KRAPin        *string        `gorm:"size:50;column:kra_pin" json:"kra_pin,omitempty"`
	AccountHolder *string        `gorm:"size:255" json:"account_holder,omitempty"`
	AccountNumber *string        `gorm:"size:100" json:"account_number,omitempty"`
	BankName      *string        `gorm:"size:255" json:"bank_name,omitempty"`
	Balance       int64          `gorm:"not null;default:0" json:"-"`
	Notes         *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User         User              `gorm:"foreignKey:UserID" json:"-"`
	Books        []Book            `gorm:"foreignKey:SupplierID" json:"-"`
	SupplyOrders []SupplyOrder     `gorm:"foreignKey:SupplierID" json:"-"`
	Payments     []SupplierPayment `gorm:"foreignKey:SupplierID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new supplier
func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Supplier model
func (Supplier) TableName() string {
	return "suppliers"
}

// GetBalance returns the balance as a decimal amount
func (s *Supplier) GetBalance() float64 {
	return float64(s.Balance) / 100
}

// MarshalJSON customizes JSON serialization to expose the balance as a decimal
func (s Supplier) MarshalJSON() ([]byte, error) {
	type Alias Supplier
	return json.Marshal(&struct {
		Alias
		Balance float64 `json:"balance"`
	}{
		Alias:   Alias(s),
		Balance: s.GetBalance(),
	})
}
