package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/enum"
	"gorm.io/gorm"
)

// StockMovement is one append-only entry in a book's stock ledger. Entries
// are never updated or deleted; the owning Book's Stock field is a cache of
// the latest NewStock, maintained in the same transaction as the append.
//
// For wastage and sale reductions the new stock is floor-clamped at zero, so
// NewStock-PreviousStock may under-report the requested quantity when the
// book would otherwise go negative.
type StockMovement struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	BookID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"book_id"`
	Type          enum.MovementType `gorm:"not null;index" json:"type"`
	Quantity      int               `gorm:"not null" json:"quantity"`
	PreviousStock int               `gorm:"not null" json:"previous_stock"`
	NewStock      int               `gorm:"not null" json:"new_stock"`
	Reference     *string           `gorm:"size:255" json:"reference,omitempty"`
	Note          *string           `gorm:"type:text" json:"note,omitempty"`
	UserID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	UserName      string            `gorm:"size:255" json:"user_name"`
	CreatedAt     time.Time         `json:"created_at"`

	// Relationships
	Book Book `gorm:"foreignKey:BookID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new stock movement
func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockMovement model
func (StockMovement) TableName() string {
	return "stock_movements"
}
