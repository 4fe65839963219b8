package entity

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book represents a title stocked by the bookshop
type Book struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	SupplierID  *uuid.UUID     `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Slug        string         `gorm:"size:255;unique;not null" json:"slug"`
	Code        string         `gorm:"size:100;unique;not null" json:"code"`
	Class       string         `gorm:"size:50;index" json:"class"`
	Subject     string         `gorm:"size:100;index" json:"subject"`
	Author      string         `gorm:"size:255" json:"author"`
	Type        string         `gorm:"size:50;default:'textbook'" json:"type"`
	CostPrice   int64          `gorm:"default:0" json:"-"`     // Stored in cents
	SellPrice   int64          `gorm:"default:0" json:"-"`     // Stored in cents
	Stock       int            `gorm:"default:0" json:"stock"` // Cache of the movement ledger fold
	MinStock    int            `gorm:"default:0" json:"min_stock"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User      User            `gorm:"foreignKey:UserID" json:"-"`
	Supplier  *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Movements []StockMovement `gorm:"foreignKey:BookID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new book
func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Book model
func (Book) TableName() string {
	return "books"
}

// IsLowStock reports whether the book is at or below its reorder threshold
func (b *Book) IsLowStock() bool {
	return b.Stock <= b.MinStock
}

// GetCostPriceDecimal returns the cost price as a decimal (for display)
func (b *Book) GetCostPriceDecimal() float64 {
	return float64(b.CostPrice) / 100
}

// GetSellPriceDecimal returns the selling price as a decimal (for display)
func (b *Book) GetSellPriceDecimal() float64 {
	return float64(b.SellPrice) / 100
}

// SetCostPriceFromDecimal sets the cost price from a decimal value
func (b *Book) SetCostPriceFromDecimal(price float64) {
	b.CostPrice = int64(math.Round(price * 100))
}

// SetSellPriceFromDecimal sets the selling price from a decimal value
func (b *Book) SetSellPriceFromDecimal(price float64) {
	b.SellPrice = int64(math.Round(price * 100))
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (b Book) MarshalJSON() ([]byte, error) {
	type Alias Book
	return json.Marshal(&struct {
		Alias
		CostPrice float64 `json:"cost_price"`
		SellPrice float64 `json:"sell_price"`
		LowStock  bool    `json:"low_stock"`
	}{
		Alias:     Alias(b),
		CostPrice: b.GetCostPriceDecimal(),
		SellPrice: b.GetSellPriceDecimal(),
		LowStock:  b.IsLowStock(),
	})
}
