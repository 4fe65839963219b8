package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Receipt is the immutable record of a finalized sale. It is created once,
// atomically with the stock reductions for its lines, and never updated or
// deleted afterwards; print/export/resend are read-only projections.
type Receipt struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptNo      string            `gorm:"size:100;unique;not null" json:"receipt_no"`
	UserID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	CashierName    string            `gorm:"size:255" json:"cashier_name"`
	StudentID      *uuid.UUID        `gorm:"type:uuid;index" json:"student_id,omitempty"`
	StudentName    *string           `gorm:"size:255" json:"student_name,omitempty"` // Snapshot; walk-in sales leave it nil
	SubTotal       int64             `gorm:"not null" json:"-"`                      // Stored in cents
	DiscountMode   enum.DiscountMode `gorm:"size:20;default:'percent'" json:"discount_mode"`
	DiscountValue  float64           `gorm:"type:decimal(10,2);default:0" json:"discount_value"`
	DiscountAmount int64             `gorm:"default:0" json:"-"` // Stored in cents
	Total          int64             `gorm:"not null" json:"-"`  // Stored in cents
	CreatedAt      time.Time         `json:"created_at"`

	// Relationships
	User     User             `gorm:"foreignKey:UserID" json:"-"`
	Student  *Student         `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Lines    []ReceiptLine    `gorm:"foreignKey:ReceiptID" json:"lines,omitempty"`
	Payments []ReceiptPayment `gorm:"foreignKey:ReceiptID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (r Receipt) MarshalJSON() ([]byte, error) {
	type Alias Receipt
	return json.Marshal(&struct {
		Alias
		SubTotal       float64 `json:"sub_total"`
		DiscountAmount float64 `json:"discount_amount"`
		Total          float64 `json:"total"`
	}{
		Alias:          Alias(r),
		SubTotal:       float64(r.SubTotal) / 100,
		DiscountAmount: float64(r.DiscountAmount) / 100,
		Total:          float64(r.Total) / 100,
	})
}

// ReceiptLine is a snapshot of one cart line at the moment of sale. Title and
// unit price are copied from the book so later catalogue edits cannot alter
// an issued receipt.
type ReceiptLine struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID uuid.UUID `gorm:"type:uuid;not null;index" json:"receipt_id"`
	BookID    uuid.UUID `gorm:"type:uuid;not null;index" json:"book_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UnitPrice int64     `gorm:"not null" json:"-"` // Stored in cents
	Total     int64     `gorm:"not null" json:"-"` // Stored in cents
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Receipt Receipt `gorm:"foreignKey:ReceiptID" json:"-"`
	Book    Book    `gorm:"foreignKey:BookID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new receipt line
func (l *ReceiptLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptLine model
func (ReceiptLine) TableName() string {
	return "receipt_lines"
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (l ReceiptLine) MarshalJSON() ([]byte, error) {
	type Alias ReceiptLine
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(l),
		UnitPrice: float64(l.UnitPrice) / 100,
		Total:     float64(l.Total) / 100,
	})
}

// ReceiptPayment is one tendered payment line of a split payment.
type ReceiptPayment struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID uuid.UUID          `gorm:"type:uuid;not null;index" json:"receipt_id"`
	Method    enum.PaymentMethod `gorm:"size:50;not null" json:"method"`
	Amount    int64              `gorm:"not null" json:"-"` // Stored in cents
	Reference *string            `gorm:"size:255" json:"reference,omitempty"`
	CreatedAt time.Time          `json:"created_at"`

	// Relationships
	Receipt Receipt `gorm:"foreignKey:ReceiptID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new receipt payment
func (p *ReceiptPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptPayment model
func (ReceiptPayment) TableName() string {
	return "receipt_payments"
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p ReceiptPayment) MarshalJSON() ([]byte, error) {
	type Alias ReceiptPayment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: float64(p.Amount) / 100,
	})
}
