package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSettings represents user-specific application settings
type UserSettings struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// General settings
	Language   string `gorm:"size:10;default:'en'" json:"language"`
	Timezone   string `gorm:"size:50;default:'Africa/Nairobi'" json:"timezone"`
	Currency   string `gorm:"size:10;default:'KES'" json:"currency"`
	DateFormat string `gorm:"size:20;default:'DD/MM/YYYY'" json:"date_format"`

	// Shop details printed on receipts
	ShopName      string  `gorm:"size:255;default:'School Bookshop'" json:"shop_name"`
	ShopAddress   *string `gorm:"type:text" json:"shop_address,omitempty"`
	ShopPhone     *string `gorm:"size:50" json:"shop_phone,omitempty"`
	ReceiptFooter string  `gorm:"size:255;default:'Thank you for shopping with us'" json:"receipt_footer"`

	// Notification settings
	EmailNotifications bool `gorm:"default:true" json:"email_notifications"`
	LowStockAlerts     bool `gorm:"default:true" json:"low_stock_alerts"`
	PaymentDueAlerts   bool `gorm:"default:true" json:"payment_due_alerts"`

	// Appearance settings
	Theme       string `gorm:"size:20;default:'light'" json:"theme"`
	CompactMode bool   `gorm:"default:false" json:"compact_mode"`

	// Security settings
	SessionTimeout string `gorm:"size:10;default:'30'" json:"session_timeout"`
	LoginAlerts    bool   `gorm:"default:true" json:"login_alerts"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *UserSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the UserSettings model
func (UserSettings) TableName() string {
	return "user_settings"
}
