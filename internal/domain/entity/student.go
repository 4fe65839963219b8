package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student represents a pupil buying from the school bookshop
type Student struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	AdmissionNo   string         `gorm:"size:50;unique;not null" json:"admission_no"`
	Class         string         `gorm:"size:50;index" json:"class"`
	GuardianName  *string        `gorm:"size:255" json:"guardian_name,omitempty"`
	GuardianPhone *string        `gorm:"size:50" json:"guardian_phone,omitempty"`
	Email         *string        `gorm:"size:255" json:"email,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Receipts []Receipt `gorm:"foreignKey:StudentID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new student
func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Student model
func (Student) TableName() string {
	return "students"
}
