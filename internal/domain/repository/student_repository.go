package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	"github.com/kiplagat/bookshop-api/pkg/pagination"
)

// StudentRepository defines the interface for student data operations
type StudentRepository interface {
	Create(ctx context.Context, student *entity.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Student, error)
	GetByAdmissionNo(ctx context.Context, admissionNo string) (*entity.Student, error)
	Update(ctx context.Context, student *entity.Student) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns students filtered by name, admission number or class
	List(ctx context.Context, params *pagination.PaginationParams, search, class string) ([]entity.Student, int64, error)
	// ListWithCursor returns students using cursor-based pagination
	ListWithCursor(ctx context.Context, params *pagination.CursorParams, search, class string) ([]entity.Student, error)
}
