package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	"github.com/kiplagat/bookshop-api/internal/domain/repository"
	"github.com/kiplagat/bookshop-api/pkg/apperror"
	"github.com/kiplagat/bookshop-api/pkg/pagination"
)

// StudentService handles the student register
type StudentService struct {
	studentRepo repository.StudentRepository
}

// NewStudentService creates a new student service
func NewStudentService(studentRepo repository.StudentRepository) *StudentService {
	return &StudentService{studentRepo: studentRepo}
}

// CreateStudentInput represents the create student input
type CreateStudentInput struct {
	UserID        uuid.UUID
	Name          string
	AdmissionNo   string
	Class         string
	GuardianName  *string
	GuardianPhone *string
	Email         *string
}

// CreateStudent registers a new student. Admission numbers are unique across
// the register.
func (s *StudentService) CreateStudent(ctx context.Context, input *CreateStudentInput) (*entity.Student, error) {
	existing, err := s.studentRepo.GetByAdmissionNo(ctx, input.AdmissionNo)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Admission number already exists")
	}

	student := &entity.Student{
		UserID:        input.UserID,
		Name:          input.Name,
		AdmissionNo:   input.AdmissionNo,
		Class:         input.Class,
		GuardianName:  input.GuardianName,
		GuardianPhone: input.GuardianPhone,
		Email:         input.Email,
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	return student, nil
}

// GetStudent retrieves a student by ID
func (s *StudentService) GetStudent(ctx context.Context, id uuid.UUID) (*entity.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperror.NewNotFoundError("Student")
	}
	return student, nil
}

// GetStudentByAdmissionNo retrieves a student by admission number
func (s *StudentService) GetStudentByAdmissionNo(ctx context.Context, admissionNo string) (*entity.Student, error) {
	student, err := s.studentRepo.GetByAdmissionNo(ctx, admissionNo)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperror.NewNotFoundError("Student")
	}
	return student, nil
}

// UpdateStudentInput represents the update student input
type UpdateStudentInput struct {
	Name          *string
	AdmissionNo   *string
	Class         *string
	GuardianName  *string
	GuardianPhone *string
	Email         *string
}

// UpdateStudent updates a student's details
func (s *StudentService) UpdateStudent(ctx context.Context, id uuid.UUID, input *UpdateStudentInput) (*entity.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperror.NewNotFoundError("Student")
	}

	if input.AdmissionNo != nil && *input.AdmissionNo != student.AdmissionNo {
		existing, err := s.studentRepo.GetByAdmissionNo(ctx, *input.AdmissionNo)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != student.ID {
			return nil, apperror.NewConflictError("Admission number already exists")
		}
		student.AdmissionNo = *input.AdmissionNo
	}

	if input.Name != nil {
		student.Name = *input.Name
	}
	if input.Class != nil {
		student.Class = *input.Class
	}
	if input.GuardianName != nil {
		student.GuardianName = input.GuardianName
	}
	if input.GuardianPhone != nil {
		student.GuardianPhone = input.GuardianPhone
	}
	if input.Email != nil {
		student.Email = input.Email
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}

	return student, nil
}

// DeleteStudent soft-deletes a student. Their past receipts keep the
// snapshotted name.
func (s *StudentService) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if student == nil {
		return apperror.NewNotFoundError("Student")
	}
	return s.studentRepo.Delete(ctx, id)
}

// ListStudents lists students with filtering
func (s *StudentService) ListStudents(ctx context.Context, params *pagination.PaginationParams, search, class string) (*pagination.PaginatedResult[entity.Student], error) {
	students, total, err := s.studentRepo.List(ctx, params, search, class)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(students, pag), nil
}

// ListStudentsWithCursor lists students with cursor-based pagination
func (s *StudentService) ListStudentsWithCursor(ctx context.Context, params *pagination.CursorParams, search, class string) (*pagination.CursorPaginatedResult[entity.Student], error) {
	students, err := s.studentRepo.ListWithCursor(ctx, params, search, class)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(students, params.Limit,
		func(st entity.Student) string { return st.ID.String() },
		func(st entity.Student) time.Time { return st.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}
