package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/application/service"
	"github.com/kiplagat/bookshop-api/internal/presentation/http/dto/request"
	"github.com/kiplagat/bookshop-api/internal/presentation/http/dto/response"
	"github.com/kiplagat/bookshop-api/pkg/pagination"
)

// StudentHandler handles student HTTP requests
type StudentHandler struct {
	studentService *service.StudentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// List handles listing students (supports both page-based and cursor-based pagination)
func (h *StudentHandler) List(c *gin.Context) {
	var filter request.StudentFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		limit := 15
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		params := &pagination.CursorParams{
			Cursor:    cursor,
			Direction: pagination.CursorDirection(c.DefaultQuery("direction", "next")),
			Limit:     limit,
		}

		result, err := h.studentService.ListStudentsWithCursor(c.Request.Context(), params, filter.Search, filter.Class)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, 200, "Students retrieved successfully", result)
		return
	}

	params := &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage}
	params.Validate()

	result, err := h.studentService.ListStudents(c.Request.Context(), params, filter.Search, filter.Class)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Students retrieved successfully", result)
}

// Create handles registering a student
func (h *StudentHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	student, err := h.studentService.CreateStudent(c.Request.Context(), &service.CreateStudentInput{
		UserID:        *userID,
		Name:          req.Name,
		AdmissionNo:   req.AdmissionNo,
		Class:         req.Class,
		GuardianName:  req.GuardianName,
		GuardianPhone: req.GuardianPhone,
		Email:         req.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Student registered successfully", student)
}

// Get handles getting a single student
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid student ID")
		return
	}

	student, err := h.studentService.GetStudent(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Student retrieved successfully", student)
}

// Update handles updating a student
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid student ID")
		return
	}

	var req request.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	student, err := h.studentService.UpdateStudent(c.Request.Context(), id, &service.UpdateStudentInput{
		Name:          req.Name,
		AdmissionNo:   req.AdmissionNo,
		Class:         req.Class,
		GuardianName:  req.GuardianName,
		GuardianPhone: req.GuardianPhone,
		Email:         req.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Student updated successfully", student)
}

// Delete handles deleting a student
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid student ID")
		return
	}

	if err := h.studentService.DeleteStudent(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
