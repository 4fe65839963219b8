package request

// CreateStudentRequest represents a student registration request
type CreateStudentRequest struct {
	Name          string  `json:"name" binding:"required,min=2,max=255"`
	AdmissionNo   string  `json:"admission_no" binding:"required,max=50"`
	Class         string  `json:"class" binding:"omitempty,max=50"`
	GuardianName  *string `json:"guardian_name"`
	GuardianPhone *string `json:"guardian_phone"`
	Email         *string `json:"email" binding:"omitempty,email"`
}

// UpdateStudentRequest represents a student update request
type UpdateStudentRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=2,max=255"`
	AdmissionNo   *string `json:"admission_no" binding:"omitempty,min=1,max=50"`
	Class         *string `json:"class" binding:"omitempty,max=50"`
	GuardianName  *string `json:"guardian_name"`
	GuardianPhone *string `json:"guardian_phone"`
	Email         *string `json:"email" binding:"omitempty,email"`
}

// StudentFilterRequest represents student filter parameters
type StudentFilterRequest struct {
	Search  string `form:"search"`
	Class   string `form:"class"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
	Limit   int    `form:"limit"`
}
