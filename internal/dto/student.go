package dto

// CreateStudentRequest captures POST /students payload.
type CreateStudentRequest struct {
	ID       string `json:"id" validate:"required,max=32"`
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	RegNo    string `json:"reg_no" validate:"required"`
}

// UpdateStudentRequest captures PUT /students/:id payload. Empty fields are left untouched.
type UpdateStudentRequest struct {
	FullName string `json:"full_name" validate:"required_without=Email"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// StudentFilter narrows GET /students.
type StudentFilter struct {
	Search   string
	Active   *bool
	Page     int
	PageSize int
}
