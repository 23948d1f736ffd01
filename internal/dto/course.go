package dto

// InstructorRequest optionally assigns an instructor when creating a course.
type InstructorRequest struct {
	ID         string `json:"id" validate:"required"`
	FullName   string `json:"full_name" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	Department string `json:"department"`
}

// CreateCourseRequest captures POST /courses payload.
type CreateCourseRequest struct {
	Code       string             `json:"code" validate:"required,len=6"`
	Title      string             `json:"title" validate:"required"`
	Credits    int                `json:"credits" validate:"required,min=1,max=6"`
	Semester   string             `json:"semester" validate:"required"`
	Department string             `json:"department" validate:"required"`
	Instructor *InstructorRequest `json:"instructor,omitempty" validate:"omitempty"`
}

// UpdateCourseRequest captures PUT /courses/:code payload.
type UpdateCourseRequest struct {
	Title string `json:"title" validate:"required"`
}

// CourseFilter narrows GET /courses.
type CourseFilter struct {
	InstructorID string
	Department   string
	Semester     string
	SortByTitle  bool
	Page         int
	PageSize     int
}
