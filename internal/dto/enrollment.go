package dto

// EnrollRequest captures POST /enrollments payload.
type EnrollRequest struct {
	StudentID  string `json:"student_id" validate:"required"`
	CourseCode string `json:"course_code" validate:"required,len=6"`
}

// RecordGradeRequest captures PUT /students/:id/enrollments/:code/grade payload.
type RecordGradeRequest struct {
	Grade string `json:"grade" validate:"required,oneof=S A B C D F I s a b c d f i"`
}
