package models

import "time"

// MaxStudentCredits caps the total credits a student may carry.
const MaxStudentCredits = 18

// Enrollment links one student to one course. Grade starts at
// GradeIncomplete; EnrolledOn is fixed at creation.
type Enrollment struct {
	ID         string     `json:"id"`
	StudentID  string     `json:"student_id"`
	CourseCode CourseCode `json:"course_code"`
	Credits    int        `json:"credits"`
	Grade      Grade      `json:"grade"`
	EnrolledOn time.Time  `json:"enrolled_on"`
}
