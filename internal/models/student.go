package models

import (
	"strings"
	"time"

	appErrors "github.com/noah-isme/campus-records/pkg/errors"
)

// Student represents a learner registered in the institution. Enrollments
// are not held here; the enrollment engine owns them and exposes a view by
// student ID.
type Student struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email" json:"email"`
	RegNo     string    `db:"reg_no" json:"reg_no"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NewStudent builds an active student. The ID is required.
func NewStudent(id, fullName, email, regNo string) (*Student, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	return &Student{
		ID:        id,
		FullName:  fullName,
		Email:     email,
		RegNo:     regNo,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// StudentDetail pairs a student with the engine's view of their load.
type StudentDetail struct {
	Student
	TotalCredits int          `json:"total_credits"`
	GPA          float64      `json:"gpa"`
	Enrollments  []Enrollment `json:"enrollments"`
}
