package models

import (
	"strings"

	appErrors "github.com/noah-isme/campus-records/pkg/errors"
)

// Credit bounds for a single course.
const (
	MinCourseCredits = 1
	MaxCourseCredits = 6
)

// Instructor teaches courses. It carries identity only.
type Instructor struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// Course is an offering students can enroll in. Code and Credits never change
// after Build.
type Course struct {
	Code       CourseCode  `json:"code"`
	Title      string      `json:"title"`
	Credits    int         `json:"credits"`
	Instructor *Instructor `json:"instructor,omitempty"`
	Semester   Semester    `json:"semester"`
	Department string      `json:"department"`
	Active     bool        `json:"active"`
}

// InstructorName returns the assigned instructor or "TBD".
func (c Course) InstructorName() string {
	if c.Instructor == nil {
		return "TBD"
	}
	return c.Instructor.FullName
}

// ValidCredits reports whether credits fall within the allowed range.
func ValidCredits(credits int) bool {
	return credits >= MinCourseCredits && credits <= MaxCourseCredits
}

// CourseBuilder stages course construction so an invalid course is never produced.
type CourseBuilder struct {
	code       CourseCode
	title      string
	credits    int
	instructor *Instructor
	semester   Semester
	department string
}

// NewCourseBuilder starts an empty builder.
func NewCourseBuilder() *CourseBuilder {
	return &CourseBuilder{}
}

func (b *CourseBuilder) Code(code CourseCode) *CourseBuilder {
	b.code = code
	return b
}

func (b *CourseBuilder) Title(title string) *CourseBuilder {
	b.title = title
	return b
}

func (b *CourseBuilder) Credits(credits int) *CourseBuilder {
	b.credits = credits
	return b
}

func (b *CourseBuilder) Instructor(instructor *Instructor) *CourseBuilder {
	b.instructor = instructor
	return b
}

func (b *CourseBuilder) Semester(semester Semester) *CourseBuilder {
	b.semester = semester
	return b
}

func (b *CourseBuilder) Department(department string) *CourseBuilder {
	b.department = department
	return b
}

// Build validates the staged fields and returns an active course.
func (b *CourseBuilder) Build() (*Course, error) {
	if !ValidCredits(b.credits) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "credits must be between 1 and 6")
	}
	if b.code.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course code is required")
	}
	if strings.TrimSpace(b.title) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course title is required")
	}
	if !b.semester.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course semester is required")
	}
	if strings.TrimSpace(b.department) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course department is required")
	}
	var instructor *Instructor
	if b.instructor != nil {
		copied := *b.instructor
		instructor = &copied
	}
	return &Course{
		Code:       b.code,
		Title:      b.title,
		Credits:    b.credits,
		Instructor: instructor,
		Semester:   b.semester,
		Department: b.department,
		Active:     true,
	}, nil
}
