package models

import (
	"strings"

	appErrors "github.com/noah-isme/campus-records/pkg/errors"
)

// Semester identifies the teaching period a course runs in.
type Semester string

const (
	SemesterSpring Semester = "SPRING"
	SemesterSummer Semester = "SUMMER"
	SemesterFall   Semester = "FALL"
)

var semesterMeta = map[Semester]struct {
	display string
	order   int
}{
	SemesterSpring: {display: "Spring", order: 1},
	SemesterSummer: {display: "Summer", order: 2},
	SemesterFall:   {display: "Fall", order: 3},
}

// ParseSemester accepts either the constant ("FALL") or display name ("Fall").
func ParseSemester(raw string) (Semester, error) {
	s := Semester(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, "unknown semester "+raw)
	}
	return s, nil
}

// Valid reports whether s is a known semester.
func (s Semester) Valid() bool {
	_, ok := semesterMeta[s]
	return ok
}

// DisplayName returns the title-cased name.
func (s Semester) DisplayName() string {
	return semesterMeta[s].display
}

// Order returns the position of the semester within the academic year.
func (s Semester) Order() int {
	return semesterMeta[s].order
}
