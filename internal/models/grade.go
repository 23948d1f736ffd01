package models

import (
	"strings"

	appErrors "github.com/noah-isme/campus-records/pkg/errors"
)

// Grade is a letter grade on the institutional scale.
type Grade string

// Grade scale. GradeIncomplete is the pending value every enrollment starts with.
const (
	GradeSuperior   Grade = "S"
	GradeA          Grade = "A"
	GradeB          Grade = "B"
	GradeC          Grade = "C"
	GradeD          Grade = "D"
	GradeF          Grade = "F"
	GradeIncomplete Grade = "I"
)

type gradeInfo struct {
	points      float64
	description string
}

var gradeScale = map[Grade]gradeInfo{
	GradeSuperior:   {points: 4.0, description: "Superior"},
	GradeA:          {points: 4.0, description: "Excellent"},
	GradeB:          {points: 3.0, description: "Good"},
	GradeC:          {points: 2.0, description: "Average"},
	GradeD:          {points: 1.0, description: "Poor"},
	GradeF:          {points: 0.0, description: "Fail"},
	GradeIncomplete: {points: 0.0, description: "Incomplete"},
}

// Grades lists the scale in display order.
func Grades() []Grade {
	return []Grade{GradeSuperior, GradeA, GradeB, GradeC, GradeD, GradeF, GradeIncomplete}
}

// ParseGrade resolves a grade symbol, ignoring case and surrounding space.
func ParseGrade(raw string) (Grade, error) {
	g := Grade(strings.ToUpper(strings.TrimSpace(raw)))
	if !g.Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, "unknown grade "+raw)
	}
	return g, nil
}

// Valid reports whether g is on the scale.
func (g Grade) Valid() bool {
	_, ok := gradeScale[g]
	return ok
}

// Points returns the grade point value.
func (g Grade) Points() float64 {
	return gradeScale[g].points
}

// Description returns the human label.
func (g Grade) Description() string {
	return gradeScale[g].description
}

func (g Grade) String() string {
	return string(g)
}
