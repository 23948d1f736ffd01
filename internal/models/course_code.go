package models

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	appErrors "github.com/noah-isme/campus-records/pkg/errors"
)

// CourseCodeLength is the exact number of characters in a course code.
const CourseCodeLength = 6

// CourseCode is an immutable, upper-cased course identifier. The zero value
// is not a valid code.
type CourseCode struct {
	value string
}

// NewCourseCode validates and normalises raw.
func NewCourseCode(raw string) (CourseCode, error) {
	if utf8.RuneCountInString(raw) != CourseCodeLength {
		return CourseCode{}, appErrors.Clone(appErrors.ErrValidation, "course code must be exactly 6 characters")
	}
	return CourseCode{value: strings.ToUpper(raw)}, nil
}

// MustCourseCode is NewCourseCode for literals known to be valid.
func MustCourseCode(raw string) CourseCode {
	code, err := NewCourseCode(raw)
	if err != nil {
		panic(err)
	}
	return code
}

// IsZero reports whether the code was never initialised.
func (c CourseCode) IsZero() bool {
	return c.value == ""
}

func (c CourseCode) String() string {
	return c.value
}

// Matches compares against a raw, possibly lower-cased code.
func (c CourseCode) Matches(raw string) bool {
	return !c.IsZero() && strings.EqualFold(c.value, raw)
}

// MarshalJSON encodes the code as a plain string.
func (c CourseCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.value)
}

// UnmarshalJSON decodes and validates a plain string.
func (c *CourseCode) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	code, err := NewCourseCode(raw)
	if err != nil {
		return err
	}
	*c = code
	return nil
}
