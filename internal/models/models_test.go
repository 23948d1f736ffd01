package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/campus-records/pkg/errors"
)

func TestNewCourseCodeNormalisesCase(t *testing.T) {
	for _, raw := range []string{"cs0101", "Cs0101", "CS0101", "ma2b9z"} {
		lower, err := NewCourseCode(raw)
		require.NoError(t, err)
		upper, err := NewCourseCode(lower.String())
		require.NoError(t, err)
		assert.Equal(t, lower, upper)
		assert.True(t, lower == upper)
	}

	code := MustCourseCode("cs0101")
	assert.Equal(t, "CS0101", code.String())
	assert.True(t, code.Matches("cs0101"))

	set := map[CourseCode]int{MustCourseCode("cs0101"): 1}
	assert.Equal(t, 1, set[MustCourseCode("CS0101")])
}

func TestNewCourseCodeRejectsWrongLength(t *testing.T) {
	for _, raw := range []string{"", "CS101", "CS01011"} {
		code, err := NewCourseCode(raw)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, appErrors.ErrValidation))
		assert.True(t, code.IsZero())
	}
}

func TestCourseCodeJSON(t *testing.T) {
	payload, err := json.Marshal(struct {
		Code CourseCode `json:"code"`
	}{Code: MustCourseCode("ma0201")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"MA0201"}`, string(payload))

	var decoded struct {
		Code CourseCode `json:"code"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"code":"ph0100"}`), &decoded))
	assert.Equal(t, MustCourseCode("PH0100"), decoded.Code)
	assert.Error(t, json.Unmarshal([]byte(`{"code":"bad"}`), &decoded))
}

func TestGradeScale(t *testing.T) {
	expected := map[Grade]float64{
		GradeSuperior: 4.0, GradeA: 4.0, GradeB: 3.0, GradeC: 2.0,
		GradeD: 1.0, GradeF: 0.0, GradeIncomplete: 0.0,
	}
	for _, g := range Grades() {
		assert.Equal(t, expected[g], g.Points(), g)
		assert.NotEmpty(t, g.Description())
	}
	assert.Equal(t, "Incomplete", GradeIncomplete.Description())

	g, err := ParseGrade(" b ")
	require.NoError(t, err)
	assert.Equal(t, GradeB, g)

	_, err = ParseGrade("E")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestSemester(t *testing.T) {
	s, err := ParseSemester("Fall")
	require.NoError(t, err)
	assert.Equal(t, SemesterFall, s)
	assert.Equal(t, "Fall", s.DisplayName())
	assert.Equal(t, 3, s.Order())
	assert.Equal(t, 1, SemesterSpring.Order())

	_, err = ParseSemester("Winter")
	assert.Error(t, err)
}

func TestCourseBuilder(t *testing.T) {
	instructor := &Instructor{ID: "I01", FullName: "Ada Lovelace"}
	course, err := NewCourseBuilder().
		Code(MustCourseCode("CS0101")).
		Title("Intro CS").
		Credits(3).
		Instructor(instructor).
		Semester(SemesterFall).
		Department("CSE").
		Build()
	require.NoError(t, err)
	assert.True(t, course.Active)
	assert.Equal(t, "Ada Lovelace", course.InstructorName())

	instructor.FullName = "changed"
	assert.Equal(t, "Ada Lovelace", course.InstructorName())

	noInstructor, err := NewCourseBuilder().Code(MustCourseCode("CS0102")).Title("Data").Credits(6).Semester(SemesterSpring).Department("CSE").Build()
	require.NoError(t, err)
	assert.Equal(t, "TBD", noInstructor.InstructorName())
}

func TestCourseBuilderValidation(t *testing.T) {
	valid := func() *CourseBuilder {
		return NewCourseBuilder().Code(MustCourseCode("CS0101")).Title("Intro").Credits(3).Semester(SemesterFall).Department("CSE")
	}
	cases := map[string]*CourseBuilder{
		"zero credits":    valid().Credits(0),
		"seven credits":   valid().Credits(7),
		"missing code":    valid().Code(CourseCode{}),
		"missing title":   valid().Title(" "),
		"missing term":    valid().Semester(""),
		"missing dept":    valid().Department(""),
		"unknown term":    valid().Semester("WINTER"),
		"negative credit": valid().Credits(-1),
	}
	for name, builder := range cases {
		course, err := builder.Build()
		assert.Nil(t, course, name)
		assert.True(t, errors.Is(err, appErrors.ErrValidation), name)
	}
}

func TestNewStudent(t *testing.T) {
	student, err := NewStudent("S001", "John Doe", "john@email.com", "REG001")
	require.NoError(t, err)
	assert.True(t, student.Active)

	_, err = NewStudent("", "Nobody", "", "")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestTranscriptText(t *testing.T) {
	transcript := Transcript{
		StudentName: "John Doe",
		GPA:         3.0,
		Entries: []TranscriptEntry{
			{CourseCode: "CS0101", Grade: GradeA, EnrolledOn: time.Now()},
			{CourseCode: "MA0101", Grade: GradeC, EnrolledOn: time.Now()},
		},
	}
	assert.Equal(t, "Transcript for John Doe\nGPA: 3.00\nGrades: [A, C]", transcript.Text())
}

func TestPaginationBounds(t *testing.T) {
	cases := []struct {
		name       string
		page, size int
		total      int
		start, end int
	}{
		{name: "first page", page: 1, size: 2, total: 5, start: 0, end: 2},
		{name: "last partial page", page: 3, size: 2, total: 5, start: 4, end: 5},
		{name: "past the end", page: 4, size: 2, total: 5, start: 5, end: 5},
		{name: "empty", page: 1, size: 20, total: 0, start: 0, end: 0},
		{name: "huge page", page: math.MaxInt64 / 50, size: 100, total: 3, start: 3, end: 3},
		{name: "max page", page: math.MaxInt64, size: 100, total: 3, start: 3, end: 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := NewPagination(tc.page, tc.size, tc.total).Bounds()
			assert.Equal(t, tc.start, start)
			assert.Equal(t, tc.end, end)
		})
	}

	start, end := (&Pagination{Page: 2, PageSize: 0, TotalCount: 5}).Bounds()
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}
