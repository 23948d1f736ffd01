package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-records/internal/models"
)

func buildCourse(t *testing.T, code, title string, credits int, semester models.Semester, dept string, instructor *models.Instructor) *models.Course {
	t.Helper()
	c, err := models.NewCourseBuilder().
		Code(models.MustCourseCode(code)).
		Title(title).
		Credits(credits).
		Semester(semester).
		Department(dept).
		Instructor(instructor).
		Build()
	require.NoError(t, err)
	return c
}

func seedCourses(t *testing.T) *CourseRepository {
	t.Helper()
	ada := &models.Instructor{ID: "I01", FullName: "Ada Lovelace", Department: "CSE"}
	repo := NewCourseRepository()
	require.NoError(t, repo.Add(buildCourse(t, "CS0101", "Intro CS", 3, models.SemesterFall, "CSE", ada)))
	require.NoError(t, repo.Add(buildCourse(t, "MA0101", "Calculus", 4, models.SemesterSpring, "MATH", nil)))
	require.NoError(t, repo.Add(buildCourse(t, "CS0201", "Algorithms", 3, models.SemesterSpring, "CSE", ada)))
	require.NoError(t, repo.Add(buildCourse(t, "PH0101", "Calculus", 2, models.SemesterSummer, "PHYS", nil)))
	return repo
}

func TestCourseRepositoryFindIsCaseInsensitive(t *testing.T) {
	repo := seedCourses(t)
	course, ok := repo.FindByCode("cs0101")
	require.True(t, ok)
	assert.Equal(t, "Intro CS", course.Title)

	course.Instructor.FullName = "mutated"
	again, _ := repo.FindByCode("CS0101")
	assert.Equal(t, "Ada Lovelace", again.Instructor.FullName)

	_, ok = repo.FindByCode("XX0000")
	assert.False(t, ok)
}

func TestCourseRepositoryFilters(t *testing.T) {
	repo := seedCourses(t)

	byInstructor := repo.ByInstructor("I01")
	require.Len(t, byInstructor, 2)
	assert.Equal(t, "CS0101", byInstructor[0].Code.String())
	assert.Equal(t, "CS0201", byInstructor[1].Code.String())

	assert.Len(t, repo.ByDepartment("MATH"), 1)
	assert.Len(t, repo.BySemester(models.SemesterSpring), 2)
	assert.Empty(t, repo.ByDepartment("ART"))
}

func TestCourseRepositoryCreditDistributionCountsActiveOnly(t *testing.T) {
	repo := seedCourses(t)
	assert.Equal(t, map[int]int{2: 1, 3: 2, 4: 1}, repo.CreditDistribution())

	require.True(t, repo.Deactivate("CS0101"))
	assert.Equal(t, map[int]int{2: 1, 3: 1, 4: 1}, repo.CreditDistribution())
	assert.Len(t, repo.List(), 4)

	require.True(t, repo.Deactivate("CS0201"))
	_, present := repo.CreditDistribution()[3]
	assert.False(t, present)
}

func TestCourseRepositorySortedByTitleIsStable(t *testing.T) {
	repo := seedCourses(t)
	sorted := repo.SortedByTitle()
	codes := make([]string, 0, len(sorted))
	for _, c := range sorted {
		codes = append(codes, c.Code.String())
	}
	assert.Equal(t, []string{"CS0201", "MA0101", "PH0101", "CS0101"}, codes)

	original := repo.List()
	assert.Equal(t, "CS0101", original[0].Code.String())
}

func TestCourseRepositoryUpdateTitleNoOpOnUnknown(t *testing.T) {
	repo := seedCourses(t)
	rev := repo.Revision()

	assert.False(t, repo.UpdateTitle("ZZ9999", "Nothing"))
	assert.Equal(t, rev, repo.Revision())

	assert.True(t, repo.UpdateTitle("ma0101", "Calculus I"))
	course, _ := repo.FindByCode("MA0101")
	assert.Equal(t, "Calculus I", course.Title)
	assert.Equal(t, 4, course.Credits)
}

func TestCourseRepositoryAddIfAbsentMatchesCodeCaseInsensitively(t *testing.T) {
	repo := NewCourseRepository()
	added, err := repo.AddIfAbsent(buildCourse(t, "CS0101", "Intro CS", 3, models.SemesterFall, "CSE", nil))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.AddIfAbsent(buildCourse(t, "cs0101", "Again", 4, models.SemesterSpring, "CSE", nil))
	require.NoError(t, err)
	assert.False(t, added)
	assert.Len(t, repo.List(), 1)
	assert.Equal(t, map[int]int{3: 1}, repo.CreditDistribution())
}
