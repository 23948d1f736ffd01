package repository

import (
	"sort"
	"strings"
	"sync"

	"github.com/noah-isme/campus-records/internal/models"
	appErrors "github.com/noah-isme/campus-records/pkg/errors"
)

// CourseRepository keeps courses in insertion order keyed by course code.
// Like StudentRepository it leaves uniqueness to the caller.
type CourseRepository struct {
	mu       sync.RWMutex
	courses  []*models.Course
	revision uint64
}

// NewCourseRepository constructs an empty CourseRepository.
func NewCourseRepository() *CourseRepository {
	return &CourseRepository{}
}

// Add appends the course.
func (r *CourseRepository) Add(course *models.Course) error {
	if course == nil {
		return appErrors.Clone(appErrors.ErrValidation, "course is required")
	}
	copied := cloneCourse(course)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.courses = append(r.courses, copied)
	r.revision++
	return nil
}

// AddIfAbsent appends the course unless its code is already stored.
func (r *CourseRepository) AddIfAbsent(course *models.Course) (bool, error) {
	if course == nil {
		return false, appErrors.Clone(appErrors.ErrValidation, "course is required")
	}
	copied := cloneCourse(course)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.find(copied.Code.String()) != nil {
		return false, nil
	}
	r.courses = append(r.courses, copied)
	r.revision++
	return true, nil
}

// List returns a copy of every course.
func (r *CourseRepository) List() []models.Course {
	return r.Search(func(models.Course) bool { return true })
}

// FindByCode returns the course with the given code, compared case-insensitively.
func (r *CourseRepository) FindByCode(code string) (models.Course, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c := r.find(code); c != nil {
		return *cloneCourse(c), true
	}
	return models.Course{}, false
}

// UpdateTitle sets the title. Unknown codes are ignored.
func (r *CourseRepository) UpdateTitle(code, title string) bool {
	return r.mutate(code, func(c *models.Course) { c.Title = title })
}

// Deactivate clears the active flag. Unknown codes are ignored.
func (r *CourseRepository) Deactivate(code string) bool {
	return r.mutate(code, func(c *models.Course) { c.Active = false })
}

// Search returns every course satisfying match.
func (r *CourseRepository) Search(match func(models.Course) bool) []models.Course {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Course, 0, len(r.courses))
	for _, c := range r.courses {
		copied := cloneCourse(c)
		if match(*copied) {
			out = append(out, *copied)
		}
	}
	return out
}

// ByInstructor returns courses taught by the instructor with the given ID.
func (r *CourseRepository) ByInstructor(instructorID string) []models.Course {
	return r.Search(func(c models.Course) bool {
		return c.Instructor != nil && c.Instructor.ID == instructorID
	})
}

// ByDepartment returns courses offered by department, ignoring case.
func (r *CourseRepository) ByDepartment(department string) []models.Course {
	return r.Search(func(c models.Course) bool { return strings.EqualFold(c.Department, department) })
}

// BySemester returns courses running in semester.
func (r *CourseRepository) BySemester(semester models.Semester) []models.Course {
	return r.Search(func(c models.Course) bool { return c.Semester == semester })
}

// CreditDistribution counts active courses per credit value.
func (r *CourseRepository) CreditDistribution() map[int]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dist := make(map[int]int)
	for _, c := range r.courses {
		if c.Active {
			dist[c.Credits]++
		}
	}
	return dist
}

// SortedByTitle returns a snapshot ordered by title; equal titles keep insertion order.
func (r *CourseRepository) SortedByTitle() []models.Course {
	courses := r.List()
	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].Title < courses[j].Title
	})
	return courses
}

// Revision increases on every mutation.
func (r *CourseRepository) Revision() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

func (r *CourseRepository) mutate(code string, apply func(*models.Course)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.find(code)
	if c == nil {
		return false
	}
	apply(c)
	r.revision++
	return true
}

func (r *CourseRepository) find(code string) *models.Course {
	code = strings.TrimSpace(code)
	for _, c := range r.courses {
		if c.Code.Matches(code) {
			return c
		}
	}
	return nil
}

func cloneCourse(c *models.Course) *models.Course {
	copied := *c
	if c.Instructor != nil {
		instructor := *c.Instructor
		copied.Instructor = &instructor
	}
	return &copied
}
