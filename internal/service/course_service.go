package service

import (
	"context"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-records/internal/dto"
	"github.com/noah-isme/campus-records/internal/models"
	appErrors "github.com/noah-isme/campus-records/pkg/errors"
)

type courseStore interface {
	AddIfAbsent(course *models.Course) (bool, error)
	FindByCode(code string) (models.Course, bool)
	UpdateTitle(code, title string) bool
	Deactivate(code string) bool
	List() []models.Course
	ByInstructor(instructorID string) []models.Course
	ByDepartment(department string) []models.Course
	BySemester(semester models.Semester) []models.Course
	SortedByTitle() []models.Course
}

// CourseService manages the course catalogue.
type CourseService struct {
	repo      courseStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(repo courseStore, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// List filters courses by instructor, department and semester. All filters
// combine; SortByTitle orders by title instead of insertion order.
func (s *CourseService) List(ctx context.Context, filter dto.CourseFilter) ([]models.Course, *models.Pagination, error) {
	var semester models.Semester
	if strings.TrimSpace(filter.Semester) != "" {
		parsed, err := models.ParseSemester(filter.Semester)
		if err != nil {
			return nil, nil, err
		}
		semester = parsed
	}

	// Seed from the narrowest store query, then apply the remaining filters.
	var courses []models.Course
	switch {
	case filter.InstructorID != "":
		courses = s.repo.ByInstructor(filter.InstructorID)
	case filter.Department != "":
		courses = s.repo.ByDepartment(filter.Department)
	case semester != "":
		courses = s.repo.BySemester(semester)
	case filter.SortByTitle:
		courses = s.repo.SortedByTitle()
	default:
		courses = s.repo.List()
	}

	filtered := courses[:0]
	for _, c := range courses {
		if filter.Department != "" && !strings.EqualFold(c.Department, filter.Department) {
			continue
		}
		if semester != "" && c.Semester != semester {
			continue
		}
		filtered = append(filtered, c)
	}
	courses = filtered
	if filter.SortByTitle {
		sort.SliceStable(courses, func(i, j int) bool { return courses[i].Title < courses[j].Title })
	}
	if courses == nil {
		courses = []models.Course{}
	}
	pagination := models.NewPagination(filter.Page, filter.PageSize, len(courses))
	start, end := pagination.Bounds()
	return courses[start:end], pagination, nil
}

// Get returns a course by code.
func (s *CourseService) Get(ctx context.Context, code string) (*models.Course, error) {
	course, ok := s.repo.FindByCode(code)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return &course, nil
}

// Create validates the payload, builds the course and stores it.
func (s *CourseService) Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	code, err := models.NewCourseCode(strings.TrimSpace(req.Code))
	if err != nil {
		return nil, err
	}
	semester, err := models.ParseSemester(req.Semester)
	if err != nil {
		return nil, err
	}

	builder := models.NewCourseBuilder().
		Code(code).
		Title(strings.TrimSpace(req.Title)).
		Credits(req.Credits).
		Semester(semester).
		Department(strings.TrimSpace(req.Department))
	if req.Instructor != nil {
		builder.Instructor(&models.Instructor{
			ID:         req.Instructor.ID,
			FullName:   req.Instructor.FullName,
			Email:      req.Instructor.Email,
			Department: req.Instructor.Department,
		})
	}
	course, err := builder.Build()
	if err != nil {
		return nil, err
	}
	added, err := s.repo.AddIfAbsent(course)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course code already used")
	}
	s.logger.Info("course created", zap.String("course_code", course.Code.String()), zap.Int("credits", course.Credits))
	return course, nil
}

// UpdateTitle renames a course. Code and credits are immutable.
func (s *CourseService) UpdateTitle(ctx context.Context, code string, req dto.UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if !s.repo.UpdateTitle(code, strings.TrimSpace(req.Title)) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return s.Get(ctx, code)
}

// Deactivate withdraws the course from new enrollments and the credit report.
func (s *CourseService) Deactivate(ctx context.Context, code string) error {
	if !s.repo.Deactivate(code) {
		return appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	s.logger.Info("course deactivated", zap.String("course_code", strings.ToUpper(code)))
	return nil
}
