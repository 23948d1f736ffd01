package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-records/internal/dto"
	"github.com/noah-isme/campus-records/internal/models"
	appErrors "github.com/noah-isme/campus-records/pkg/errors"
)

type studentStore interface {
	AddIfAbsent(student *models.Student) (bool, error)
	FindByID(id string) (models.Student, bool)
	UpdateName(id, fullName string) bool
	UpdateEmail(id, email string) bool
	Deactivate(id string) bool
	Search(match func(models.Student) bool) []models.Student
	SortedRegNos() []string
}

type studentRecordView interface {
	Enrollments(studentID string) []models.Enrollment
	TotalCredits(studentID string) int
}

type studentReports interface {
	ComputeGPA(studentID string) float64
	EvictStudent(ctx context.Context, studentID string)
}

// StudentService coordinates student registration and lookups.
type StudentService struct {
	repo      studentStore
	records   studentRecordView
	reports   studentReports
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs StudentService. records and reports may be nil.
func NewStudentService(repo studentStore, records studentRecordView, reports studentReports, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, records: records, reports: reports, validator: validate, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter dto.StudentFilter) ([]models.Student, *models.Pagination, error) {
	term := strings.ToLower(strings.TrimSpace(filter.Search))
	students := s.repo.Search(func(st models.Student) bool {
		if filter.Active != nil && st.Active != *filter.Active {
			return false
		}
		if term == "" {
			return true
		}
		return strings.Contains(strings.ToLower(st.ID), term) ||
			strings.Contains(strings.ToLower(st.FullName), term) ||
			strings.Contains(strings.ToLower(st.Email), term) ||
			strings.Contains(strings.ToLower(st.RegNo), term)
	})
	pagination := models.NewPagination(filter.Page, filter.PageSize, len(students))
	start, end := pagination.Bounds()
	return students[start:end], pagination, nil
}

// Get returns the student together with the engine's view of their load.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentDetail, error) {
	student, ok := s.repo.FindByID(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	detail := &models.StudentDetail{Student: student, Enrollments: []models.Enrollment{}}
	if s.records != nil {
		detail.Enrollments = s.records.Enrollments(id)
		detail.TotalCredits = s.records.TotalCredits(id)
	}
	if s.reports != nil {
		detail.GPA = s.reports.ComputeGPA(id)
	}
	return detail, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	id := strings.TrimSpace(req.ID)
	student, err := models.NewStudent(id, strings.TrimSpace(req.FullName), strings.TrimSpace(req.Email), strings.TrimSpace(req.RegNo))
	if err != nil {
		return nil, err
	}
	added, err := s.repo.AddIfAbsent(student)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student id already used")
	}
	s.logger.Info("student registered", zap.String("student_id", student.ID))
	return student, nil
}

// Update changes the name and/or email of an existing student.
func (s *StudentService) Update(ctx context.Context, id string, req dto.UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if _, ok := s.repo.FindByID(id); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if name := strings.TrimSpace(req.FullName); name != "" {
		s.repo.UpdateName(id, name)
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		s.repo.UpdateEmail(id, email)
	}
	s.evict(ctx, id)
	student, _ := s.repo.FindByID(id)
	return &student, nil
}

// Deactivate marks student inactive. Existing enrollments are kept.
func (s *StudentService) Deactivate(ctx context.Context, id string) error {
	if !s.repo.Deactivate(id) {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	s.evict(ctx, id)
	s.logger.Info("student deactivated", zap.String("student_id", id))
	return nil
}

// RegNos lists registration numbers in sorted order.
func (s *StudentService) RegNos(ctx context.Context) []string {
	return s.repo.SortedRegNos()
}

// Enrollments lists the student's current enrollments.
func (s *StudentService) Enrollments(ctx context.Context, id string) ([]models.Enrollment, error) {
	if _, ok := s.repo.FindByID(id); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if s.records == nil {
		return []models.Enrollment{}, nil
	}
	return s.records.Enrollments(id), nil
}

func (s *StudentService) evict(ctx context.Context, id string) {
	if s.reports != nil {
		s.reports.EvictStudent(ctx, id)
	}
}
