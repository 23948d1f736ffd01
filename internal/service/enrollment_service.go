package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-records/internal/dto"
	"github.com/noah-isme/campus-records/internal/models"
	appErrors "github.com/noah-isme/campus-records/pkg/errors"
)

type studentReader interface {
	FindByID(id string) (models.Student, bool)
}

type courseReader interface {
	FindByCode(code string) (models.Course, bool)
}

type enrollmentObserver interface {
	ObserveEnrollment(outcome string)
	ObserveGrade(grade models.Grade)
}

// EnrollmentService is the enrollment engine. Its map is the only record of
// who is enrolled where; every read-modify-write runs under mu.
type EnrollmentService struct {
	mu          sync.Mutex
	enrollments map[string][]*models.Enrollment
	revisions   map[string]uint64

	students  studentReader
	courses   courseReader
	observer  enrollmentObserver
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(students studentReader, courses courseReader, observer enrollmentObserver, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		enrollments: make(map[string][]*models.Enrollment),
		revisions:   make(map[string]uint64),
		students:    students,
		courses:     courses,
		observer:    observer,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// Enroll adds course to the student's load. It fails with
// ErrDuplicateEnrollment when the pair already exists and with
// ErrCreditLimitExceeded when the load would pass MaxStudentCredits; in both
// cases nothing changes.
func (s *EnrollmentService) Enroll(ctx context.Context, student *models.Student, course *models.Course) (*models.Enrollment, error) {
	if student == nil || course == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student and course are required")
	}
	if course.Code.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course code is required")
	}

	enrollment, outcome, err := s.enroll(student.ID, course)
	s.observe(outcome)
	if err != nil {
		s.logger.Info("enrollment rejected",
			zap.String("student_id", student.ID),
			zap.String("course_code", course.Code.String()),
			zap.String("outcome", outcome))
		return nil, err
	}
	s.logger.Info("student enrolled",
		zap.String("student_id", student.ID),
		zap.String("course_code", course.Code.String()),
		zap.String("enrollment_id", enrollment.ID))
	return enrollment, nil
}

func (s *EnrollmentService) enroll(studentID string, course *models.Course) (*models.Enrollment, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.enrollments[studentID]
	total := 0
	for _, e := range current {
		if e.CourseCode == course.Code {
			return nil, OutcomeDuplicate, appErrors.Clone(appErrors.ErrDuplicateEnrollment,
				fmt.Sprintf("student %s already enrolled in %s", studentID, course.Code))
		}
		total += e.Credits
	}
	if total+course.Credits > models.MaxStudentCredits {
		return nil, OutcomeCreditLimit, appErrors.Clone(appErrors.ErrCreditLimitExceeded,
			fmt.Sprintf("enrolling in %s would bring %s to %d credits (max %d)", course.Code, studentID, total+course.Credits, models.MaxStudentCredits))
	}

	enrollment := &models.Enrollment{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		CourseCode: course.Code,
		Credits:    course.Credits,
		Grade:      models.GradeIncomplete,
		EnrolledOn: s.today(),
	}
	s.enrollments[studentID] = append(current, enrollment)
	s.revisions[studentID]++
	copied := *enrollment
	return &copied, OutcomeEnrolled, nil
}

// Unenroll removes the student's enrollment in courseCode. It reports whether
// one was removed; a missing enrollment is not an error.
func (s *EnrollmentService) Unenroll(ctx context.Context, studentID, courseCode string) bool {
	s.mu.Lock()
	removed := false
	current := s.enrollments[studentID]
	kept := current[:0]
	for _, e := range current {
		if !removed && e.CourseCode.Matches(strings.TrimSpace(courseCode)) {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if removed {
		for i := len(kept); i < len(current); i++ {
			current[i] = nil
		}
		s.enrollments[studentID] = kept
		s.revisions[studentID]++
	}
	s.mu.Unlock()

	if removed {
		s.observe(OutcomeUnenrolled)
		s.logger.Info("student unenrolled", zap.String("student_id", studentID), zap.String("course_code", courseCode))
	} else {
		s.observe(OutcomeUnenrollNoop)
	}
	return removed
}

// RecordGrade overwrites the grade on an existing enrollment. Any grade on the
// scale is accepted, including GradeIncomplete. It reports whether an
// enrollment matched; only an off-scale grade is an error.
func (s *EnrollmentService) RecordGrade(ctx context.Context, studentID, courseCode string, grade models.Grade) (bool, error) {
	if !grade.Valid() {
		return false, appErrors.Clone(appErrors.ErrValidation, "unknown grade "+grade.String())
	}

	s.mu.Lock()
	var target *models.Enrollment
	for _, e := range s.enrollments[studentID] {
		if e.CourseCode.Matches(strings.TrimSpace(courseCode)) {
			target = e
			break
		}
	}
	if target != nil {
		target.Grade = grade
		s.revisions[studentID]++
	}
	s.mu.Unlock()

	if target == nil {
		s.observe(OutcomeGradeNoMatch)
		return false, nil
	}
	if s.observer != nil {
		s.observer.ObserveGrade(grade)
	}
	s.observe(OutcomeGradeRecorded)
	s.logger.Info("grade recorded",
		zap.String("student_id", studentID),
		zap.String("course_code", courseCode),
		zap.String("grade", grade.String()))
	return true, nil
}

// Enrollments returns a copy of the student's enrollments in the order they were made.
func (s *EnrollmentService) Enrollments(studentID string) []models.Enrollment {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.enrollments[studentID]
	out := make([]models.Enrollment, 0, len(current))
	for _, e := range current {
		out = append(out, *e)
	}
	return out
}

// TotalCredits sums the credits of the student's current enrollments.
func (s *EnrollmentService) TotalCredits(studentID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, e := range s.enrollments[studentID] {
		total += e.Credits
	}
	return total
}

// Revision increases whenever the student's enrollments change.
func (s *EnrollmentService) Revision(studentID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revisions[studentID]
}

// EnrollStudent resolves the request against the record stores and enrolls.
func (s *EnrollmentService) EnrollStudent(ctx context.Context, req dto.EnrollRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	student, ok := s.students.FindByID(req.StudentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if !student.Active {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "student inactive")
	}
	course, ok := s.courses.FindByCode(req.CourseCode)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	if !course.Active {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "course inactive")
	}
	return s.Enroll(ctx, &student, &course)
}

// Drop is the front-door unenroll: unknown students and missing enrollments
// surface as not found.
func (s *EnrollmentService) Drop(ctx context.Context, studentID, courseCode string) error {
	if _, ok := s.students.FindByID(studentID); !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if !s.Unenroll(ctx, studentID, courseCode) {
		return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	return nil
}

// RecordGradeByRequest is the front-door RecordGrade.
func (s *EnrollmentService) RecordGradeByRequest(ctx context.Context, studentID, courseCode string, req dto.RecordGradeRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	grade, err := models.ParseGrade(req.Grade)
	if err != nil {
		return nil, err
	}
	if _, ok := s.students.FindByID(studentID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	matched, err := s.RecordGrade(ctx, studentID, courseCode, grade)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	for _, e := range s.Enrollments(studentID) {
		if e.CourseCode.Matches(courseCode) {
			return &e, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
}

func (s *EnrollmentService) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveEnrollment(outcome)
	}
}

func (s *EnrollmentService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
