package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-records/internal/models"
	appErrors "github.com/noah-isme/campus-records/pkg/errors"
)

type enrollmentView interface {
	Enrollments(studentID string) []models.Enrollment
	Revision(studentID string) uint64
}

type studentDirectory interface {
	FindByID(id string) (models.Student, bool)
	Revision() uint64
}

type creditSource interface {
	CreditDistribution() map[int]int
	Revision() uint64
}

type reportCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Invalidate(ctx context.Context, pattern string) error
}

// ReportService derives GPA, transcripts and the credit distribution from
// current state. It never mutates records.
//
// Revision counters are local to the process, so cache keys also carry an
// instance id. A restarted process or a second replica sharing the cache
// never reads entries computed from another process's state.
type ReportService struct {
	enrollments enrollmentView
	students    studentDirectory
	courses     creditSource
	cache       reportCache
	instance    string
	logger      *zap.Logger
}

// NewReportService constructs ReportService. cache may be nil.
func NewReportService(enrollments enrollmentView, students studentDirectory, courses creditSource, cache reportCache, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		enrollments: enrollments,
		students:    students,
		courses:     courses,
		cache:       cache,
		instance:    uuid.NewString(),
		logger:      logger,
	}
}

// ComputeGPA averages the grade points of every current enrollment,
// incomplete ones included. A student with no enrollments has a GPA of 0.
func (s *ReportService) ComputeGPA(studentID string) float64 {
	return meanPoints(s.enrollments.Enrollments(studentID))
}

// StudentGPA is ComputeGPA for a student that must exist.
func (s *ReportService) StudentGPA(ctx context.Context, studentID string) (float64, error) {
	if _, ok := s.students.FindByID(studentID); !ok {
		return 0, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return s.ComputeGPA(studentID), nil
}

// GenerateTranscript summarises student's current record.
func (s *ReportService) GenerateTranscript(ctx context.Context, student *models.Student) (*models.Transcript, error) {
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student is required")
	}

	enrollRev := s.enrollments.Revision(student.ID)
	key := fmt.Sprintf("transcript:%s:%s:%d:%d", student.ID, s.instance, s.students.Revision(), enrollRev)
	var cached models.Transcript
	if s.cache != nil && s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	enrollments := s.enrollments.Enrollments(student.ID)
	entries := make([]models.TranscriptEntry, 0, len(enrollments))
	for _, e := range enrollments {
		entries = append(entries, models.TranscriptEntry{
			CourseCode: e.CourseCode.String(),
			Credits:    e.Credits,
			Grade:      e.Grade,
			Points:     e.Grade.Points(),
			EnrolledOn: e.EnrolledOn,
		})
	}
	transcript := &models.Transcript{
		StudentID:   student.ID,
		StudentName: student.FullName,
		GPA:         meanPoints(enrollments),
		Entries:     entries,
		Revision:    enrollRev,
	}
	if s.cache != nil {
		s.cache.Set(ctx, key, transcript, 0)
	}
	return transcript, nil
}

// TranscriptFor resolves studentID and generates the transcript.
func (s *ReportService) TranscriptFor(ctx context.Context, studentID string) (*models.Transcript, error) {
	student, ok := s.students.FindByID(studentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return s.GenerateTranscript(ctx, &student)
}

// CreditDistribution counts active courses per credit value.
func (s *ReportService) CreditDistribution(ctx context.Context) map[int]int {
	key := fmt.Sprintf("credits:%s:%d", s.instance, s.courses.Revision())
	var cached map[int]int
	if s.cache != nil && s.cache.Get(ctx, key, &cached) {
		return cached
	}
	distribution := s.courses.CreditDistribution()
	if s.cache != nil {
		s.cache.Set(ctx, key, distribution, 0)
	}
	return distribution
}

// CreditBuckets is CreditDistribution ordered by credit value.
func (s *ReportService) CreditBuckets(ctx context.Context) []models.CreditBucket {
	distribution := s.CreditDistribution(ctx)
	buckets := make([]models.CreditBucket, 0, len(distribution))
	for credits, count := range distribution {
		buckets = append(buckets, models.CreditBucket{Credits: credits, Courses: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Credits < buckets[j].Credits })
	return buckets
}

// EvictStudent drops cached transcripts for studentID. Entries are keyed by
// revision so this only reclaims space early.
func (s *ReportService) EvictStudent(ctx context.Context, studentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "transcript:"+studentID+":*"); err != nil {
		s.logger.Warn("evict transcripts", zap.String("student_id", studentID), zap.Error(err))
	}
}

func meanPoints(enrollments []models.Enrollment) float64 {
	if len(enrollments) == 0 {
		return 0
	}
	total := decimal.Zero
	for _, e := range enrollments {
		total = total.Add(decimal.NewFromFloat(e.Grade.Points()))
	}
	return total.Div(decimal.NewFromInt(int64(len(enrollments)))).InexactFloat64()
}
