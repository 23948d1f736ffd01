package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-records/internal/models"
	"github.com/noah-isme/campus-records/internal/repository"
)

type failingCacheRepository struct{}

func (failingCacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("redis unavailable")
}

func (failingCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("redis unavailable")
}

func (failingCacheRepository) DeleteByPattern(ctx context.Context, pattern string) error {
	return errors.New("redis unavailable")
}

func TestCacheServiceWithRedis(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	metrics := NewMetricsService()
	svc := NewCacheService(repository.NewCacheRepository(client, "test:", zap.NewNop()), metrics, time.Minute, zap.NewNop(), true)
	require.True(t, svc.Enabled())
	ctx := context.Background()

	var transcript models.Transcript
	assert.False(t, svc.Get(ctx, "transcript:S001:1:1", &transcript))

	svc.Set(ctx, "transcript:S001:1:1", models.Transcript{StudentID: "S001", GPA: 3.5}, 0)
	require.True(t, svc.Get(ctx, "transcript:S001:1:1", &transcript))
	assert.Equal(t, 3.5, transcript.GPA)
	assert.Equal(t, time.Minute, server.TTL("test:transcript:S001:1:1"))

	require.NoError(t, svc.Invalidate(ctx, "transcript:S001:*"))
	assert.False(t, svc.Get(ctx, "transcript:S001:1:1", &transcript))

	snapshot := metrics.Snapshot()
	assert.InDelta(t, 1.0/3.0, snapshot.CacheHitRatio, 0.0001)
}

func TestCacheServiceDisabledOrFailing(t *testing.T) {
	ctx := context.Background()
	var dest map[int]int

	var nilService *CacheService
	assert.False(t, nilService.Enabled())
	assert.False(t, nilService.Get(ctx, "credits:1", &dest))
	nilService.Set(ctx, "credits:1", map[int]int{3: 1}, 0)
	assert.NoError(t, nilService.Invalidate(ctx, "*"))

	disabled := NewCacheService(failingCacheRepository{}, nil, 0, nil, false)
	assert.False(t, disabled.Enabled())
	assert.NoError(t, disabled.Invalidate(ctx, "*"))

	failing := NewCacheService(failingCacheRepository{}, nil, 0, nil, true)
	assert.False(t, failing.Get(ctx, "credits:1", &dest))
	failing.Set(ctx, "credits:1", map[int]int{3: 1}, 0)
	assert.Error(t, failing.Invalidate(ctx, "*"))
}

func TestReportServiceInstancesSharingRedisDoNotMixState(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	newProcess := func(grade models.Grade, credits int) *ReportService {
		students := repository.NewStudentRepository()
		courses := repository.NewCourseRepository()
		engine := NewEnrollmentService(students, courses, nil, nil, zap.NewNop())
		cache := NewCacheService(repository.NewCacheRepository(client, "shared:", zap.NewNop()), nil, time.Minute, zap.NewNop(), true)
		reports := NewReportService(engine, students, courses, cache, zap.NewNop())

		student := testStudent(t, "S001")
		require.NoError(t, students.Add(student))
		course := testCourse(t, "CS0101", credits)
		require.NoError(t, courses.Add(course))
		_, err := engine.Enroll(ctx, student, course)
		require.NoError(t, err)
		_, err = engine.RecordGrade(ctx, "S001", "CS0101", grade)
		require.NoError(t, err)
		return reports
	}

	first := newProcess(models.GradeA, 3)
	transcript, err := first.TranscriptFor(ctx, "S001")
	require.NoError(t, err)
	assert.Equal(t, 4.0, transcript.GPA)
	assert.Equal(t, map[int]int{3: 1}, first.CreditDistribution(ctx))

	second := newProcess(models.GradeC, 4)
	transcript, err = second.TranscriptFor(ctx, "S001")
	require.NoError(t, err)
	assert.Equal(t, 2.0, second.ComputeGPA("S001"))
	assert.Equal(t, 2.0, transcript.GPA)
	assert.Equal(t, []models.Grade{models.GradeC}, transcript.Grades())
	assert.Equal(t, map[int]int{4: 1}, second.CreditDistribution(ctx))

	again, err := first.TranscriptFor(ctx, "S001")
	require.NoError(t, err)
	assert.Equal(t, []models.Grade{models.GradeA}, again.Grades())
}
