package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-records/internal/models"
	"github.com/noah-isme/campus-records/internal/repository"
	"github.com/noah-isme/campus-records/pkg/config"
	appErrors "github.com/noah-isme/campus-records/pkg/errors"
	"github.com/noah-isme/campus-records/pkg/storage"
)

type stubSnapshotWriter struct {
	saved []models.Student
	err   error
}

func (s *stubSnapshotWriter) SaveStudents(ctx context.Context, students []models.Student) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.saved = students
	return len(students), nil
}

type stubBackupObserver struct {
	sizes []int64
}

func (s *stubBackupObserver) ObserveBackup(sizeBytes int64) {
	s.sizes = append(s.sizes, sizeBytes)
}

func TestBackupServiceCreateBackup(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	students := repository.NewStudentRepository()
	require.NoError(t, students.Add(testStudent(t, "S001")))
	_, err = store.Save(StudentsFile, []byte("id,fullName,email,regNo\nS001,Student S001,s001@campus.edu,R-S001\n"))
	require.NoError(t, err)

	snapshots := &stubSnapshotWriter{}
	observer := &stubBackupObserver{}
	svc := NewBackupService(config.DataConfig{}, store, students, snapshots, observer, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }

	result, err := svc.CreateBackup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "backups/20240309_140507", result.Path)
	assert.Equal(t, []string{StudentsFile}, result.Files)
	assert.Positive(t, result.SizeBytes)
	assert.Equal(t, 1, result.SnapshotRows)
	assert.Len(t, snapshots.saved, 1)
	assert.Equal(t, []int64{result.SizeBytes}, observer.sizes)
	assert.True(t, store.Exists("backups/20240309_140507/students.csv"))

	_, err = svc.CreateBackup(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	entries, err := svc.Tree(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "20240309_140507", entries[0].Path)
	assert.True(t, entries[0].IsDir)
	assert.Equal(t, "20240309_140507/students.csv", entries[1].Path)

	entries, err = svc.Tree(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBackupServiceWithoutExportsOrSnapshots(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewBackupService(config.DataConfig{BackupDirName: "archive", TreeMaxDepth: 9}, store, nil, nil, nil, nil)

	entries, err := svc.Tree(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, entries)

	result, err := svc.CreateBackup(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Zero(t, result.SizeBytes)
	assert.Zero(t, result.SnapshotRows)
	assert.Contains(t, result.Path, "archive/")
}

func TestBackupServiceSnapshotFailure(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewBackupService(config.DataConfig{}, store, repository.NewStudentRepository(), &stubSnapshotWriter{err: errors.New("db down")}, nil, nil)

	_, err = svc.CreateBackup(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}
