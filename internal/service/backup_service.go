package service

import (
	"context"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-records/internal/models"
	"github.com/noah-isme/campus-records/pkg/config"
	appErrors "github.com/noah-isme/campus-records/pkg/errors"
	"github.com/noah-isme/campus-records/pkg/storage"
)

const backupTimestampLayout = "20060102_150405"

type backupStorage interface {
	MkdirAll(dir string) (string, error)
	Exists(filename string) bool
	CopyFile(src, dst string) error
	DirSize(dir string) (int64, error)
	Tree(dir string, maxDepth int) ([]storage.Entry, error)
}

type studentLister interface {
	List() []models.Student
}

type snapshotWriter interface {
	SaveStudents(ctx context.Context, students []models.Student) (int, error)
}

type backupObserver interface {
	ObserveBackup(sizeBytes int64)
}

// BackupService copies exported data files into timestamped folders.
type BackupService struct {
	storage   backupStorage
	students  studentLister
	snapshots snapshotWriter
	observer  backupObserver
	cfg       config.DataConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewBackupService constructs BackupService. snapshots and observer may be nil.
func NewBackupService(cfg config.DataConfig, store backupStorage, students studentLister, snapshots snapshotWriter, observer backupObserver, logger *zap.Logger) *BackupService {
	if cfg.BackupDirName == "" {
		cfg.BackupDirName = "backups"
	}
	if cfg.TreeMaxDepth <= 0 || cfg.TreeMaxDepth > 5 {
		cfg.TreeMaxDepth = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupService{
		storage:   store,
		students:  students,
		snapshots: snapshots,
		observer:  observer,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateBackup creates <backups>/<yyyyMMdd_HHmmss>/ and copies the student
// and course exports into it when they exist.
func (s *BackupService) CreateBackup(ctx context.Context) (*models.BackupResult, error) {
	createdAt := s.now()
	folder := path.Join(s.cfg.BackupDirName, createdAt.Format(backupTimestampLayout))
	if s.storage.Exists(folder) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "backup already exists for "+createdAt.Format(backupTimestampLayout))
	}
	if _, err := s.storage.MkdirAll(folder); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create backup folder")
	}

	result := &models.BackupResult{Path: folder, Files: []string{}, CreatedAt: createdAt.UTC()}
	for _, name := range []string{StudentsFile, CoursesFile} {
		if !s.storage.Exists(name) {
			continue
		}
		if err := s.storage.CopyFile(name, path.Join(folder, name)); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to copy "+name)
		}
		result.Files = append(result.Files, name)
	}

	size, err := s.storage.DirSize(folder)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to measure backup")
	}
	result.SizeBytes = size

	if s.snapshots != nil && s.students != nil {
		rows, err := s.snapshots.SaveStudents(ctx, s.students.List())
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write roster snapshot")
		}
		result.SnapshotRows = rows
	}

	if s.observer != nil {
		s.observer.ObserveBackup(size)
	}
	s.logger.Info("backup created",
		zap.String("path", folder),
		zap.Strings("files", result.Files),
		zap.Int64("size_bytes", size),
		zap.Int("snapshot_rows", result.SnapshotRows))
	return result, nil
}

// Tree lists the backup root. Depth outside 1..TreeMaxDepth uses TreeMaxDepth.
func (s *BackupService) Tree(ctx context.Context, maxDepth int) ([]storage.Entry, error) {
	if maxDepth <= 0 || maxDepth > s.cfg.TreeMaxDepth {
		maxDepth = s.cfg.TreeMaxDepth
	}
	if !s.storage.Exists(s.cfg.BackupDirName) {
		return []storage.Entry{}, nil
	}
	entries, err := s.storage.Tree(s.cfg.BackupDirName, maxDepth)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list backups")
	}
	return entries, nil
}
