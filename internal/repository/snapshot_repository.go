package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-records/internal/models"
)

// SnapshotRepository mirrors the student roster into Postgres during backups.
// Each save replaces the previous snapshot.
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository constructs a SnapshotRepository.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

type studentSnapshotRow struct {
	models.Student
	SnapshotAt time.Time `db:"snapshot_at"`
}

// SaveStudents replaces the snapshot table contents inside one transaction.
// A nil repository saves nothing.
func (r *SnapshotRepository) SaveStudents(ctx context.Context, students []models.Student) (int, error) {
	if r == nil {
		return 0, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin student snapshot tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM student_snapshots`); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("clear student snapshots: %w", err)
	}
	const query = `INSERT INTO student_snapshots (id, full_name, email, reg_no, active, created_at, snapshot_at)
VALUES (:id, :full_name, :email, :reg_no, :active, :created_at, :snapshot_at)`
	now := time.Now().UTC()
	for _, s := range students {
		row := studentSnapshotRow{Student: s, SnapshotAt: now}
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert student snapshot %s: %w", s.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit student snapshot tx: %w", err)
	}
	return len(students), nil
}

// LoadStudents returns the most recent snapshot ordered by student ID.
func (r *SnapshotRepository) LoadStudents(ctx context.Context) ([]models.Student, error) {
	const query = `SELECT id, full_name, email, reg_no, active, created_at FROM student_snapshots ORDER BY id`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("load student snapshots: %w", err)
	}
	return students, nil
}
