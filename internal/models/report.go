package models

import (
	"fmt"
	"strings"
	"time"
)

// TranscriptEntry is one enrollment as it appears on a transcript.
type TranscriptEntry struct {
	CourseCode string    `json:"course_code"`
	Credits    int       `json:"credits"`
	Grade      Grade     `json:"grade"`
	Points     float64   `json:"points"`
	EnrolledOn time.Time `json:"enrolled_on"`
}

// Transcript summarises a student's record at the time it was generated.
type Transcript struct {
	StudentID   string            `json:"student_id"`
	StudentName string            `json:"student_name"`
	GPA         float64           `json:"gpa"`
	Entries     []TranscriptEntry `json:"entries"`
	Revision    uint64            `json:"revision"`
}

// Grades returns the grades in enrollment order.
func (t Transcript) Grades() []Grade {
	grades := make([]Grade, 0, len(t.Entries))
	for _, entry := range t.Entries {
		grades = append(grades, entry.Grade)
	}
	return grades
}

// Text renders the plain-text transcript.
func (t Transcript) Text() string {
	symbols := make([]string, 0, len(t.Entries))
	for _, g := range t.Grades() {
		symbols = append(symbols, g.String())
	}
	return fmt.Sprintf("Transcript for %s\nGPA: %.2f\nGrades: [%s]", t.StudentName, t.GPA, strings.Join(symbols, ", "))
}

// CreditBucket is one row of the credit distribution report.
type CreditBucket struct {
	Credits int `json:"credits"`
	Courses int `json:"courses"`
}

// ImportResult reports the outcome of a bulk student import.
type ImportResult struct {
	File     string `json:"file"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

// ExportResult describes a file written to the data folder.
type ExportResult struct {
	File string `json:"file"`
	Rows int    `json:"rows"`
}

// BackupResult describes a completed backup.
type BackupResult struct {
	Path         string    `json:"path"`
	Files        []string  `json:"files"`
	SizeBytes    int64     `json:"size_bytes"`
	SnapshotRows int       `json:"snapshot_rows"`
	CreatedAt    time.Time `json:"created_at"`
}

// ServiceMetrics is a point-in-time summary of service counters.
type ServiceMetrics struct {
	RequestsTotal       uint64    `json:"requests_total"`
	EnrollmentsCreated  uint64    `json:"enrollments_created"`
	EnrollmentsRejected uint64    `json:"enrollments_rejected"`
	GradesRecorded      uint64    `json:"grades_recorded"`
	CacheHitRatio       float64   `json:"cache_hit_ratio"`
	Goroutines          int       `json:"goroutines"`
	GeneratedAt         time.Time `json:"generated_at"`
}
