package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-records/internal/models"
	appErrors "github.com/noah-isme/campus-records/pkg/errors"
	"github.com/noah-isme/campus-records/pkg/export"
)

// Default file names inside the data folder.
const (
	StudentsFile = "students.csv"
	CoursesFile  = "courses.csv"
	RosterFile   = "roster.xlsx"
)

var (
	studentHeaders = []string{"id", "fullName", "email", "regNo"}
	courseHeaders  = []string{"code", "title", "credits", "semester", "department", "instructor", "active"}
)

type dataStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Exists(filename string) bool
}

type rosterStudents interface {
	AddIfAbsent(student *models.Student) (bool, error)
	List() []models.Student
}

type rosterCourses interface {
	List() []models.Course
}

type transcriptSource interface {
	TranscriptFor(ctx context.Context, studentID string) (*models.Transcript, error)
}

type csvCodec interface {
	Render(data export.Dataset) ([]byte, error)
	Parse(r io.Reader) ([]string, [][]string, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string, summary ...string) ([]byte, error)
}

type workbookRenderer interface {
	Render(sheets ...export.Sheet) ([]byte, error)
}

// ImportExportService moves roster data between the stores and files in the
// configured data folder.
type ImportExportService struct {
	storage     dataStorage
	students    rosterStudents
	courses     rosterCourses
	transcripts transcriptSource
	csv         csvCodec
	pdf         pdfRenderer
	xlsx        workbookRenderer
	logger      *zap.Logger
}

// NewImportExportService constructs ImportExportService.
func NewImportExportService(store dataStorage, students rosterStudents, courses rosterCourses, transcripts transcriptSource, csv csvCodec, pdf pdfRenderer, xlsx workbookRenderer, logger *zap.Logger) *ImportExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	return &ImportExportService{
		storage:     store,
		students:    students,
		courses:     courses,
		transcripts: transcripts,
		csv:         csv,
		pdf:         pdf,
		xlsx:        xlsx,
		logger:      logger,
	}
}

// ExportStudents writes every student to filename, header row first.
func (s *ImportExportService) ExportStudents(ctx context.Context, filename string) (*models.ExportResult, error) {
	filename = orDefault(filename, StudentsFile)
	dataset := studentDataset(s.students.List())
	raw, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render students")
	}
	return s.save(filename, raw, len(dataset.Rows))
}

// ImportStudents adds students from filename. The header row is skipped, as
// are rows with fewer than four fields and IDs already registered.
func (s *ImportExportService) ImportStudents(ctx context.Context, filename string) (*models.ImportResult, error) {
	filename = orDefault(filename, StudentsFile)
	if !s.storage.Exists(filename) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "import file not found")
	}
	file, err := s.storage.Open(filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open import file")
	}
	defer file.Close() //nolint:errcheck

	_, records, err := s.csv.Parse(file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed import file")
	}

	result := &models.ImportResult{File: filename}
	for _, record := range records {
		if len(record) < len(studentHeaders) {
			result.Skipped++
			continue
		}
		id := strings.TrimSpace(record[0])
		student, err := models.NewStudent(id, strings.TrimSpace(record[1]), strings.TrimSpace(record[2]), strings.TrimSpace(record[3]))
		if err != nil {
			result.Skipped++
			continue
		}
		added, err := s.students.AddIfAbsent(student)
		if err != nil {
			return nil, err
		}
		if !added {
			result.Skipped++
			continue
		}
		result.Imported++
	}
	s.logger.Info("students imported", zap.String("file", filename), zap.Int("imported", result.Imported), zap.Int("skipped", result.Skipped))
	return result, nil
}

// ExportCourses writes the catalogue to filename.
func (s *ImportExportService) ExportCourses(ctx context.Context, filename string) (*models.ExportResult, error) {
	filename = orDefault(filename, CoursesFile)
	dataset := courseDataset(s.courses.List())
	raw, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render courses")
	}
	return s.save(filename, raw, len(dataset.Rows))
}

// ExportRosterWorkbook writes students and courses as two worksheets.
func (s *ImportExportService) ExportRosterWorkbook(ctx context.Context, filename string) (*models.ExportResult, error) {
	filename = orDefault(filename, RosterFile)
	students := studentDataset(s.students.List())
	courses := courseDataset(bySemester(s.courses.List()))
	raw, err := s.xlsx.Render(
		export.Sheet{Name: "Students", Data: students},
		export.Sheet{Name: "Courses", Data: courses},
	)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
	}
	return s.save(filename, raw, len(students.Rows)+len(courses.Rows))
}

// ExportTranscriptPDF renders the student's transcript as a PDF document.
func (s *ImportExportService) ExportTranscriptPDF(ctx context.Context, studentID string) ([]byte, error) {
	transcript, err := s.transcripts.TranscriptFor(ctx, studentID)
	if err != nil {
		return nil, err
	}
	dataset := export.Dataset{Headers: []string{"Course", "Credits", "Grade", "Points", "Enrolled"}}
	graded := 0
	for _, entry := range transcript.Entries {
		if entry.Grade != models.GradeIncomplete {
			graded++
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Course":   entry.CourseCode,
			"Credits":  strconv.Itoa(entry.Credits),
			"Grade":    fmt.Sprintf("%s (%s)", entry.Grade, entry.Grade.Description()),
			"Points":   strconv.FormatFloat(entry.Points, 'f', 1, 64),
			"Enrolled": entry.EnrolledOn.Format("2006-01-02"),
		})
	}
	raw, err := s.pdf.Render(dataset,
		"Transcript for "+transcript.StudentName,
		"Student ID: "+transcript.StudentID,
		fmt.Sprintf("GPA: %.2f", transcript.GPA),
		fmt.Sprintf("Graded: %d of %d", graded, len(transcript.Entries)),
	)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render transcript")
	}
	return raw, nil
}

func (s *ImportExportService) save(filename string, raw []byte, rows int) (*models.ExportResult, error) {
	if _, err := s.storage.Save(filename, raw); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write export")
	}
	s.logger.Info("export written", zap.String("file", filename), zap.Int("rows", rows))
	return &models.ExportResult{File: filename, Rows: rows}, nil
}

func studentDataset(students []models.Student) export.Dataset {
	dataset := export.Dataset{Headers: studentHeaders, Rows: make([]map[string]string, 0, len(students))}
	for _, st := range students {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"id":       st.ID,
			"fullName": st.FullName,
			"email":    st.Email,
			"regNo":    st.RegNo,
		})
	}
	return dataset
}

func courseDataset(courses []models.Course) export.Dataset {
	dataset := export.Dataset{Headers: courseHeaders, Rows: make([]map[string]string, 0, len(courses))}
	for _, c := range courses {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"code":       c.Code.String(),
			"title":      c.Title,
			"credits":    strconv.Itoa(c.Credits),
			"semester":   c.Semester.DisplayName(),
			"department": c.Department,
			"instructor": c.InstructorName(),
			"active":     strconv.FormatBool(c.Active),
		})
	}
	return dataset
}

// bySemester orders courses Spring, Summer, Fall, keeping catalogue order
// within a semester.
func bySemester(courses []models.Course) []models.Course {
	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].Semester.Order() < courses[j].Semester.Order()
	})
	return courses
}

func orDefault(filename, fallback string) string {
	if strings.TrimSpace(filename) == "" {
		return fallback
	}
	return filename
}
