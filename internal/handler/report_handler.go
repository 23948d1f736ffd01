package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-records/internal/middleware"
	"github.com/noah-isme/campus-records/internal/models"
	appErrors "github.com/noah-isme/campus-records/pkg/errors"
	"github.com/noah-isme/campus-records/pkg/response"
)

type reportReader interface {
	StudentGPA(ctx context.Context, studentID string) (float64, error)
	TranscriptFor(ctx context.Context, studentID string) (*models.Transcript, error)
	CreditBuckets(ctx context.Context) []models.CreditBucket
}

type transcriptRenderer interface {
	ExportTranscriptPDF(ctx context.Context, studentID string) ([]byte, error)
}

// ReportHandler serves derived academic reports.
type ReportHandler struct {
	reports reportReader
	pdf     transcriptRenderer
}

// NewReportHandler constructs ReportHandler. pdf may be nil, which disables format=pdf.
func NewReportHandler(reports reportReader, pdf transcriptRenderer) *ReportHandler {
	return &ReportHandler{reports: reports, pdf: pdf}
}

// GPA godoc
// @Summary Compute a student's GPA
// @Tags Reports
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/gpa [get]
func (h *ReportHandler) GPA(c *gin.Context) {
	id := c.Param("id")
	gpa, err := h.reports.StudentGPA(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"student_id": id, "gpa": gpa}, nil)
}

// Transcript godoc
// @Summary Generate a transcript
// @Tags Reports
// @Produce json
// @Produce plain
// @Produce application/pdf
// @Param id path string true "Student ID"
// @Param format query string false "json (default), text or pdf"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/transcript [get]
func (h *ReportHandler) Transcript(c *gin.Context) {
	id := c.Param("id")
	switch format := strings.ToLower(c.DefaultQuery("format", "json")); format {
	case "json":
		transcript, err := h.reports.TranscriptFor(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
		middleware.SetMeta(c, "revision", transcript.Revision)
		response.JSON(c, http.StatusOK, transcript, nil, middleware.ExtractMeta(c))
	case "text":
		transcript, err := h.reports.TranscriptFor(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Text(c, transcript.Text())
	case "pdf":
		if h.pdf == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrPreconditionFailed, "pdf rendering unavailable"))
			return
		}
		raw, err := h.pdf.ExportTranscriptPDF(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Attachment(c, "application/pdf", fmt.Sprintf("transcript-%s.pdf", id), raw)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unsupported format "+format))
	}
}

// CreditDistribution godoc
// @Summary Count active courses per credit value
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/credit-distribution [get]
func (h *ReportHandler) CreditDistribution(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.reports.CreditBuckets(c.Request.Context()), nil)
}
