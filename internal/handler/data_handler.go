package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/campus-records/internal/dto"
	"github.com/noah-isme/campus-records/internal/models"
	appErrors "github.com/noah-isme/campus-records/pkg/errors"
	"github.com/noah-isme/campus-records/pkg/response"
	"github.com/noah-isme/campus-records/pkg/storage"
)

type rosterTransfer interface {
	ExportStudents(ctx context.Context, filename string) (*models.ExportResult, error)
	ImportStudents(ctx context.Context, filename string) (*models.ImportResult, error)
	ExportCourses(ctx context.Context, filename string) (*models.ExportResult, error)
	ExportRosterWorkbook(ctx context.Context, filename string) (*models.ExportResult, error)
}

type backupManager interface {
	CreateBackup(ctx context.Context) (*models.BackupResult, error)
	Tree(ctx context.Context, maxDepth int) ([]storage.Entry, error)
}

// DataHandler exposes import, export and backup of the data folder.
type DataHandler struct {
	transfer  rosterTransfer
	backups   backupManager
	validator *validator.Validate
}

// NewDataHandler constructs DataHandler.
func NewDataHandler(transfer rosterTransfer, backups backupManager, validate *validator.Validate) *DataHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &DataHandler{transfer: transfer, backups: backups, validator: validate}
}

// ExportStudents godoc
// @Summary Export students to CSV in the data folder
// @Tags Data
// @Accept json
// @Produce json
// @Param payload body dto.FileRequest false "Target file name (default students.csv)"
// @Success 201 {object} response.Envelope
// @Router /exports/students [post]
func (h *DataHandler) ExportStudents(c *gin.Context) {
	h.export(c, h.transfer.ExportStudents)
}

// ExportCourses godoc
// @Summary Export courses to CSV in the data folder
// @Tags Data
// @Accept json
// @Produce json
// @Param payload body dto.FileRequest false "Target file name (default courses.csv)"
// @Success 201 {object} response.Envelope
// @Router /exports/courses [post]
func (h *DataHandler) ExportCourses(c *gin.Context) {
	h.export(c, h.transfer.ExportCourses)
}

// ExportRoster godoc
// @Summary Export students and courses as an XLSX workbook
// @Tags Data
// @Accept json
// @Produce json
// @Param payload body dto.FileRequest false "Target file name (default roster.xlsx)"
// @Success 201 {object} response.Envelope
// @Router /exports/roster [post]
func (h *DataHandler) ExportRoster(c *gin.Context) {
	h.export(c, h.transfer.ExportRosterWorkbook)
}

// ImportStudents godoc
// @Summary Import students from a CSV in the data folder
// @Tags Data
// @Accept json
// @Produce json
// @Param payload body dto.FileRequest false "Source file name (default students.csv)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /imports/students [post]
func (h *DataHandler) ImportStudents(c *gin.Context) {
	req, ok := h.bindFile(c)
	if !ok {
		return
	}
	result, err := h.transfer.ImportStudents(c.Request.Context(), req.Filename)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// CreateBackup godoc
// @Summary Back up exported files into a timestamped folder
// @Tags Data
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /backups [post]
func (h *DataHandler) CreateBackup(c *gin.Context) {
	result, err := h.backups.CreateBackup(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// BackupTree godoc
// @Summary List the backup folder
// @Tags Data
// @Produce json
// @Param depth query int false "Maximum depth (1-5)"
// @Success 200 {object} response.Envelope
// @Router /backups/tree [get]
func (h *DataHandler) BackupTree(c *gin.Context) {
	depth, _ := strconv.Atoi(c.Query("depth"))
	entries, err := h.backups.Tree(c.Request.Context(), depth)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

func (h *DataHandler) export(c *gin.Context, run func(context.Context, string) (*models.ExportResult, error)) {
	req, ok := h.bindFile(c)
	if !ok {
		return
	}
	result, err := run(c.Request.Context(), req.Filename)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// bindFile accepts an empty body as "use the default file".
func (h *DataHandler) bindFile(c *gin.Context) (dto.FileRequest, bool) {
	var req dto.FileRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return req, false
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid file name"))
		return req, false
	}
	return req, true
}
