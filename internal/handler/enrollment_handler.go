package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-records/internal/dto"
	"github.com/noah-isme/campus-records/internal/models"
	appErrors "github.com/noah-isme/campus-records/pkg/errors"
	"github.com/noah-isme/campus-records/pkg/response"
)

type enrollmentEngine interface {
	EnrollStudent(ctx context.Context, req dto.EnrollRequest) (*models.Enrollment, error)
	Drop(ctx context.Context, studentID, courseCode string) error
	RecordGradeByRequest(ctx context.Context, studentID, courseCode string, req dto.RecordGradeRequest) (*models.Enrollment, error)
}

// EnrollmentHandler exposes the enrollment engine.
type EnrollmentHandler struct {
	engine enrollmentEngine
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(engine enrollmentEngine) *EnrollmentHandler {
	return &EnrollmentHandler{engine: engine}
}

// Enroll godoc
// @Summary Enroll a student in a course
// @Description Fails with 409 DUPLICATE_ENROLLMENT when already enrolled and 422 CREDIT_LIMIT_EXCEEDED above 18 credits.
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body dto.EnrollRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.engine.EnrollStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Drop godoc
// @Summary Unenroll a student from a course
// @Tags Enrollments
// @Param id path string true "Student ID"
// @Param code path string true "Course code"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/enrollments/{code} [delete]
func (h *EnrollmentHandler) Drop(c *gin.Context) {
	if err := h.engine.Drop(c.Request.Context(), c.Param("id"), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RecordGrade godoc
// @Summary Record or overwrite a grade
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param code path string true "Course code"
// @Param payload body dto.RecordGradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/enrollments/{code}/grade [put]
func (h *EnrollmentHandler) RecordGrade(c *gin.Context) {
	var req dto.RecordGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.engine.RecordGradeByRequest(c.Request.Context(), c.Param("id"), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}
