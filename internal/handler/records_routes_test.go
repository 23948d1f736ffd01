package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-records/internal/repository"
	"github.com/noah-isme/campus-records/internal/service"
)

func buildRecordsRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validate := validator.New()
	logger := zap.NewNop()

	students := repository.NewStudentRepository()
	courses := repository.NewCourseRepository()
	engine := service.NewEnrollmentService(students, courses, nil, validate, logger)
	reports := service.NewReportService(engine, students, courses, nil, logger)

	studentHandler := NewStudentHandler(service.NewStudentService(students, engine, reports, validate, logger))
	courseHandler := NewCourseHandler(service.NewCourseService(courses, validate, logger))
	enrollmentHandler := NewEnrollmentHandler(engine)
	reportHandler := NewReportHandler(reports, nil)

	router := gin.New()
	router.GET("/students", studentHandler.List)
	router.POST("/students", studentHandler.Create)
	router.GET("/students/:id", studentHandler.Get)
	router.DELETE("/students/:id", studentHandler.Delete)
	router.GET("/students/:id/gpa", reportHandler.GPA)
	router.GET("/students/:id/transcript", reportHandler.Transcript)
	router.DELETE("/students/:id/enrollments/:code", enrollmentHandler.Drop)
	router.PUT("/students/:id/enrollments/:code/grade", enrollmentHandler.RecordGrade)
	router.GET("/courses", courseHandler.List)
	router.POST("/courses", courseHandler.Create)
	router.POST("/enrollments", enrollmentHandler.Enroll)
	router.GET("/reports/credit-distribution", reportHandler.CreditDistribution)
	return router
}

func performRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body == "" {
		reader = bytes.NewBuffer(nil)
	} else {
		reader = bytes.NewBufferString(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Error.Code
}

func TestRecordsRoutesEnrollmentLifecycle(t *testing.T) {
	router := buildRecordsRouter(t)

	resp := performRequest(router, http.MethodPost, "/students", `{"id":"S001","full_name":"Ada Lovelace","email":"ada@campus.edu","reg_no":"R-001"}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = performRequest(router, http.MethodPost, "/students", `{"id":"S001","full_name":"Ada Again","email":"ada2@campus.edu","reg_no":"R-002"}`)
	require.Equal(t, http.StatusConflict, resp.Code)

	for _, payload := range []string{
		`{"code":"CS0101","title":"Intro","credits":6,"semester":"FALL","department":"CS"}`,
		`{"code":"CS0102","title":"Systems","credits":6,"semester":"FALL","department":"CS"}`,
		`{"code":"CS0103","title":"Theory","credits":6,"semester":"FALL","department":"CS"}`,
		`{"code":"CS0104","title":"Seminar","credits":1,"semester":"FALL","department":"CS"}`,
	} {
		resp = performRequest(router, http.MethodPost, "/courses", payload)
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	}

	for _, code := range []string{"CS0101", "CS0102", "CS0103"} {
		resp = performRequest(router, http.MethodPost, "/enrollments", `{"student_id":"S001","course_code":"`+code+`"}`)
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	}

	t.Run("duplicate enrollment", func(t *testing.T) {
		resp := performRequest(router, http.MethodPost, "/enrollments", `{"student_id":"S001","course_code":"CS0101"}`)
		require.Equal(t, http.StatusConflict, resp.Code)
		assert.Equal(t, "DUPLICATE_ENROLLMENT", errorCode(t, resp))
	})

	t.Run("credit limit", func(t *testing.T) {
		resp := performRequest(router, http.MethodPost, "/enrollments", `{"student_id":"S001","course_code":"CS0104"}`)
		require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
		assert.Equal(t, "CREDIT_LIMIT_EXCEEDED", errorCode(t, resp))
	})

	t.Run("unknown student", func(t *testing.T) {
		resp := performRequest(router, http.MethodPost, "/enrollments", `{"student_id":"S404","course_code":"CS0104"}`)
		require.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("grade and transcript", func(t *testing.T) {
		resp := performRequest(router, http.MethodPut, "/students/S001/enrollments/cs0101/grade", `{"grade":"A"}`)
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		resp = performRequest(router, http.MethodPut, "/students/S001/enrollments/CS0104/grade", `{"grade":"A"}`)
		require.Equal(t, http.StatusNotFound, resp.Code)
		resp = performRequest(router, http.MethodPut, "/students/S001/enrollments/CS0101/grade", `{"grade":"Z"}`)
		require.Equal(t, http.StatusBadRequest, resp.Code)

		resp = performRequest(router, http.MethodGet, "/students/S001/transcript?format=text", "")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.True(t, strings.HasPrefix(resp.Body.String(), "Transcript for Ada Lovelace\n"))
		assert.Contains(t, resp.Body.String(), "Grades: [A, I, I]")

		resp = performRequest(router, http.MethodGet, "/students/S001/transcript?format=pdf", "")
		require.Equal(t, http.StatusPreconditionFailed, resp.Code)
		resp = performRequest(router, http.MethodGet, "/students/S001/transcript?format=xml", "")
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("drop frees credits", func(t *testing.T) {
		resp := performRequest(router, http.MethodDelete, "/students/S001/enrollments/CS0103", "")
		require.Equal(t, http.StatusNoContent, resp.Code)
		resp = performRequest(router, http.MethodDelete, "/students/S001/enrollments/CS0103", "")
		require.Equal(t, http.StatusNotFound, resp.Code)
		resp = performRequest(router, http.MethodPost, "/enrollments", `{"student_id":"S001","course_code":"CS0104"}`)
		require.Equal(t, http.StatusCreated, resp.Code)
	})

	t.Run("inactive student", func(t *testing.T) {
		resp := performRequest(router, http.MethodPost, "/students", `{"id":"S002","full_name":"Grace Hopper","email":"grace@campus.edu","reg_no":"R-003"}`)
		require.Equal(t, http.StatusCreated, resp.Code)
		resp = performRequest(router, http.MethodDelete, "/students/S002", "")
		require.Equal(t, http.StatusNoContent, resp.Code)
		resp = performRequest(router, http.MethodPost, "/enrollments", `{"student_id":"S002","course_code":"CS0101"}`)
		require.Equal(t, http.StatusPreconditionFailed, resp.Code)
	})

	t.Run("credit distribution", func(t *testing.T) {
		resp := performRequest(router, http.MethodGet, "/reports/credit-distribution", "")
		require.Equal(t, http.StatusOK, resp.Code)
		var envelope struct {
			Data []struct {
				Credits int `json:"credits"`
				Courses int `json:"courses"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		require.Len(t, envelope.Data, 2)
		assert.Equal(t, 1, envelope.Data[0].Credits)
		assert.Equal(t, 6, envelope.Data[1].Credits)
		assert.Equal(t, 3, envelope.Data[1].Courses)
	})

	t.Run("list with pagination", func(t *testing.T) {
		resp := performRequest(router, http.MethodGet, "/students?active=true&page=1&limit=10", "")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"S001"`)
		assert.NotContains(t, resp.Body.String(), `"S002"`)
		assert.Contains(t, resp.Body.String(), `"pagination"`)
	})

	t.Run("page far past the end is empty", func(t *testing.T) {
		for _, path := range []string{"/students?page=184467440737095516&limit=100", "/courses?page=9223372036854775807&limit=50"} {
			resp := performRequest(router, http.MethodGet, path, "")
			require.Equal(t, http.StatusOK, resp.Code, path)
			assert.NotContains(t, resp.Body.String(), `"S001"`)
			assert.NotContains(t, resp.Body.String(), `"CS0101"`)
		}
	})
}
