package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-records/internal/models"
	appErrors "github.com/noah-isme/campus-records/pkg/errors"
	"github.com/noah-isme/campus-records/pkg/middleware/requestid"
)

func newContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestJSONWithPaginationAndMeta(t *testing.T) {
	c, w := newContext(t)
	JSON(c, http.StatusOK, []string{"S001"}, models.NewPagination(1, 20, 1), map[string]interface{}{"revision": 3})

	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	var envelope Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Pagination.TotalCount)
	assert.EqualValues(t, 3, envelope.Meta["revision"])

	c, w = newContext(t)
	JSON(c, http.StatusOK, "ok", nil, map[string]interface{}{})
	assert.NotContains(t, w.Body.String(), `"meta"`)
}

func TestErrorEchoesRequestID(t *testing.T) {
	c, w := newContext(t)
	c.Request.Header.Set(requestid.Header, "req-42")
	requestid.Middleware()(c)
	Error(c, appErrors.ErrCreditLimitExceeded)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"CREDIT_LIMIT_EXCEEDED"`)
	assert.Contains(t, w.Body.String(), `"request_id":"req-42"`)

	c, w = newContext(t)
	Error(c, appErrors.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), `"meta"`)
}

func TestAttachmentAndText(t *testing.T) {
	c, w := newContext(t)
	Attachment(c, "application/pdf", "transcript-S001.pdf", []byte("%PDF-1.3"))
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="transcript-S001.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3", w.Body.String())

	c, w = newContext(t)
	Text(c, "GPA: 4.00")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GPA: 4.00", w.Body.String())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
