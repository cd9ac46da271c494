package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gig-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/gig-scheduler-api/pkg/errors"
	"github.com/noah-isme/gig-scheduler-api/pkg/middleware/requestid"
)

func serve(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(requestid.Middleware())
	r.GET("/", h)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestid.Header, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestJSONIncludesPaginationAndRequestID(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		JSON(c, http.StatusOK, []string{"a"}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, map[string]interface{}{"cache_hit": true})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, "req-42", meta["request_id"])
	assert.Equal(t, true, meta["cache_hit"])
	assert.Equal(t, float64(1), body["pagination"].(map[string]interface{})["total_count"])
}

func TestErrorMapsTypedAndUntypedErrors(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		Error(c, appErrors.Clone(appErrors.ErrNotFound, "show not found"))
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	apiErr := body["error"].(map[string]interface{})
	assert.Equal(t, "NOT_FOUND", apiErr["code"])
	assert.Equal(t, "show not found", apiErr["message"])

	w, body = serve(t, func(c *gin.Context) {
		Error(c, errors.New("pq: connection reset"))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	apiErr = body["error"].(map[string]interface{})
	assert.Equal(t, "internal server error", apiErr["message"])
	assert.Equal(t, "req-42", body["meta"].(map[string]interface{})["request_id"])
}

func TestCreatedAndNoContent(t *testing.T) {
	w, _ := serve(t, func(c *gin.Context) { Created(c, map[string]string{"id": "x"}) })
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = serve(t, NoContent)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
