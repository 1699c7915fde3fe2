package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func traceTestRouter(seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		*seen = c.GetString("trace_id")
		c.Status(http.StatusOK)
	})
	return r
}

func TestTraceIDGenerated(t *testing.T) {
	var seen string
	r := traceTestRouter(&seen)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	header := w.Header().Get("X-Trace-ID")
	require.NotEmpty(t, header)
	assert.Equal(t, header, seen)
	_, err := uuid.Parse(header)
	assert.NoError(t, err)
}

func TestTraceIDFromCallerIsKept(t *testing.T) {
	var seen string
	r := traceTestRouter(&seen)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Trace-ID", "storefront-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "storefront-123", w.Header().Get("X-Trace-ID"))
	assert.Equal(t, "storefront-123", seen)
}
