package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestTracingMiddleware_PassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TracingMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusTeapot, "pong") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusTeapot, rr.Code)
	require.Equal(t, "pong", rr.Body.String())
}

func TestInitTelemetry_RejectsBadLevel(t *testing.T) {
	err := InitTelemetry(Options{ServiceName: "test", LogLevel: "loud"})
	require.Error(t, err)
}
