package tracing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func TestGinMiddlewareNamesSpanAfterRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := setupRecorder(t)

	engine := gin.New()
	engine.Use(GinMiddleware())
	engine.GET("/bills/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/bills/42", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "HTTP GET /bills/:id", ended[0].Name())
}

func TestGinMiddlewareEndsSpanOnPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := setupRecorder(t)

	engine := gin.New()
	engine.Use(gin.Recovery(), GinMiddleware())
	engine.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	// the span must be closed even when the handler never returns normally
	require.Len(t, recorder.Ended(), 1)
}
