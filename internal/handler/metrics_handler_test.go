package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-planner-api/internal/service"
)

type readyStub bool

func (r readyStub) Ready() bool { return bool(r) }

func TestMetricsHandlerReady(t *testing.T) {
	c, w := newGinContext(http.MethodGet, "/ready", nil)
	NewMetricsHandler(nil, readyStub(false)).Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	c, w = newGinContext(http.MethodGet, "/ready", nil)
	NewMetricsHandler(nil, readyStub(true)).Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsHandlerSummaryAndPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.SetWorkspaces(3)
	handler := NewMetricsHandler(metrics, readyStub(true))

	c, w := newGinContext(http.MethodGet, "/metrics/summary", nil)
	handler.Summary(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"workspaces":3`)

	c, w = newGinContext(http.MethodGet, "/metrics", nil)
	handler.Prometheus(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "workspaces")
}
