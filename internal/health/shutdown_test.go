package health_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-optima/internal/health"
)

func TestReadinessDrainsOnShutdown(t *testing.T) {
	pings := 0
	handler := health.Handler{Checks: []health.Check{{Name: "db", Ping: func(context.Context) error {
		pings++
		return nil
	}}}}
	t.Cleanup(func() { health.SetReady(true) })

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)

	health.SetReady(true)
	resp := httptest.NewRecorder()
	handler.Ready(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, 1, pings)

	health.SetReady(false)
	draining := httptest.NewRecorder()
	handler.Ready(draining, req)
	require.Equal(t, http.StatusServiceUnavailable, draining.Code)
	require.JSONEq(t, `{"status":"shutting down"}`, draining.Body.String())
	require.Equal(t, 1, pings, "dependencies are not pinged while draining")

	live := httptest.NewRecorder()
	handler.Live(live, req)
	require.Equal(t, http.StatusOK, live.Code)
}
