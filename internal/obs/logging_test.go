package obs_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-optima/internal/common"
	"github.com/noah-isme/backend-optima/internal/obs"
)

func TestRequestLoggerRecordsAdminActorAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r := chi.NewRouter()
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(common.WithUserID(req.Context(), "admin-7")))
			})
		})
		r.Post("/products/bulk-price", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Idempotent-Replayed", "true")
			common.JSONError(w, http.StatusConflict, "PRICE_CONFLICT", "prices changed", nil)
		})
	})
	r.Get("/api/v1/products", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/bulk-price", nil)
	req.RemoteAddr = "203.0.113.5:4000"
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var admin map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &admin))
	require.Equal(t, "warn", admin["level"])
	require.Equal(t, "admin", admin["surface"])
	require.Equal(t, "/api/v1/admin/products/bulk-price", admin["route"])
	require.Equal(t, "admin-7", admin["user_id"])
	require.Equal(t, true, admin["idempotent_replay"])
	require.Equal(t, "203.0.113.5", admin["client_ip"])
	require.EqualValues(t, 409, admin["status"])

	var storefront map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &storefront))
	require.Equal(t, "info", storefront["level"])
	require.Equal(t, "storefront", storefront["surface"])
	require.NotContains(t, storefront, "user_id")
}
