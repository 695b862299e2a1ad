package common

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newIdem(t *testing.T) (Idem, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return Idem{R: client, TTL: time.Minute}, mr
}

func post(h http.Handler, key string) *httptest.ResponseRecorder {
	return postBody(h, key, "")
}

func postBody(h http.Handler, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/bulk-price", strings.NewReader(body))
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestIdemReplaysStoredResponse(t *testing.T) {
	idem, _ := newIdem(t)
	calls := 0
	h := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		JSON(w, http.StatusOK, map[string]any{"updatedCount": 3})
	}))

	first := post(h, "abc")
	require.Equal(t, http.StatusOK, first.Code)
	second := post(h, "abc")
	require.Equal(t, http.StatusOK, second.Code)
	require.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	require.JSONEq(t, first.Body.String(), second.Body.String())
	require.Equal(t, 1, calls)

	post(h, "")
	post(h, "other")
	require.Equal(t, 3, calls)
}

func TestIdemReleasesKeyOnServerError(t *testing.T) {
	idem, _ := newIdem(t)
	calls := 0
	h := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		JSONError(w, http.StatusInternalServerError, "COMMIT_FAILED", "boom", nil)
	}))
	require.Equal(t, http.StatusInternalServerError, post(h, "retry-me").Code)
	require.Equal(t, http.StatusInternalServerError, post(h, "retry-me").Code)
	require.Equal(t, 2, calls)
}

func TestIdemRejectsInFlight(t *testing.T) {
	idem, mr := newIdem(t)
	h := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/bulk-price", nil)
	require.NoError(t, mr.Set(idem.key(req, "busy"), idemInFlight+":"+Sha256Hex("")))

	rr := post(h, "busy")
	require.Equal(t, http.StatusConflict, rr.Code)
	require.Contains(t, rr.Body.String(), "IDEMPOTENT_IN_FLIGHT")

	rr = postBody(h, "busy", `{"value":10}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), "IDEMPOTENCY_KEY_REUSED")
}

func TestIdemRejectsKeyReuseWithDifferentBody(t *testing.T) {
	idem, _ := newIdem(t)
	var seen []string
	h := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := new(strings.Builder)
		_, _ = buf.ReadFrom(r.Body)
		seen = append(seen, buf.String())
		JSON(w, http.StatusOK, map[string]any{"updatedCount": 1})
	}))

	increase := `{"mode":"percentage","value":10,"direction":"increase"}`
	decrease := `{"mode":"percentage","value":10,"direction":"decrease"}`

	first := postBody(h, "k1", increase)
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, []string{increase}, seen, "handler sees the original body")

	reused := postBody(h, "k1", decrease)
	require.Equal(t, http.StatusUnprocessableEntity, reused.Code)
	require.Contains(t, reused.Body.String(), "IDEMPOTENCY_KEY_REUSED")
	require.Empty(t, reused.Header().Get("Idempotent-Replayed"))

	replay := postBody(h, "k1", increase)
	require.Equal(t, http.StatusOK, replay.Code)
	require.Equal(t, "true", replay.Header().Get("Idempotent-Replayed"))
	require.Len(t, seen, 1)
}

func TestIdemReleasesKeyOnPanic(t *testing.T) {
	idem, mr := newIdem(t)
	calls := 0
	h := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			panic("commit exploded")
		}
		JSON(w, http.StatusOK, map[string]any{"updatedCount": 2})
	}))

	require.PanicsWithValue(t, "commit exploded", func() { post(h, "panicky") })
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/bulk-price", nil)
	require.False(t, mr.Exists(idem.key(req, "panicky")))

	rr := post(h, "panicky")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, rr.Header().Get("Idempotent-Replayed"))
	require.Equal(t, 2, calls)
}
