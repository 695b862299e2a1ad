package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-optima/internal/common"
)

func newTestService(t *testing.T, now time.Time) *Service {
	t.Helper()
	svc, err := NewService(Config{Secret: "super-secret-key", ClockSkew: time.Second})
	require.NoError(t, err)
	svc.WithNow(func() time.Time { return now })
	return svc
}

func TestServiceParseAccessTokenSuccess(t *testing.T) {
	svc := newTestService(t, time.Now())

	token, expires, err := svc.Issue("admin-1", []string{RoleAdmin}, time.Minute)
	require.NoError(t, err)
	require.True(t, expires.After(time.Now()))

	claims, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, "admin-1", claims.Subject)
	require.True(t, claims.HasRole(RoleAdmin))
}

func TestServiceParseAccessTokenRejectsAlgorithmMismatch(t *testing.T) {
	fixed := time.Now()
	svc := newTestService(t, fixed)

	built, err := jwt.NewBuilder().
		Subject("admin-1").
		Issuer(svc.issuer).
		Audience([]string{svc.audience}).
		IssuedAt(fixed).
		Expiration(fixed.Add(time.Minute)).
		Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(built, jwt.WithKey(jwa.HS384, svc.secret))
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(string(signed))
	require.Error(t, err)
	require.True(t, common.IsAppError(err))
}

func TestServiceParseAccessTokenRejectsExpired(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	issuer := newTestService(t, issuedAt)
	token, _, err := issuer.Issue("admin-1", []string{RoleAdmin}, time.Minute)
	require.NoError(t, err)

	verifier := newTestService(t, time.Now())
	_, err = verifier.ParseAccessToken(token)
	require.Error(t, err)
}

func TestServiceParseAccessTokenRejectsForeignSecret(t *testing.T) {
	other, err := NewService(Config{Secret: "another-secret"})
	require.NoError(t, err)
	token, _, err := other.Issue("admin-1", []string{RoleAdmin}, time.Minute)
	require.NoError(t, err)

	_, err = newTestService(t, time.Now()).ParseAccessToken(token)
	require.Error(t, err)
}

func TestRequireRole(t *testing.T) {
	svc := newTestService(t, time.Now())
	mw := Middleware{Service: svc}
	var seenUser string
	handler := mw.RequireRole(RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser, _ = common.UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	require.Equal(t, http.StatusUnauthorized, serve(""))
	require.Equal(t, http.StatusUnauthorized, serve("not-a-jwt"))

	staff, _, err := svc.Issue("staff-1", []string{"viewer"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, serve(staff))

	admin, _, err := svc.Issue("admin-1", []string{RoleAdmin}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, serve(admin))
	require.Equal(t, "admin-1", seenUser)
}

func TestNewServiceRequiresSecret(t *testing.T) {
	_, err := NewService(Config{})
	require.Error(t, err)
}

func TestServiceIssueRejectsTTLBeyondMaxLifetime(t *testing.T) {
	svc, err := NewService(Config{Secret: "test-secret", MaxLifetime: time.Hour})
	require.NoError(t, err)

	_, _, err = svc.Issue("admin-1", []string{RoleAdmin}, 2*time.Hour)
	require.Error(t, err)

	token, _, err := svc.Issue("admin-1", []string{RoleAdmin}, 30*time.Minute)
	require.NoError(t, err)
	claims, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	require.True(t, claims.HasRole(RoleAdmin))
}
