package obs

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Surfaces partition traffic for metrics, traces and request logs.
const (
	SurfaceStorefront = "storefront"
	SurfaceAdmin      = "admin"
	SurfaceOps        = "ops"
)

const adminPrefix = "/api/v1/admin"

// SurfaceOf classifies a request path or route pattern.
func SurfaceOf(path string) string {
	switch {
	case path == adminPrefix || strings.HasPrefix(path, adminPrefix+"/"):
		return SurfaceAdmin
	case strings.HasPrefix(path, "/api/"):
		return SurfaceStorefront
	default:
		return SurfaceOps
	}
}

// RouteOf returns the chi pattern matched for r, e.g. "/api/v1/admin/products/{id}".
// chi fills the pattern while routing, so callers outside the router must call
// this after the inner handler has run. Unmatched requests yield fallback.
func RouteOf(r *http.Request, fallback string) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" && pattern != "/*" {
			return pattern
		}
	}
	return fallback
}
