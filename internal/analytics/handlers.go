package analytics

import (
	"net/http"

	"github.com/noah-isme/backend-optima/internal/common"
)

// Handler exposes the admin dashboard endpoint.
type Handler struct {
	Svc *Service
}

// Dashboard handles GET /api/v1/admin/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "ANALYTICS_NOT_CONFIGURED", "analytics service not configured", nil)
		return
	}
	days := common.QueryInt(r.URL.Query(), 0, "days")
	if days < 0 || days > 365 {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "days must be between 1 and 365", nil)
		return
	}
	out, err := h.Svc.Dashboard(r.Context(), days)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "ANALYTICS_ERROR", "unable to load dashboard", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}
