package audit

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/noah-isme/backend-optima/internal/common"
)

// Handler exposes the price history endpoint.
type Handler struct {
	Svc Service
}

// PriceLogs handles GET /api/v1/admin/price-logs.
func (h Handler) PriceLogs(w http.ResponseWriter, r *http.Request) {
	if h.Svc.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "AUDIT_NOT_CONFIGURED", "price history not configured", nil)
		return
	}
	q := r.URL.Query()
	page, limit := common.ParsePagination(r, defaultPageSize)
	result, err := h.Svc.History(r.Context(), HistoryParams{
		ProductID: q.Get("productId"),
		BatchID:   q.Get("batchId"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "AUDIT_QUERY_FAILED", "unable to fetch price history", nil)
		return
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(result.Total, 10))
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       result.Items,
		"pagination": common.NewPagination(result.Page, result.Limit, result.Total),
	})
}
