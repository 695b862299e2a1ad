package inquiry

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-optima/internal/common"
)

// Handler exposes public inquiry capture and the admin lead list.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: common.NewValidator()}
}

// ProductLink handles GET /api/v1/products/{slug}/whatsapp.
func (h *Handler) ProductLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.service.LinkForSlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": link})
}

// Create handles POST /api/v1/inquiries.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "request failed validation", map[string]any{"fields": common.ValidationDetails(err)})
		return
	}
	inquiry, link, err := h.service.Create(r.Context(), in)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": inquiry, "whatsapp": link})
}

// List handles GET /api/v1/admin/inquiries.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := common.ParsePagination(r, 20)
	result, err := h.service.List(r.Context(), page, pageSize)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(result.Total, 10))
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       result.Items,
		"pagination": common.NewPagination(result.Page, result.PageSize, result.Total),
	})
}
