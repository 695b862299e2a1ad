package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-optima/internal/common"
)

// Handler exposes the bulk price endpoint.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service, validate: common.NewValidator()}
}

type bulkRequest struct {
	CategoryID string           `json:"categoryId" validate:"omitempty,uuid"`
	ProductIDs []string         `json:"productIds" validate:"omitempty,max=500,dive,uuid"`
	Mode       string           `json:"mode" validate:"required"`
	Value      *decimal.Decimal `json:"value" validate:"required"`
	Direction  string           `json:"direction" validate:"required"`
	RoundTo    *int64           `json:"roundTo"`
	Preview    bool             `json:"preview"`
	Note       string           `json:"note" validate:"omitempty,max=500"`
}

type summary struct {
	TotalProducts int             `json:"totalProducts"`
	CategoryName  string          `json:"categoryName,omitempty"`
	Mode          Mode            `json:"mode"`
	Value         decimal.Decimal `json:"value"`
	Direction     Direction       `json:"direction"`
	RoundTo       int64           `json:"roundTo"`
}

// BulkPrice handles POST /api/v1/admin/bulk-price.
func (h *Handler) BulkPrice(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "pricing service not configured", nil)
		return
	}
	var body bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if err := h.validate.Struct(body); err != nil {
		h.writeError(w, validationError(err))
		return
	}
	actorID, _ := common.UserID(r.Context())
	result, err := h.service.Adjust(r.Context(), Request{
		CategoryID: body.CategoryID,
		ProductIDs: body.ProductIDs,
		Mode:       body.Mode,
		Value:      *body.Value,
		Direction:  body.Direction,
		RoundTo:    body.RoundTo,
		Preview:    body.Preview,
		Note:       body.Note,
	}, Actor{ID: actorID})
	if err != nil {
		h.writeError(w, err)
		return
	}

	plan := result.Plan
	if result.Preview {
		common.JSON(w, http.StatusOK, map[string]any{
			"preview": true,
			"changes": plan.Changes,
			"summary": summary{
				TotalProducts: len(plan.Changes),
				CategoryName:  plan.CategoryName,
				Mode:          plan.Adjustment.Mode,
				Value:         plan.Adjustment.Value,
				Direction:     plan.Adjustment.Direction,
				RoundTo:       plan.Adjustment.RoundTo,
			},
		})
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"preview":      false,
		"updatedCount": result.Commit.UpdatedCount,
		"batchId":      result.Commit.BatchID,
		"message":      fmt.Sprintf("Successfully updated %d products.", result.Commit.UpdatedCount),
		"changes":      plan.Changes,
	})
}

func validationError(err error) error {
	return &common.AppError{
		Code:       "INVALID_ADJUSTMENT",
		Message:    "request failed validation",
		HTTPStatus: http.StatusBadRequest,
		Err:        fmt.Errorf("%w: %v", ErrInvalidAdjustment, err),
		Details:    map[string]any{"fields": common.ValidationDetails(err)},
	}
}

// toAppError maps pricing errors onto the API error contract.
func toAppError(err error) *common.AppError {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, ErrInvalidAdjustment):
		return &common.AppError{Code: "INVALID_ADJUSTMENT", Message: err.Error(), HTTPStatus: http.StatusBadRequest, Err: err}
	case errors.Is(err, ErrInvalidScope):
		return &common.AppError{Code: "INVALID_SCOPE", Message: err.Error(), HTTPStatus: http.StatusBadRequest, Err: err}
	case errors.Is(err, ErrEmptyScope):
		return &common.AppError{Code: "EMPTY_SCOPE", Message: "no products found in this scope", HTTPStatus: http.StatusNotFound, Err: err}
	case errors.Is(err, ErrPriceConflict):
		return &common.AppError{Code: "PRICE_CONFLICT", Message: "prices changed since the preview, re-plan and retry", HTTPStatus: http.StatusConflict, Err: err}
	case errors.Is(err, ErrCommitFailed):
		return &common.AppError{Code: "COMMIT_FAILED", Message: "bulk price update was rolled back", HTTPStatus: http.StatusInternalServerError, Err: err}
	default:
		return &common.AppError{Code: common.CodeInternal, Message: "internal error", HTTPStatus: http.StatusInternalServerError, Err: err}
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	common.WriteError(w, toAppError(err))
}
