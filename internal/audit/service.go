package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-optima/internal/common"
	"github.com/noah-isme/backend-optima/internal/db"
	dbgen "github.com/noah-isme/backend-optima/internal/db/gen"
	"github.com/noah-isme/backend-optima/internal/obs"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Store defines the read queries over the append-only price history.
type Store interface {
	ListPriceLogs(ctx context.Context, arg dbgen.ListPriceLogsParams) ([]dbgen.ListPriceLogsRow, error)
	CountPriceLogs(ctx context.Context, arg dbgen.CountPriceLogsParams) (int64, error)
}

// Service reads price history and records admin actions to the audit trail.
type Service struct {
	Store        Store
	Logger       zerolog.Logger
	Enabled      bool
	SamplingRate float64
}

// Adjustment mirrors the structured adjustment stored with bulk price logs.
type Adjustment struct {
	Mode      string `json:"mode"`
	Value     string `json:"value"`
	Direction string `json:"direction"`
	RoundTo   int64  `json:"roundTo"`
}

// Entry is one price history row.
type Entry struct {
	ID          string      `json:"id"`
	ProductID   string      `json:"productId"`
	ProductName string      `json:"productName"`
	ProductSKU  string      `json:"productSku"`
	OldPrice    int64       `json:"oldPrice"`
	NewPrice    int64       `json:"newPrice"`
	ChangedBy   string      `json:"changedBy"`
	Reason      *string     `json:"reason,omitempty"`
	Adjustment  *Adjustment `json:"adjustment,omitempty"`
	Note        *string     `json:"note,omitempty"`
	BatchID     *string     `json:"batchId,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// HistoryParams filters the price history listing.
type HistoryParams struct {
	ProductID string
	BatchID   string
	Page      int
	Limit     int
}

// HistoryPage is a page of price history.
type HistoryPage struct {
	Items []Entry
	Total int64
	Page  int
	Limit int
}

// History lists price log entries newest first.
func (s Service) History(ctx context.Context, params HistoryParams) (HistoryPage, error) {
	if s.Store == nil {
		return HistoryPage{}, errors.New("audit: store not configured")
	}
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	productID, err := optionalUUID(params.ProductID, "productId")
	if err != nil {
		return HistoryPage{}, err
	}
	batchID, err := optionalUUID(params.BatchID, "batchId")
	if err != nil {
		return HistoryPage{}, err
	}

	total, err := s.Store.CountPriceLogs(ctx, dbgen.CountPriceLogsParams{ProductID: productID, BatchID: batchID})
	if err != nil {
		return HistoryPage{}, fmt.Errorf("count price logs: %w", err)
	}
	rows, err := s.Store.ListPriceLogs(ctx, dbgen.ListPriceLogsParams{
		ProductID:   productID,
		BatchID:     batchID,
		LimitValue:  int32(limit),
		OffsetValue: int32((page - 1) * limit),
	})
	if err != nil {
		return HistoryPage{}, fmt.Errorf("list price logs: %w", err)
	}

	items := make([]Entry, 0, len(rows))
	for _, row := range rows {
		items = append(items, toEntry(row))
	}
	return HistoryPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func optionalUUID(raw, field string) (pgtype.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return pgtype.UUID{}, nil
	}
	id, err := db.ParseUUID(raw)
	if err != nil {
		return pgtype.UUID{}, &common.AppError{
			Code:       "BAD_REQUEST",
			Message:    field + " must be a valid UUID",
			HTTPStatus: http.StatusBadRequest,
			Err:        err,
		}
	}
	return id, nil
}

func toEntry(row dbgen.ListPriceLogsRow) Entry {
	entry := Entry{
		ID:          db.UUIDString(row.ID),
		ProductID:   db.UUIDString(row.ProductID),
		ProductName: row.ProductName,
		ProductSKU:  row.ProductSku,
		OldPrice:    row.OldPrice,
		NewPrice:    row.NewPrice,
		ChangedBy:   row.ChangedBy,
		Reason:      textPtr(row.Reason),
		Note:        textPtr(row.Note),
	}
	if row.BatchID.Valid {
		batch := db.UUIDString(row.BatchID)
		entry.BatchID = &batch
	}
	if row.CreatedAt.Valid {
		entry.CreatedAt = row.CreatedAt.Time
	}
	if len(row.Adjustment) > 0 {
		var adj Adjustment
		if err := json.Unmarshal(row.Adjustment, &adj); err == nil {
			entry.Adjustment = &adj
		}
	}
	return entry
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	v := t.String
	return &v
}

// Record writes an admin action to the audit trail when auditing is enabled.
func (s Service) Record(ctx context.Context, actor, action, resourceType, resourceID string, req *http.Request, status int) error {
	if !s.Enabled {
		return nil
	}
	if s.SamplingRate > 0 && s.SamplingRate < 1 {
		if rand.Float64() > s.SamplingRate {
			return nil
		}
	}
	if req == nil {
		return errors.New("audit: request is required")
	}

	route := obs.RouteOf(req, strings.TrimSpace(req.URL.Path))
	if status == 0 {
		status = http.StatusOK
	}
	if strings.TrimSpace(actor) == "" {
		actor = "anonymous"
	}

	s.Logger.Info().
		Str("audit_action", buildAction(action, req.Method, route)).
		Str("resource", buildResource(resourceType, route)).
		Str("resource_id", resourceID).
		Str("actor", actor).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", status).
		Str("ip", common.ClientIP(req)).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Msg("admin action")
	return nil
}

func buildAction(action, method, route string) string {
	trimmed := strings.TrimSpace(action)
	if trimmed != "" {
		return trimmed
	}
	target := route
	if target == "" {
		target = "/"
	}
	return strings.ToUpper(strings.TrimSpace(method)) + " " + target
}

func buildResource(resourceType, route string) string {
	trimmed := strings.TrimSpace(resourceType)
	if trimmed != "" {
		return trimmed
	}
	route = strings.TrimSpace(route)
	if route == "" {
		return "unknown"
	}
	segments := strings.Split(strings.Trim(route, "/"), "/")
	if len(segments) >= 3 && segments[0] == "api" && segments[1] == "v1" {
		return strings.Join(segments[2:], ".")
	}
	return strings.ReplaceAll(strings.Trim(route, "/"), "/", ".")
}
