package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-optima/internal/common"
	dbgen "github.com/noah-isme/backend-optima/internal/db/gen"
)

type stubStore struct {
	rows      []dbgen.ListPriceLogsRow
	lastList  dbgen.ListPriceLogsParams
	lastCount dbgen.CountPriceLogsParams
}

func (s *stubStore) ListPriceLogs(_ context.Context, arg dbgen.ListPriceLogsParams) ([]dbgen.ListPriceLogsRow, error) {
	s.lastList = arg
	return s.rows, nil
}

func (s *stubStore) CountPriceLogs(_ context.Context, arg dbgen.CountPriceLogsParams) (int64, error) {
	s.lastCount = arg
	return int64(len(s.rows)), nil
}

func pgUUID(id uuid.UUID) pgtype.UUID { return pgtype.UUID{Bytes: id, Valid: true} }

func TestHistoryDecodesAdjustment(t *testing.T) {
	productID := uuid.New()
	batchID := uuid.New()
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := &stubStore{rows: []dbgen.ListPriceLogsRow{
		{
			ID:          pgUUID(uuid.New()),
			ProductID:   pgUUID(productID),
			OldPrice:    12000,
			NewPrice:    13200,
			ChangedBy:   "admin",
			Reason:      pgtype.Text{String: "Bulk increase by 10% | Rounded to nearest 100", Valid: true},
			Adjustment:  []byte(`{"mode":"percentage","value":"10","direction":"increase","roundTo":100}`),
			BatchID:     pgUUID(batchID),
			CreatedAt:   pgtype.Timestamptz{Time: created, Valid: true},
			ProductName: "Ballpoint Biru",
			ProductSku:  "PEN-002",
		},
		{
			ID:          pgUUID(uuid.New()),
			ProductID:   pgUUID(productID),
			OldPrice:    11000,
			NewPrice:    12000,
			ChangedBy:   "admin",
			Reason:      pgtype.Text{String: "Manual edit", Valid: true},
			ProductName: "Ballpoint Biru",
			ProductSku:  "PEN-002",
		},
	}}
	svc := Service{Store: store}

	page, err := svc.History(context.Background(), HistoryParams{ProductID: productID.String(), Page: 2, Limit: 500})
	require.NoError(t, err)
	require.Equal(t, int64(2), page.Total)
	require.Equal(t, maxPageSize, page.Limit)
	require.Equal(t, int32(maxPageSize), store.lastList.LimitValue)
	require.Equal(t, int32(maxPageSize), store.lastList.OffsetValue)
	require.True(t, store.lastCount.ProductID.Valid)
	require.False(t, store.lastCount.BatchID.Valid)

	require.Len(t, page.Items, 2)
	bulk := page.Items[0]
	require.NotNil(t, bulk.Adjustment)
	require.Equal(t, "percentage", bulk.Adjustment.Mode)
	require.Equal(t, "10", bulk.Adjustment.Value)
	require.Equal(t, int64(100), bulk.Adjustment.RoundTo)
	require.NotNil(t, bulk.BatchID)
	require.Equal(t, batchID.String(), *bulk.BatchID)
	require.Equal(t, created, bulk.CreatedAt)

	manual := page.Items[1]
	require.Nil(t, manual.Adjustment)
	require.Nil(t, manual.BatchID)
	require.Equal(t, "Manual edit", *manual.Reason)
}

func TestHistoryRejectsInvalidFilter(t *testing.T) {
	svc := Service{Store: &stubStore{}}
	_, err := svc.History(context.Background(), HistoryParams{BatchID: "nope"})
	require.Error(t, err)
	require.True(t, common.IsAppError(err))
}

func TestHandlerPriceLogs(t *testing.T) {
	store := &stubStore{rows: []dbgen.ListPriceLogsRow{{
		ID:          pgUUID(uuid.New()),
		ProductID:   pgUUID(uuid.New()),
		OldPrice:    300,
		NewPrice:    500,
		ChangedBy:   "admin",
		ProductName: "Spidol",
		ProductSku:  "MRK-001",
	}}}
	h := Handler{Svc: Service{Store: store}}

	req := httptest.NewRequest(http.MethodGet, "/admin/price-logs?page=1&limit=25", nil)
	rr := httptest.NewRecorder()
	h.PriceLogs(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "1", rr.Header().Get("X-Total-Count"))
	require.Equal(t, int32(25), store.lastList.LimitValue)
	require.Equal(t, int32(0), store.lastList.OffsetValue)

	var payload struct {
		Data []Entry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.Len(t, payload.Data, 1)
	require.Equal(t, "MRK-001", payload.Data[0].ProductSKU)

	req = httptest.NewRequest(http.MethodGet, "/admin/price-logs?productId=bad", nil)
	rr = httptest.NewRecorder()
	h.PriceLogs(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHTTPRecorderLogsAdminAction(t *testing.T) {
	var buf bytes.Buffer
	recorder := HTTPRecorder{Service: Service{Enabled: true, Logger: zerolog.New(&buf)}}

	r := chi.NewRouter()
	r.With(recorder.Middleware(HTTPConfig{Action: "product.update", ResourceType: "product", ResourceIDParam: "id"})).
		Put("/api/v1/admin/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/products/abc", nil)
	req = req.WithContext(common.WithUserID(req.Context(), "admin-1"))
	r.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "product.update", entry["audit_action"])
	require.Equal(t, "product", entry["resource"])
	require.Equal(t, "abc", entry["resource_id"])
	require.Equal(t, "admin-1", entry["actor"])
	require.EqualValues(t, http.StatusNoContent, entry["status"])
}

func TestHTTPRecorderDisabled(t *testing.T) {
	var buf bytes.Buffer
	recorder := HTTPRecorder{Service: Service{Logger: zerolog.New(&buf)}}
	handler := recorder.Middleware(HTTPConfig{})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Zero(t, buf.Len())
}

func TestBuildResourceFromRoute(t *testing.T) {
	require.Equal(t, "admin.bulk-price", buildResource("", "/api/v1/admin/bulk-price"))
	require.Equal(t, "health.ready", buildResource("", "/health/ready"))
	require.Equal(t, "POST /api/v1/admin/bulk-price", buildAction("", "post", "/api/v1/admin/bulk-price"))
}
