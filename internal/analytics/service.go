package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-optima/internal/db"
	dbgen "github.com/noah-isme/backend-optima/internal/db/gen"
)

const recentInquiryCount = 5

// Querier defines the database access required for the admin dashboard.
type Querier interface {
	CountActiveProducts(ctx context.Context) (int64, error)
	CountOutOfStockProducts(ctx context.Context) (int64, error)
	CountInquiriesSince(ctx context.Context, createdAt pgtype.Timestamptz) (int64, error)
	ListInquiries(ctx context.Context, arg dbgen.ListInquiriesParams) ([]dbgen.ListInquiriesRow, error)
}

// Service provides cached dashboard statistics.
type Service struct {
	Q            Querier
	R            *redis.Client
	TTL          time.Duration
	DefaultRange int
	Now          func() time.Time
}

// RecentInquiry is a compact inquiry row shown on the dashboard.
type RecentInquiry struct {
	ID          string    `json:"id"`
	ProductName string    `json:"productName"`
	ProductSKU  *string   `json:"productSku,omitempty"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Dashboard summarises catalog and lead activity.
type Dashboard struct {
	TotalProducts   int64           `json:"totalProducts"`
	OutOfStock      int64           `json:"outOfStock"`
	Leads           int64           `json:"leads"`
	RangeDays       int             `json:"rangeDays"`
	RecentInquiries []RecentInquiry `json:"recentInquiries"`
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func cacheKey(parts ...any) string {
	formatted := make([]string, 0, len(parts))
	for _, part := range parts {
		formatted = append(formatted, fmt.Sprint(part))
	}
	return strings.Join(formatted, ":")
}

// Dashboard returns totals and the latest inquiries. Leads are counted over the
// last days, falling back to DefaultRange and then 30 when days <= 0.
func (s *Service) Dashboard(ctx context.Context, days int) (Dashboard, error) {
	if s == nil || s.Q == nil {
		return Dashboard{}, fmt.Errorf("analytics service not configured")
	}
	if days <= 0 {
		days = s.DefaultRange
	}
	if days <= 0 {
		days = 30
	}
	key := cacheKey("an", "dashboard", days)
	if cached, ok := s.getDashboardFromCache(ctx, key); ok {
		return cached, nil
	}

	total, err := s.Q.CountActiveProducts(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("count products: %w", err)
	}
	outOfStock, err := s.Q.CountOutOfStockProducts(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("count out of stock: %w", err)
	}
	since := s.now().AddDate(0, 0, -days)
	leads, err := s.Q.CountInquiriesSince(ctx, pgtype.Timestamptz{Time: since, Valid: true})
	if err != nil {
		return Dashboard{}, fmt.Errorf("count inquiries: %w", err)
	}
	rows, err := s.Q.ListInquiries(ctx, dbgen.ListInquiriesParams{LimitValue: recentInquiryCount})
	if err != nil {
		return Dashboard{}, fmt.Errorf("list inquiries: %w", err)
	}

	recent := make([]RecentInquiry, 0, len(rows))
	for _, row := range rows {
		item := RecentInquiry{
			ID:          db.UUIDString(row.ID),
			ProductName: row.ProductName,
			Source:      row.Source,
			CreatedAt:   row.CreatedAt.Time,
		}
		if row.LinkedProductSku.Valid {
			sku := row.LinkedProductSku.String
			item.ProductSKU = &sku
		}
		recent = append(recent, item)
	}

	out := Dashboard{
		TotalProducts:   total,
		OutOfStock:      outOfStock,
		Leads:           leads,
		RangeDays:       days,
		RecentInquiries: recent,
	}
	s.store(ctx, key, out)
	return out, nil
}

func (s *Service) getDashboardFromCache(ctx context.Context, key string) (Dashboard, bool) {
	if s.R == nil || s.TTL <= 0 {
		return Dashboard{}, false
	}
	data, err := s.R.Get(ctx, key).Bytes()
	if err != nil {
		return Dashboard{}, false
	}
	var out Dashboard
	if err := json.Unmarshal(data, &out); err != nil {
		return Dashboard{}, false
	}
	return out, true
}

func (s *Service) store(ctx context.Context, key string, value any) {
	if s.R == nil || s.TTL <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.R.Set(ctx, key, data, s.TTL).Err()
}
