package inquiry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-optima/internal/common"
	"github.com/noah-isme/backend-optima/internal/db"
	dbgen "github.com/noah-isme/backend-optima/internal/db/gen"
	"github.com/noah-isme/backend-optima/internal/obs"
)

// SourceWhatsApp tags inquiries that came from the WhatsApp button.
const SourceWhatsApp = "whatsapp"

// Queries lists the database access used by the inquiry service.
type Queries interface {
	GetProductBySlug(ctx context.Context, slug string) (dbgen.GetProductBySlugRow, error)
	GetProductByID(ctx context.Context, id pgtype.UUID) (dbgen.GetProductByIDRow, error)
	CreateInquiry(ctx context.Context, arg dbgen.CreateInquiryParams) (dbgen.Inquiry, error)
	ListInquiries(ctx context.Context, arg dbgen.ListInquiriesParams) ([]dbgen.ListInquiriesRow, error)
	CountInquiries(ctx context.Context) (int64, error)
}

// Service records WhatsApp inquiries and builds chat links.
type Service struct {
	queries Queries
	phone   string
	logger  zerolog.Logger
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries        Queries
	WhatsAppNumber string
	Logger         zerolog.Logger
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("inquiry: queries are required")
	}
	if NormalizePhone(cfg.WhatsAppNumber) == "" {
		return nil, errors.New("inquiry: whatsapp number is required")
	}
	return &Service{queries: cfg.Queries, phone: cfg.WhatsAppNumber, logger: cfg.Logger}, nil
}

// Link is a WhatsApp deep link for a product.
type Link struct {
	ProductID   string `json:"productId,omitempty"`
	ProductName string `json:"productName"`
	SKU         string `json:"sku,omitempty"`
	URL         string `json:"url"`
}

// CreateInput is the payload recorded when a visitor taps the WhatsApp button.
type CreateInput struct {
	ProductID     string `json:"productId" validate:"omitempty,uuid"`
	ProductName   string `json:"productName" validate:"required_without=ProductID,max=200"`
	CustomerPhone string `json:"customerPhone" validate:"omitempty,max=32"`
}

// Inquiry is the stored lead.
type Inquiry struct {
	ID            string    `json:"id"`
	ProductID     *string   `json:"productId,omitempty"`
	ProductName   string    `json:"productName"`
	ProductSKU    *string   `json:"productSku,omitempty"`
	CustomerPhone *string   `json:"customerPhone,omitempty"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListResult is a page of inquiries.
type ListResult struct {
	Items    []Inquiry
	Total    int64
	Page     int
	PageSize int
}

// LinkForSlug builds the WhatsApp link for a published product.
func (s *Service) LinkForSlug(ctx context.Context, slug string) (Link, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Link{}, notFound()
	}
	row, err := s.queries.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Link{}, notFound()
		}
		return Link{}, fmt.Errorf("get product: %w", err)
	}
	return Link{
		ProductID:   db.UUIDString(row.ID),
		ProductName: row.Name,
		SKU:         row.Sku,
		URL:         BuildLink(s.phone, row.Name, row.Sku),
	}, nil
}

// Create records an inquiry and returns it with the link the visitor should open.
// A known product overrides the supplied name so the lead matches the catalog.
func (s *Service) Create(ctx context.Context, in CreateInput) (Inquiry, Link, error) {
	params := dbgen.CreateInquiryParams{
		ProductName:   strings.TrimSpace(in.ProductName),
		CustomerPhone: db.Text(strings.TrimSpace(in.CustomerPhone)),
		Source:        SourceWhatsApp,
	}
	var sku string
	if id := strings.TrimSpace(in.ProductID); id != "" {
		pid, err := db.ParseUUID(id)
		if err != nil {
			return Inquiry{}, Link{}, badRequest("productId must be a valid UUID", err)
		}
		product, err := s.queries.GetProductByID(ctx, pid)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return Inquiry{}, Link{}, notFound()
			}
			return Inquiry{}, Link{}, fmt.Errorf("get product: %w", err)
		}
		params.ProductID = pid
		params.ProductName = product.Name
		sku = product.Sku
	}
	if params.ProductName == "" {
		return Inquiry{}, Link{}, badRequest("productName is required", nil)
	}

	row, err := s.queries.CreateInquiry(ctx, params)
	if err != nil {
		return Inquiry{}, Link{}, fmt.Errorf("create inquiry: %w", err)
	}
	obs.ObserveInquiry(row.Source)
	s.logger.Info().
		Str("inquiry_id", db.UUIDString(row.ID)).
		Str("product_id", db.UUIDString(row.ProductID)).
		Str("source", row.Source).
		Msg("inquiry recorded")

	out := Inquiry{
		ID:            db.UUIDString(row.ID),
		ProductName:   row.ProductName,
		CustomerPhone: textPtr(row.CustomerPhone),
		Source:        row.Source,
		CreatedAt:     row.CreatedAt.Time,
	}
	link := Link{ProductName: row.ProductName, SKU: sku, URL: BuildLink(s.phone, row.ProductName, sku)}
	if row.ProductID.Valid {
		id := db.UUIDString(row.ProductID)
		out.ProductID = &id
		link.ProductID = id
	}
	if sku != "" {
		out.ProductSKU = &sku
	}
	return out, link, nil
}

// List returns inquiries newest first.
func (s *Service) List(ctx context.Context, page, pageSize int) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	total, err := s.queries.CountInquiries(ctx)
	if err != nil {
		return ListResult{}, fmt.Errorf("count inquiries: %w", err)
	}
	rows, err := s.queries.ListInquiries(ctx, dbgen.ListInquiriesParams{
		LimitValue:  int32(pageSize),
		OffsetValue: int32((page - 1) * pageSize),
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("list inquiries: %w", err)
	}
	items := make([]Inquiry, 0, len(rows))
	for _, row := range rows {
		item := Inquiry{
			ID:            db.UUIDString(row.ID),
			ProductName:   row.ProductName,
			ProductSKU:    textPtr(row.LinkedProductSku),
			CustomerPhone: textPtr(row.CustomerPhone),
			Source:        row.Source,
			CreatedAt:     row.CreatedAt.Time,
		}
		if row.ProductID.Valid {
			id := db.UUIDString(row.ProductID)
			item.ProductID = &id
		}
		if row.LinkedProductName.Valid {
			item.ProductName = row.LinkedProductName.String
		}
		items = append(items, item)
	}
	return ListResult{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	v := t.String
	return &v
}

func notFound() *common.AppError {
	return common.NotFound("product not found")
}

func badRequest(message string, err error) *common.AppError {
	return common.BadRequest(message, err)
}
