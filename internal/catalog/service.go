package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-optima/internal/common"
	"github.com/noah-isme/backend-optima/internal/db"
	dbgen "github.com/noah-isme/backend-optima/internal/db/gen"
	"github.com/noah-isme/backend-optima/internal/obs"
)

type queryProvider interface {
	ListCategories(ctx context.Context) ([]dbgen.Category, error)
	CountProductsPublic(ctx context.Context, arg dbgen.CountProductsPublicParams) (int64, error)
	ListProductsPublic(ctx context.Context, arg dbgen.ListProductsPublicParams) ([]dbgen.ListProductsPublicRow, error)
	GetProductBySlug(ctx context.Context, slug string) (dbgen.GetProductBySlugRow, error)
}

// Sort orders accepted by the public listing.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// Service orchestrates catalog queries, DTO assembly, and caching.
type Service struct {
	queries      queryProvider
	cache        *Cache
	defaultPage  int
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries      queryProvider
	Cache        *Cache
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

// ListParams captures filters for product listing.
type ListParams struct {
	Search     string
	Categories []string
	Featured   *bool
	InStock    *bool
	Sort       string
	Page       int
	Limit      int
}

// CategoryRef is the category summary embedded in product payloads.
type CategoryRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProductListItem represents an entry in list responses.
type ProductListItem struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Slug       string      `json:"slug"`
	SKU        string      `json:"sku"`
	Price      int64       `json:"price"`
	InStock    bool        `json:"inStock"`
	ImageURL   *string     `json:"imageUrl,omitempty"`
	IsFeatured bool        `json:"isFeatured"`
	Category   CategoryRef `json:"category"`
}

// ProductDetail aggregates the full detail payload.
type ProductDetail struct {
	ProductListItem
	CategoryID  string  `json:"categoryId"`
	Description *string `json:"description,omitempty"`
}

// Category represents the public category payload.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProductListResult contains list data and pagination metadata.
type ProductListResult struct {
	Items []ProductListItem
	Total int64
	Page  int
	Limit int
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: queries provider is required")
	}
	defaultPage := cfg.DefaultPage
	if defaultPage < 1 {
		defaultPage = 1
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 12
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Service{
		queries:      cfg.Queries,
		cache:        cfg.Cache,
		defaultPage:  defaultPage,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// ParseListParams normalises raw query values into strongly typed filters.
func (s *Service) ParseListParams(values url.Values) (ListParams, error) {
	params := ListParams{
		Page:  s.defaultPage,
		Limit: s.defaultLimit,
		Sort:  SortNewest,
	}
	params.Search = strings.TrimSpace(values.Get("search"))
	if params.Search == "" {
		params.Search = strings.TrimSpace(values.Get("q"))
	}
	for _, raw := range values["category"] {
		for _, slug := range strings.Split(raw, ",") {
			if slug = strings.ToLower(strings.TrimSpace(slug)); slug != "" {
				params.Categories = append(params.Categories, slug)
			}
		}
	}

	if v := strings.TrimSpace(values.Get("page")); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return params, badRequest("page", "page must be a positive integer", err)
		}
		params.Page = page
	}

	limit := s.defaultLimit
	if v := strings.TrimSpace(values.Get("limit")); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l < 1 {
			return params, badRequest("limit", "limit must be a positive integer", err)
		}
		limit = l
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	params.Limit = limit

	if v := strings.TrimSpace(values.Get("inStock")); v != "" {
		b, err := parseBool(v)
		if err != nil {
			return params, badRequest("inStock", "inStock must be true or false", err)
		}
		params.InStock = &b
	}
	if v := strings.TrimSpace(values.Get("featured")); v != "" {
		b, err := parseBool(v)
		if err != nil {
			return params, badRequest("featured", "featured must be true or false", err)
		}
		params.Featured = &b
	}

	sort, err := normalizeSort(values.Get("sort"))
	if err != nil {
		return params, badRequest("sort", "sort must be one of newest, price-asc, price-desc", err)
	}
	params.Sort = sort
	return params, nil
}

// ListCategories returns all categories ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	if s.cache != nil {
		var cached []Category
		ok, err := s.cache.GetJSON(ctx, categoriesCacheKey, &cached)
		obs.ObserveCatalogCache(err == nil && ok)
		if err == nil && ok {
			return cached, nil
		}
	}
	rows, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	result := make([]Category, 0, len(rows))
	for _, row := range rows {
		result = append(result, Category{
			ID:   db.UUIDString(row.ID),
			Name: row.Name,
			Slug: row.Slug,
		})
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, categoriesCacheKey, result)
	}
	return result, nil
}

// ListProducts returns filtered product list with pagination metadata.
func (s *Service) ListProducts(ctx context.Context, params ListParams) (ProductListResult, error) {
	key, shouldUseCache := s.listCacheKey(params)
	if shouldUseCache && s.cache != nil {
		var cached cachedList
		ok, err := s.cache.GetJSON(ctx, key, &cached)
		obs.ObserveCatalogCache(err == nil && ok)
		if err == nil && ok {
			return ProductListResult{Items: cached.Items, Total: cached.Total, Page: params.Page, Limit: params.Limit}, nil
		}
	}

	countParams := dbgen.CountProductsPublicParams{
		CategorySlugs: params.Categories,
		Search:        db.Text(params.Search),
		Featured:      optionalBool(params.Featured),
		InStock:       optionalBool(params.InStock),
	}
	total, err := s.queries.CountProductsPublic(ctx, countParams)
	if err != nil {
		return ProductListResult{}, fmt.Errorf("count products: %w", err)
	}
	offset := int32((params.Page - 1) * params.Limit)
	if offset < 0 {
		offset = 0
	}
	rows, err := s.queries.ListProductsPublic(ctx, dbgen.ListProductsPublicParams{
		CategorySlugs: countParams.CategorySlugs,
		Search:        countParams.Search,
		Featured:      countParams.Featured,
		InStock:       countParams.InStock,
		Sort:          db.Text(params.Sort),
		LimitValue:    int32(params.Limit),
		OffsetValue:   offset,
	})
	if err != nil {
		return ProductListResult{}, fmt.Errorf("list products: %w", err)
	}
	items := make([]ProductListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ProductListItem{
			ID:         db.UUIDString(row.ID),
			Name:       row.Name,
			Slug:       row.Slug,
			SKU:        row.Sku,
			Price:      row.Price,
			InStock:    row.InStock,
			ImageURL:   optionalText(row.ImageUrl),
			IsFeatured: row.IsFeatured,
			Category:   CategoryRef{Name: row.CategoryName, Slug: row.CategorySlug},
		})
	}
	result := ProductListResult{Items: items, Total: total, Page: params.Page, Limit: params.Limit}
	if shouldUseCache && s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, cachedList{Items: items, Total: total})
	}
	return result, nil
}

// GetProductDetail returns a single live product with its category.
func (s *Service) GetProductDetail(ctx context.Context, slug string) (ProductDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ProductDetail{}, badRequest("slug", "slug is required", nil)
	}
	cacheKey := detailCacheKey(slug)
	if s.cache != nil {
		var cached ProductDetail
		ok, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		obs.ObserveCatalogCache(err == nil && ok)
		if err == nil && ok {
			return cached, nil
		}
	}
	product, err := s.queries.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductDetail{}, &common.AppError{Code: "NOT_FOUND", Message: "product not found", HTTPStatus: http.StatusNotFound, Err: err}
		}
		return ProductDetail{}, fmt.Errorf("get product by slug: %w", err)
	}
	detail := ProductDetail{
		ProductListItem: ProductListItem{
			ID:         db.UUIDString(product.ID),
			Name:       product.Name,
			Slug:       product.Slug,
			SKU:        product.Sku,
			Price:      product.Price,
			InStock:    product.InStock,
			ImageURL:   optionalText(product.ImageUrl),
			IsFeatured: product.IsFeatured,
			Category:   CategoryRef{Name: product.CategoryName, Slug: product.CategorySlug},
		},
		CategoryID:  db.UUIDString(product.CategoryID),
		Description: optionalText(product.Description),
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, cacheKey, detail)
	}
	return detail, nil
}

type cachedList struct {
	Items []ProductListItem `json:"items"`
	Total int64             `json:"total"`
}

// listCacheKey only caches the unfiltered first page that the storefront home shows.
func (s *Service) listCacheKey(params ListParams) (string, bool) {
	if params.Page != s.defaultPage || params.Limit != s.defaultLimit {
		return "", false
	}
	if params.Search != "" || len(params.Categories) > 0 || params.Featured != nil || params.InStock != nil {
		return "", false
	}
	if params.Sort != SortNewest {
		return "", false
	}
	return listCacheKey, true
}

func optionalBool(ptr *bool) pgtype.Bool {
	if ptr == nil {
		return pgtype.Bool{}
	}
	return pgtype.Bool{Bool: *ptr, Valid: true}
}

func optionalText(t pgtype.Text) *string {
	if !t.Valid || strings.TrimSpace(t.String) == "" {
		return nil
	}
	v := t.String
	return &v
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "y":
		return true, nil
	case "false", "0", "no", "n":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean: %s", value)
	}
}

func normalizeSort(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return SortNewest, nil
	case SortNewest, SortPriceAsc, SortPriceDesc:
		return s, nil
	default:
		return "", fmt.Errorf("unknown sort %q", s)
	}
}

func badRequest(field, message string, err error) *common.AppError {
	return &common.AppError{
		Code:       "BAD_REQUEST",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
		Details: map[string]any{
			"field": field,
		},
	}
}
