package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-optima/internal/common"
	"github.com/noah-isme/backend-optima/internal/db"
	dbgen "github.com/noah-isme/backend-optima/internal/db/gen"
)

// ManualEditReason is stored on price logs written by product edits.
const ManualEditReason = "Manual edit"

type adminQueries interface {
	ListCategories(ctx context.Context) ([]dbgen.Category, error)
	GetCategoryByID(ctx context.Context, id pgtype.UUID) (dbgen.Category, error)
	CreateCategory(ctx context.Context, arg dbgen.CreateCategoryParams) (dbgen.Category, error)
	UpdateCategory(ctx context.Context, arg dbgen.UpdateCategoryParams) (dbgen.Category, error)
	DeleteCategory(ctx context.Context, id pgtype.UUID) (int64, error)
	CountProductsInCategory(ctx context.Context, categoryID pgtype.UUID) (int64, error)
	ListProductsAdmin(ctx context.Context, arg dbgen.ListProductsAdminParams) ([]dbgen.ListProductsAdminRow, error)
	CountProductsAdmin(ctx context.Context, arg dbgen.CountProductsAdminParams) (int64, error)
	GetProductByID(ctx context.Context, id pgtype.UUID) (dbgen.GetProductByIDRow, error)
	CreateProduct(ctx context.Context, arg dbgen.CreateProductParams) (dbgen.Product, error)
	SoftDeleteProduct(ctx context.Context, id pgtype.UUID) (int64, error)
}

// EditTxQueries is the query surface used when editing a product transactionally.
type EditTxQueries interface {
	GetProductPriceForUpdate(ctx context.Context, id pgtype.UUID) (int64, error)
	UpdateProduct(ctx context.Context, arg dbgen.UpdateProductParams) (dbgen.Product, error)
	InsertPriceLog(ctx context.Context, arg dbgen.InsertPriceLogParams) (dbgen.PriceLog, error)
}

// EditStore runs product edits atomically.
type EditStore interface {
	InTx(ctx context.Context, fn func(q EditTxQueries) error) error
}

// PgEditStore adapts db.Transactor to EditStore.
type PgEditStore struct {
	Tx db.Transactor
}

// InTx implements EditStore.
func (s PgEditStore) InTx(ctx context.Context, fn func(q EditTxQueries) error) error {
	return s.Tx.InTx(ctx, func(q *dbgen.Queries) error { return fn(q) })
}

// Invalidator drops cached catalog views after writes.
type Invalidator interface {
	InvalidateCatalog(ctx context.Context, reason string) error
}

// AdminService implements back-office product and category management.
type AdminService struct {
	queries     adminQueries
	edits       EditStore
	invalidator Invalidator
	logger      zerolog.Logger
	maxPageSize int
}

// AdminServiceConfig groups AdminService dependencies.
type AdminServiceConfig struct {
	Queries     adminQueries
	Edits       EditStore
	Invalidator Invalidator
	Logger      zerolog.Logger
	MaxPageSize int
}

// NewAdminService constructs an AdminService.
func NewAdminService(cfg AdminServiceConfig) (*AdminService, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: admin queries are required")
	}
	if cfg.Edits == nil {
		return nil, errors.New("catalog: edit store is required")
	}
	maxPageSize := cfg.MaxPageSize
	if maxPageSize < 1 {
		maxPageSize = 100
	}
	return &AdminService{
		queries:     cfg.Queries,
		edits:       cfg.Edits,
		invalidator: cfg.Invalidator,
		logger:      cfg.Logger,
		maxPageSize: maxPageSize,
	}, nil
}

// ProductInput is the writable shape of a product.
type ProductInput struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Slug        string `json:"slug" validate:"omitempty,max=200"`
	SKU         string `json:"sku" validate:"required,max=64"`
	CategoryID  string `json:"categoryId" validate:"required,uuid"`
	Description string `json:"description" validate:"max=5000"`
	Price       *int64 `json:"price" validate:"required,gte=0"`
	InStock     *bool  `json:"inStock"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
	IsFeatured  bool   `json:"isFeatured"`
}

// CategoryInput is the writable shape of a category.
type CategoryInput struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
	Slug string `json:"slug" validate:"omitempty,max=120"`
}

// AdminProduct is the admin view of a product.
type AdminProduct struct {
	ProductDetail
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// AdminProductList holds a page of admin products.
type AdminProductList struct {
	Items    []AdminProduct
	Total    int64
	Page     int
	PageSize int
}

// AdminListParams filters the admin product table.
type AdminListParams struct {
	Search     string
	CategoryID string
	Page       int
	PageSize   int
}

// ListProducts returns products ordered by most recently updated.
func (s *AdminService) ListProducts(ctx context.Context, params AdminListParams) (AdminProductList, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 20
	}
	if params.PageSize > s.maxPageSize {
		params.PageSize = s.maxPageSize
	}
	var categoryID pgtype.UUID
	if raw := strings.TrimSpace(params.CategoryID); raw != "" {
		id, err := db.ParseUUID(raw)
		if err != nil {
			return AdminProductList{}, badRequest("categoryId", "categoryId must be a valid id", err)
		}
		categoryID = id
	}
	search := db.Text(strings.TrimSpace(params.Search))
	total, err := s.queries.CountProductsAdmin(ctx, dbgen.CountProductsAdminParams{Search: search, CategoryID: categoryID})
	if err != nil {
		return AdminProductList{}, fmt.Errorf("count admin products: %w", err)
	}
	rows, err := s.queries.ListProductsAdmin(ctx, dbgen.ListProductsAdminParams{
		Search:      search,
		CategoryID:  categoryID,
		LimitValue:  int32(params.PageSize),
		OffsetValue: int32((params.Page - 1) * params.PageSize),
	})
	if err != nil {
		return AdminProductList{}, fmt.Errorf("list admin products: %w", err)
	}
	items := make([]AdminProduct, 0, len(rows))
	for _, row := range rows {
		items = append(items, adminProduct(dbgen.GetProductByIDRow(row)))
	}
	return AdminProductList{Items: items, Total: total, Page: params.Page, PageSize: params.PageSize}, nil
}

// GetProduct returns a single live product.
func (s *AdminService) GetProduct(ctx context.Context, rawID string) (AdminProduct, error) {
	id, err := parseID(rawID)
	if err != nil {
		return AdminProduct{}, err
	}
	row, err := s.queries.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AdminProduct{}, notFound("product not found", err)
		}
		return AdminProduct{}, fmt.Errorf("get product: %w", err)
	}
	return adminProduct(row), nil
}

// CreateProduct inserts a product. The slug defaults to a slugified name.
func (s *AdminService) CreateProduct(ctx context.Context, in ProductInput) (AdminProduct, error) {
	categoryID, err := db.ParseUUID(strings.TrimSpace(in.CategoryID))
	if err != nil {
		return AdminProduct{}, badRequest("categoryId", "categoryId must be a valid id", err)
	}
	slug := productSlug(in)
	if slug == "" {
		return AdminProduct{}, badRequest("slug", "slug could not be derived from name", nil)
	}
	inStock := true
	if in.InStock != nil {
		inStock = *in.InStock
	}
	created, err := s.queries.CreateProduct(ctx, dbgen.CreateProductParams{
		CategoryID:  categoryID,
		Name:        strings.TrimSpace(in.Name),
		Slug:        slug,
		Sku:         strings.ToUpper(strings.TrimSpace(in.SKU)),
		Description: db.Text(strings.TrimSpace(in.Description)),
		Price:       *in.Price,
		InStock:     inStock,
		ImageUrl:    db.Text(strings.TrimSpace(in.ImageURL)),
		IsFeatured:  in.IsFeatured,
	})
	if err != nil {
		return AdminProduct{}, mapWriteError(err)
	}
	s.invalidate(ctx, "product-create")
	return s.GetProduct(ctx, db.UUIDString(created.ID))
}

// UpdateProduct replaces a product's fields. A price change appends one price log
// in the same transaction.
func (s *AdminService) UpdateProduct(ctx context.Context, rawID string, in ProductInput, actor string) (AdminProduct, error) {
	id, err := parseID(rawID)
	if err != nil {
		return AdminProduct{}, err
	}
	categoryID, err := db.ParseUUID(strings.TrimSpace(in.CategoryID))
	if err != nil {
		return AdminProduct{}, badRequest("categoryId", "categoryId must be a valid id", err)
	}
	slug := productSlug(in)
	if slug == "" {
		return AdminProduct{}, badRequest("slug", "slug could not be derived from name", nil)
	}
	inStock := true
	if in.InStock != nil {
		inStock = *in.InStock
	}
	if strings.TrimSpace(actor) == "" {
		actor = "admin"
	}

	err = s.edits.InTx(ctx, func(q EditTxQueries) error {
		oldPrice, err := q.GetProductPriceForUpdate(ctx, id)
		if err != nil {
			return err
		}
		updated, err := q.UpdateProduct(ctx, dbgen.UpdateProductParams{
			ID:          id,
			CategoryID:  categoryID,
			Name:        strings.TrimSpace(in.Name),
			Slug:        slug,
			Sku:         strings.ToUpper(strings.TrimSpace(in.SKU)),
			Description: db.Text(strings.TrimSpace(in.Description)),
			Price:       *in.Price,
			InStock:     inStock,
			ImageUrl:    db.Text(strings.TrimSpace(in.ImageURL)),
			IsFeatured:  in.IsFeatured,
		})
		if err != nil {
			return err
		}
		if updated.Price == oldPrice {
			return nil
		}
		_, err = q.InsertPriceLog(ctx, dbgen.InsertPriceLogParams{
			ProductID: id,
			OldPrice:  oldPrice,
			NewPrice:  updated.Price,
			ChangedBy: actor,
			Reason:    db.Text(ManualEditReason),
		})
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AdminProduct{}, notFound("product not found", err)
		}
		return AdminProduct{}, mapWriteError(err)
	}
	s.invalidate(ctx, "product-update")
	return s.GetProduct(ctx, rawID)
}

// DeleteProduct hides a product from every listing while keeping its price history.
func (s *AdminService) DeleteProduct(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	affected, err := s.queries.SoftDeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if affected == 0 {
		return notFound("product not found", pgx.ErrNoRows)
	}
	s.invalidate(ctx, "product-delete")
	return nil
}

// ListCategories returns categories ordered by name.
func (s *AdminService) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, Category{ID: db.UUIDString(row.ID), Name: row.Name, Slug: row.Slug})
	}
	return out, nil
}

// CreateCategory inserts a category.
func (s *AdminService) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	slug := categorySlug(in)
	if slug == "" {
		return Category{}, badRequest("slug", "slug could not be derived from name", nil)
	}
	row, err := s.queries.CreateCategory(ctx, dbgen.CreateCategoryParams{Name: strings.TrimSpace(in.Name), Slug: slug})
	if err != nil {
		return Category{}, mapWriteError(err)
	}
	s.invalidate(ctx, "category-create")
	return Category{ID: db.UUIDString(row.ID), Name: row.Name, Slug: row.Slug}, nil
}

// UpdateCategory renames a category.
func (s *AdminService) UpdateCategory(ctx context.Context, rawID string, in CategoryInput) (Category, error) {
	id, err := parseID(rawID)
	if err != nil {
		return Category{}, err
	}
	slug := categorySlug(in)
	if slug == "" {
		return Category{}, badRequest("slug", "slug could not be derived from name", nil)
	}
	row, err := s.queries.UpdateCategory(ctx, dbgen.UpdateCategoryParams{ID: id, Name: strings.TrimSpace(in.Name), Slug: slug})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, notFound("category not found", err)
		}
		return Category{}, mapWriteError(err)
	}
	s.invalidate(ctx, "category-update")
	return Category{ID: db.UUIDString(row.ID), Name: row.Name, Slug: row.Slug}, nil
}

// DeleteCategory removes a category that no product references.
func (s *AdminService) DeleteCategory(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	inUse, err := s.queries.CountProductsInCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("count category products: %w", err)
	}
	if inUse > 0 {
		return categoryInUse(inUse, nil)
	}
	affected, err := s.queries.DeleteCategory(ctx, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return categoryInUse(0, err)
		}
		return mapWriteError(err)
	}
	if affected == 0 {
		return notFound("category not found", pgx.ErrNoRows)
	}
	s.invalidate(ctx, "category-delete")
	return nil
}

func (s *AdminService) invalidate(ctx context.Context, reason string) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateCatalog(ctx, reason); err != nil {
		s.logger.Warn().Err(err).Str("reason", reason).Msg("catalog cache invalidation failed")
	}
}

func adminProduct(row dbgen.GetProductByIDRow) AdminProduct {
	return AdminProduct{
		ProductDetail: ProductDetail{
			ProductListItem: ProductListItem{
				ID:         db.UUIDString(row.ID),
				Name:       row.Name,
				Slug:       row.Slug,
				SKU:        row.Sku,
				Price:      row.Price,
				InStock:    row.InStock,
				ImageURL:   optionalText(row.ImageUrl),
				IsFeatured: row.IsFeatured,
				Category:   CategoryRef{Name: row.CategoryName, Slug: row.CategorySlug},
			},
			CategoryID:  db.UUIDString(row.CategoryID),
			Description: optionalText(row.Description),
		},
		CreatedAt: formatTime(row.CreatedAt),
		UpdatedAt: formatTime(row.UpdatedAt),
	}
}

func formatTime(ts pgtype.Timestamptz) string {
	if !ts.Valid {
		return ""
	}
	return ts.Time.UTC().Format("2006-01-02T15:04:05Z07:00")
}

func productSlug(in ProductInput) string {
	if s := Slugify(in.Slug); s != "" {
		return s
	}
	return Slugify(in.Name)
}

func categorySlug(in CategoryInput) string {
	if s := Slugify(in.Slug); s != "" {
		return s
	}
	return Slugify(in.Name)
}

func parseID(raw string) (pgtype.UUID, error) {
	id, err := db.ParseUUID(strings.TrimSpace(raw))
	if err != nil {
		return pgtype.UUID{}, badRequest("id", "id must be a valid id", err)
	}
	return id, nil
}

func categoryInUse(products int64, err error) *common.AppError {
	appErr := &common.AppError{Code: "CATEGORY_IN_USE", Message: "category still has products", HTTPStatus: http.StatusConflict, Err: err}
	if products > 0 {
		appErr.Details = map[string]any{"products": products}
	}
	return appErr
}

func notFound(message string, err error) *common.AppError {
	return &common.AppError{Code: "NOT_FOUND", Message: message, HTTPStatus: http.StatusNotFound, Err: err}
}

func mapWriteError(err error) error {
	switch {
	case db.IsUniqueViolation(err):
		return &common.AppError{Code: common.CodeConflict, Message: "slug or sku already exists", HTTPStatus: http.StatusConflict, Err: err}
	case db.IsForeignKeyViolation(err):
		return &common.AppError{Code: "BAD_REQUEST", Message: "referenced category does not exist", HTTPStatus: http.StatusBadRequest, Err: err, Details: map[string]any{"field": "categoryId"}}
	default:
		return fmt.Errorf("catalog write: %w", err)
	}
}
