package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-optima/internal/db"
	dbgen "github.com/noah-isme/backend-optima/internal/db/gen"
)

// ProductSource resolves scopes to the products currently eligible for repricing.
type ProductSource interface {
	GetCategoryByID(ctx context.Context, id pgtype.UUID) (dbgen.Category, error)
	ListProductsForPricingByCategory(ctx context.Context, categoryID pgtype.UUID) ([]dbgen.ListProductsForPricingByCategoryRow, error)
	ListProductsForPricingByIDs(ctx context.Context, ids []pgtype.UUID) ([]dbgen.ListProductsForPricingByIDsRow, error)
}

// Scope selects the products a batch applies to. Exactly one field must be set.
type Scope struct {
	CategoryID string
	ProductIDs []string
}

// PriceChange is one planned or committed price transition.
type PriceChange struct {
	ProductID   string `json:"id"`
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	PriceBefore Money  `json:"currentPrice"`
	PriceAfter  Money  `json:"newPrice"`
	Difference  Money  `json:"difference"`
}

// Plan is the result shared by preview and commit.
type Plan struct {
	Scope        Scope
	Adjustment   Adjustment
	CategoryName string
	Changes      []PriceChange
}

type pricingRow struct {
	id    pgtype.UUID
	name  string
	sku   string
	price int64
}

// Planner computes price changes without touching stored state.
type Planner struct {
	source ProductSource
}

// NewPlanner constructs a Planner backed by source.
func NewPlanner(source ProductSource) (*Planner, error) {
	if source == nil {
		return nil, errors.New("pricing: product source is required")
	}
	return &Planner{source: source}, nil
}

// Plan resolves scope and returns one PriceChange per matched product in scope order.
func (p *Planner) Plan(ctx context.Context, scope Scope, adj Adjustment) (Plan, error) {
	if _, err := NewAdjustment(adj.Mode, adj.Value, adj.Direction, adj.RoundTo); err != nil {
		return Plan{}, err
	}
	rows, categoryName, err := p.resolve(ctx, scope)
	if err != nil {
		return Plan{}, err
	}
	if len(rows) == 0 {
		return Plan{}, ErrEmptyScope
	}
	changes := make([]PriceChange, 0, len(rows))
	for _, row := range rows {
		after, err := adj.Apply(row.price)
		if err != nil {
			return Plan{}, err
		}
		changes = append(changes, PriceChange{
			ProductID:   db.UUIDString(row.id),
			Name:        row.name,
			SKU:         row.sku,
			PriceBefore: row.price,
			PriceAfter:  after,
			Difference:  after - row.price,
		})
	}
	return Plan{Scope: scope, Adjustment: adj, CategoryName: categoryName, Changes: changes}, nil
}

func (p *Planner) resolve(ctx context.Context, scope Scope) ([]pricingRow, string, error) {
	categoryID := strings.TrimSpace(scope.CategoryID)
	switch {
	case categoryID != "" && len(scope.ProductIDs) > 0:
		return nil, "", fmt.Errorf("%w: use either categoryId or productIds", ErrInvalidScope)
	case categoryID != "":
		return p.resolveCategory(ctx, categoryID)
	case len(scope.ProductIDs) > 0:
		rows, err := p.resolveIDs(ctx, scope.ProductIDs)
		return rows, "", err
	default:
		return nil, "", fmt.Errorf("%w: categoryId or productIds is required", ErrInvalidScope)
	}
}

func (p *Planner) resolveCategory(ctx context.Context, rawID string) ([]pricingRow, string, error) {
	id, err := db.ParseUUID(rawID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: categoryId is not a valid id", ErrInvalidScope)
	}
	category, err := p.source.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrEmptyScope
		}
		return nil, "", fmt.Errorf("get category: %w", err)
	}
	rows, err := p.source.ListProductsForPricingByCategory(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("list products by category: %w", err)
	}
	out := make([]pricingRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, pricingRow{id: row.ID, name: row.Name, sku: row.Sku, price: row.Price})
	}
	return out, category.Name, nil
}

// resolveIDs keeps the caller's order, drops duplicates and silently skips ids that
// no longer resolve to a live product.
func (p *Planner) resolveIDs(ctx context.Context, rawIDs []string) ([]pricingRow, error) {
	ids := make([]pgtype.UUID, 0, len(rawIDs))
	order := make([]string, 0, len(rawIDs))
	seen := make(map[string]struct{}, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := db.ParseUUID(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a valid product id", ErrInvalidScope, raw)
		}
		key := db.UUIDString(id)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		ids = append(ids, id)
		order = append(order, key)
	}
	rows, err := p.source.ListProductsForPricingByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list products by id: %w", err)
	}
	byID := make(map[string]pricingRow, len(rows))
	for _, row := range rows {
		byID[db.UUIDString(row.ID)] = pricingRow{id: row.ID, name: row.Name, sku: row.Sku, price: row.Price}
	}
	out := make([]pricingRow, 0, len(rows))
	for _, key := range order {
		if row, ok := byID[key]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}
