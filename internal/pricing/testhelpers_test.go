package pricing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-optima/internal/db"
	dbgen "github.com/noah-isme/backend-optima/internal/db/gen"
	"github.com/noah-isme/backend-optima/internal/pricing"
)

const (
	categoryPens  = "aaaaaaaa-0000-0000-0000-000000000001"
	categoryEmpty = "aaaaaaaa-0000-0000-0000-000000000002"
	productA      = "bbbbbbbb-0000-0000-0000-000000000001"
	productB      = "bbbbbbbb-0000-0000-0000-000000000002"
	productC      = "bbbbbbbb-0000-0000-0000-000000000003"
)

type fakeProduct struct {
	id       string
	category string
	name     string
	sku      string
	price    int64
}

// memoryCatalog is both the planner's product source and the committer's store.
// Transactions run against a copy that is only published when fn succeeds.
type memoryCatalog struct {
	categories map[string]string
	products   []fakeProduct
	logs       []dbgen.InsertPriceLogParams

	failUpdateAt int
	updateCalls  int
	reads        int
	lockOrder    []string
}

func newMemoryCatalog() *memoryCatalog {
	return &memoryCatalog{
		categories: map[string]string{
			categoryPens:  "Pulpen",
			categoryEmpty: "Kosong",
		},
		products: []fakeProduct{
			{id: productB, category: categoryPens, name: "Ballpoint Biru", sku: "PEN-002", price: 12000},
			{id: productA, category: categoryPens, name: "Ballpoint Hitam", sku: "PEN-001", price: 18500},
			{id: productC, category: categoryPens, name: "Spidol", sku: "PEN-003", price: 300},
		},
	}
}

func (m *memoryCatalog) price(id string) int64 {
	for _, p := range m.products {
		if p.id == id {
			return p.price
		}
	}
	return -1
}

func (m *memoryCatalog) GetCategoryByID(_ context.Context, id pgtype.UUID) (dbgen.Category, error) {
	m.reads++
	name, ok := m.categories[db.UUIDString(id)]
	if !ok {
		return dbgen.Category{}, pgx.ErrNoRows
	}
	return dbgen.Category{ID: id, Name: name}, nil
}

func (m *memoryCatalog) ListProductsForPricingByCategory(_ context.Context, categoryID pgtype.UUID) ([]dbgen.ListProductsForPricingByCategoryRow, error) {
	m.reads++
	key := db.UUIDString(categoryID)
	var rows []dbgen.ListProductsForPricingByCategoryRow
	// products are stored sorted by name already
	for _, p := range m.products {
		if p.category != key {
			continue
		}
		id, _ := db.ParseUUID(p.id)
		rows = append(rows, dbgen.ListProductsForPricingByCategoryRow{ID: id, CategoryID: categoryID, Name: p.name, Sku: p.sku, Price: p.price})
	}
	return rows, nil
}

func (m *memoryCatalog) ListProductsForPricingByIDs(_ context.Context, ids []pgtype.UUID) ([]dbgen.ListProductsForPricingByIDsRow, error) {
	m.reads++
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[db.UUIDString(id)] = struct{}{}
	}
	var rows []dbgen.ListProductsForPricingByIDsRow
	for _, p := range m.products {
		if _, ok := wanted[p.id]; !ok {
			continue
		}
		id, _ := db.ParseUUID(p.id)
		cat, _ := db.ParseUUID(p.category)
		rows = append(rows, dbgen.ListProductsForPricingByIDsRow{ID: id, CategoryID: cat, Name: p.name, Sku: p.sku, Price: p.price})
	}
	return rows, nil
}

func (m *memoryCatalog) InTx(ctx context.Context, fn func(q pricing.TxQueries) error) error {
	tx := &memoryTx{
		parent:   m,
		products: append([]fakeProduct(nil), m.products...),
		logs:     append([]dbgen.InsertPriceLogParams(nil), m.logs...),
	}
	if err := fn(tx); err != nil {
		return err
	}
	m.products = tx.products
	m.logs = tx.logs
	return nil
}

type memoryTx struct {
	parent   *memoryCatalog
	products []fakeProduct
	logs     []dbgen.InsertPriceLogParams
}

func (t *memoryTx) GetProductPriceForUpdate(_ context.Context, id pgtype.UUID) (int64, error) {
	key := db.UUIDString(id)
	t.parent.lockOrder = append(t.parent.lockOrder, key)
	for _, p := range t.products {
		if p.id == key {
			return p.price, nil
		}
	}
	return 0, pgx.ErrNoRows
}

func (t *memoryTx) UpdateProductPrice(_ context.Context, arg dbgen.UpdateProductPriceParams) (int64, error) {
	t.parent.updateCalls++
	if t.parent.failUpdateAt > 0 && t.parent.updateCalls == t.parent.failUpdateAt {
		return 0, errors.New("connection reset by peer")
	}
	key := db.UUIDString(arg.ID)
	for i := range t.products {
		if t.products[i].id == key {
			t.products[i].price = arg.Price
			return 1, nil
		}
	}
	return 0, nil
}

func (t *memoryTx) InsertPriceLog(_ context.Context, arg dbgen.InsertPriceLogParams) (dbgen.PriceLog, error) {
	t.logs = append(t.logs, arg)
	return dbgen.PriceLog{ProductID: arg.ProductID, OldPrice: arg.OldPrice, NewPrice: arg.NewPrice, ChangedBy: arg.ChangedBy}, nil
}

type recordingInvalidator struct {
	calls []string
	err   error
}

func (r *recordingInvalidator) InvalidateCatalog(_ context.Context, reason string) error {
	r.calls = append(r.calls, reason)
	return r.err
}

func newTestService(t *testing.T, store *memoryCatalog, inv pricing.CatalogInvalidator) *pricing.Service {
	t.Helper()
	planner, err := pricing.NewPlanner(store)
	require.NoError(t, err)
	committer, err := pricing.NewCommitter(store)
	require.NoError(t, err)
	svc, err := pricing.NewService(pricing.ServiceConfig{
		Planner:        planner,
		Committer:      committer,
		Invalidator:    inv,
		DefaultRoundTo: 100,
		MaxRoundTo:     10000,
	})
	require.NoError(t, err)
	return svc
}
