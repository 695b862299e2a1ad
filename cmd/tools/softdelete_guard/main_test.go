package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckFlagsUnfilteredProductQueries(t *testing.T) {
	sql := `-- name: GetProduct :one
SELECT id FROM products WHERE id = $1;

-- name: GetLiveProduct :one
SELECT id FROM products WHERE id = $1 AND deleted_at IS NULL;

-- name: CountAll :one
-- guard: include-deleted
SELECT count(*) FROM products;

-- name: InsertProduct :one
INSERT INTO products (name) VALUES ($1) RETURNING id;

-- name: ListCategories :many
SELECT id FROM categories;
`
	names, err := check(strings.NewReader(sql))
	require.NoError(t, err)
	require.Equal(t, []string{"GetProduct"}, names)
}

func TestCheckCatchesJoinAndUpdate(t *testing.T) {
	sql := `-- name: Joined :many
SELECT l.id
FROM price_logs l
JOIN products p ON p.id = l.product_id;

-- name: Reprice :exec
UPDATE products SET price = $2 WHERE id = $1;
`
	names, err := check(strings.NewReader(sql))
	require.NoError(t, err)
	require.Equal(t, []string{"Joined", "Reprice"}, names)
}

func TestScanRepositoryQueriesAreGuarded(t *testing.T) {
	dir := filepath.Join("..", "..", "..", "internal", "db", "queries")
	if _, err := os.Stat(dir); err != nil {
		t.Skip("queries directory not available")
	}
	violations, err := scan(dir)
	require.NoError(t, err)
	require.Empty(t, violations)
}
