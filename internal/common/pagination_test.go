package common

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query   string
		page    int
		perPage int
	}{
		{"", 1, 20},
		{"page=3&limit=12", 3, 12},
		{"page=2&pageSize=5", 2, 5},
		{"per_page=7", 1, 7},
		{"page=0&limit=0", 1, 20},
		{"page=-4&limit=-1", 1, 20},
		{"limit=5000", 1, MaxPerPage},
		{"page=abc&limit=xyz", 1, 20},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/products?"+tc.query, nil)
			page, perPage := ParsePagination(req, 20)
			require.Equal(t, tc.page, page)
			require.Equal(t, tc.perPage, perPage)
		})
	}
}

func TestNewPagination(t *testing.T) {
	require.Equal(t, Pagination{Page: 1, PerPage: 12, TotalItems: 25, TotalPages: 3}, NewPagination(1, 12, 25))
	require.Equal(t, 2, NewPagination(2, 12, 24).TotalPages)
	require.Zero(t, NewPagination(1, 12, 0).TotalPages)
	require.Zero(t, NewPagination(1, 0, 10).TotalPages)
}

func TestQueryInt(t *testing.T) {
	q := url.Values{"days": {"14"}, "bad": {"x"}}
	require.Equal(t, 14, QueryInt(q, 7, "days"))
	require.Equal(t, 7, QueryInt(q, 7, "missing"))
	require.Equal(t, 7, QueryInt(q, 7, "bad", "days"))
	require.Equal(t, 14, QueryInt(q, 7, "missing", "days"))
}
