package common

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientKey(t *testing.T) {
	cases := []struct {
		remote string
		ip     string
		key    string
	}{
		{"203.0.113.9:5555", "203.0.113.9", "203.0.113.9"},
		{"[2001:db8:1:2:aaaa::1]:443", "2001:db8:1:2:aaaa::1", "2001:db8:1:2::/64"},
		{"[::ffff:198.51.100.7]:80", "::ffff:198.51.100.7", "198.51.100.7"},
		{"not-an-ip", "not-an-ip", "not-an-ip"},
	}
	for _, tc := range cases {
		t.Run(tc.remote, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/inquiries", nil)
			req.RemoteAddr = tc.remote
			require.Equal(t, tc.ip, ClientIP(req))
			require.Equal(t, tc.key, ClientKey(req))
		})
	}

	a := httptest.NewRequest(http.MethodPost, "/api/v1/inquiries", nil)
	a.RemoteAddr = "[2001:db8:1:2::10]:1000"
	b := httptest.NewRequest(http.MethodPost, "/api/v1/inquiries", nil)
	b.RemoteAddr = "[2001:db8:1:2::beef]:1000"
	require.Equal(t, ClientKey(a), ClientKey(b))
}
