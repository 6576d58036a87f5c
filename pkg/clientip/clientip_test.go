package clientip_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/quotaguard/pkg/clientip"
)

func TestGetIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "cloudflare header wins",
			headers:    map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"},
			remoteAddr: "10.0.0.1:4321",
			want:       "203.0.113.7",
		},
		{
			name:       "forwarded-for leftmost entry",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.2, 10.0.0.3"},
			remoteAddr: "10.0.0.1:4321",
			want:       "198.51.100.1",
		},
		{
			name:       "real-ip fallback",
			headers:    map[string]string{"X-Real-IP": "198.51.100.9"},
			remoteAddr: "10.0.0.1:4321",
			want:       "198.51.100.9",
		},
		{
			name:       "remote addr when no headers",
			remoteAddr: "192.0.2.44:9999",
			want:       "192.0.2.44",
		},
		{
			name:       "invalid header skipped",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			remoteAddr: "192.0.2.44:9999",
			want:       "192.0.2.44",
		},
		{
			name:       "unspecified address rejected",
			headers:    map[string]string{"X-Forwarded-For": "0.0.0.0"},
			remoteAddr: "192.0.2.44:9999",
			want:       "192.0.2.44",
		},
		{
			name:       "ipv6 normalized",
			headers:    map[string]string{"X-Forwarded-For": "2001:DB8::1"},
			remoteAddr: "10.0.0.1:4321",
			want:       "2001:db8::1",
		},
		{
			name:       "nothing valid yields unknown sentinel",
			remoteAddr: "garbage",
			want:       clientip.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, clientip.GetIP(r))
		})
	}
}
