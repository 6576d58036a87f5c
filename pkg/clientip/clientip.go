package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Unknown is returned when no valid client IP can be determined. All
// unidentified callers then share a single rate limit bucket, which is an
// accepted weakness of network-origin identification.
const Unknown = "unknown"

// ipHeaders are checked in priority order. The most reliable sources
// (edge proxy headers set by the infrastructure) come first.
var ipHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP extracts the client IP address from the request, checking proxy
// headers in priority order before falling back to RemoteAddr. The first
// header that yields a valid IP wins. Returns Unknown when no candidate
// parses as a usable address.
func GetIP(r *http.Request) string {
	for _, header := range ipHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}

		// X-Forwarded-For may contain a chain: "client, proxy1, proxy2".
		// The leftmost entry is the original client.
		if idx := strings.IndexByte(value, ','); idx >= 0 {
			value = value[:idx]
		}

		if ip := normalize(value); ip != "" {
			return ip
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		if ip := normalize(host); ip != "" {
			return ip
		}
	}
	// RemoteAddr may already be a bare IP without a port.
	if ip := normalize(r.RemoteAddr); ip != "" {
		return ip
	}

	return Unknown
}

// normalize validates and canonicalizes an IP candidate. Unspecified
// addresses (0.0.0.0, ::) indicate no valid client IP and are rejected.
func normalize(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
