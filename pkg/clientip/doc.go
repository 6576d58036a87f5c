// Package clientip extracts real client IP addresses from HTTP requests.
//
// This package handles various proxy headers in priority order to determine
// the actual client IP address, which is the identity key for abuse-prevention
// rate limiting. The derived identity is best-effort and unauthenticated:
// forwarded headers are inherently spoofable, and this package does not try
// to harden them.
//
// # Header Priority
//
// The package checks headers in this specific order:
//  1. CF-Connecting-IP (Cloudflare)
//  2. DO-Connecting-IP (DigitalOcean)
//  3. X-Forwarded-For (most common proxy header, leftmost entry wins)
//  4. X-Real-IP (nginx and other proxies)
//  5. RemoteAddr (direct connection)
//
// # Validation
//
// All candidates are validated with net.ParseIP and normalized via
// net.IP.String(). Unspecified addresses (0.0.0.0, ::) are rejected. When no
// candidate survives validation, GetIP returns the literal sentinel
// "unknown". All unidentified callers then share one rate limit bucket,
// an accepted weakness of network-origin identification.
//
// # Usage
//
//	func handleRequest(w http.ResponseWriter, r *http.Request) {
//		identity := clientip.GetIP(r)
//
//		result, err := limiter.Check(r.Context(), identity)
//		if err == nil && !result.Allowed() {
//			http.Error(w, "Rate limited", http.StatusTooManyRequests)
//			return
//		}
//		// Continue processing...
//	}
package clientip
