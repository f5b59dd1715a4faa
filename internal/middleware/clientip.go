package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP is the address used for rate limiting and GeoIP. It prefers the
// first parseable X-Forwarded-For hop, then X-Real-IP, then the remote host.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	for _, hop := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		if ip := net.ParseIP(strings.TrimSpace(hop)); ip != nil {
			return ip.String()
		}
	}
	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
