package portal

import (
	"net"
	"net/http"
	"strings"
)

// ParseClientIP returns the address the rate limiter keys on. X-Forwarded-For
// is only honoured when the direct peer is a loopback or private address, that
// is a reverse proxy we run; the right-most public hop wins.
func ParseClientIP(r *http.Request) string {
	peer := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(peer); err == nil {
		peer = host
	}

	if !isProxy(peer) {
		return peer
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")

	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])

		if net.ParseIP(hop) != nil && !isProxy(hop) {
			return hop
		}
	}

	return peer
}

func isProxy(address string) bool {
	ip := net.ParseIP(address)

	return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
}

// FilterNonEmpty trims every value and drops the blank ones, keeping order.
func FilterNonEmpty(values []string) []string {
	var out []string

	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
