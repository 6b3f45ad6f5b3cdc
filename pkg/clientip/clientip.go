package clientip

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the client IP used as the login rate-limit key.
// X-Forwarded-For is honored when present (the app runs behind the
// host platform's proxy); otherwise r.RemoteAddr is used.
func RealClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}
