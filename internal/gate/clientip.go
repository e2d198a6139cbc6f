package gate

import (
	"net/http"
	"strings"
)

// fallbackIP is shared by every caller that arrives without forwarding
// headers. They all count against one limiter entry, which is the accepted
// tradeoff behind a proxy that always sets the headers.
const fallbackIP = "127.0.0.1"

// ClientIP derives the caller identity from standard forwarding headers.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return fallbackIP
}
