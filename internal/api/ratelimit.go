package api

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/bookatlas/atlas-server/internal/http/response"
)

// rateLimitMiddleware applies per-client rate limiting keyed by IP.
// Preflight requests are exempt so a throttled client still gets CORS
// headers back.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		key := getClientIP(r)
		if !s.limiter.Allow(key) {
			s.logger.Warn("rate limit exceeded",
				slog.String("client_ip", key),
				slog.String("path", r.URL.Path))
			response.RateLimited(w, s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client IP, checking proxy headers before
// falling back to the connection address.
func getClientIP(r *http.Request) string {
	// X-Forwarded-For may contain a chain; the first entry is the client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return strings.TrimSpace(xrip)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
