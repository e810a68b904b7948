package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/storeapp/store-server/internal/auth"
	"github.com/storeapp/store-server/internal/domain"
	"github.com/storeapp/store-server/internal/http/response"
	"github.com/storeapp/store-server/internal/logger"
	"github.com/storeapp/store-server/internal/ratelimit"
)

// sessionHeader carries the session token on every authenticated request.
const sessionHeader = "X-StoRe-Session"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeySession contextKey = "session"

// requireSession validates the session header and attaches the session to
// the request context. A missing or malformed header is rejected before the
// session store is consulted; only a well-formed unknown token is a 403.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(sessionHeader)
		if token == "" {
			response.BadRequest(w, "missing session header", s.logger.Logger)
			return
		}
		if !auth.ValidToken(token, auth.TokenLength) {
			response.BadRequest(w, "malformed session id", s.logger.Logger)
			return
		}

		session, err := s.catalog.Auth.Validate(r.Context(), token)
		if err != nil {
			response.HandleError(w, err, s.logger.Logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeySession, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom extracts the authenticated session from request context.
// Returns nil if not authenticated.
func sessionFrom(ctx context.Context) *domain.Session {
	if session, ok := ctx.Value(contextKeySession).(*domain.Session); ok {
		return session
	}
	return nil
}

// logRequests emits one structured log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// rateLimitMiddleware limits requests per client IP.
// Returns 429 Too Many Requests when the limit is exceeded.
func rateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			if !limiter.Allow(key) {
				log.Warn("Rate limit exceeded", "ip", key, "path", r.URL.Path)
				response.Error(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, try again later", log.Logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client IP from the request. RealIP middleware has
// already resolved forwarding headers into RemoteAddr; strip the port.
func clientIP(r *http.Request) string {
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}
