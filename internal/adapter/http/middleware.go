package adapthttp

import (
	"context"
	"net/http"
	"time"

	"inventory/internal/domain"
	"inventory/internal/metrics"
)

type contextKey string

const identityContextKey contextKey = "identity"

const sessionCookieName = "session"

// identityFrom returns the caller identity attached by identityMiddleware.
func identityFrom(ctx context.Context) domain.Identity {
	if id, ok := ctx.Value(identityContextKey).(domain.Identity); ok {
		return id
	}
	return domain.Anonymous{}
}

func withIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// identityMiddleware resolves the session cookie to an identity once per
// request. Missing, invalid and expired tokens, as well as tokens of deleted
// users, resolve to anonymous; the cookie is left in place.
func (s *Server) identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id domain.Identity = domain.Anonymous{}
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			resolved, err := s.auth.ResolveIdentity(r.Context(), cookie.Value)
			if err != nil {
				s.log.ErrorContext(r.Context(), "resolve identity", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			id = resolved
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
	})
}

// requireAuth sends anonymous callers to the sign-in page.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := domain.AsAuthenticated(identityFrom(r.Context())); !ok {
			redirect(w, r, "/sign-in")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// anonymousOnly sends signed-in callers to the dashboard.
func (s *Server) anonymousOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := domain.AsAuthenticated(identityFrom(r.Context())); ok {
			redirect(w, r, "/")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireRole rejects callers whose role does not permit action.
func (s *Server) requireRole(action domain.Action, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !domain.Can(identityFrom(r.Context()), action) {
			writeForbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs every request and records its metrics under the
// matched route pattern.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		metrics.RecordRequest(r.Pattern, r.Method, rec.status, elapsed)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed,
		}
		if who, ok := domain.AsAuthenticated(identityFrom(r.Context())); ok {
			attrs = append(attrs, "user", who.Username)
		}
		s.log.InfoContext(r.Context(), "http request", attrs...)
	})
}
