package web

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/resource-timeline/internal/logging"
	"github.com/example/resource-timeline/internal/metrics"
)

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger attaches a per-request logger to the context and records one
// log line plus request metrics per served request.
func RequestLogger(base *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := logging.ContextWithLogger(r.Context(), logger)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r.WithContext(ctx))
			duration := time.Since(start)

			logger.InfoContext(ctx, "request completed", "status", rec.status, "duration", duration)
			if m != nil {
				m.RecordRequest(r.Method, r.URL.Path, rec.status, duration)
			}
		})
	}
}

// BasicAuth guards every route except the exempt paths with HTTP basic
// authentication. The stored credential is a bcrypt hash; the username check
// is constant time. Empty credentials disable the guard entirely.
func BasicAuth(username, passwordHash string, exempt ...string) func(http.Handler) http.Handler {
	exemptPaths := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		exemptPaths[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		if username == "" || passwordHash == "" {
			return next
		}
		var resp responder

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok || !credentialsMatch(username, passwordHash, user, pass) {
				w.Header().Set("WWW-Authenticate", `Basic realm="timeline"`)
				resp.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Message: "authentication required"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func credentialsMatch(wantUser, wantHash, user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(wantUser), []byte(user)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(wantHash), []byte(pass)) == nil
	return userOK && passOK
}
