// Package web serves the rendered grid, the layout API and the operational
// endpoints over plain net/http.
package web

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/resource-timeline/internal/metrics"
	"github.com/example/resource-timeline/internal/render"
	"github.com/example/resource-timeline/internal/timeline"
)

// LayoutFunc produces the current layout and the time the underlying feed
// data was last refreshed. The zero time means no feeds are configured.
type LayoutFunc func(ctx context.Context) (timeline.Layout, time.Time)

// Config wires the handler's collaborators.
type Config struct {
	Layout   LayoutFunc
	Renderer *render.Renderer
	Metrics  *metrics.Metrics
	Logger   *slog.Logger

	// BasicAuthUser and BasicAuthHash enable authentication when both are
	// set. The health endpoint stays reachable without credentials.
	BasicAuthUser string
	BasicAuthHash string
}

type server struct {
	layout   LayoutFunc
	renderer *render.Renderer
	resp     responder
}

// layoutResponse is the API shape: the layout plus refresh freshness.
type layoutResponse struct {
	timeline.Layout
	FeedsUpdatedAt *time.Time `json:"feedsUpdatedAt,omitempty"`
}

// NewHandler assembles the full HTTP handler including middleware.
func NewHandler(cfg Config) http.Handler {
	s := &server{layout: cfg.Layout, renderer: cfg.Renderer}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		s.handleIndex(w, r)
	})
	mux.HandleFunc("/api/layout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		s.handleLayout(w, r)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		s.resp.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics.Handler())
	}

	var handler http.Handler = mux
	handler = BasicAuth(cfg.BasicAuthUser, cfg.BasicAuthHash, "/healthz")(handler)
	handler = RequestLogger(cfg.Logger, cfg.Metrics)(handler)
	return handler
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	layout, updatedAt := s.layout(r.Context())

	// Render into a buffer first so a template failure can still become a
	// clean 500 instead of a half-written page.
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, render.Page{Layout: layout, UpdatedAt: updatedAt}); err != nil {
		s.resp.writeError(r.Context(), w, http.StatusInternalServerError, errors.New("failed to render timeline"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	layout, updatedAt := s.layout(r.Context())

	body := layoutResponse{Layout: layout}
	if !updatedAt.IsZero() {
		body.FeedsUpdatedAt = &updatedAt
	}
	s.resp.writeJSON(r.Context(), w, http.StatusOK, body)
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
