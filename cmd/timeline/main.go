package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/resource-timeline/internal/config"
	"github.com/example/resource-timeline/internal/dataset"
	"github.com/example/resource-timeline/internal/ics"
	"github.com/example/resource-timeline/internal/logging"
	"github.com/example/resource-timeline/internal/metrics"
	"github.com/example/resource-timeline/internal/render"
	"github.com/example/resource-timeline/internal/timeline"
	"github.com/example/resource-timeline/internal/web"
)

func main() {
	logger := logging.NewLogger(slog.LevelInfo)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ds, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		logger.Error("failed to load dataset", "path", cfg.DatasetPath, "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	engine := timeline.NewEngine(timeline.EngineOptions{
		Location: cfg.Timezone,
		OnDrop: func(d timeline.Drop) {
			m.RecordDrop(string(d.Reason))
		},
	})

	renderer, err := render.New()
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	var snapshot ics.Snapshot
	var refresher *ics.Refresher
	if len(ds.ICS) > 0 {
		sources := make([]ics.Source, 0, len(ds.ICS))
		for _, s := range ds.ICS {
			sources = append(sources, ics.Source{ID: s.ID, URL: s.URL, Name: s.Name})
		}

		// ICS recurrence is expanded over the visible window padded by a
		// day on each side, so events straddling the edges still clip
		// correctly instead of disappearing.
		norm := timeline.Normalizer{Location: cfg.Timezone}
		windowStart := norm.Normalize(true, ds.Window.Start)
		windowEnd := norm.Normalize(false, ds.Window.End)
		ingestor := ics.NewIngestor(ics.NewFetcher(nil), sources, ics.ExpandConfig{
			Location:   cfg.Timezone,
			RangeStart: windowStart.AddDate(0, 0, -1),
			RangeEnd:   windowEnd.AddDate(0, 0, 1),
		}, logger)

		refresh := func(ctx context.Context) {
			resources, events := ingestor.Ingest(ctx)
			now := time.Now().In(cfg.Timezone)
			snapshot.Update(resources, events, now)
			m.RecordRefresh(true, now)
		}
		refresh(ctx)

		refresher, err = ics.NewRefresher(cfg.RefreshSpec, refresh, logger)
		if err != nil {
			logger.Error("failed to schedule feed refresh", "spec", cfg.RefreshSpec, "error", err)
			os.Exit(1)
		}
		refresher.Start()
	}

	layout := func(ctx context.Context) (timeline.Layout, time.Time) {
		feedResources, feedEvents := snapshot.Records()
		start := time.Now()
		out := engine.Compute(ds.Input(feedResources, feedEvents))
		m.LayoutDuration.Observe(time.Since(start).Seconds())
		return out, snapshot.UpdatedAt()
	}

	handler := web.NewHandler(web.Config{
		Layout:        layout,
		Renderer:      renderer,
		Metrics:       m,
		Logger:        logger,
		BasicAuthUser: cfg.BasicAuthUser,
		BasicAuthHash: cfg.BasicAuthHash,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		if refresher != nil {
			<-refresher.Stop().Done()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("timeline listening", "addr", server.Addr, "feeds", len(ds.ICS))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
