package ics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/example/resource-timeline/internal/timeline"
)

// Ingestor runs the fetch/parse/expand pipeline for a fixed set of feeds.
type Ingestor struct {
	fetcher *Fetcher
	sources []Source
	expand  ExpandConfig
	logger  *slog.Logger
}

// NewIngestor wires an ingestion pipeline.
func NewIngestor(fetcher *Fetcher, sources []Source, expand ExpandConfig, logger *slog.Logger) *Ingestor {
	if fetcher == nil {
		fetcher = NewFetcher(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{fetcher: fetcher, sources: sources, expand: expand, logger: logger}
}

// Ingest fetches every feed and returns resource and event records for the
// engine. A failing feed is logged and still contributes its resource row,
// just with no events; partial data renders, it does not blank the grid.
func (i *Ingestor) Ingest(ctx context.Context) (resources, events []timeline.Record) {
	resources = make([]timeline.Record, 0, len(i.sources))
	for _, src := range i.sources {
		name := src.Name
		if name == "" {
			name = src.ID
		}
		resources = append(resources, timeline.Record{"id": src.ID, "name": name})

		body, err := i.fetcher.Fetch(ctx, src)
		if err != nil {
			i.logger.Error("feed fetch failed", "feed", src.ID, "error", err)
			continue
		}
		parsed, err := Parse(src, body, i.logger)
		if err != nil {
			i.logger.Error("feed parse failed", "feed", src.ID, "url", RedactURL(src.URL), "error", err)
			continue
		}
		expanded := Expand(parsed, i.expand, i.logger)
		i.logger.Info("feed ingested", "feed", src.ID, "events", len(expanded))
		events = append(events, expanded...)
	}
	return resources, events
}

// Snapshot holds the latest ingested records for concurrent readers. The
// stored slices are replaced wholesale on update and must be treated as
// read-only by consumers.
type Snapshot struct {
	mu        sync.RWMutex
	resources []timeline.Record
	events    []timeline.Record
	updatedAt time.Time
}

// Update replaces the snapshot contents.
func (s *Snapshot) Update(resources, events []timeline.Record, at time.Time) {
	s.mu.Lock()
	s.resources = resources
	s.events = events
	s.updatedAt = at
	s.mu.Unlock()
}

// Records returns the current resource and event records as one consistent
// pair.
func (s *Snapshot) Records() (resources, events []timeline.Record) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resources, s.events
}

// UpdatedAt reports when the snapshot last changed; zero until the first
// ingest completes.
func (s *Snapshot) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Refresher re-runs an ingest function on a cron schedule.
type Refresher struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewRefresher schedules run according to spec (standard five-field cron
// syntax). The job is not run at construction time; callers perform the
// initial ingest themselves so startup errors surface synchronously.
func NewRefresher(spec string, run func(context.Context), logger *slog.Logger) (*Refresher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		logger.Info("scheduled feed refresh starting")
		run(context.Background())
	}); err != nil {
		return nil, err
	}
	return &Refresher{cron: c, logger: logger}, nil
}

// Start begins the schedule in its own goroutine.
func (r *Refresher) Start() {
	r.cron.Start()
}

// Stop halts the schedule and returns a context that completes when any
// in-flight job finishes.
func (r *Refresher) Stop() context.Context {
	return r.cron.Stop()
}
