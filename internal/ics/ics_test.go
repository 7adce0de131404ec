package ics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func icsBody(t *testing.T, events ...string) []byte {
	t.Helper()
	raw := "BEGIN:VCALENDAR\nVERSION:2.0\nPRODID:-//test//EN\n" +
		strings.Join(events, "") + "END:VCALENDAR\n"
	return []byte(strings.ReplaceAll(raw, "\n", "\r\n"))
}

const simpleEvent = `BEGIN:VEVENT
UID:evt-1
DTSTART:20240314T090000Z
DTEND:20240314T100000Z
SUMMARY:Standup
LOCATION:Dock 4
END:VEVENT
`

const recurringEvent = `BEGIN:VEVENT
UID:evt-2
DTSTART:20240314T120000Z
DTEND:20240314T130000Z
SUMMARY:Daily sync
RRULE:FREQ=DAILY;COUNT=5
EXDATE:20240316T120000Z
END:VEVENT
`

const allDayEvent = `BEGIN:VEVENT
UID:evt-3
DTSTART;VALUE=DATE:20240315
SUMMARY:Maintenance window
END:VEVENT
`

const anonymousEvent = `BEGIN:VEVENT
DTSTART:20240314T090000Z
DTEND:20240314T100000Z
SUMMARY:No UID
END:VEVENT
`

var testSource = Source{ID: "ops", URL: "https://calendar.example.com/ops.ics", Name: "Operations"}

func TestParse(t *testing.T) {
	t.Parallel()

	events, err := Parse(testSource, icsBody(t, simpleEvent, recurringEvent), nil)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("parsed events = %d, want 2", len(events))
	}

	ev := events[0]
	if ev.UID != "evt-1" || ev.Summary != "Standup" || ev.Location != "Dock 4" {
		t.Fatalf("unexpected event fields: %+v", ev)
	}
	wantStart := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	if !ev.Start.Equal(wantStart) || !ev.End.Equal(wantStart.Add(time.Hour)) {
		t.Fatalf("event bounds = %v..%v, want %v..%v", ev.Start, ev.End, wantStart, wantStart.Add(time.Hour))
	}

	rec := events[1]
	if rec.RawRRule != "FREQ=DAILY;COUNT=5" {
		t.Fatalf("raw rrule = %q", rec.RawRRule)
	}
	if len(rec.ExDates) != 1 {
		t.Fatalf("exdates = %v, want one entry", rec.ExDates)
	}
}

func TestParse_AllDay(t *testing.T) {
	t.Parallel()

	events, err := Parse(testSource, icsBody(t, allDayEvent), nil)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("parsed events = %d, want 1", len(events))
	}
	ev := events[0]
	if !ev.AllDay {
		t.Fatal("expected all-day event")
	}
	if got := ev.End.Sub(ev.Start); got != 24*time.Hour {
		t.Fatalf("all-day span = %v, want 24h", got)
	}
}

func TestParse_GeneratesMissingUIDs(t *testing.T) {
	t.Parallel()

	events, err := Parse(testSource, icsBody(t, anonymousEvent), nil)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(events) != 1 || events[0].UID == "" {
		t.Fatalf("expected a generated UID, got %+v", events)
	}
}

func TestExpand(t *testing.T) {
	t.Parallel()

	parsed, err := Parse(testSource, icsBody(t, simpleEvent, recurringEvent), nil)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	cfg := ExpandConfig{
		Location:   time.UTC,
		RangeStart: time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2024, time.March, 21, 0, 0, 0, 0, time.UTC),
	}
	records := Expand(parsed, cfg, nil)

	// evt-1 once, evt-2 on Mar 14/15/17/18 (Mar 16 excluded by EXDATE).
	if len(records) != 5 {
		t.Fatalf("records = %d, want 5: %+v", len(records), records)
	}

	for _, rec := range records {
		if rec["resourceId"] != "ops" {
			t.Fatalf("record not linked to feed resource: %+v", rec)
		}
		if _, ok := rec["start"].(time.Time); !ok {
			t.Fatalf("record start is not a time: %+v", rec)
		}
	}

	// Chronological ordering keeps bucket order deterministic.
	var prev time.Time
	for _, rec := range records {
		start := rec["start"].(time.Time)
		if start.Before(prev) {
			t.Fatalf("records out of order: %v before %v", start, prev)
		}
		prev = start
	}

	for _, rec := range records {
		start := rec["start"].(time.Time)
		if start.Day() == 16 {
			t.Fatalf("EXDATE occurrence leaked into expansion: %+v", rec)
		}
	}
}

func TestExpand_RangeFiltersSingleEvents(t *testing.T) {
	t.Parallel()

	parsed, err := Parse(testSource, icsBody(t, simpleEvent), nil)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	cfg := ExpandConfig{
		Location:   time.UTC,
		RangeStart: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2024, time.April, 8, 0, 0, 0, 0, time.UTC),
	}
	if records := Expand(parsed, cfg, nil); len(records) != 0 {
		t.Fatalf("records outside range = %+v, want none", records)
	}
}

func TestFetcher_ConditionalRequests(t *testing.T) {
	t.Parallel()

	body := icsBody(t, simpleEvent)
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client())
	src := Source{ID: "ops", URL: srv.URL}

	first, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	second, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	if string(first) != string(body) || string(second) != string(body) {
		t.Fatal("fetched bodies do not match served payload")
	}
	if requests != 2 {
		t.Fatalf("requests = %d, want 2", requests)
	}
}

func TestIngestor_FailingFeedKeepsResourceRow(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ing := NewIngestor(NewFetcher(srv.Client()), []Source{{ID: "ops", URL: srv.URL}}, ExpandConfig{
		Location:   time.UTC,
		RangeStart: time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2024, time.March, 21, 0, 0, 0, 0, time.UTC),
	}, nil)

	resources, events := ing.Ingest(context.Background())
	if len(resources) != 1 || resources[0]["id"] != "ops" {
		t.Fatalf("resources = %+v, want the feed's resource row", resources)
	}
	if len(events) != 0 {
		t.Fatalf("events = %+v, want none from a failing feed", events)
	}
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	var snap Snapshot
	if !snap.UpdatedAt().IsZero() {
		t.Fatal("fresh snapshot reports a non-zero update time")
	}

	at := time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC)
	snap.Update(nil, nil, at)
	if !snap.UpdatedAt().Equal(at) {
		t.Fatalf("UpdatedAt = %v, want %v", snap.UpdatedAt(), at)
	}
}

func TestNewRefresher_RejectsBadSpec(t *testing.T) {
	t.Parallel()

	if _, err := NewRefresher("not a cron spec", func(context.Context) {}, nil); err == nil {
		t.Fatal("expected error for malformed cron spec")
	}
	if _, err := NewRefresher("*/15 * * * *", func(context.Context) {}, nil); err != nil {
		t.Fatalf("unexpected error for valid spec: %v", err)
	}
}
