package render

import (
	"strings"
	"testing"
	"time"

	"github.com/example/resource-timeline/internal/timeline"
)

func computeLayout(t *testing.T) timeline.Layout {
	t.Helper()
	engine := timeline.NewEngine(timeline.EngineOptions{Location: time.UTC})
	return engine.Compute(timeline.Input{
		Title: "Dock schedule",
		Start: time.Date(2024, time.March, 14, 6, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.March, 14, 18, 0, 0, 0, time.UTC),
		Resources: []timeline.Record{
			{"id": "dock-1", "name": "Dock One"},
			{"id": "dock-2"},
		},
		Events: []timeline.Record{
			{
				"id":         "ev-1",
				"resourceId": "dock-1",
				"title":      "Unloading",
				"start":      time.Date(2024, time.March, 14, 8, 0, 0, 0, time.UTC),
				"end":        time.Date(2024, time.March, 14, 10, 30, 0, 0, time.UTC),
			},
		},
	})
}

func TestRender(t *testing.T) {
	t.Parallel()

	r, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	var sb strings.Builder
	page := Page{
		Layout:    computeLayout(t),
		UpdatedAt: time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC),
	}
	if err := r.Render(&sb, page); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	html := sb.String()

	for _, want := range []string{
		"<title>Dock schedule</title>",
		// 12 one-hour labels, two columns each.
		`<th colspan="2">6 AM</th>`,
		`<th colspan="2">5 PM</th>`,
		// Resource column falls back to the identifier when unnamed.
		">Dock One<",
		">dock-2<",
		// 8 AM in a window starting 6 AM is 120 minutes, one pixel each.
		"left: 120px",
		"width: 150px",
		`colspan="24"`,
		"Feeds refreshed 2024-03-14",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}

	// Single-day window renders no day header row.
	if strings.Contains(html, `class="days"`) {
		t.Error("unexpected day header row for a single-day window")
	}
}

func TestRender_DayHeaders(t *testing.T) {
	t.Parallel()

	engine := timeline.NewEngine(timeline.EngineOptions{Location: time.UTC})
	layout := engine.Compute(timeline.Input{
		Start:     time.Date(2024, time.March, 14, 22, 0, 0, 0, time.UTC),
		End:       time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC),
		Resources: []timeline.Record{{"id": "dock-1"}},
	})

	r, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	var sb strings.Builder
	if err := r.Render(&sb, Page{Layout: layout}); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	html := sb.String()

	if !strings.Contains(html, `<th colspan="4">Thu Mar 14</th>`) {
		t.Errorf("missing partial first-day header in:\n%s", html)
	}
	if !strings.Contains(html, `<th colspan="18">Fri Mar 15</th>`) {
		t.Errorf("missing partial last-day header in:\n%s", html)
	}
}

func TestRender_EscapesUserContent(t *testing.T) {
	t.Parallel()

	engine := timeline.NewEngine(timeline.EngineOptions{Location: time.UTC})
	layout := engine.Compute(timeline.Input{
		Start:     time.Date(2024, time.March, 14, 6, 0, 0, 0, time.UTC),
		End:       time.Date(2024, time.March, 14, 18, 0, 0, 0, time.UTC),
		Resources: []timeline.Record{{"id": "dock-1", "name": "<script>alert(1)</script>"}},
	})

	r, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	var sb strings.Builder
	if err := r.Render(&sb, Page{Layout: layout}); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.Contains(sb.String(), "<script>alert(1)</script>") {
		t.Fatal("resource name rendered unescaped")
	}
}
