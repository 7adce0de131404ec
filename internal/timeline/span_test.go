package timeline

import (
	"testing"
	"time"
)

func TestSpanHours(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, time.January, 1, 8, 0, 0, 0, testLoc)

	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{name: "zero span", end: base, want: 0},
		{name: "one minute rounds up to an hour", end: base.Add(time.Minute), want: 1},
		{name: "ninety minutes rounds up to two hours", end: base.Add(90 * time.Minute), want: 2},
		{name: "exact day", end: base.Add(24 * time.Hour), want: 24},
		{name: "inverted window clamps to zero", end: base.Add(-3 * time.Hour), want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SpanHours(base, tt.end); got != tt.want {
				t.Fatalf("SpanHours = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestColumnCount(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, testLoc)
	if got := ColumnCount(base, base.Add(24*time.Hour)); got != 48 {
		t.Fatalf("ColumnCount over 24h = %d, want 48", got)
	}
	if got := ColumnCount(base, base.Add(-time.Hour)); got != 0 {
		t.Fatalf("ColumnCount over inverted window = %d, want 0", got)
	}
}

func TestTimelineWidth(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, testLoc)

	if got := TimelineWidth(base, base.Add(6*time.Hour)); got != 6*60 {
		t.Fatalf("TimelineWidth = %d, want %d", got, 6*60)
	}

	// Zero and inverted spans fall back to the fixed default so the layout
	// keeps a positive width.
	if got := TimelineWidth(base, base); got != DefaultTimelineWidth {
		t.Fatalf("TimelineWidth for zero span = %d, want %d", got, DefaultTimelineWidth)
	}
	if got := TimelineWidth(base, base.Add(-time.Hour)); got != DefaultTimelineWidth {
		t.Fatalf("TimelineWidth for inverted window = %d, want %d", got, DefaultTimelineWidth)
	}
}
