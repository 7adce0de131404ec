package timeline

import (
	"math"
	"time"
)

// Layout units: one minute is one unit, and by convention one unit renders as
// one pixel. Columns discretize the window into half-hour slots.
const (
	// ColumnsPerHour is the horizontal discretization: two half-hour
	// columns per hour.
	ColumnsPerHour = 2
	// ColumnWidth is the rendered width of a single half-hour column.
	ColumnWidth = 30
	// CellHeight is the rendered height of a resource row.
	CellHeight = 50
	// FullDayColumns is the column span of a fully contained calendar day.
	FullDayColumns = 24 * ColumnsPerHour
	// DefaultTimelineWidth substitutes for a zero or negative span so the
	// layout never collapses to nothing; it equals 24 hours of units.
	DefaultTimelineWidth = 24 * 60
)

// SpanHours returns the visible span in whole hours, rounded up. An inverted
// window yields exactly zero; a one-minute span still occupies a full hour.
func SpanHours(start, end time.Time) int {
	diff := end.Sub(start).Hours()
	if diff < 0 {
		return 0
	}
	return int(math.Ceil(diff))
}

// ColumnCount returns the number of half-hour columns spanned by the window.
func ColumnCount(start, end time.Time) int {
	return SpanHours(start, end) * ColumnsPerHour
}

// TimelineWidth returns the width of the scrollable region in layout units.
// A window without a positive span falls back to DefaultTimelineWidth; in
// that case no events render regardless of data.
func TimelineWidth(start, end time.Time) int {
	if span := SpanHours(start, end); span > 0 {
		return span * 60
	}
	return DefaultTimelineWidth
}
