package timeline

import (
	"math"
	"time"
)

// DaySegment is one calendar day's share of the header, expressed as a
// half-hour column span. Day is the midnight starting that calendar day in
// the window's location.
type DaySegment struct {
	Day        time.Time `json:"day"`
	ColumnSpan int       `json:"columnSpan"`
}

// DaySegments splits the window at midnight boundaries and attributes a
// column span to every calendar day it touches, in ascending order. Partial
// first and last days round up at half-hour granularity; fully contained
// days always span FullDayColumns. A window ending exactly at midnight does
// not produce a trailing zero-width day. An empty or inverted window yields
// no segments.
func DaySegments(start, end time.Time) []DaySegment {
	if !end.After(start) {
		return nil
	}

	var segments []DaySegment
	for day := startOfDay(start); day.Before(end); day = startOfNextDay(day) {
		next := startOfNextDay(day)

		segStart := day
		if start.After(segStart) {
			segStart = start
		}
		segEnd := next
		if end.Before(segEnd) {
			segEnd = end
		}

		span := FullDayColumns
		if !segStart.Equal(day) || !segEnd.Equal(next) {
			span = int(math.Ceil(segEnd.Sub(segStart).Hours() * ColumnsPerHour))
		}

		segments = append(segments, DaySegment{Day: day, ColumnSpan: span})
	}
	return segments
}

// crossesDayBoundary reports whether the window's start and end fall on
// different calendar days with the start strictly earlier. Day-segment
// headers only render for such windows; a single-day window shows only the
// hour header.
func crossesDayBoundary(start, end time.Time) bool {
	return startOfDay(start).Before(startOfDay(end))
}
