package timeline

import "time"

// Geometry describes an event's horizontal placement within the visible
// window. Left is the distance in minutes from the window's left edge to the
// event start; Right is the distance from the event end to the window's
// right edge. Anchoring both edges lets a rendered bar stretch between them
// without recomputing a width on resize. Offsets clamp at zero with the
// matching overflow flag set when the event crosses a window edge.
type Geometry struct {
	Left          float64 `json:"left"`
	LeftOverflow  bool    `json:"leftOverflow"`
	Right         float64 `json:"right"`
	RightOverflow bool    `json:"rightOverflow"`
}

// EventGeometry places a normalized event span within the window. It never
// rejects an event: a span entirely outside the window still yields a
// geometry, and visibility is the grouping layer's concern.
func EventGeometry(start, end, windowStart, windowEnd time.Time) Geometry {
	var g Geometry

	g.Left = start.Sub(windowStart).Minutes()
	if g.Left < 0 {
		g.Left = 0
		g.LeftOverflow = true
	}

	g.Right = windowEnd.Sub(end).Minutes()
	if g.Right < 0 {
		g.Right = 0
		g.RightOverflow = true
	}

	return g
}
