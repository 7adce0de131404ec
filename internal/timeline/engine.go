package timeline

import "time"

// ResourceOptions configures how resource rows are read.
type ResourceOptions struct {
	// Selector resolves a resource's identifier. Defaults to the "id"
	// field.
	Selector Accessor
}

// EventOptions configures how event records are read.
type EventOptions struct {
	// ResourceID resolves the relation linking an event to its resource.
	// Defaults to the "resourceId" field.
	ResourceID Accessor
	// EventID resolves the event's own identifier, used as a stable list
	// key. Defaults to the "id" field.
	EventID Accessor
	// Start and End resolve the event's time bounds. Default to the
	// "start" and "end" fields.
	Start Accessor
	End   Accessor
}

// Input is one render pass worth of raw data. Start and End accept a
// time.Time, an ISO-8601 string, or nothing at all; unusable bounds collapse
// to the current-day / plus-seven-days defaults.
type Input struct {
	Resources []Record
	Events    []Record
	Start     any
	End       any
	Title     string
	Resource  ResourceOptions
	Event     EventOptions
}

// DropReason classifies why a record was silently excluded from a layout.
type DropReason string

const (
	// DropInvalidResourceID marks a resource whose identifier did not
	// resolve to a string or number.
	DropInvalidResourceID DropReason = "invalid_resource_id"
	// DropInvalidRelation marks an event whose resource relation did not
	// resolve to a string or number.
	DropInvalidRelation DropReason = "invalid_relation"
)

// Drop describes one silently excluded record.
type Drop struct {
	Reason DropReason
	Record Record
}

// PlacedEvent pairs an event record with its computed placement. ID is the
// zero Identifier when the event's own identifier does not resolve; such
// events still render.
type PlacedEvent struct {
	ID       Identifier `json:"id"`
	Event    Record     `json:"event"`
	Geometry Geometry   `json:"geometry"`
}

// Row is one resource and its events, in input order.
type Row struct {
	ID       Identifier    `json:"id"`
	Resource Record        `json:"resource"`
	Events   []PlacedEvent `json:"events"`
}

// Layout is the complete geometry of one render pass. Header consumers read
// SpanHours, ColumnCount, HourLabels and DaySegments; body consumers read
// Rows. DaySegments is nil for single-day windows.
type Layout struct {
	Start         time.Time    `json:"start"`
	End           time.Time    `json:"end"`
	Title         string       `json:"title,omitempty"`
	SpanHours     int          `json:"spanHours"`
	ColumnCount   int          `json:"columnCount"`
	TimelineWidth int          `json:"timelineWidth"`
	HourLabels    []string     `json:"hourLabels"`
	DaySegments   []DaySegment `json:"daySegments,omitempty"`
	Rows          []Row        `json:"rows"`
}

// EngineOptions configures an Engine.
type EngineOptions struct {
	// Location is the canonical zone for all computed times. Nil means
	// time.Local.
	Location *time.Location
	// Now supplies the current instant for default window bounds. Nil
	// means time.Now.
	Now func() time.Time
	// OnDrop, when set, observes records excluded by the validity rules.
	// Drops stay silent otherwise.
	OnDrop func(Drop)
}

// Engine computes layouts. It is stateless apart from its configuration;
// Compute is a pure function of its input and may be called concurrently.
type Engine struct {
	norm   Normalizer
	onDrop func(Drop)
}

// NewEngine constructs an Engine with the supplied options.
func NewEngine(opts EngineOptions) *Engine {
	return &Engine{
		norm:   Normalizer{Location: opts.Location, Now: opts.Now},
		onDrop: opts.OnDrop,
	}
}

// Compute derives the full layout for one render pass: it resolves the
// window, discretizes it into columns, groups events by resource and places
// each event within the window. A window without a positive span still
// produces headers and resource rows, but no events or hour columns.
func (e *Engine) Compute(in Input) Layout {
	start := e.norm.Normalize(true, in.Start)
	end := e.norm.Normalize(false, in.End)

	layout := Layout{
		Start:         start,
		End:           end,
		Title:         in.Title,
		SpanHours:     SpanHours(start, end),
		ColumnCount:   ColumnCount(start, end),
		TimelineWidth: TimelineWidth(start, end),
	}

	layout.HourLabels = hourLabels(start, layout.SpanHours)
	if crossesDayBoundary(start, end) {
		layout.DaySegments = DaySegments(start, end)
	}

	events := in.Events
	if !end.After(start) {
		events = nil
	}
	groups := groupEvents(events, in.Event.ResourceID, e.onDrop)

	layout.Rows = make([]Row, 0, len(in.Resources))
	for _, res := range in.Resources {
		id, ok := IdentifierOf(in.Resource.Selector.Resolve(res, DefaultSelectorField))
		if !ok {
			e.drop(DropInvalidResourceID, res)
			continue
		}
		layout.Rows = append(layout.Rows, Row{
			ID:       id,
			Resource: res,
			Events:   e.placeEvents(groups[id], in.Event, start, end),
		})
	}

	return layout
}

func (e *Engine) placeEvents(events []Record, opts EventOptions, windowStart, windowEnd time.Time) []PlacedEvent {
	if len(events) == 0 {
		return nil
	}
	placed := make([]PlacedEvent, 0, len(events))
	for _, ev := range events {
		// The directional defaults apply to event bounds too: a missing
		// start collapses to today and a missing end to today plus a
		// week, rather than excluding the event.
		schedStart := e.norm.Normalize(true, opts.Start.Resolve(ev, DefaultStartField))
		schedEnd := e.norm.Normalize(false, opts.End.Resolve(ev, DefaultEndField))

		id, _ := IdentifierOf(opts.EventID.Resolve(ev, DefaultEventIDField))
		placed = append(placed, PlacedEvent{
			ID:       id,
			Event:    ev,
			Geometry: EventGeometry(schedStart, schedEnd, windowStart, windowEnd),
		})
	}
	return placed
}

func (e *Engine) drop(reason DropReason, rec Record) {
	if e.onDrop != nil {
		e.onDrop(Drop{Reason: reason, Record: rec})
	}
}

// hourLabels formats one localized label per whole hour offset from the
// window start, e.g. "1 PM".
func hourLabels(start time.Time, spanHours int) []string {
	if spanHours <= 0 {
		return nil
	}
	labels := make([]string, spanHours)
	for i := range labels {
		labels[i] = start.Add(time.Duration(i) * time.Hour).Format("3 PM")
	}
	return labels
}
