// Package dataset loads the resources, events and window configuration the
// service renders. The file is the only input surface besides ICS feeds;
// nothing is ever written back.
package dataset

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/resource-timeline/internal/timeline"
)

// ICSSource describes a single ICS subscription feed. Each feed becomes one
// timeline resource; its events are attached to that resource.
type ICSSource struct {
	// ID is the resource identifier the feed's events are grouped under.
	ID string `yaml:"id"`
	// URL is the ICS endpoint.
	URL string `yaml:"url"`
	// Name is a human-friendly label shown in the resource column.
	Name string `yaml:"name"`
}

// Fields overrides the conventional accessor field names for records in this
// dataset. Empty values keep the defaults.
type Fields struct {
	ResourceID    string `yaml:"resource_id"`
	EventID       string `yaml:"event_id"`
	EventResource string `yaml:"event_resource"`
	EventStart    string `yaml:"event_start"`
	EventEnd      string `yaml:"event_end"`
}

// Window holds the visible window bounds as written in the file. Values stay
// untyped; the engine's normalizer owns their interpretation, including the
// directional defaults when a bound is absent or unparseable.
type Window struct {
	Start any `yaml:"start"`
	End   any `yaml:"end"`
}

// Dataset is the top-level document.
type Dataset struct {
	Title     string           `yaml:"title"`
	Window    Window           `yaml:"window"`
	Fields    Fields           `yaml:"fields"`
	Resources []map[string]any `yaml:"resources"`
	Events    []map[string]any `yaml:"events"`
	ICS       []ICSSource      `yaml:"ics"`
}

// Load reads and parses a dataset file.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return nil, errors.New("dataset path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	return &ds, nil
}

// Input assembles an engine input from the dataset plus any extra records
// (typically ICS-derived resources and events). The dataset's own records
// come first so their ordering is stable across refreshes.
func (d *Dataset) Input(extraResources, extraEvents []timeline.Record) timeline.Input {
	resources := make([]timeline.Record, 0, len(d.Resources)+len(extraResources))
	for _, r := range d.Resources {
		resources = append(resources, timeline.Record(r))
	}
	resources = append(resources, extraResources...)

	events := make([]timeline.Record, 0, len(d.Events)+len(extraEvents))
	for _, e := range d.Events {
		events = append(events, timeline.Record(e))
	}
	events = append(events, extraEvents...)

	return timeline.Input{
		Resources: resources,
		Events:    events,
		Start:     d.Window.Start,
		End:       d.Window.End,
		Title:     d.Title,
		Resource:  timeline.ResourceOptions{Selector: timeline.Accessor{Field: d.Fields.ResourceID}},
		Event: timeline.EventOptions{
			ResourceID: timeline.Accessor{Field: d.Fields.EventResource},
			EventID:    timeline.Accessor{Field: d.Fields.EventID},
			Start:      timeline.Accessor{Field: d.Fields.EventStart},
			End:        timeline.Accessor{Field: d.Fields.EventEnd},
		},
	}
}
