// Package render turns a computed layout into the HTML grid page. The scale
// is fixed at one pixel per minute, so geometry offsets map directly to CSS
// pixel positions.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/example/resource-timeline/internal/timeline"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Page is everything the grid template needs for one render.
type Page struct {
	Layout    timeline.Layout
	UpdatedAt time.Time
}

// Renderer renders layout pages from the embedded template.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.New("timeline").Funcs(template.FuncMap{
		"resourceLabel": resourceLabel,
		"eventLabel":    eventLabel,
		"eventWidth":    eventWidth,
		"px":            px,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the full grid page for one layout.
func (r *Renderer) Render(w io.Writer, page Page) error {
	return r.tmpl.ExecuteTemplate(w, "timeline.html.tmpl", page)
}

// resourceLabel picks a display name for a resource row, preferring "name"
// then "title" before falling back to the identifier.
func resourceLabel(row timeline.Row) string {
	for _, key := range []string{"name", "title"} {
		if v, ok := row.Resource[key].(string); ok && v != "" {
			return v
		}
	}
	return row.ID.String()
}

// eventLabel picks a display name for an event bar.
func eventLabel(ev timeline.PlacedEvent) string {
	for _, key := range []string{"title", "name"} {
		if v, ok := ev.Event[key].(string); ok && v != "" {
			return v
		}
	}
	return ev.ID.String()
}

// eventWidth derives the bar width in pixels from the two inward offsets. An
// event fully outside the window can produce a non-positive width; those bars
// still render, pinned to a sliver so overflow stays visible.
func eventWidth(layout timeline.Layout, ev timeline.PlacedEvent) string {
	width := float64(layout.TimelineWidth) - ev.Geometry.Left - ev.Geometry.Right
	if width < 2 {
		width = 2
	}
	return px(width)
}

// px formats a pixel length without a trailing fraction for whole values.
func px(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%dpx", int64(v))
	}
	return fmt.Sprintf("%.2fpx", v)
}
