package ics

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// ParsedEvent is the normalized representation of a VEVENT before recurrence
// expansion.
type ParsedEvent struct {
	Source Source

	UID      string
	Summary  string
	Location string

	Start  time.Time
	End    time.Time
	AllDay bool

	RawRRule string
	ExDates  []time.Time
}

// Parse parses a single ICS payload into a list of ParsedEvent. VEVENTs that
// cannot be interpreted are logged and skipped; a bad entry in a feed must
// not take down the rest of the feed. Events without a UID get a generated
// one so every occurrence still has a stable-enough identifier for the
// current process.
func Parse(src Source, body []byte, logger *slog.Logger) ([]ParsedEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("ics: empty feed body")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	events := make([]ParsedEvent, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		ev, perr := parseVEvent(src, ve)
		if perr != nil {
			logger.Warn("skipping unparseable vevent", "feed", src.ID, "url", RedactURL(src.URL), "error", perr)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseVEvent(src Source, ve *ical.VEvent) (ParsedEvent, error) {
	out := ParsedEvent{Source: src}

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil && p.Value != "" {
		out.UID = p.Value
	} else {
		out.UID = uuid.NewString()
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, err
	}
	end, err := ve.GetEndAt()
	if err != nil {
		// DTEND is optional; default to a zero-length event at start.
		end = start
	}
	out.Start = start
	out.End = end

	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		out.AllDay = isDateOnly(p)
	}
	if out.AllDay {
		y, m, d := out.Start.Date()
		out.Start = time.Date(y, m, d, 0, 0, 0, 0, out.Start.Location())
		out.End = out.Start.Add(24 * time.Hour)
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, perr := parseICSTime(part, out.Start.Location()); perr == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	return out, nil
}

func isDateOnly(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// parseICSTime parses the basic ICS date/date-time forms used by EXDATE.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}
	if strings.Contains(v, "T") {
		return time.ParseInLocation("20060102T150405", v, loc)
	}
	return time.ParseInLocation("20060102", v, loc)
}
