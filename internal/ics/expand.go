package ics

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/example/resource-timeline/internal/timeline"
)

// defaultMaxOccurrences caps recurrence expansion per event so a pathological
// rule cannot produce an unbounded record set.
const defaultMaxOccurrences = 1000

// ExpandConfig controls recurrence expansion.
type ExpandConfig struct {
	// Location is the zone occurrence records are converted into. Nil
	// means time.Local.
	Location *time.Location
	// RangeStart and RangeEnd bound the occurrences of interest,
	// normally the visible window.
	RangeStart time.Time
	RangeEnd   time.Time
	// MaxOccurrences caps expansion per event; zero applies the default.
	MaxOccurrences int
}

// Expand converts parsed events into timeline event records within the
// configured range, expanding RRULEs and honoring EXDATEs. Events whose
// rules cannot be interpreted are logged and skipped. Records are sorted
// chronologically so bucket ordering is deterministic across refreshes.
func Expand(events []ParsedEvent, cfg ExpandConfig, logger *slog.Logger) []timeline.Record {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.MaxOccurrences <= 0 {
		cfg.MaxOccurrences = defaultMaxOccurrences
	}
	if logger == nil {
		logger = slog.Default()
	}

	records := make([]timeline.Record, 0, len(events))
	for _, ev := range events {
		if ev.RawRRule == "" {
			if overlaps(ev.Start, ev.End, cfg.RangeStart, cfg.RangeEnd) {
				records = append(records, occurrenceRecord(ev, ev.Start, ev.End, cfg.Location))
			}
			continue
		}
		records = append(records, expandRecurring(ev, cfg, logger)...)
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, _ := records[i]["start"].(time.Time)
		b, _ := records[j]["start"].(time.Time)
		return a.Before(b)
	})
	return records
}

func expandRecurring(ev ParsedEvent, cfg ExpandConfig, logger *slog.Logger) []timeline.Record {
	rule, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		logger.Warn("skipping event with unparseable rrule", "feed", ev.Source.ID, "uid", ev.UID, "error", err)
		return nil
	}
	rule.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(rule)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	rangeStart := cfg.RangeStart.In(ev.Start.Location())
	rangeEnd := cfg.RangeEnd.In(ev.Start.Location())
	starts := set.Between(rangeStart, rangeEnd, true)
	if len(starts) > cfg.MaxOccurrences {
		logger.Warn("truncating recurrence expansion", "feed", ev.Source.ID, "uid", ev.UID, "cap", cfg.MaxOccurrences)
		starts = starts[:cfg.MaxOccurrences]
	}

	duration := ev.End.Sub(ev.Start)
	records := make([]timeline.Record, 0, len(starts))
	for _, start := range starts {
		records = append(records, occurrenceRecord(ev, start, start.Add(duration), cfg.Location))
	}
	return records
}

// occurrenceRecord shapes one concrete occurrence as an opaque engine record
// using the conventional field names.
func occurrenceRecord(ev ParsedEvent, start, end time.Time, loc *time.Location) timeline.Record {
	start = start.In(loc)
	return timeline.Record{
		"id":         fmt.Sprintf("%s/%s", ev.UID, start.Format(time.RFC3339)),
		"resourceId": ev.Source.ID,
		"title":      ev.Summary,
		"location":   ev.Location,
		"allDay":     ev.AllDay,
		"start":      start,
		"end":        end.In(loc),
	}
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}
