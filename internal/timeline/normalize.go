package timeline

import "time"

// defaultWindowDays is the length of the window substituted when no usable
// end bound is supplied.
const defaultWindowDays = 7

// isoLayouts are tried in order when normalizing string inputs. Layouts
// without a zone are interpreted in the normalizer's location.
var isoLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{time.RFC3339, true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02", false},
}

// Normalizer coerces heterogeneous date-like inputs into concrete times in a
// single location. It never fails: anything unusable collapses to a
// directional default so an unconfigured timeline still renders a one-week
// window instead of a degenerate zero-width one.
type Normalizer struct {
	// Location is the canonical zone for all produced values. Nil means
	// time.Local.
	Location *time.Location
	// Now supplies the current instant for default bounds. Nil means
	// time.Now.
	Now func() time.Time
}

// Normalize resolves value into a concrete time. Accepted inputs are
// time.Time, *time.Time, and ISO-8601 strings; everything else (including
// unparseable strings and zero times) yields the default: start of the
// current local day when isStart is true, otherwise start of day plus seven
// days.
func (n Normalizer) Normalize(isStart bool, value any) time.Time {
	loc := n.location()

	switch v := value.(type) {
	case time.Time:
		if !v.IsZero() {
			return v.In(loc)
		}
	case *time.Time:
		if v != nil && !v.IsZero() {
			return v.In(loc)
		}
	case string:
		if t, ok := n.parseISO(v, loc); ok {
			return t
		}
	}

	return n.defaultBound(isStart)
}

func (n Normalizer) parseISO(value string, loc *time.Location) (time.Time, bool) {
	for _, l := range isoLayouts {
		if l.zoned {
			if t, err := time.Parse(l.layout, value); err == nil {
				return t.In(loc), true
			}
			continue
		}
		if t, err := time.ParseInLocation(l.layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (n Normalizer) defaultBound(isStart bool) time.Time {
	day := startOfDay(n.now().In(n.location()))
	if isStart {
		return day
	}
	return day.AddDate(0, 0, defaultWindowDays)
}

func (n Normalizer) location() *time.Location {
	if n.Location != nil {
		return n.Location
	}
	return time.Local
}

func (n Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfNextDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}
