package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/resource-timeline/internal/timeline"
)

var (
	resourceCounter uint64
	eventCounter    uint64
)

// NewResourceRecord returns a deterministic resource record with optional
// field overrides applied on top.
func NewResourceRecord(overrides ...map[string]any) timeline.Record {
	idx := atomic.AddUint64(&resourceCounter, 1)
	rec := timeline.Record{
		"id":   fmt.Sprintf("resource-%03d", idx),
		"name": fmt.Sprintf("Resource %03d", idx),
	}
	for _, o := range overrides {
		for k, v := range o {
			rec[k] = v
		}
	}
	return rec
}

// NewEventRecord returns a deterministic event record linked to the given
// resource, one hour long starting at ReferenceTime plus an index offset.
func NewEventRecord(resourceID any, overrides ...map[string]any) timeline.Record {
	idx := atomic.AddUint64(&eventCounter, 1)
	start := ReferenceTime.Add(time.Duration(idx) * time.Minute)
	rec := timeline.Record{
		"id":         fmt.Sprintf("event-%03d", idx),
		"resourceId": resourceID,
		"title":      fmt.Sprintf("Event %03d", idx),
		"start":      start,
		"end":        start.Add(time.Hour),
	}
	for _, o := range overrides {
		for k, v := range o {
			rec[k] = v
		}
	}
	return rec
}
