// Package metrics defines the metrics emitted around profile lookups.
package metrics

import (
	"time"

	obserrors "github.com/steamlens/steamlens/internal/observability/errors"
	"github.com/steamlens/steamlens/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Source constants describe where a profile payload came from.
const (
	SourceUpstream = "upstream"
	SourceCache    = "cache"
)

// Metric names.
const (
	LookupCount  = "profile.lookup"
	FetchTiming  = "profile.fetch"
	RedirectHits = "profile.redirect"
)

// LookupMetric captures the outcome of one profile lookup.
type LookupMetric struct {
	Result   string
	Source   string
	Vanity   bool
	Duration time.Duration
	Err      error
}

// EmitLookup emits the lookup counter and, when a fetch happened, its timing.
func EmitLookup(sink statsd.Sink, in LookupMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"result": in.Result,
		"vanity": boolTag(in.Vanity),
	}
	if in.Source != "" {
		tags["source"] = in.Source
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count(LookupCount, 1, tags)

	if in.Duration > 0 {
		sink.Timing(FetchTiming, in.Duration, CloneTags(tags))
	}
}

// EmitRedirect counts a redirect to an external site.
func EmitRedirect(sink statsd.Sink, site, result string) {
	if sink == nil {
		return
	}
	sink.Count(RedirectHits, 1, map[string]string{"site": site, "result": result})
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func boolTag(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
