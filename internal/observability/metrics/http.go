// Package metrics standardizes the metric names and tags emitted by the HTTP
// boundary so dashboards are not coupled to handler code.
package metrics

import (
	"strconv"
	"time"

	"github.com/daybook-app/daybook-api/internal/observability/statsd"
)

// RequestMetric captures one completed request for emission.
type RequestMetric struct {
	Method   string
	Pattern  string // route pattern, not the raw path, to bound cardinality
	Status   int
	Duration time.Duration
}

// EmitRequest emits the request counter and latency timing.
func EmitRequest(sink statsd.Sink, in RequestMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"method":       in.Method,
		"status":       strconv.Itoa(in.Status),
		"status_class": statusClass(in.Status),
	}
	if in.Pattern != "" {
		tags["route"] = in.Pattern
	}

	sink.Count("http.request", 1, tags)
	if in.Duration > 0 {
		sink.Timing("http.request.duration", in.Duration, tags)
	}
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "other"
	}
	return strconv.Itoa(status/100) + "xx"
}
