// pkg/telemetry/metrics.go
package telemetry

import (
	"context"

	cerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RunCounts are the per-run totals reported as metrics.
type RunCounts struct {
	Dispatched int64
	Admitted   int64
	Dropped    int64
	Projects   int64
	Errors     int64
	Warnings   int64
}

// RecordRun adds counts to the ccnetlog counters of the global meter
// provider, which is a no-op unless the embedding program installs one.
func RecordRun(ctx context.Context, command string, c RunCounts) error {
	meter := otel.GetMeterProvider().Meter("ccnetlog")
	attrs := metric.WithAttributes(attribute.String("command", command))

	counters := []struct {
		name, desc string
		value      int64
	}{
		{"ccnetlog.events.dispatched", "Build events received", c.Dispatched},
		{"ccnetlog.events.admitted", "Build events written to the report", c.Admitted},
		{"ccnetlog.events.dropped", "Messages rejected by the verbosity level", c.Dropped},
		{"ccnetlog.projects", "Projects in the report", c.Projects},
		{"ccnetlog.errors", "Errors in the report", c.Errors},
		{"ccnetlog.warnings", "Warnings in the report", c.Warnings},
	}
	for _, ct := range counters {
		counter, err := meter.Int64Counter(ct.name, metric.WithDescription(ct.desc))
		if err != nil {
			return cerr.Wrapf(err, "create counter %s", ct.name)
		}
		counter.Add(ctx, ct.value, attrs)
	}
	return nil
}
