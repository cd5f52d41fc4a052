package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/wolfeidau/enactpack"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Build metrics
	BuildsTotal       metric.Int64Counter
	BuildErrorsTotal  metric.Int64Counter
	BuildDuration     metric.Float64Histogram
	OutputFilesTotal  metric.Int64Counter
	OutputBytesTotal  metric.Int64Counter
	BuildWarningTotal metric.Int64Counter

	// Post-build step metrics
	StepDuration metric.Float64Histogram
	StepErrors   metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// Tracer returns the tracer used by the build pipeline.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(instrumentationName)

	m := &Metrics{}

	m.BuildsTotal, _ = meter.Int64Counter(
		"enactpack.builds.total",
		metric.WithDescription("Total number of bundle builds"),
		metric.WithUnit("{build}"),
	)

	m.BuildErrorsTotal, _ = meter.Int64Counter(
		"enactpack.builds.errors.total",
		metric.WithDescription("Total number of failed bundle builds"),
		metric.WithUnit("{error}"),
	)

	m.BuildDuration, _ = meter.Float64Histogram(
		"enactpack.builds.duration",
		metric.WithDescription("Duration of bundle builds"),
		metric.WithUnit("ms"),
	)

	m.OutputFilesTotal, _ = meter.Int64Counter(
		"enactpack.output.files.total",
		metric.WithDescription("Total number of emitted output files"),
		metric.WithUnit("{file}"),
	)

	m.OutputBytesTotal, _ = meter.Int64Counter(
		"enactpack.output.bytes.total",
		metric.WithDescription("Total size of emitted output files"),
		metric.WithUnit("By"),
	)

	m.BuildWarningTotal, _ = meter.Int64Counter(
		"enactpack.builds.warnings.total",
		metric.WithDescription("Total number of bundler warnings"),
		metric.WithUnit("{warning}"),
	)

	m.StepDuration, _ = meter.Float64Histogram(
		"enactpack.steps.duration",
		metric.WithDescription("Duration of post-build steps"),
		metric.WithUnit("ms"),
	)

	m.StepErrors, _ = meter.Int64Counter(
		"enactpack.steps.errors.total",
		metric.WithDescription("Total number of failed post-build steps"),
		metric.WithUnit("{error}"),
	)

	return m
}
