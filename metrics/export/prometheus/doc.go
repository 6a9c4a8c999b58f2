// Package prometheus provides Prometheus collectors for goCoherence metrics.
//
// [NewPrometheusExporter] accepts a [goCoherence.Engine] and exposes an [http.Handler]
// that renders all goCoherence counters and histograms in Prometheus text exposition
// format. Counter names are prefixed gocoherence_*_total; the single histogram is
// gocoherence_read_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
