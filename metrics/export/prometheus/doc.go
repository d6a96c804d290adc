// Package prometheus renders gateToken metrics in Prometheus text exposition
// format.
//
// [NewPrometheusExporter] accepts a [gateToken.Engine] and exposes an [http.Handler].
// Counter names are prefixed gatetoken_*_total; the single histogram is
// gatetoken_verify_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the Handler.
//   - Mutate engine state.
package prometheus
