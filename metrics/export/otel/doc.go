// Package otel publishes gateToken metrics through an OpenTelemetry Meter.
//
// Counters map to Int64ObservableCounter instruments. The verify latency
// histogram is flattened into one cumulative Int64ObservableGauge per bucket
// plus a count gauge, because the engine keeps pre-bucketed data rather than
// raw samples. One registered callback reads the engine snapshot per
// collection; [WithAttributes] stamps every observation.
//
// The caller owns the MeterProvider. Close unregisters the callback.
package otel
