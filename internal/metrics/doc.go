// Package metrics stores the engine's issue and verify counters plus the
// verify latency histogram.
//
// Each counter occupies its own cache line and is bumped with a single
// atomic add. The histogram has 8 fixed buckets from 50µs to +Inf, which
// covers an HMAC verify on any realistic host. Writes never allocate.
//
// Exporters under metrics/export read [Snapshot] values; this package has no
// registry and no I/O of its own, and it does not import gateToken.
package metrics
