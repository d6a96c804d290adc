// Package gateToken provides the token engine for an API gateway: HS256 JWT
// issuance and verification under one shared signing context, with
// optional per-subject issuance limits, async audit, and lock-free metrics.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// gateToken is the public surface. It exposes [Engine], [Builder], [Config], and value types
// (MetricsSnapshot, AuditEvent). Token format and the four verification gates live in the
// jwt sub-package; audit dispatch, metric storage, and the Redis issuance counter live
// under internal/.
//
// # What this package must NOT do
//
//   - Expose Redis clients or internal stores in its public API.
//   - Translate jwt verification errors into new values; callers branch on jwt.Kind.
//   - Import any sub-package that re-imports gateToken (no import cycles).
//
// # Performance contract
//
// Verify is the hot path. It performs no network I/O and never touches Redis. Issue makes
// at most one Redis round-trip, and only when IssueLimit is enabled.
package gateToken
