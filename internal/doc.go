// Package internal holds packages that are private to gateToken.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//   - metrics: lock-free counters and the verify latency histogram
//   - rate: Redis-backed fixed-window issuance quota
//   - security: posture report assembly
//
// # What this package must NOT do
//
//   - Export types that appear in the public gateToken API except through
//     root-level aliases.
//   - Be imported by any package outside the gateToken module.
package internal
