// Package rate provides the Redis-backed fixed-window counter that bounds
// token issuance per subject.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Keys are
// "<prefix>:<subject>" with the prefix taken from IssueLimit.RedisPrefix.
//
// # What this package must NOT do
//
//   - Touch token contents; it only sees the subject string.
//   - Be imported outside the gateToken module.
package rate
