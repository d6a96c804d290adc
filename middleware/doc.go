// Package middleware exposes net/http adapters that enforce bearer-token
// authentication on top of gateToken.Engine verification.
//
// # Guards
//
//   - [Guard]: requires a valid token on every request.
//   - [Optional]: authenticates when a header is present, passes anonymous requests.
//   - [RequireClaim] / [RequireRole]: claim checks layered after a guard.
//
// Each guard reads the Authorization header, calls Engine.Verify, and injects
// the verified claims into the request context. Rejections are JSON bodies of
// the form {"error","type","timestamp"}: 401 for absent, malformed, forged,
// incomplete or expired tokens, 403 for issuer or audience mismatches.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT implement
// token logic itself; every decision is delegated to Engine.Verify.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Access Redis (Engine handles I/O).
//   - Echo token contents or verification error details to clients.
package middleware
