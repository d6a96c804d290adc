// Package security builds the posture report exposed by
// gateToken.Engine.SecurityReport.
//
// # What this package must NOT do
//
//   - Read engine state directly; callers pass a [ReportInput].
package security
