package gateToken

import "errors"

var (
	// ErrEngineNotReady is returned by a nil or unbuilt Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrIssueRateLimited is returned when a subject exhausted its issuance window.
	ErrIssueRateLimited = errors.New("token issuance rate limited")
	// ErrIssueUnavailable is returned when the issuance limiter backend cannot be reached.
	ErrIssueUnavailable = errors.New("token issuance backend unavailable")
	// ErrTTLTooLong is returned when a requested lifetime exceeds JWT.MaxTTL.
	ErrTTLTooLong = errors.New("requested token lifetime exceeds maximum")
)
