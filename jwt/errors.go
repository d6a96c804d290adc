package jwt

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedToken is returned when a token does not parse into header, claims and signature.
	ErrMalformedToken = errors.New("malformed token")
	// ErrInvalidSignature is returned when the MAC does not match or the header names an unsupported algorithm.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrMissingRequiredClaim is returned when a required claim is absent or has the wrong type.
	ErrMissingRequiredClaim = errors.New("missing required claim")
	// ErrTokenExpired is returned when exp is not strictly after the verification instant.
	ErrTokenExpired = errors.New("token expired")
	// ErrIssuerMismatch is returned when iss differs from the configured issuer.
	ErrIssuerMismatch = errors.New("token issuer mismatch")
	// ErrAudienceMismatch is returned when aud does not name the configured audience.
	ErrAudienceMismatch = errors.New("token audience mismatch")
	// ErrReservedClaimConflict is returned by the issuer when extra claims try to set a registered claim.
	ErrReservedClaimConflict = errors.New("reserved claim conflict")

	// ErrInvalidSubject is returned by the issuer for an empty or blank subject.
	ErrInvalidSubject = errors.New("subject must not be empty")
	// ErrInvalidTTL is returned by the issuer for a non-positive TTL.
	ErrInvalidTTL = errors.New("ttl must be > 0")
	// ErrNilContext is returned when an issuer or verifier is built without a signing context.
	ErrNilContext = errors.New("nil signing context")
)

// ClaimError names the claim responsible for an [ErrMissingRequiredClaim]
// or [ErrReservedClaimConflict] failure.
type ClaimError struct {
	Claim string
	Err   error
}

func (e *ClaimError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Claim)
}

func (e *ClaimError) Unwrap() error {
	return e.Err
}

func claimError(name string, err error) error {
	return &ClaimError{Claim: name, Err: err}
}

// ErrorKind is the closed set of failures produced by this package.
type ErrorKind uint8

const (
	KindNone ErrorKind = iota
	KindMalformedToken
	KindInvalidSignature
	KindMissingRequiredClaim
	KindTokenExpired
	KindIssuerMismatch
	KindAudienceMismatch
	KindReservedClaimConflict
	// KindOther covers precondition and configuration errors.
	KindOther
)

var kindNames = [...]string{
	KindNone:                  "none",
	KindMalformedToken:        "malformed_token",
	KindInvalidSignature:      "invalid_signature",
	KindMissingRequiredClaim:  "missing_required_claim",
	KindTokenExpired:          "token_expired",
	KindIssuerMismatch:        "issuer_mismatch",
	KindAudienceMismatch:      "audience_mismatch",
	KindReservedClaimConflict: "reserved_claim_conflict",
	KindOther:                 "other",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Kind classifies err so callers can switch on the failure without string
// matching.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrMalformedToken):
		return KindMalformedToken
	case errors.Is(err, ErrInvalidSignature):
		return KindInvalidSignature
	case errors.Is(err, ErrMissingRequiredClaim):
		return KindMissingRequiredClaim
	case errors.Is(err, ErrTokenExpired):
		return KindTokenExpired
	case errors.Is(err, ErrIssuerMismatch):
		return KindIssuerMismatch
	case errors.Is(err, ErrAudienceMismatch):
		return KindAudienceMismatch
	case errors.Is(err, ErrReservedClaimConflict):
		return KindReservedClaimConflict
	default:
		return KindOther
	}
}
