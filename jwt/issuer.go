package jwt

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// reservedClaims may only be set by the issuer itself.
var reservedClaims = []string{"sub", "exp", "iat", "iss", "aud"}

// Issuer creates signed tokens. It holds no mutable state and is safe for
// concurrent use.
type Issuer struct {
	ctx      *SigningContext
	now      func() time.Time
	tokenIDs bool
}

// IssuerOption customizes an [Issuer].
type IssuerOption func(*Issuer)

// WithTokenID adds a random UUID jti claim to every token and reserves the
// jti name.
func WithTokenID() IssuerOption {
	return func(i *Issuer) {
		i.tokenIDs = true
	}
}

// WithIssuerClock replaces time.Now as the source of iat.
func WithIssuerClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

// NewIssuer returns an issuer bound to ctx.
func NewIssuer(ctx *SigningContext, opts ...IssuerOption) (*Issuer, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	i := &Issuer{ctx: ctx, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue signs a token for subject that expires ttl from now. extra claims
// are copied into the payload; naming a reserved claim fails with
// [ErrReservedClaimConflict].
func (i *Issuer) Issue(subject string, ttl time.Duration, extra map[string]any) (string, error) {
	token, _, err := i.IssueWithClaims(subject, ttl, extra)
	return token, err
}

// IssueWithClaims is Issue that also returns the claims exactly as a
// verifier will decode them.
func (i *Issuer) IssueWithClaims(subject string, ttl time.Duration, extra map[string]any) (string, ClaimSet, error) {
	if !validSubject(subject) {
		return "", ClaimSet{}, ErrInvalidSubject
	}
	if ttl <= 0 {
		return "", ClaimSet{}, ErrInvalidTTL
	}
	if err := i.checkReserved(extra); err != nil {
		return "", ClaimSet{}, err
	}

	issued, expires := lifetime(i.now(), ttl)
	claims := make(jwt.MapClaims, len(extra)+6)
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = subject
	claims["iat"] = jwt.NewNumericDate(issued)
	claims["exp"] = jwt.NewNumericDate(expires)
	if i.ctx.issuer != "" {
		claims["iss"] = i.ctx.issuer
	}
	if i.ctx.audience != "" {
		claims["aud"] = i.ctx.audience
	}
	if i.tokenIDs {
		claims["jti"] = uuid.NewString()
	}

	signed, err := jwt.NewWithClaims(i.ctx.method, claims).SignedString(i.ctx.secret)
	if err != nil {
		return "", ClaimSet{}, err
	}

	// Decode what was actually signed so callers see verifier-identical values.
	payload, err := decodeSegment(signed[strings.IndexByte(signed, '.')+1 : strings.LastIndexByte(signed, '.')])
	if err != nil {
		return "", ClaimSet{}, err
	}
	decoded, err := decodeClaims(payload)
	if err != nil {
		return "", ClaimSet{}, err
	}

	return signed, ClaimSet{claims: decoded}, nil
}

// lifetime returns iat and exp at the whole-second precision of NumericDate.
// The ttl is rounded up so a sub-second ttl still yields exp > now.
func lifetime(now time.Time, ttl time.Duration) (iat, exp time.Time) {
	precision := jwt.TimePrecision
	if precision <= 0 {
		return now, now.Add(ttl)
	}
	iat = now.Truncate(precision)
	if rem := ttl % precision; rem != 0 {
		ttl += precision - rem
	}
	return iat, iat.Add(ttl)
}

// validSubject is the one non-empty rule shared by issuer and verifier.
func validSubject(sub string) bool {
	return strings.TrimSpace(sub) != ""
}

func (i *Issuer) checkReserved(extra map[string]any) error {
	for _, name := range reservedClaims {
		if _, ok := extra[name]; ok {
			return claimError(name, ErrReservedClaimConflict)
		}
	}
	if i.tokenIDs {
		if _, ok := extra["jti"]; ok {
			return claimError("jti", ErrReservedClaimConflict)
		}
	}
	return nil
}
