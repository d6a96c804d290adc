package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	errNotObject    = errors.New("payload is not a JSON object")
	errTrailingData = errors.New("trailing data after JSON object")
)

// segmentParser is used only for its strict base64url segment decoding.
var segmentParser = jwt.NewParser(jwt.WithStrictDecoding())

func decodeSegment(seg string) ([]byte, error) {
	return segmentParser.DecodeSegment(seg)
}

// Verifier checks tokens produced by an [Issuer] sharing the same
// [SigningContext]. It is safe for concurrent use.
type Verifier struct {
	ctx *SigningContext
	now func() time.Time
}

// VerifierOption customizes a [Verifier].
type VerifierOption func(*Verifier)

// WithVerifierClock replaces time.Now as the instant used by Verify.
func WithVerifierClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		if now != nil {
			v.now = now
		}
	}
}

// NewVerifier returns a verifier bound to ctx.
func NewVerifier(ctx *SigningContext, opts ...VerifierOption) (*Verifier, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	v := &Verifier{ctx: ctx, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify validates token at the current instant.
func (v *Verifier) Verify(token string) (ClaimSet, error) {
	return v.VerifyAt(token, v.now())
}

// VerifyAt validates token as of now. Repeated calls with the same inputs
// always agree.
func (v *Verifier) VerifyAt(token string, now time.Time) (ClaimSet, error) {
	parts, header, payload, sig, err := splitToken(token)
	if err != nil {
		return ClaimSet{}, err
	}

	if err := v.checkSignature(parts, header, sig); err != nil {
		return ClaimSet{}, err
	}

	claims, err := decodeClaims(payload)
	if err != nil {
		return ClaimSet{}, fmt.Errorf("%w: claims: %v", ErrMalformedToken, err)
	}

	if err := v.checkRequired(claims); err != nil {
		return ClaimSet{}, err
	}
	if err := v.checkSemantic(claims, now); err != nil {
		return ClaimSet{}, err
	}

	return ClaimSet{claims: claims}, nil
}

func splitToken(token string) (parts []string, header map[string]any, payload, sig []byte, err error) {
	parts = strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, nil, nil, nil, fmt.Errorf("%w: token contains %d segments", ErrMalformedToken, len(parts))
	}
	// An empty signature segment is structurally valid; the signature gate rejects it.
	if parts[0] == "" || parts[1] == "" {
		return nil, nil, nil, nil, fmt.Errorf("%w: empty segment", ErrMalformedToken)
	}

	rawHeader, err := decodeSegment(parts[0])
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("%w: header: %v", ErrMalformedToken, err)
	}
	if err := json.Unmarshal(rawHeader, &header); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("%w: header: %v", ErrMalformedToken, err)
	}
	if header == nil {
		return nil, nil, nil, nil, fmt.Errorf("%w: header: %v", ErrMalformedToken, errNotObject)
	}

	payload, err = decodeSegment(parts[1])
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("%w: claims: %v", ErrMalformedToken, err)
	}
	sig, err = decodeSegment(parts[2])
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("%w: signature: %v", ErrMalformedToken, err)
	}

	return parts, header, payload, sig, nil
}

func (v *Verifier) checkSignature(parts []string, header map[string]any, sig []byte) error {
	alg, _ := header["alg"].(string)
	if alg == "" {
		return fmt.Errorf("%w: missing alg", ErrInvalidSignature)
	}
	if alg != string(v.ctx.algorithm) {
		return fmt.Errorf("%w: unexpected signing algorithm %q", ErrInvalidSignature, alg)
	}

	// The HMAC method compares with hmac.Equal.
	if err := v.ctx.method.Verify(parts[0]+"."+parts[1], sig, v.ctx.secret); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

func (v *Verifier) checkRequired(claims jwt.MapClaims) error {
	sub, err := claims.GetSubject()
	if err != nil || !validSubject(sub) {
		return claimError("sub", ErrMissingRequiredClaim)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return claimError("exp", ErrMissingRequiredClaim)
	}
	for _, name := range v.ctx.required {
		if _, ok := claims[name]; !ok {
			return claimError(name, ErrMissingRequiredClaim)
		}
	}
	return nil
}

func (v *Verifier) checkSemantic(claims jwt.MapClaims, now time.Time) error {
	// checkRequired guarantees a parsable exp.
	exp, _ := claims.GetExpirationTime()
	if !now.Add(-v.ctx.leeway).Before(exp.Time) {
		return fmt.Errorf("%w: expired at %s", ErrTokenExpired, exp.Time.UTC().Format(time.RFC3339))
	}

	if v.ctx.issuer != "" {
		if _, present := claims["iss"]; present {
			iss, err := claims.GetIssuer()
			if err != nil || iss != v.ctx.issuer {
				return ErrIssuerMismatch
			}
		}
	}

	if v.ctx.audience != "" {
		if _, present := claims["aud"]; present {
			aud, err := claims.GetAudience()
			if err != nil || !containsString(aud, v.ctx.audience) {
				return ErrAudienceMismatch
			}
		}
	}

	return nil
}
