package jwt

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ClaimSet is the read-only claim payload of a verified or freshly issued
// token. Numeric values decode as [json.Number]; application claims are kept
// exactly as they were serialized.
type ClaimSet struct {
	claims jwt.MapClaims
}

// Subject returns the sub claim.
func (c ClaimSet) Subject() string {
	sub, _ := c.claims.GetSubject()
	return sub
}

// ExpiresAt returns the exp claim in UTC, or the zero time when absent.
func (c ClaimSet) ExpiresAt() time.Time {
	exp, err := c.claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time.UTC()
}

// IssuedAt returns the iat claim in UTC.
func (c ClaimSet) IssuedAt() (time.Time, bool) {
	iat, err := c.claims.GetIssuedAt()
	if err != nil || iat == nil {
		return time.Time{}, false
	}
	return iat.Time.UTC(), true
}

// Issuer returns the iss claim, or "" when absent.
func (c ClaimSet) Issuer() string {
	iss, _ := c.claims.GetIssuer()
	return iss
}

// Audience returns the aud claim as a list; a single string becomes a
// one-element slice.
func (c ClaimSet) Audience() []string {
	aud, err := c.claims.GetAudience()
	if err != nil || len(aud) == 0 {
		return nil
	}
	out := make([]string, len(aud))
	copy(out, aud)
	return out
}

// TokenID returns the jti claim, if any.
func (c ClaimSet) TokenID() string {
	jti, _ := c.claims["jti"].(string)
	return jti
}

// Get returns a deep copy of the named claim.
func (c ClaimSet) Get(name string) (any, bool) {
	v, ok := c.claims[name]
	if !ok {
		return nil, false
	}
	return cloneValue(v), true
}

// StringClaim returns the named claim when it is a string.
func (c ClaimSet) StringClaim(name string) (string, bool) {
	s, ok := c.claims[name].(string)
	return s, ok
}

// Has reports whether the named claim is present, even when null.
func (c ClaimSet) Has(name string) bool {
	_, ok := c.claims[name]
	return ok
}

// Len returns the number of claims, registered ones included.
func (c ClaimSet) Len() int {
	return len(c.claims)
}

// Map returns a deep copy of every claim.
func (c ClaimSet) Map() map[string]any {
	out := make(map[string]any, len(c.claims))
	for k, v := range c.claims {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = cloneValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return v
	}
}

// decodeClaims parses a claims payload. The payload must be a single JSON
// object.
func decodeClaims(payload []byte) (jwt.MapClaims, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var claims jwt.MapClaims
	if err := dec.Decode(&claims); err != nil {
		return nil, err
	}
	if claims == nil {
		return nil, errNotObject
	}
	if dec.More() {
		return nil, errTrailingData
	}
	return claims, nil
}
