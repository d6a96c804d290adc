package jwt

import (
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

const (
	testSecret   = "your-super-secure-jwt-secret-key-must-be-at-least-32-characters-long"
	testIssuer   = "kairos-gateway"
	testAudience = "api-clients"
)

var testEpoch = time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestContext(t *testing.T, mutate ...func(*Config)) *SigningContext {
	t.Helper()
	cfg := Config{
		Secret:   []byte(testSecret),
		Issuer:   testIssuer,
		Audience: testAudience,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	ctx, err := NewSigningContext(cfg)
	if err != nil {
		t.Fatalf("new signing context: %v", err)
	}
	return ctx
}

func newTestPair(t *testing.T, ctx *SigningContext, opts ...IssuerOption) (*Issuer, *Verifier) {
	t.Helper()
	opts = append([]IssuerOption{WithIssuerClock(fixedClock(testEpoch))}, opts...)
	iss, err := NewIssuer(ctx, opts...)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	ver, err := NewVerifier(ctx, WithVerifierClock(fixedClock(testEpoch)))
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	return iss, ver
}

// signRaw signs arbitrary claims with golang-jwt directly, bypassing the
// issuer's checks.
func signRaw(t *testing.T, method gjwt.SigningMethod, claims gjwt.MapClaims, key any) string {
	t.Helper()
	token, err := gjwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign raw token: %v", err)
	}
	return token
}

func validRawClaims() gjwt.MapClaims {
	return gjwt.MapClaims{
		"sub": "u1",
		"iat": testEpoch.Unix(),
		"exp": testEpoch.Add(time.Hour).Unix(),
		"iss": testIssuer,
		"aud": testAudience,
	}
}
