package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Algorithm identifies the MAC algorithm named in the token header.
type Algorithm string

const (
	// HS256 is HMAC-SHA256, the only supported algorithm.
	HS256 Algorithm = "HS256"
)

const (
	// MinSecretLength is the shortest accepted HMAC secret, in bytes.
	MinSecretLength = 32
	// MaxLeeway bounds the clock-skew allowance applied to exp.
	MaxLeeway = 2 * time.Minute
)

// Config is the input to [NewSigningContext].
type Config struct {
	Secret    []byte
	Issuer    string
	Audience  string
	Algorithm Algorithm
	// RequiredClaims lists claim names that must be present in addition to sub and exp.
	RequiredClaims []string
	Leeway         time.Duration
}

// SigningContext holds the signing parameters shared by an [Issuer] and a
// [Verifier]. It is immutable after construction and safe for concurrent use.
type SigningContext struct {
	secret    []byte
	issuer    string
	audience  string
	algorithm Algorithm
	method    jwt.SigningMethod
	required  []string
	leeway    time.Duration
}

// NewSigningContext validates cfg and returns an immutable signing context.
// The secret is copied.
func NewSigningContext(cfg Config) (*SigningContext, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("secret must be at least %d bytes", MinSecretLength)
	}
	if cfg.Leeway < 0 || cfg.Leeway > MaxLeeway {
		return nil, errors.New("invalid leeway configuration")
	}

	alg := cfg.Algorithm
	if alg == "" {
		alg = HS256
	}
	var method jwt.SigningMethod
	switch alg {
	case HS256:
		method = jwt.SigningMethodHS256
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", alg)
	}

	required := []string{"sub", "exp"}
	for _, name := range cfg.RequiredClaims {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.New("required claims contain an empty name")
		}
		if !containsString(required, name) {
			required = append(required, name)
		}
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &SigningContext{
		secret:    secret,
		issuer:    strings.TrimSpace(cfg.Issuer),
		audience:  strings.TrimSpace(cfg.Audience),
		algorithm: alg,
		method:    method,
		required:  required,
		leeway:    cfg.Leeway,
	}, nil
}

// Issuer returns the configured iss, or "" when issuer checks are off.
func (c *SigningContext) Issuer() string { return c.issuer }

// Audience returns the configured aud, or "" when audience checks are off.
func (c *SigningContext) Audience() string { return c.audience }

// Algorithm returns the signing algorithm. It is always [HS256].
func (c *SigningContext) Algorithm() Algorithm { return c.algorithm }

// Leeway returns the clock-skew allowance applied to exp.
func (c *SigningContext) Leeway() time.Duration { return c.leeway }

// RequiredClaims returns every claim name the verifier insists on, sub and
// exp first.
func (c *SigningContext) RequiredClaims() []string {
	out := make([]string, len(c.required))
	copy(out, c.required)
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
