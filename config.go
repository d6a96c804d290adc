package gateToken

import (
	"errors"
	"strings"
	"time"

	"github.com/MrEthical07/gateToken/jwt"
)

// Config is the complete engine configuration. It is cloned by [Builder]
// and treated as immutable after [Builder.Build].
type Config struct {
	JWT        JWTConfig
	IssueLimit IssueLimitConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig carries the shared signing context plus issuance defaults.
type JWTConfig struct {
	Secret         []byte
	Issuer         string
	Audience       string
	Algorithm      string // "HS256" only
	RequiredClaims []string
	Leeway         time.Duration

	// DefaultTTL is used by [Engine.IssueDefault].
	DefaultTTL time.Duration
	// MaxTTL caps caller-supplied lifetimes. Zero means unbounded.
	MaxTTL time.Duration

	IncludeTokenID bool
}

/*
====================================
ISSUE LIMIT CONFIG
====================================
*/

// IssueLimitConfig bounds how many tokens a single subject may obtain per
// fixed window. Requires a Redis client.
type IssueLimitConfig struct {
	Enabled      bool
	MaxPerWindow int
	Window       time.Duration
	RedisPrefix  string
}

/*
====================================
AUDIT + METRICS CONFIG
====================================
*/

type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns a config with every section at its baseline.
// JWT.Secret is left empty and must be supplied.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			Algorithm:  string(jwt.HS256),
			DefaultTTL: 24 * time.Hour,
		},
		IssueLimit: IssueLimitConfig{
			Enabled:      false,
			MaxPerWindow: 60,
			Window:       time.Minute,
			RedisPrefix:  "gt:iss",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

// GatewayPreset mirrors the API gateway deployment: fixed issuer and
// audience, 24h tokens. Only sub and exp are required; role and user_id
// pass through when present.
func GatewayPreset(secret []byte) Config {
	cfg := DefaultConfig()
	cfg.JWT.Secret = cloneBytes(secret)
	cfg.JWT.Issuer = "kairos-gateway"
	cfg.JWT.Audience = "api-clients"
	return cfg
}

// HighSecurityPreset shortens lifetimes, stamps a jti on every token, and
// turns on issuance limits and blocking audit delivery.
func HighSecurityPreset(secret []byte) Config {
	cfg := GatewayPreset(secret)
	cfg.JWT.DefaultTTL = 15 * time.Minute
	cfg.JWT.MaxTTL = time.Hour
	cfg.JWT.IncludeTokenID = true
	cfg.IssueLimit.Enabled = true
	cfg.IssueLimit.MaxPerWindow = 10
	cfg.Audit.Enabled = true
	cfg.Audit.DropIfFull = false
	cfg.Metrics.EnableLatencyHistograms = true
	return cfg
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	if cfg.JWT.RequiredClaims != nil {
		out.JWT.RequiredClaims = append([]string(nil), cfg.JWT.RequiredClaims...)
	}
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func (c JWTConfig) signingConfig() jwt.Config {
	return jwt.Config{
		Secret:         cloneBytes(c.Secret),
		Issuer:         c.Issuer,
		Audience:       c.Audience,
		Algorithm:      jwt.Algorithm(strings.ToUpper(strings.TrimSpace(c.Algorithm))),
		RequiredClaims: c.RequiredClaims,
		Leeway:         c.Leeway,
	}
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first configuration problem found, or nil.
func (c *Config) Validate() error {
	// JWT
	if len(c.JWT.Secret) < jwt.MinSecretLength {
		return errors.New("JWT Secret must be at least 32 bytes")
	}
	if alg := strings.ToUpper(strings.TrimSpace(c.JWT.Algorithm)); alg != "" && alg != string(jwt.HS256) {
		return errors.New("unsupported JWT algorithm")
	}
	if c.JWT.Issuer != "" && strings.TrimSpace(c.JWT.Issuer) == "" {
		return errors.New("JWT Issuer must not be blank")
	}
	if c.JWT.Audience != "" && strings.TrimSpace(c.JWT.Audience) == "" {
		return errors.New("JWT Audience must not be blank")
	}
	for _, name := range c.JWT.RequiredClaims {
		if strings.TrimSpace(name) == "" {
			return errors.New("JWT RequiredClaims must not contain blank names")
		}
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > jwt.MaxLeeway {
		return errors.New("JWT Leeway must be between 0 and 2m")
	}
	if c.JWT.DefaultTTL <= 0 {
		return errors.New("JWT DefaultTTL must be > 0")
	}
	if c.JWT.MaxTTL < 0 {
		return errors.New("JWT MaxTTL must be >= 0")
	}
	if c.JWT.MaxTTL > 0 && c.JWT.DefaultTTL > c.JWT.MaxTTL {
		return errors.New("JWT DefaultTTL must not exceed MaxTTL")
	}

	// Issue limit
	if c.IssueLimit.Enabled {
		if c.IssueLimit.MaxPerWindow <= 0 {
			return errors.New("IssueLimit MaxPerWindow must be > 0")
		}
		if c.IssueLimit.Window <= 0 {
			return errors.New("IssueLimit Window must be > 0")
		}
		if strings.TrimSpace(c.IssueLimit.RedisPrefix) == "" {
			return errors.New("IssueLimit RedisPrefix must not be empty")
		}
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0")
	}

	// Metrics
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	return nil
}
