package gateToken

import (
	"errors"
	"time"

	internalaudit "github.com/MrEthical07/gateToken/internal/audit"
	"github.com/MrEthical07/gateToken/internal/rate"
	"github.com/MrEthical07/gateToken/jwt"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. Configure it during initialization; a
// Builder can be built once.
type Builder struct {
	config    Config
	redis     redis.UniversalClient
	auditSink AuditSink
	clock     func() time.Time

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole config. The value is cloned.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the client used for issuance limits. It is only
// required when IssueLimit.Enabled is true.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// WithClock overrides the time source for both issuance and verification.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

// Build validates the config and wires the engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.IssueLimit.Enabled && b.redis == nil {
		return nil, errors.New("IssueLimit requires redis client")
	}

	// -------- SIGNING CONTEXT --------
	signing, err := jwt.NewSigningContext(cfg.JWT.signingConfig())
	if err != nil {
		return nil, err
	}

	var issuerOpts []jwt.IssuerOption
	var verifierOpts []jwt.VerifierOption
	if cfg.JWT.IncludeTokenID {
		issuerOpts = append(issuerOpts, jwt.WithTokenID())
	}
	if b.clock != nil {
		issuerOpts = append(issuerOpts, jwt.WithIssuerClock(b.clock))
		verifierOpts = append(verifierOpts, jwt.WithVerifierClock(b.clock))
	}

	issuer, err := jwt.NewIssuer(signing, issuerOpts...)
	if err != nil {
		return nil, err
	}
	verifier, err := jwt.NewVerifier(signing, verifierOpts...)
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:   cfg,
		signing:  signing,
		issuer:   issuer,
		verifier: verifier,
		metrics:  NewMetrics(cfg.Metrics),
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
	}

	// -------- ISSUANCE LIMIT --------
	if cfg.IssueLimit.Enabled {
		engine.limiter = rate.New(b.redis, rate.Config{
			MaxPerWindow: cfg.IssueLimit.MaxPerWindow,
			Window:       cfg.IssueLimit.Window,
			Prefix:       cfg.IssueLimit.RedisPrefix,
		})
	}

	b.built = true

	return engine, nil
}
