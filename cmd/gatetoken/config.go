package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	gateToken "github.com/MrEthical07/gateToken"
)

const envPrefix = "GATETOKEN_"

// cliConfig is read from the environment (and an optional .env file).
type cliConfig struct {
	Secret         string        `env:"JWT_SECRET,required"`
	Issuer         string        `env:"JWT_ISSUER" envDefault:"kairos-gateway"`
	Audience       string        `env:"JWT_AUDIENCE" envDefault:"api-clients"`
	RequiredClaims []string      `env:"JWT_REQUIRED_CLAIMS" envSeparator:","`
	Leeway         time.Duration `env:"JWT_LEEWAY" envDefault:"0s"`
	TTL            time.Duration `env:"JWT_TTL" envDefault:"24h"`
	MaxTTL         time.Duration `env:"JWT_MAX_TTL" envDefault:"0s"`
	TokenID        bool          `env:"JWT_TOKEN_ID" envDefault:"false"`

	RedisAddr   string        `env:"REDIS_ADDR"`
	IssueLimit  int           `env:"ISSUE_LIMIT" envDefault:"60"`
	IssueWindow time.Duration `env:"ISSUE_WINDOW" envDefault:"1m"`
	LogFormat   string        `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
}

func loadConfig(environ map[string]string) (cliConfig, error) {
	var cfg cliConfig
	err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      envPrefix,
		Environment: environ,
	})
	if err != nil {
		return cliConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// engineConfig maps the CLI settings onto an engine config. The issuance
// limit is only enabled when a Redis address is configured.
func (c cliConfig) engineConfig() gateToken.Config {
	cfg := gateToken.DefaultConfig()
	cfg.JWT.Secret = []byte(c.Secret)
	cfg.JWT.Issuer = c.Issuer
	cfg.JWT.Audience = c.Audience
	cfg.JWT.Leeway = c.Leeway
	cfg.JWT.DefaultTTL = c.TTL
	cfg.JWT.MaxTTL = c.MaxTTL
	cfg.JWT.IncludeTokenID = c.TokenID
	for _, name := range c.RequiredClaims {
		if name = strings.TrimSpace(name); name != "" {
			cfg.JWT.RequiredClaims = append(cfg.JWT.RequiredClaims, name)
		}
	}
	if c.RedisAddr != "" {
		cfg.IssueLimit.Enabled = true
		cfg.IssueLimit.MaxPerWindow = c.IssueLimit
		cfg.IssueLimit.Window = c.IssueWindow
	}
	return cfg
}

func (c cliConfig) level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
