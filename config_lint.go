package gateToken

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// LintSeverity ranks a lint finding.
type LintSeverity int

const (
	LintInfo LintSeverity = iota
	LintWarn
	LintHigh
)

func (s LintSeverity) String() string {
	switch s {
	case LintInfo:
		return "INFO"
	case LintWarn:
		return "WARN"
	case LintHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// LintWarning is a configuration that validates but is probably not what a
// production deployment wants.
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

type LintResult []LintWarning

// Codes returns the warning codes in order.
func (r LintResult) Codes() []string {
	out := make([]string, 0, len(r))
	for _, w := range r {
		out = append(out, w.Code)
	}
	return out
}

// BySeverity returns the warnings at or above min.
func (r LintResult) BySeverity(min LintSeverity) LintResult {
	var out LintResult
	for _, w := range r {
		if w.Severity >= min {
			out = append(out, w)
		}
	}
	return out
}

// AsError folds every warning at or above min into one error, or nil.
func (r LintResult) AsError(min LintSeverity) error {
	hits := r.BySeverity(min)
	if len(hits) == 0 {
		return nil
	}
	parts := make([]string, 0, len(hits))
	for _, w := range hits {
		parts = append(parts, fmt.Sprintf("[%s] %s: %s", w.Severity, w.Code, w.Message))
	}
	return errors.New("config lint: " + strings.Join(parts, "; "))
}

// Lint inspects a config for risky but valid settings. Call Validate first;
// Lint does not repeat its checks.
func (c *Config) Lint() LintResult {
	var ws LintResult
	add := func(code string, sev LintSeverity, msg string) {
		ws = append(ws, LintWarning{Code: code, Severity: sev, Message: msg})
	}

	if c.JWT.Leeway > 30*time.Second {
		add("leeway_large", LintWarn, "expiry leeway above 30s widens the replay window")
	}
	if c.JWT.DefaultTTL > 24*time.Hour {
		add("ttl_long", LintWarn, "default token lifetime exceeds 24h")
	}
	if c.JWT.MaxTTL == 0 {
		add("max_ttl_unbounded", LintInfo, "callers may request any token lifetime")
	}
	if strings.TrimSpace(c.JWT.Issuer) == "" {
		add("issuer_unset", LintWarn, "tokens carry no iss and any iss is accepted")
	}
	if strings.TrimSpace(c.JWT.Audience) == "" {
		add("audience_unset", LintWarn, "tokens carry no aud and any aud is accepted")
	}
	if !c.IssueLimit.Enabled {
		add("issue_limit_disabled", LintInfo, "token issuance is not rate limited")
	}
	if !c.Audit.Enabled {
		add("audit_disabled", LintInfo, "issue and verify outcomes are not audited")
	}
	if c.Audit.Enabled && c.Audit.DropIfFull {
		add("audit_drop_if_full", LintInfo, "audit events are dropped under backpressure")
	}
	if c.JWT.IncludeTokenID && !c.Audit.Enabled {
		add("token_id_unaudited", LintInfo, "jti is stamped but never recorded")
	}
	if len(c.JWT.Secret) > 0 && isRepeatedByte(c.JWT.Secret) {
		add("secret_low_entropy", LintHigh, "JWT secret is a single repeated byte")
	}

	return ws
}

func isRepeatedByte(b []byte) bool {
	for i := 1; i < len(b); i++ {
		if b[i] != b[0] {
			return false
		}
	}
	return true
}
