package gateToken

import "github.com/MrEthical07/gateToken/internal/security"

// SecurityReport summarizes the engine's effective token posture.
type SecurityReport = security.Report

// SecurityReport reports the configuration the engine was built with. Lint
// findings at [LintWarn] or above are listed by code.
func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}
	cfg := e.config

	return security.BuildReport(security.ReportInput{
		SigningAlgorithm:  string(e.signing.Algorithm()),
		SecretBytes:       len(cfg.JWT.Secret),
		Issuer:            e.signing.Issuer(),
		Audience:          e.signing.Audience(),
		RequiredClaims:    e.signing.RequiredClaims(),
		Leeway:            e.signing.Leeway(),
		DefaultTTL:        cfg.JWT.DefaultTTL,
		MaxTTL:            cfg.JWT.MaxTTL,
		IncludeTokenID:    cfg.JWT.IncludeTokenID,
		IssueLimitEnabled: e.limiter != nil,
		MaxPerWindow:      cfg.IssueLimit.MaxPerWindow,
		Window:            cfg.IssueLimit.Window,
		AuditEnabled:      e.audit != nil,
		AuditDropIfFull:   cfg.Audit.DropIfFull,
		MetricsEnabled:    e.metrics.Enabled(),
		LatencyHistograms: cfg.Metrics.EnableLatencyHistograms,
		Findings:          cfg.Lint().BySeverity(LintWarn).Codes(),
	})
}
