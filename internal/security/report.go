package security

import "time"

// Report is a read-only summary of an engine's token posture.
type Report struct {
	SigningAlgorithm  string
	SecretBytes       int
	IssuerPinned      bool
	AudiencePinned    bool
	RequiredClaims    []string
	Leeway            time.Duration
	DefaultTTL        time.Duration
	MaxTTL            time.Duration
	TokenIDEnabled    bool
	IssueLimitActive  bool
	IssueLimitPerWin  int
	IssueLimitWindow  time.Duration
	AuditEnabled      bool
	AuditBlocking     bool
	MetricsEnabled    bool
	LatencyHistograms bool
	Findings          []string
	Hardened          bool
}

type ReportInput struct {
	SigningAlgorithm  string
	SecretBytes       int
	Issuer            string
	Audience          string
	RequiredClaims    []string
	Leeway            time.Duration
	DefaultTTL        time.Duration
	MaxTTL            time.Duration
	IncludeTokenID    bool
	IssueLimitEnabled bool
	MaxPerWindow      int
	Window            time.Duration
	AuditEnabled      bool
	AuditDropIfFull   bool
	MetricsEnabled    bool
	LatencyHistograms bool
	// Findings are lint codes at warning level or above.
	Findings []string
}

// BuildReport derives a Report. Hardened requires pinned iss and aud, a
// bounded lifetime, an active issuance limit, and no findings.
func BuildReport(input ReportInput) Report {
	limitActive := input.IssueLimitEnabled &&
		input.MaxPerWindow > 0 &&
		input.Window > 0

	r := Report{
		SigningAlgorithm:  input.SigningAlgorithm,
		SecretBytes:       input.SecretBytes,
		IssuerPinned:      input.Issuer != "",
		AudiencePinned:    input.Audience != "",
		RequiredClaims:    append([]string(nil), input.RequiredClaims...),
		Leeway:            input.Leeway,
		DefaultTTL:        input.DefaultTTL,
		MaxTTL:            input.MaxTTL,
		TokenIDEnabled:    input.IncludeTokenID,
		IssueLimitActive:  limitActive,
		AuditEnabled:      input.AuditEnabled,
		AuditBlocking:     input.AuditEnabled && !input.AuditDropIfFull,
		MetricsEnabled:    input.MetricsEnabled,
		LatencyHistograms: input.MetricsEnabled && input.LatencyHistograms,
		Findings:          append([]string(nil), input.Findings...),
	}
	if limitActive {
		r.IssueLimitPerWin = input.MaxPerWindow
		r.IssueLimitWindow = input.Window
	}
	r.Hardened = r.IssuerPinned &&
		r.AudiencePinned &&
		r.MaxTTL > 0 &&
		r.IssueLimitActive &&
		len(r.Findings) == 0
	return r
}
