package internaldefs

import (
	gateToken "github.com/MrEthical07/gateToken"
)

// CounterDef names one counter for every exporter.
type CounterDef struct {
	ID   gateToken.MetricID
	Name string
	Help string
}

// HistogramDef names one latency histogram for every exporter.
type HistogramDef struct {
	ID   gateToken.MetricID
	Name string
	Help string
}

// AuditDroppedName is the counter exported for dispatcher drops.
const AuditDroppedName = "gatetoken_audit_dropped_total"

// AuditDroppedHelp describes AuditDroppedName.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."

var CounterDefs = []CounterDef{
	{ID: gateToken.MetricIssueSuccess, Name: "gatetoken_issue_success_total", Help: "Tokens issued."},
	{ID: gateToken.MetricIssueFailure, Name: "gatetoken_issue_failure_total", Help: "Issuance requests rejected or failed."},
	{ID: gateToken.MetricIssueRateLimited, Name: "gatetoken_issue_rate_limited_total", Help: "Issuance requests denied by the per-subject limit."},
	{ID: gateToken.MetricVerifySuccess, Name: "gatetoken_verify_success_total", Help: "Tokens accepted."},
	{ID: gateToken.MetricVerifyMalformed, Name: "gatetoken_verify_malformed_total", Help: "Tokens rejected as structurally malformed."},
	{ID: gateToken.MetricVerifyInvalidSignature, Name: "gatetoken_verify_invalid_signature_total", Help: "Tokens rejected for a bad signature or algorithm."},
	{ID: gateToken.MetricVerifyMissingClaim, Name: "gatetoken_verify_missing_claim_total", Help: "Tokens rejected for a missing required claim."},
	{ID: gateToken.MetricVerifyExpired, Name: "gatetoken_verify_expired_total", Help: "Tokens rejected as expired."},
	{ID: gateToken.MetricVerifyIssuerMismatch, Name: "gatetoken_verify_issuer_mismatch_total", Help: "Tokens rejected for a foreign issuer."},
	{ID: gateToken.MetricVerifyAudienceMismatch, Name: "gatetoken_verify_audience_mismatch_total", Help: "Tokens rejected for a foreign audience."},
}

var HistogramDefs = []HistogramDef{
	{ID: gateToken.MetricVerifyLatency, Name: "gatetoken_verify_latency_seconds", Help: "Verify latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds, matching the
// core bucketing.
var HistogramBounds = []string{
	"0.00005",
	"0.0001",
	"0.00025",
	"0.0005",
	"0.001",
	"0.005",
	"0.025",
	"+Inf",
}

// HistogramBoundSuffix are HistogramBounds made safe for instrument names.
var HistogramBoundSuffix = []string{
	"0_00005",
	"0_0001",
	"0_00025",
	"0_0005",
	"0_001",
	"0_005",
	"0_025",
	"inf",
}

// NormalizeBuckets copies raw into a fixed array, zero-filling short input.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
