package gateToken

import (
	internalmetrics "github.com/MrEthical07/gateToken/internal/metrics"
	"github.com/MrEthical07/gateToken/jwt"
)

// MetricID identifies a counter or histogram in the in-process metrics
// table.
type MetricID = internalmetrics.MetricID

const (
	MetricIssueSuccess           = internalmetrics.MetricIssueSuccess
	MetricIssueFailure           = internalmetrics.MetricIssueFailure
	MetricIssueRateLimited       = internalmetrics.MetricIssueRateLimited
	MetricVerifySuccess          = internalmetrics.MetricVerifySuccess
	MetricVerifyMalformed        = internalmetrics.MetricVerifyMalformed
	MetricVerifyInvalidSignature = internalmetrics.MetricVerifyInvalidSignature
	MetricVerifyMissingClaim     = internalmetrics.MetricVerifyMissingClaim
	MetricVerifyExpired          = internalmetrics.MetricVerifyExpired
	MetricVerifyIssuerMismatch   = internalmetrics.MetricVerifyIssuerMismatch
	MetricVerifyAudienceMismatch = internalmetrics.MetricVerifyAudienceMismatch
	MetricVerifyLatency          = internalmetrics.MetricVerifyLatency
)

// Metrics holds atomic counters and optional latency histograms.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a [Metrics] configured by cfg. When Enabled is false
// every operation is a no-op.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}

// verifyMetric maps a rejection to its counter.
func verifyMetric(kind jwt.ErrorKind) (MetricID, bool) {
	switch kind {
	case jwt.KindMalformedToken:
		return MetricVerifyMalformed, true
	case jwt.KindInvalidSignature:
		return MetricVerifyInvalidSignature, true
	case jwt.KindMissingRequiredClaim:
		return MetricVerifyMissingClaim, true
	case jwt.KindTokenExpired:
		return MetricVerifyExpired, true
	case jwt.KindIssuerMismatch:
		return MetricVerifyIssuerMismatch, true
	case jwt.KindAudienceMismatch:
		return MetricVerifyAudienceMismatch, true
	default:
		return 0, false
	}
}
