package gateToken

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	internalaudit "github.com/MrEthical07/gateToken/internal/audit"
	"github.com/MrEthical07/gateToken/internal/rate"
	"github.com/MrEthical07/gateToken/jwt"
)

// Engine issues and verifies tokens under one signing context and layers
// issuance limits, audit, and metrics on top of the pure jwt core.
//
// Engine methods are safe for concurrent use after [Builder.Build].
type Engine struct {
	config   Config
	signing  *jwt.SigningContext
	issuer   *jwt.Issuer
	verifier *jwt.Verifier
	limiter  *rate.Limiter
	audit    *internalaudit.Dispatcher
	metrics  *Metrics
}

// Close flushes pending audit events and stops the dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns the number of audit events dropped under
// backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// AuditDropStats reports drops per event type plus the subject and request
// ID of the most recent dropped event.
func (e *Engine) AuditDropStats() AuditDropStats {
	if e == nil || e.audit == nil {
		return AuditDropStats{ByType: map[string]uint64{}}
	}
	return e.audit.DropStats()
}

func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// SigningContext returns the shared signing context. It is immutable.
func (e *Engine) SigningContext() *jwt.SigningContext {
	if e == nil {
		return nil
	}
	return e.signing
}

// DefaultTTL returns JWT.DefaultTTL.
func (e *Engine) DefaultTTL() time.Duration {
	if e == nil {
		return 0
	}
	return e.config.JWT.DefaultTTL
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Issue mints a token for subject valid for ttl. extra holds application
// claims and must not name a reserved claim.
func (e *Engine) Issue(ctx context.Context, subject string, ttl time.Duration, extra map[string]any) (string, error) {
	token, _, err := e.IssueWithClaims(ctx, subject, ttl, extra)
	return token, err
}

// IssueDefault is Issue with JWT.DefaultTTL.
func (e *Engine) IssueDefault(ctx context.Context, subject string, extra map[string]any) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	return e.Issue(ctx, subject, e.config.JWT.DefaultTTL, extra)
}

// IssueWithClaims is Issue that also returns the claims exactly as a
// verifier will see them.
//
// The token is signed before the issuance quota is charged, so malformed
// requests never consume budget. When the quota backend is unreachable
// issuance fails closed with [ErrIssueUnavailable].
func (e *Engine) IssueWithClaims(ctx context.Context, subject string, ttl time.Duration, extra map[string]any) (string, jwt.ClaimSet, error) {
	if e == nil || e.issuer == nil {
		return "", jwt.ClaimSet{}, ErrEngineNotReady
	}

	if e.config.JWT.MaxTTL > 0 && ttl > e.config.JWT.MaxTTL {
		e.metricInc(MetricIssueFailure)
		e.emitAudit(ctx, auditEventTokenIssueFailed, false, subject, "", ErrTTLTooLong, func() map[string]string {
			return map[string]string{"ttl": ttl.String()}
		})
		return "", jwt.ClaimSet{}, ErrTTLTooLong
	}

	token, claims, err := e.issuer.IssueWithClaims(subject, ttl, extra)
	if err != nil {
		e.metricInc(MetricIssueFailure)
		e.emitAudit(ctx, auditEventTokenIssueFailed, false, subject, "", err, nil)
		return "", jwt.ClaimSet{}, err
	}

	if e.limiter != nil {
		if err := e.limiter.AllowIssue(ctx, claims.Subject()); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				e.metricInc(MetricIssueRateLimited)
				e.emitAudit(ctx, auditEventTokenIssueRateLimited, false, claims.Subject(), "", ErrIssueRateLimited, nil)
				return "", jwt.ClaimSet{}, ErrIssueRateLimited
			}
			log.Print("gateToken: issuance limiter unavailable")
			e.metricInc(MetricIssueFailure)
			e.emitAudit(ctx, auditEventTokenIssueFailed, false, claims.Subject(), "", ErrIssueUnavailable, nil)
			return "", jwt.ClaimSet{}, fmt.Errorf("%w: %v", ErrIssueUnavailable, err)
		}
	}

	e.metricInc(MetricIssueSuccess)
	e.emitAudit(ctx, auditEventTokenIssued, true, claims.Subject(), claims.TokenID(), nil, func() map[string]string {
		return map[string]string{
			"exp":    strconv.FormatInt(claims.ExpiresAt().Unix(), 10),
			"claims": strconv.Itoa(claims.Len()),
		}
	})
	return token, claims, nil
}

// RemainingIssues reports how many more tokens subject may be issued in the
// current window. Without an issuance limit it returns -1.
func (e *Engine) RemainingIssues(ctx context.Context, subject string) (int, error) {
	if e == nil {
		return 0, ErrEngineNotReady
	}
	if e.limiter == nil {
		return -1, nil
	}
	n, err := e.limiter.Remaining(ctx, subject)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIssueUnavailable, err)
	}
	return n, nil
}

// ResetIssueQuota clears subject's issuance window. It is a no-op without
// an issuance limit.
func (e *Engine) ResetIssueQuota(ctx context.Context, subject string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if e.limiter == nil {
		return nil
	}
	if err := e.limiter.Reset(ctx, subject); err != nil {
		return fmt.Errorf("%w: %v", ErrIssueUnavailable, err)
	}
	return nil
}

// Verify runs the four verification gates against token. Rejections are
// returned as the jwt package's errors unchanged; branch on them with
// [jwt.Kind] or errors.Is. Verify never performs network I/O.
func (e *Engine) Verify(ctx context.Context, token string) (jwt.ClaimSet, error) {
	if e == nil || e.verifier == nil {
		return jwt.ClaimSet{}, ErrEngineNotReady
	}
	if e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() {
			e.metrics.Observe(MetricVerifyLatency, time.Since(start))
		}()
	}

	claims, err := e.verifier.Verify(token)
	if err != nil {
		if id, ok := verifyMetric(jwt.Kind(err)); ok {
			e.metricInc(id)
		}
		e.emitAudit(ctx, auditEventTokenRejected, false, "", "", err, nil)
		return jwt.ClaimSet{}, err
	}

	e.metricInc(MetricVerifySuccess)
	e.emitAudit(ctx, auditEventTokenVerified, true, claims.Subject(), claims.TokenID(), nil, nil)
	return claims, nil
}
