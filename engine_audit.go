package gateToken

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/gateToken/jwt"
	"github.com/google/uuid"
)

const (
	auditEventTokenIssued           = "token_issued"
	auditEventTokenIssueFailed      = "token_issue_failed"
	auditEventTokenIssueRateLimited = "token_issue_rate_limited"
	auditEventTokenVerified         = "token_verified"
	auditEventTokenRejected         = "token_rejected"
)

// AuditErrorCode is the stable error string placed on failed audit events.
type AuditErrorCode string

const (
	auditErrMalformedToken       AuditErrorCode = "malformed_token"
	auditErrInvalidSignature     AuditErrorCode = "invalid_signature"
	auditErrMissingRequiredClaim AuditErrorCode = "missing_required_claim"
	auditErrTokenExpired         AuditErrorCode = "token_expired"
	auditErrIssuerMismatch       AuditErrorCode = "issuer_mismatch"
	auditErrAudienceMismatch     AuditErrorCode = "audience_mismatch"
	auditErrReservedClaim        AuditErrorCode = "reserved_claim_conflict"
	auditErrInvalidRequest       AuditErrorCode = "invalid_request"
	auditErrRateLimited          AuditErrorCode = "rate_limited"
	auditErrUnavailable          AuditErrorCode = "backend_unavailable"
	auditErrInternal             AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	subject string,
	tokenID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}
	if rid := requestIDFromContext(ctx); rid != "" {
		if metadata == nil {
			metadata = make(map[string]string, 1)
		}
		metadata["request_id"] = rid
	}

	event := AuditEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Subject:   subject,
		TokenID:   tokenID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch jwt.Kind(err) {
	case jwt.KindMalformedToken:
		return auditErrMalformedToken
	case jwt.KindInvalidSignature:
		return auditErrInvalidSignature
	case jwt.KindMissingRequiredClaim:
		return auditErrMissingRequiredClaim
	case jwt.KindTokenExpired:
		return auditErrTokenExpired
	case jwt.KindIssuerMismatch:
		return auditErrIssuerMismatch
	case jwt.KindAudienceMismatch:
		return auditErrAudienceMismatch
	case jwt.KindReservedClaimConflict:
		return auditErrReservedClaim
	}

	switch {
	case errors.Is(err, jwt.ErrInvalidSubject),
		errors.Is(err, jwt.ErrInvalidTTL),
		errors.Is(err, ErrTTLTooLong):
		return auditErrInvalidRequest
	case errors.Is(err, ErrIssueRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrIssueUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
