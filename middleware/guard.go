package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	gateToken "github.com/MrEthical07/gateToken"
	"github.com/MrEthical07/gateToken/jwt"
)

const (
	msgMissingHeader = "Missing Authorization header"
	msgNotBearer     = "Authorization header must start with 'Bearer '"
	msgInvalidToken  = "Invalid or expired token"
	msgForbidden     = "Token not accepted for this audience"
	msgUnavailable   = "Authentication unavailable"
)

type claimsContextKey struct{}

// TokenVerifier is satisfied by *gateToken.Engine.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (jwt.ClaimSet, error)
}

// ClaimsFromContext returns the claims stored by [Guard].
func ClaimsFromContext(ctx context.Context) (jwt.ClaimSet, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(jwt.ClaimSet)
	return claims, ok
}

// Guard rejects requests without a valid bearer token and places the
// verified claims in the request context.
func Guard(engine *gateToken.Engine) func(http.Handler) http.Handler {
	if engine == nil {
		return guard(nil, false)
	}
	return guard(engine, false)
}

// GuardVerifier is Guard over any [TokenVerifier].
func GuardVerifier(v TokenVerifier) func(http.Handler) http.Handler {
	return guard(v, false)
}

// Optional authenticates requests that carry an Authorization header and
// lets anonymous requests through without claims. A header that is present
// but invalid is still rejected.
func Optional(engine *gateToken.Engine) func(http.Handler) http.Handler {
	if engine == nil {
		return guard(nil, true)
	}
	return guard(engine, true)
}

func guard(v TokenVerifier, optional bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if v == nil {
				writeError(w, http.StatusServiceUnavailable, msgUnavailable)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				if optional {
					next.ServeHTTP(w, r)
					return
				}
				writeError(w, http.StatusUnauthorized, msgMissingHeader)
				return
			}

			token, ok := BearerToken(header)
			if !ok {
				writeError(w, http.StatusUnauthorized, msgNotBearer)
				return
			}

			ctx := gateToken.WithClientIP(r.Context(), clientIP(r))
			claims, err := v.Verify(ctx, token)
			if err != nil {
				status, msg := Status(err)
				writeError(w, status, msg)
				return
			}

			ctx = context.WithValue(ctx, claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an Authorization header value. The
// scheme must be exactly "Bearer " and the token non-empty.
func BearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

// Status maps a verification error to an HTTP status and client message.
// Identity mismatches on an authentic token are 403; everything else is 401.
func Status(err error) (int, string) {
	switch jwt.Kind(err) {
	case jwt.KindIssuerMismatch, jwt.KindAudienceMismatch:
		return http.StatusForbidden, msgForbidden
	case jwt.KindNone:
		return http.StatusOK, ""
	case jwt.KindOther:
		return http.StatusServiceUnavailable, msgUnavailable
	default:
		return http.StatusUnauthorized, msgInvalidToken
	}
}

type errorBody struct {
	Error     string `json:"error"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	kind := "authentication_error"
	switch status {
	case http.StatusUnauthorized:
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	case http.StatusForbidden:
		kind = "authorization_error"
	case http.StatusServiceUnavailable:
		kind = "service_error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error:     msg,
		Type:      kind,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
