package middleware

import "net/http"

// RequireClaim rejects with 403 unless the verified claims hold name as a
// string equal to one of values. It must run after [Guard].
func RequireClaim(name string, values ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, msgMissingHeader)
				return
			}
			got, ok := claims.StringClaim(name)
			if _, allowedValue := allowed[got]; !ok || !allowedValue {
				writeError(w, http.StatusForbidden, "Insufficient "+name+" claim")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole is RequireClaim on the role claim.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return RequireClaim("role", roles...)
}
