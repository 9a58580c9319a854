package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/castrack/pkg/jwtx"
	"github.com/aussiebroadwan/castrack/pkg/slogx"
)

// AuthnMiddleware verifies the bearer credential and stores its claims in
// the request context. A missing credential is 401. A credential that is
// present but malformed, expired or badly signed is 400, which is what
// existing clients of this API expect.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="castrack"`)
				WriteError(w, http.StatusUnauthorized, "unauthenticated", "No token, authorization denied")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				slogx.FromContext(ctx).Warn("credential verification failed", "err", err)
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				WriteError(w, http.StatusBadRequest, "invalid_token", "Token is not valid")
				return
			}

			ctx = contextWithAuth(ctx, claims)
			ctx = slogx.With(ctx, "account_id", claims.Subject, "role", claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the credential. Clients send the
// "Bearer <token>" form; a token with no scheme is accepted too.
func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return "", false
	}
	if len(h) >= 6 && strings.EqualFold(h[:6], "bearer") {
		h = strings.TrimSpace(h[6:])
	}
	return h, h != ""
}
