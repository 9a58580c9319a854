package httpx

import "net/http"

// RequireRole lets the request through only when the authenticated role is
// one of allowed. It must run after AuthnMiddleware.
func RequireRole[R ~string](allowed ...R) Middleware {
	want := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		want[string(a)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := want[Role(r.Context())]; !ok {
				WriteError(w, http.StatusForbidden, "forbidden", "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
