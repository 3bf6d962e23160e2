package middleware

import (
	"net/http"

	"github.com/medadhere/console/pkg/auth"
	"github.com/medadhere/console/pkg/contextkeys"
	"github.com/medadhere/console/pkg/httputil"
)

// RequireSession protects data API routes. Unlike the page-oriented
// SessionGate it answers 401 JSON instead of redirecting, which is what the
// dashboard's fetch calls expect. The failure body is uniform regardless of
// why the token was rejected.
func RequireSession(codec *auth.TokenCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.CookieName)
			if err != nil || cookie.Value == "" {
				httputil.WriteUnauthorized(w, "authentication required")
				return
			}

			claims, err := codec.Verify(cookie.Value)
			if err != nil {
				httputil.WriteUnauthorized(w, "authentication required")
				return
			}

			ctx := contextkeys.WithSession(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
