package middleware

import (
	"net/http"
	"strings"

	"github.com/medadhere/console/pkg/auth"
	"github.com/medadhere/console/pkg/contextkeys"
	"github.com/medadhere/console/pkg/observability"
)

// Route shape of the console
const (
	loginPath     = "/login"
	dashboardPath = "/admin"
	authAPIPrefix = "/api/auth"
	assetPrefix   = "/assets"
	faviconPath   = "/favicon.ico"
)

// Gate decisions, as recorded in metrics
const (
	decisionAllow       = "allow"
	decisionToLogin     = "redirect_login"
	decisionToDashboard = "redirect_dashboard"
)

// SessionGate is the per-request policy deciding page access from the session
// cookie. It is stateless across requests: every decision derives from the
// current request's cookie and the wall clock.
type SessionGate struct {
	codec   *auth.TokenCodec
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewSessionGate creates the gate middleware
func NewSessionGate(codec *auth.TokenCodec, logger *observability.Logger, metrics *observability.Metrics) *SessionGate {
	return &SessionGate{codec: codec, logger: logger, metrics: metrics}
}

// Handler wraps an HTTP handler with the gating policy:
//
//   - allowlisted paths (auth API, static assets, favicon) pass through with
//     no token inspection
//   - the login page redirects to the dashboard when the session is valid
//   - the dashboard (and the bare root) redirects to the login page when the
//     session is missing or invalid, clearing a present-but-invalid cookie
//   - everything else passes through
func (g *SessionGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if strings.HasPrefix(path, authAPIPrefix) ||
			strings.HasPrefix(path, assetPrefix) ||
			path == faviconPath {
			g.decide(decisionAllow)
			next.ServeHTTP(w, r)
			return
		}

		rawToken, claims := g.sessionClaims(r)

		if strings.HasPrefix(path, loginPath) {
			if claims != nil {
				g.decide(decisionToDashboard)
				http.Redirect(w, r, dashboardPath, http.StatusTemporaryRedirect)
				return
			}
			g.decide(decisionAllow)
			next.ServeHTTP(w, r)
			return
		}

		if strings.HasPrefix(path, dashboardPath) || path == "/" {
			if claims == nil {
				// A cookie that was present but failed verification is
				// stale or tampered; tell the client to drop it.
				if rawToken != "" {
					auth.ClearSessionCookie(w)
				}
				g.decide(decisionToLogin)
				http.Redirect(w, r, loginPath, http.StatusTemporaryRedirect)
				return
			}
			g.decide(decisionAllow)
			ctx := contextkeys.WithSession(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		g.decide(decisionAllow)
		next.ServeHTTP(w, r)
	})
}

// sessionClaims extracts and verifies the session cookie. Returns the raw
// cookie value (empty when absent) and the claims (nil unless fully valid).
func (g *SessionGate) sessionClaims(r *http.Request) (string, *auth.Claims) {
	cookie, err := r.Cookie(auth.CookieName)
	if err != nil || cookie.Value == "" {
		return "", nil
	}

	claims, err := g.codec.Verify(cookie.Value)
	if g.metrics != nil {
		g.metrics.RecordTokenVerification(err == nil)
	}
	if err != nil {
		// Not surfaced to the user; all failure causes collapse to
		// "unauthenticated" here.
		g.logger.WithField("path", r.URL.Path).Debug("session token rejected")
		return cookie.Value, nil
	}

	return cookie.Value, claims
}

func (g *SessionGate) decide(decision string) {
	if g.metrics != nil {
		g.metrics.RecordGateDecision(decision)
	}
}

// SessionFromContext returns the verified claims the gate (or RequireSession)
// attached to the request, or nil for anonymous requests
func SessionFromContext(r *http.Request) *auth.Claims {
	claims, ok := r.Context().Value(contextkeys.SessionKey).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
