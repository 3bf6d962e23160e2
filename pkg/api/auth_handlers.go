package api

import (
	"net/http"
	"time"

	"github.com/medadhere/console/pkg/auth"
	"github.com/medadhere/console/pkg/httputil"
	"github.com/medadhere/console/pkg/observability"
)

// loginRequest is the POST /api/auth/login body
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login authenticates an admin and sets the session cookie. All credential
// failures produce the same response so callers cannot distinguish an unknown
// email from a wrong password.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())

	var req loginRequest
	if err := httputil.ParseJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httputil.WriteBadRequest(w, "Email and password are required")
		return
	}

	admins, err := s.store.Admins()
	if err != nil {
		logger.WithError(err).Error("Failed to load admin accounts")
		httputil.WriteInternalError(w)
		return
	}

	admin, ok := auth.VerifyCredentials(req.Email, req.Password, admins)
	if s.metrics != nil {
		s.metrics.RecordLoginAttempt(ok)
	}
	if !ok {
		if s.audit != nil {
			s.audit.LoginFailed(req.Email)
		}
		httputil.WriteUnauthorized(w, "Invalid credentials")
		return
	}

	claims := auth.NewClaims(admin, time.Now(), s.tokenTTL)
	token, err := s.codec.Mint(claims)
	if err != nil {
		logger.WithError(err).Error("Failed to mint session token")
		httputil.WriteInternalError(w)
		return
	}

	auth.SetSessionCookie(w, token, s.production)
	if s.audit != nil {
		s.audit.LoginSucceeded(admin.Email)
	}
	httputil.WriteSuccess(w, map[string]bool{"success": true})
}

// logout clears the session cookie. The operation is unconditional; it
// succeeds for anonymous callers and for callers holding an invalid token.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if s.audit != nil {
		if claims := s.cookieClaims(r); claims != nil {
			s.audit.LoggedOut(claims.Email)
		}
	}
	auth.ClearSessionCookie(w)
	httputil.WriteSuccess(w, map[string]bool{"success": true})
}

// session returns the verified claims for the current session cookie, or 401
// for anonymous or invalid sessions
func (s *Server) session(w http.ResponseWriter, r *http.Request) {
	claims := s.cookieClaims(r)
	if claims == nil {
		httputil.WriteUnauthorized(w, "authentication required")
		return
	}
	httputil.WriteSuccess(w, claims)
}

// cookieClaims verifies the session cookie directly. The auth endpoints sit on
// the gate's allowlist, so no claims arrive via the request context.
func (s *Server) cookieClaims(r *http.Request) *auth.Claims {
	cookie, err := r.Cookie(auth.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims, err := s.codec.Verify(cookie.Value)
	if err != nil {
		return nil
	}
	return claims
}
