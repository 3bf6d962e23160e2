package auth

import (
	"net/http"
	"time"
)

const (
	// CookieName is the session cookie carrying the signed token
	CookieName = "auth-token"

	// TokenTTL is the fixed session lifetime. There is no sliding expiry;
	// a token is honored until exactly mint time + TokenTTL.
	TokenTTL = 24 * time.Hour
)

// SetSessionCookie attaches a freshly minted token to the response. Secure is
// only set for production deployments so local HTTP development keeps
// working.
func SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie instructs the client to discard the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
