package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medadhere/console/pkg/auth"
	"github.com/medadhere/console/pkg/observability"
)

var gateSecret = []byte("gate-test-secret")

func newGate(t *testing.T) (*SessionGate, *auth.TokenCodec) {
	t.Helper()
	codec := auth.NewTokenCodec(gateSecret)
	logger := observability.NewLogger(observability.ErrorLevel, os.Stderr)
	return NewSessionGate(codec, logger, nil), codec
}

func mintToken(t *testing.T, codec *auth.TokenCodec, exp time.Time) string {
	t.Helper()
	token, err := codec.Mint(auth.Claims{
		ID:    "adm_1",
		Email: "admin@medadhere.com",
		Role:  "admin",
		Exp:   exp.UnixMilli(),
	})
	require.NoError(t, err)
	return token
}

// serveGate runs one request through the gate in front of a marker handler
func serveGate(gate *SessionGate, path, cookieValue string) (*httptest.ResponseRecorder, bool) {
	reached := false
	handler := gate.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", path, nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: cookieValue})
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w, reached
}

func clearedCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

func TestSessionGate_ProtectedPaths(t *testing.T) {
	gate, codec := newGate(t)

	t.Run("no cookie redirects to login", func(t *testing.T) {
		w, reached := serveGate(gate, "/admin", "")
		assert.False(t, reached)
		assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.Nil(t, clearedCookie(w), "no cookie to clear")
	})

	t.Run("expired token redirects and clears the cookie", func(t *testing.T) {
		token := mintToken(t, codec, time.Now().Add(-time.Millisecond))
		w, reached := serveGate(gate, "/admin", token)
		assert.False(t, reached)
		assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))

		cleared := clearedCookie(w)
		require.NotNil(t, cleared, "invalid cookie must be cleared")
		assert.Empty(t, cleared.Value)
		assert.Negative(t, cleared.MaxAge)
	})

	t.Run("garbage token redirects and clears the cookie", func(t *testing.T) {
		w, reached := serveGate(gate, "/admin/cohorts", "not-a-token")
		assert.False(t, reached)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.NotNil(t, clearedCookie(w))
	})

	t.Run("valid token is allowed through", func(t *testing.T) {
		token := mintToken(t, codec, time.Now().Add(time.Hour))
		w, reached := serveGate(gate, "/admin", token)
		assert.True(t, reached)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bare root is protected", func(t *testing.T) {
		w, reached := serveGate(gate, "/", "")
		assert.False(t, reached)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("valid token claims reach the handler context", func(t *testing.T) {
		var got *auth.Claims
		handler := gate.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = SessionFromContext(r)
		}))
		req := httptest.NewRequest("GET", "/admin", nil)
		req.AddCookie(&http.Cookie{
			Name:  auth.CookieName,
			Value: mintToken(t, codec, time.Now().Add(time.Hour)),
		})
		handler.ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, got)
		assert.Equal(t, "admin@medadhere.com", got.Email)
	})
}

func TestSessionGate_LoginPage(t *testing.T) {
	gate, codec := newGate(t)

	t.Run("anonymous request renders login", func(t *testing.T) {
		w, reached := serveGate(gate, "/login", "")
		assert.True(t, reached)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("valid session redirects to dashboard", func(t *testing.T) {
		token := mintToken(t, codec, time.Now().Add(time.Hour))
		w, reached := serveGate(gate, "/login", token)
		assert.False(t, reached)
		assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, "/admin", w.Header().Get("Location"))
	})

	t.Run("invalid session renders login without redirect loop", func(t *testing.T) {
		w, reached := serveGate(gate, "/login", "junk")
		assert.True(t, reached)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSessionGate_Allowlist(t *testing.T) {
	gate, _ := newGate(t)

	paths := []string{
		"/api/auth/login",
		"/api/auth/logout",
		"/assets/app.js",
		"/favicon.ico",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			// Allowed through even with a garbage cookie present: the
			// allowlist never inspects the token.
			w, reached := serveGate(gate, path, "garbage")
			assert.True(t, reached)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Nil(t, clearedCookie(w))
		})
	}
}

func TestSessionGate_UnrelatedPathsAllowed(t *testing.T) {
	gate, _ := newGate(t)

	w, reached := serveGate(gate, "/healthz", "")
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireSession(t *testing.T) {
	codec := auth.NewTokenCodec(gateSecret)
	protect := RequireSession(codec)

	run := func(cookieValue string) (*httptest.ResponseRecorder, *auth.Claims) {
		var got *auth.Claims
		handler := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = SessionFromContext(r)
			w.WriteHeader(http.StatusOK)
		}))
		req := httptest.NewRequest("GET", "/api/cohorts", nil)
		if cookieValue != "" {
			req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: cookieValue})
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w, got
	}

	t.Run("missing cookie gets 401", func(t *testing.T) {
		w, _ := run("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"authentication required"}`, w.Body.String())
	})

	t.Run("invalid token gets the same 401", func(t *testing.T) {
		w, _ := run("bogus")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"authentication required"}`, w.Body.String())
	})

	t.Run("valid token passes claims through", func(t *testing.T) {
		token := mintToken(t, codec, time.Now().Add(time.Hour))
		w, claims := run(token)
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, claims)
		assert.Equal(t, "adm_1", claims.ID)
	})
}
