// Package middleware provides the session gating policy for the admin console.
//
// SessionGate runs in front of every page route and implements the
// allow/redirect state machine:
//
//	/api/auth/*, /assets/*, /favicon.ico  -> always allowed, token untouched
//	/login                                -> valid session? redirect /admin : allow
//	/admin*, /                            -> valid session? allow : redirect /login
//	anything else                         -> allowed
//
// A cookie that was present but failed verification is cleared on the
// redirect response. The gate holds no cross-request state; each decision is
// a pure function of the request's cookie, the secret key, and the clock.
//
// RequireSession guards the JSON data API with the same token check but
// answers 401 instead of redirecting.
package middleware
