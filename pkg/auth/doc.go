// Package auth implements the stateless session subsystem for the admin
// console: credential verification, the signed session token codec, and the
// session cookie.
//
// # Token Format
//
// A session token is two dot-separated segments:
//
//	base64(json(claims)) + "." + base64(hmac_sha256(base64(json(claims))))
//
// The HMAC tag is computed over the encoded-claims bytes exactly as they
// appear on the wire, with a process-wide secret key. Verification recomputes
// the tag before decoding anything, then checks expiry. Claims carry the
// admin's identity and an absolute expiry in Unix milliseconds set to
// mint time + 24h.
//
//	codec := auth.NewTokenCodec(secret)
//	token, _ := codec.Mint(auth.NewClaims(admin, time.Now(), auth.TokenTTL))
//	claims, err := codec.Verify(token) // ErrInvalidToken on ANY failure
//
// There is no server-side session state: logout clears the cookie but a
// replayed token stays valid until its natural expiry.
//
// # Credentials
//
// Admin records store a hex SHA-256 password digest. VerifyCredentials
// matches the email case-insensitively and compares digests in constant
// time, returning a single uniform failure for unknown email and wrong
// password alike.
//
// # Cookie
//
// The token travels in the "auth-token" cookie: HttpOnly, SameSite=Lax,
// Path=/, Max-Age 86400, Secure outside local development. Only the login
// handler, the logout handler, and the session gate touch it.
package auth
