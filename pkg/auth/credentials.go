package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// HashPassword returns the hex-encoded SHA-256 digest of a password, the
// scheme used by the seeded admin records.
func HashPassword(password string) string {
	digest := sha256.Sum256([]byte(password))
	return hex.EncodeToString(digest[:])
}

// VerifyCredentials checks a submitted email/password pair against the stored
// admin records. The email comparison is case-insensitive. On any failure the
// second return is false with no indication of whether the email existed.
func VerifyCredentials(email, password string, admins []Admin) (*Admin, bool) {
	if email == "" || password == "" {
		return nil, false
	}

	var match *Admin
	for i := range admins {
		if strings.EqualFold(admins[i].Email, email) {
			match = &admins[i]
			break
		}
	}
	if match == nil {
		return nil, false
	}

	hash := HashPassword(password)
	if subtle.ConstantTimeCompare([]byte(hash), []byte(match.PasswordHash)) != 1 {
		return nil, false
	}

	return match, true
}
