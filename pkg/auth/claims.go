package auth

import "time"

// Claims is the payload embedded in a session token. The JSON field names are
// part of the cookie wire format and must not change while issued tokens are
// still in circulation.
type Claims struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	// Exp is the absolute expiry instant in Unix milliseconds. It is fixed
	// at mint time and never extended by verification.
	Exp int64 `json:"exp"`
}

// ExpiresAt returns the expiry instant as a time.Time
func (c Claims) ExpiresAt() time.Time {
	return time.UnixMilli(c.Exp)
}

// NewClaims builds the claims for a freshly authenticated admin, expiring at
// now + ttl.
func NewClaims(admin *Admin, now time.Time, ttl time.Duration) Claims {
	return Claims{
		ID:        admin.ID,
		Email:     admin.Email,
		FirstName: admin.FirstName,
		LastName:  admin.LastName,
		Role:      admin.Role,
		Exp:       now.Add(ttl).UnixMilli(),
	}
}
