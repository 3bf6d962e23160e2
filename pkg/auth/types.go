package auth

// Admin is a stored administrator credential record. The console only ever
// reads these; account management happens out of band via the seed tooling.
type Admin struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	// PasswordHash is the hex-encoded SHA-256 digest of the password. The
	// format is fixed by existing seeded records; changing the scheme
	// requires a versioned migration, not a silent swap.
	PasswordHash string `json:"passwordHash"`
	Role         string `json:"role"`
}
