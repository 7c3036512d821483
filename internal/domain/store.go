package domain

// TokenProvider supplies the bearer credential at call time.
// An empty string means no one is signed in.
type TokenProvider interface {
	Token() string
}

// SessionStore persists the signed-in user's credentials
type SessionStore interface {
	TokenProvider

	// Username returns the stored display name
	Username() string

	// SaveSession stores the token and display name
	SaveSession(token, username string) error

	// ClearSession removes the stored credentials
	ClearSession() error

	Close() error
}
