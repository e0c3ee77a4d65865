package session

import "time"

// Session is an authenticated user session. The token is an opaque
// bearer credential; only its hash is stored.
type Session struct {
	Token     string    `json:"token,omitempty"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CodeTTL is how long a one-time login code stays valid.
const CodeTTL = 10 * time.Minute
