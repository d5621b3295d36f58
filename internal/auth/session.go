package auth

import (
	"context"
	"time"

	"stockdesk/internal/models"
)

// Session is the authenticated identity of one client.
type Session struct {
	ID          string          `json:"id"`
	UserID      uint            `json:"user_id"`
	Username    string          `json:"username"`
	DisplayName string          `json:"display_name"`
	Role        models.UserRole `json:"role"`
	IssuedAt    time.Time       `json:"issued_at"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Identity is what an IdentityProvider knows about a user.
type Identity struct {
	UserID      uint
	Username    string
	DisplayName string
	Role        models.UserRole
}

// Account is a validated registration handed to an IdentityProvider.
type Account struct {
	Username string
	Password string
	FullName string
	Role     models.UserRole
}

// IdentityProvider verifies credentials and enrolls new accounts.
type IdentityProvider interface {
	// Authenticate returns ErrInvalidCredentials when identifier/secret do not match.
	Authenticate(ctx context.Context, identifier, secret string) (*Identity, error)
	// Enroll returns ErrIdentifierTaken when the username already exists.
	Enroll(ctx context.Context, acct Account) (*Identity, error)
}

// Holder keeps a client's session id between requests.
// sessions.Session from gin-contrib satisfies it.
type Holder interface {
	Get(key interface{}) interface{}
	Set(key interface{}, val interface{})
	Clear()
	Save() error
}
