// Package auth abstracts the external authentication collaborator and
// the admin session gate. The real backend is out of process; the mock
// implementation stands in when no credentials are configured.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meninadelaco/storefront/internal/catalog"
)

var ErrAuth = errors.New("authentication failed")

type AuthError struct{ Reason string }

func (e *AuthError) Error() string            { return fmt.Sprintf("auth: %s", e.Reason) }
func (e *AuthError) Is(target error) bool     { return target == ErrAuth }
func authErr(reason string) error             { return &AuthError{Reason: reason} }

type Session struct {
	Token     string       `json:"token"`
	User      catalog.User `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type Service interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, token string) error
	// CurrentUser resolves the token's user, or falls back to the
	// cached mock session when the token is empty. Returns (nil, nil)
	// when nobody is signed in.
	CurrentUser(ctx context.Context, token string) (*catalog.User, error)
	GetSession(ctx context.Context, token string) (*Session, error)
}

// SessionCache is the local persistent key-value store used to keep
// the mock session record across restarts. Exactly two mutations:
// save and clear.
type SessionCache interface {
	Save(ctx context.Context, u catalog.User) error
	Load(ctx context.Context) (*catalog.User, error)
	Clear(ctx context.Context) error
}

// IsAdmin is the whole of the gate predicate: a session is authorized
// iff a current user exists and its admin flag is set.
func IsAdmin(u *catalog.User) bool { return u != nil && u.IsAdmin }
