package internal

import (
	"context"
	"time"
)

// Identity is the authenticated caller attached to every request after the
// auth middleware runs. Role is one of the user role constants.
type Identity struct {
	UserID int64
	Role   string
}

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type ctxKey string

const identityKey ctxKey = "identity"

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds when
// the duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
