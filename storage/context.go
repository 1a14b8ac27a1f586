package storage

import (
	"context"
)

type contextKey int

const (
	sessionIDKey contextKey = iota
	authenticatedUserKey
)

// SetSessionID returns a context carrying the session ID, so that all
// audit events of one connection can be correlated.
func SetSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

func SessionID(ctx context.Context) (string, bool) {
	sessionID, found := ctx.Value(sessionIDKey).(string)
	return sessionID, found
}

// AuthenticateUser returns a context carrying the user a connection has
// proven to be.
func AuthenticateUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, authenticatedUserKey, user)
}

func AuthenticatedUser(ctx context.Context) (*User, bool) {
	user, found := ctx.Value(authenticatedUserKey).(*User)
	return user, found
}
