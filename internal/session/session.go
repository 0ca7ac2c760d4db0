// Package session carries the authenticated caller through service calls.
package session

import (
	"context"

	"github.com/google/uuid"
)

// Role is the access claim attached to a session.
type Role string

const (
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// Session identifies the signed-in user a request acts for.
type Session struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

// IsPrivileged reports whether the session may see every owner's records.
func (s Session) IsPrivileged() bool {
	return s.Role == RoleAdmin
}

// OwnerScope returns the owner filter to apply to reads and writes.
// Privileged sessions are unrestricted and get nil.
func (s Session) OwnerScope() *uuid.UUID {
	if s.IsPrivileged() {
		return nil
	}

	id := s.UserID

	return &id
}

// Valid reports whether the session has an identity.
func (s Session) Valid() bool {
	return s.UserID != uuid.Nil
}

type ctxKey struct{}

// WithSession stores the session in the context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext extracts the session from the context.
// Returns false if the value is missing or has no identity.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	if !ok || !s.Valid() {
		return Session{}, false
	}

	return s, true
}
