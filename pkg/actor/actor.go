// Package actor identifies the user or system behind a schedule write.
//
// The gateway authenticates callers and forwards their identity as headers;
// httputil.ActorMiddleware turns those into an Actor on the request context.
// Services read it back with FromContext to decide whether a caller may
// approve shifts and to stamp created_by on new entries.
package actor

import (
	"context"
	"fmt"
	"strings"
)

// Roles understood by the schedule service.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

const systemID = "00000000-0000-0000-0000-000000000000"

// Actor is the entity performing an action.
type Actor struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// String returns a representation of the actor for logging
func (a *Actor) String() string {
	if a == nil {
		return "system"
	}
	if a.Email == "" {
		return fmt.Sprintf("%s [%s]", a.ID, a.Role)
	}
	return fmt.Sprintf("%s <%s> [%s]", a.ID, a.Email, a.Role)
}

// IsPrivileged reports whether the actor may set approval state.
// The system actor is privileged; an absent actor is not.
func (a *Actor) IsPrivileged() bool {
	if a == nil {
		return false
	}
	if a.IsSystem() {
		return true
	}
	switch strings.ToLower(a.Role) {
	case RoleAdmin, RoleManager:
		return true
	default:
		return false
	}
}

// IsSystem returns true if the actor represents the system.
func (a *Actor) IsSystem() bool {
	return a != nil && a.ID == systemID
}

// IDPtr returns a pointer to the actor ID, or nil for a missing or system actor.
func (a *Actor) IDPtr() *string {
	if a == nil || a.ID == "" || a.IsSystem() {
		return nil
	}
	id := a.ID
	return &id
}

// SystemActor represents the service itself, e.g. for event-driven writes.
func SystemActor() *Actor {
	return &Actor{
		ID:   systemID,
		Name: "System",
		Role: RoleAdmin,
	}
}

type contextKey string

const actorContextKey contextKey = "actor"

// FromContext retrieves the Actor from the context.
// Returns nil if none is present.
func FromContext(ctx context.Context) *Actor {
	if ctx == nil {
		return nil
	}
	a, ok := ctx.Value(actorContextKey).(*Actor)
	if !ok {
		return nil
	}
	return a
}

// WithActor returns a new context with the Actor attached.
func WithActor(ctx context.Context, a *Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorContextKey, a)
}
