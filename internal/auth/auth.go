// Package auth holds the caller identity handed over by the upstream authenticator
// and the role checks performed at the top of each catalog workflow.
package auth

import (
	"context"
	"errors"
	"slices"
)

// Role names as seeded by the schema migration.
const (
	RoleAdmin = "admin"
	RoleMod   = "mod"
	RoleUser  = "user"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient role")
)

// Principal is the authenticated caller.
type Principal struct {
	ID   int64
	Role string
}

// RequireRole fails with ErrUnauthenticated when p is nil and with ErrForbidden when
// p's role is not among allowed.
func RequireRole(p *Principal, allowed ...string) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if !slices.Contains(allowed, p.Role) {
		return ErrForbidden
	}
	return nil
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored in ctx, or nil for anonymous callers.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}
