// Package identity resolves the verified caller of a request. Password and
// session handling live upstream; this package only turns request credentials
// into a Caller.
package identity

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

var ErrUnauthenticated = errors.New("no verifiable caller identity")

// Caller is the verified identity behind a request.
type Caller struct {
	UserID uuid.UUID
}

// Resolver turns request credentials into a Caller. Implementations return an
// error wrapping ErrUnauthenticated when no identity can be verified.
type Resolver interface {
	Resolve(r *http.Request) (*Caller, error)
}

type ResolverFunc func(r *http.Request) (*Caller, error)

func (f ResolverFunc) Resolve(r *http.Request) (*Caller, error) {
	return f(r)
}

type callerKey struct{}

func WithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

func FromContext(ctx context.Context) (*Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(*Caller)
	return caller, ok && caller != nil && caller.UserID != uuid.Nil
}
