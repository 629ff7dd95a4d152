// Package identitytest provides the fixture identity resolver used by HTTP
// tests: the caller id is read from a plain request header.
package identitytest

import (
	"fmt"
	"net/http"

	"mediation-api/core/identity"

	"github.com/google/uuid"
)

const Header = "X-Test-User-ID"

type HeaderResolver struct{}

var _ identity.Resolver = HeaderResolver{}

func (HeaderResolver) Resolve(r *http.Request) (*identity.Caller, error) {
	raw := r.Header.Get(Header)
	if raw == "" {
		return nil, identity.ErrUnauthenticated
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return nil, fmt.Errorf("%w: bad test user id %q", identity.ErrUnauthenticated, raw)
	}
	return &identity.Caller{UserID: id}, nil
}

// AsUser sets the fixture header on req.
func AsUser(req *http.Request, userID uuid.UUID) *http.Request {
	req.Header.Set(Header, userID.String())
	return req
}
