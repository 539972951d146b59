// Package auth verifies that a request carries an active session and that
// the session's identity maps to an active portal account.
package auth

import (
	"context"
	"net/http"
)

// Principal is the identity returned by the external session provider for
// the current request.
type Principal struct {
	ID    string
	Email string
}

// PrincipalProvider is the external identity/session collaborator. It
// returns (nil, nil) when the request carries no session; an error only on
// provider failure.
type PrincipalProvider interface {
	CurrentPrincipal(ctx context.Context, r *http.Request) (*Principal, error)
}

// Account is the portal-membership record for a principal.
type Account struct {
	UsuarioID string
	Activo    bool
}

// AccountRepo looks up portal accounts by principal identifier. A missing
// record is reported with errors.ErrAccountNotFound.
type AccountRepo interface {
	FindByPrincipalID(ctx context.Context, principalID string) (*Account, error)
}

// Identity is the verified pairing of a session principal with an active
// portal account. It is built fresh per request and never cached.
type Identity struct {
	UsuarioID string
	Email     string
	Activo    bool
}
