package auth

import (
	"net/http"

	interrors "github.com/munidigital/portal-denuncias/internal/errors"
	"github.com/munidigital/portal-denuncias/internal/logging"
)

// Guard runs the two authentication gates in sequence: session check, then
// portal-membership check. Both repos are consulted at most once per call.
type Guard struct {
	provider PrincipalProvider
	accounts AccountRepo
	log      *logging.Logger
}

func NewGuard(provider PrincipalProvider, accounts AccountRepo, log *logging.Logger) *Guard {
	return &Guard{provider: provider, accounts: accounts, log: log}
}

// Authenticate verifies the request's session and portal membership. It
// returns an *AuthError for the three classified failures; any other error
// is a provider/store failure the caller must translate to a generic 500.
// Warning logs never include credentials or session tokens.
func (g *Guard) Authenticate(r *http.Request) (*Identity, error) {
	ctx := r.Context()

	principal, err := g.provider.CurrentPrincipal(ctx, r)
	if err != nil {
		return nil, interrors.Wrapf(err, "consultando sesión")
	}
	if principal == nil {
		g.log.Warn("acceso sin sesión activa", logging.Context{"ruta": r.URL.Path})
		return nil, ErrNotAuthenticated
	}

	account, err := g.accounts.FindByPrincipalID(ctx, principal.ID)
	if err != nil {
		if interrors.Is(err, interrors.ErrAccountNotFound) {
			g.log.Warn("principal sin cuenta en el portal", logging.Context{
				"principal_id": principal.ID,
				"email":        principal.Email,
			})
			return nil, ErrNotRegistered
		}
		return nil, interrors.Wrapf(err, "consultando cuenta del portal")
	}
	if !account.Activo {
		g.log.Warn("cuenta deshabilitada", logging.Context{
			"principal_id": principal.ID,
			"email":        principal.Email,
		})
		return nil, ErrDisabled
	}

	return &Identity{UsuarioID: account.UsuarioID, Email: principal.Email, Activo: true}, nil
}
