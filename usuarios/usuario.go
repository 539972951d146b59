// Package usuarios holds the portal-account entity: the link between an
// identity-provider principal and the portal's membership state.
package usuarios

import (
	"context"
	"time"

	"github.com/munidigital/portal-denuncias/auth"
)

// Usuario is a portal account. PrincipalID is the identity-provider
// subject; Activo gates access to every guarded route.
type Usuario struct {
	ID          string
	PrincipalID string
	Email       string
	Nombre      string
	RolID       int
	Activo      bool
	CreadoEn    time.Time
}

// Repo stores portal accounts. FindByPrincipalID reports a missing record
// with errors.ErrAccountNotFound.
type Repo interface {
	Create(ctx context.Context, u *Usuario) error
	Get(ctx context.Context, id string) (*Usuario, error)
	FindByPrincipalID(ctx context.Context, principalID string) (*Usuario, error)
	Update(ctx context.Context, u *Usuario) error
	List(ctx context.Context, page, limit int) ([]*Usuario, int, error)
}

// AccountRepo adapts a Repo to the narrow lookup the auth guard needs.
func AccountRepo(r Repo) auth.AccountRepo {
	return accountRepo{repo: r}
}

type accountRepo struct {
	repo Repo
}

func (a accountRepo) FindByPrincipalID(ctx context.Context, principalID string) (*auth.Account, error) {
	u, err := a.repo.FindByPrincipalID(ctx, principalID)
	if err != nil {
		return nil, err
	}
	return &auth.Account{UsuarioID: u.ID, Activo: u.Activo}, nil
}
