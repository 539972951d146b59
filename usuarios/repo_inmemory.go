package usuarios

import (
	"context"
	"sort"
	"sync"

	interrors "github.com/munidigital/portal-denuncias/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryRepo struct {
	lock       sync.RWMutex
	usuarios   map[string]*Usuario
	principals map[string]string // principal id -> usuario id
	emails     map[string]string // email -> usuario id
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		usuarios:   make(map[string]*Usuario),
		principals: make(map[string]string),
		emails:     make(map[string]string),
	}
}

func (r *InMemoryRepo) Create(_ context.Context, u *Usuario) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.emails[u.Email]; ok {
		return interrors.NewUniqueViolation("usuarios_email_key", nil)
	}
	copied := *u
	r.usuarios[u.ID] = &copied
	r.principals[u.PrincipalID] = u.ID
	r.emails[u.Email] = u.ID
	return nil
}

func (r *InMemoryRepo) Get(_ context.Context, id string) (*Usuario, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	u, ok := r.usuarios[id]
	if !ok {
		return nil, interrors.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *InMemoryRepo) FindByPrincipalID(_ context.Context, principalID string) (*Usuario, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	id, ok := r.principals[principalID]
	if !ok {
		return nil, interrors.ErrAccountNotFound
	}
	copied := *r.usuarios[id]
	return &copied, nil
}

func (r *InMemoryRepo) Update(_ context.Context, u *Usuario) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	current, ok := r.usuarios[u.ID]
	if !ok {
		return interrors.ErrNotFound
	}
	delete(r.principals, current.PrincipalID)
	delete(r.emails, current.Email)
	copied := *u
	r.usuarios[u.ID] = &copied
	r.principals[u.PrincipalID] = u.ID
	r.emails[u.Email] = u.ID
	return nil
}

func (r *InMemoryRepo) List(_ context.Context, page, limit int) ([]*Usuario, int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all := make([]*Usuario, 0, len(r.usuarios))
	for _, u := range r.usuarios {
		copied := *u
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })

	start := (page - 1) * limit
	if start >= len(all) {
		return []*Usuario{}, len(all), nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}
