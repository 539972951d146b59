package denuncias

import (
	"context"
	"sort"
	"sync"

	interrors "github.com/munidigital/portal-denuncias/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo keeps complaints in a mutex-guarded map. Used in tests and
// when no database path is configured.
type InMemoryRepo struct {
	lock      sync.RWMutex
	denuncias map[string]*Denuncia
	folios    map[string]string // folio -> id
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		denuncias: make(map[string]*Denuncia),
		folios:    make(map[string]string),
	}
}

func (r *InMemoryRepo) Create(_ context.Context, d *Denuncia) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.folios[d.Folio]; ok {
		return interrors.NewUniqueViolation("denuncias_folio_key", nil)
	}
	copied := *d
	r.denuncias[d.ID] = &copied
	r.folios[d.Folio] = d.ID
	return nil
}

func (r *InMemoryRepo) Get(_ context.Context, id string) (*Denuncia, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	d, ok := r.denuncias[id]
	if !ok {
		return nil, interrors.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *InMemoryRepo) Update(_ context.Context, d *Denuncia) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	current, ok := r.denuncias[d.ID]
	if !ok {
		return interrors.ErrNotFound
	}
	delete(r.folios, current.Folio)
	copied := *d
	r.denuncias[d.ID] = &copied
	r.folios[d.Folio] = d.ID
	return nil
}

func (r *InMemoryRepo) Delete(_ context.Context, id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	d, ok := r.denuncias[id]
	if !ok {
		return interrors.ErrNotFound
	}
	delete(r.folios, d.Folio)
	delete(r.denuncias, id)
	return nil
}

func (r *InMemoryRepo) List(_ context.Context, page, limit int) ([]*Denuncia, int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all := make([]*Denuncia, 0, len(r.denuncias))
	for _, d := range r.denuncias {
		copied := *d
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreadaEn.After(all[j].CreadaEn) })

	start := (page - 1) * limit
	if start >= len(all) {
		return []*Denuncia{}, len(all), nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}
