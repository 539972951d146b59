package vehiculos

import (
	"context"
	"sort"
	"sync"

	interrors "github.com/munidigital/portal-denuncias/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryRepo struct {
	lock      sync.RWMutex
	vehiculos map[string]*Vehiculo
	patentes  map[string]string // patente -> id
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		vehiculos: make(map[string]*Vehiculo),
		patentes:  make(map[string]string),
	}
}

func (r *InMemoryRepo) Create(_ context.Context, v *Vehiculo) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.patentes[v.Patente]; ok {
		return interrors.NewUniqueViolation("vehiculos_patente_key", nil)
	}
	copied := *v
	r.vehiculos[v.ID] = &copied
	r.patentes[v.Patente] = v.ID
	return nil
}

func (r *InMemoryRepo) Get(_ context.Context, id string) (*Vehiculo, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	v, ok := r.vehiculos[id]
	if !ok {
		return nil, interrors.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (r *InMemoryRepo) Update(_ context.Context, v *Vehiculo) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	current, ok := r.vehiculos[v.ID]
	if !ok {
		return interrors.ErrNotFound
	}
	if owner, taken := r.patentes[v.Patente]; taken && owner != v.ID {
		return interrors.NewUniqueViolation("vehiculos_patente_key", nil)
	}
	delete(r.patentes, current.Patente)
	copied := *v
	r.vehiculos[v.ID] = &copied
	r.patentes[v.Patente] = v.ID
	return nil
}

func (r *InMemoryRepo) Delete(_ context.Context, id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	v, ok := r.vehiculos[id]
	if !ok {
		return interrors.ErrNotFound
	}
	delete(r.patentes, v.Patente)
	delete(r.vehiculos, id)
	return nil
}

func (r *InMemoryRepo) List(_ context.Context, page, limit int) ([]*Vehiculo, int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all := make([]*Vehiculo, 0, len(r.vehiculos))
	for _, v := range r.vehiculos {
		copied := *v
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Patente < all[j].Patente })

	start := (page - 1) * limit
	if start >= len(all) {
		return []*Vehiculo{}, len(all), nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}
