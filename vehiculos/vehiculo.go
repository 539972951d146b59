// Package vehiculos holds the inspection-fleet entity and its storage
// contract.
package vehiculos

import (
	"context"
	"time"
)

// Vehiculo is a municipal inspection vehicle. Patente is the normalized
// (upper-case) plate and is unique across the fleet.
type Vehiculo struct {
	ID          string
	Patente     string
	Marca       string
	Modelo      string
	InspectorID string
	Activo      bool
	CreadoEn    time.Time
}

// Repo stores vehicles. Create and Update report a duplicate plate with a
// ConstraintError carrying the unique-violation code; lookups on a missing
// id report errors.ErrNotFound.
type Repo interface {
	Create(ctx context.Context, v *Vehiculo) error
	Get(ctx context.Context, id string) (*Vehiculo, error)
	Update(ctx context.Context, v *Vehiculo) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, limit int) ([]*Vehiculo, int, error)
}
