// Package denuncias holds the citizen-complaint entity and its storage
// contract.
package denuncias

import (
	"context"
	"time"
)

// Estado is the complaint's processing state.
type Estado string

const (
	EstadoPendiente Estado = "pendiente"
	EstadoEnProceso Estado = "en_proceso"
	EstadoResuelta  Estado = "resuelta"
	EstadoRechazada Estado = "rechazada"
)

// ValidEstado reports whether s names a known processing state.
func ValidEstado(s string) bool {
	switch Estado(s) {
	case EstadoPendiente, EstadoEnProceso, EstadoResuelta, EstadoRechazada:
		return true
	}
	return false
}

// Denuncia is one citizen complaint. Folio is the public tracking number
// and is unique across the portal.
type Denuncia struct {
	ID            string
	Folio         string
	Titulo        string
	Descripcion   string
	CategoriaID   string
	Direccion     string
	Latitud       float64
	Longitud      float64
	Estado        Estado
	InspectorID   string
	CreadaPor     string
	CreadaEn      time.Time
	ActualizadaEn time.Time
}

// Repo stores complaints. Create reports a duplicate folio with a
// ConstraintError carrying the unique-violation code; lookups on a missing
// id report errors.ErrNotFound.
type Repo interface {
	Create(ctx context.Context, d *Denuncia) error
	Get(ctx context.Context, id string) (*Denuncia, error)
	Update(ctx context.Context, d *Denuncia) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, limit int) ([]*Denuncia, int, error)
}
