package denuncias_test

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/munidigital/portal-denuncias/denuncias"
	interrors "github.com/munidigital/portal-denuncias/internal/errors"
)

func nuevaDenuncia(id, folio string, creada time.Time) *denuncias.Denuncia {
	return &denuncias.Denuncia{
		ID:            id,
		Folio:         folio,
		Titulo:        "Luminaria apagada",
		Descripcion:   "Poste sin luz frente al 1420",
		CategoriaID:   "c56a4180-65aa-42ec-a945-5fd21dec0538",
		Latitud:       -33.6,
		Longitud:      -70.7,
		Estado:        denuncias.EstadoPendiente,
		CreadaPor:     "u-1",
		CreadaEn:      creada,
		ActualizadaEn: creada,
	}
}

func repos(t *testing.T) map[string]denuncias.Repo {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "portal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sqliteRepo, err := denuncias.NewSQLiteRepo(db)
	require.NoError(t, err)
	return map[string]denuncias.Repo{
		"memoria": denuncias.NewInMemoryRepo(),
		"sqlite":  sqliteRepo,
	}
}

func TestDuplicateFolioRejected(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
			require.NoError(t, repo.Create(context.Background(), nuevaDenuncia("d-1", "DEN-0001", base)))

			err := repo.Create(context.Background(), nuevaDenuncia("d-2", "DEN-0001", base))
			var constraintErr *interrors.ConstraintError
			require.ErrorAs(t, err, &constraintErr)
			require.Equal(t, interrors.UniqueViolationCode, constraintErr.Code)
		})
	}
}

func TestCrudRoundtrip(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
			d := nuevaDenuncia("d-1", "DEN-0001", base)
			require.NoError(t, repo.Create(context.Background(), d))

			got, err := repo.Get(context.Background(), "d-1")
			require.NoError(t, err)
			require.Equal(t, "DEN-0001", got.Folio)
			require.Equal(t, denuncias.EstadoPendiente, got.Estado)

			got.Estado = denuncias.EstadoEnProceso
			got.InspectorID = "i-1"
			require.NoError(t, repo.Update(context.Background(), got))

			updated, err := repo.Get(context.Background(), "d-1")
			require.NoError(t, err)
			require.Equal(t, denuncias.EstadoEnProceso, updated.Estado)
			require.Equal(t, "i-1", updated.InspectorID)

			require.NoError(t, repo.Delete(context.Background(), "d-1"))
			_, err = repo.Get(context.Background(), "d-1")
			require.ErrorIs(t, err, interrors.ErrNotFound)
			require.ErrorIs(t, repo.Delete(context.Background(), "d-1"), interrors.ErrNotFound)
		})
	}
}

func TestListNewestFirstWithPagination(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
			for i := 0; i < 5; i++ {
				d := nuevaDenuncia(fmt.Sprintf("d-%d", i), fmt.Sprintf("DEN-%04d", i), base.Add(time.Duration(i)*time.Minute))
				require.NoError(t, repo.Create(context.Background(), d))
			}

			items, total, err := repo.List(context.Background(), 1, 2)
			require.NoError(t, err)
			require.Equal(t, 5, total)
			require.Len(t, items, 2)
			require.Equal(t, "DEN-0004", items[0].Folio)
			require.Equal(t, "DEN-0003", items[1].Folio)

			items, _, err = repo.List(context.Background(), 3, 2)
			require.NoError(t, err)
			require.Len(t, items, 1)
			require.Equal(t, "DEN-0000", items[0].Folio)
		})
	}
}
