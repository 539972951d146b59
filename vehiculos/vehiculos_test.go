package vehiculos_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	interrors "github.com/munidigital/portal-denuncias/internal/errors"
	"github.com/munidigital/portal-denuncias/vehiculos"
)

func nuevoVehiculo(id, patente string) *vehiculos.Vehiculo {
	return &vehiculos.Vehiculo{
		ID:       id,
		Patente:  patente,
		Marca:    "Toyota",
		Modelo:   "Hilux",
		Activo:   true,
		CreadoEn: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func repos(t *testing.T) map[string]vehiculos.Repo {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "portal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sqliteRepo, err := vehiculos.NewSQLiteRepo(db)
	require.NoError(t, err)
	return map[string]vehiculos.Repo{
		"memoria": vehiculos.NewInMemoryRepo(),
		"sqlite":  sqliteRepo,
	}
}

func TestDuplicatePlateRejected(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.Create(context.Background(), nuevoVehiculo("v-1", "GHJK45")))

			err := repo.Create(context.Background(), nuevoVehiculo("v-2", "GHJK45"))
			var constraintErr *interrors.ConstraintError
			require.ErrorAs(t, err, &constraintErr)
			require.Equal(t, interrors.UniqueViolationCode, constraintErr.Code)
		})
	}
}

func TestUpdateKeepsOwnPlate(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			v := nuevoVehiculo("v-1", "GHJK45")
			require.NoError(t, repo.Create(context.Background(), v))

			v.Modelo = "Ranger"
			require.NoError(t, repo.Update(context.Background(), v))

			got, err := repo.Get(context.Background(), "v-1")
			require.NoError(t, err)
			require.Equal(t, "Ranger", got.Modelo)
			require.Equal(t, "GHJK45", got.Patente)
		})
	}
}

func TestUpdateRejectsTakenPlate(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.Create(context.Background(), nuevoVehiculo("v-1", "GHJK45")))
			require.NoError(t, repo.Create(context.Background(), nuevoVehiculo("v-2", "ABCD12")))

			segundo, err := repo.Get(context.Background(), "v-2")
			require.NoError(t, err)
			segundo.Patente = "GHJK45"

			err = repo.Update(context.Background(), segundo)
			var constraintErr *interrors.ConstraintError
			require.ErrorAs(t, err, &constraintErr)
			require.Equal(t, interrors.UniqueViolationCode, constraintErr.Code)
		})
	}
}

func TestListOrderedByPlate(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.Create(context.Background(), nuevoVehiculo("v-1", "GHJK45")))
			require.NoError(t, repo.Create(context.Background(), nuevoVehiculo("v-2", "ABCD12")))

			items, total, err := repo.List(context.Background(), 1, 10)
			require.NoError(t, err)
			require.Equal(t, 2, total)
			require.Len(t, items, 2)
			require.Equal(t, "ABCD12", items[0].Patente)
		})
	}
}

func TestDeleteFreesPlate(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.Create(context.Background(), nuevoVehiculo("v-1", "GHJK45")))
			require.NoError(t, repo.Delete(context.Background(), "v-1"))

			_, err := repo.Get(context.Background(), "v-1")
			require.ErrorIs(t, err, interrors.ErrNotFound)

			require.NoError(t, repo.Create(context.Background(), nuevoVehiculo("v-3", "GHJK45")))
		})
	}
}
