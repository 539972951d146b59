package vehiculos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	interrors "github.com/munidigital/portal-denuncias/internal/errors"
)

var _ Repo = (*SQLiteRepo)(nil)

// SQLiteRepo persists vehicles in the portal database.
type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(db *sql.DB) (*SQLiteRepo, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS vehiculos (
		id TEXT PRIMARY KEY,
		patente TEXT NOT NULL UNIQUE,
		marca TEXT NOT NULL,
		modelo TEXT NOT NULL,
		inspector_id TEXT,
		activo INTEGER NOT NULL DEFAULT 1,
		creado_en TIMESTAMP NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("creando tabla vehiculos: %w", err)
	}
	return &SQLiteRepo{db: db}, nil
}

func (r *SQLiteRepo) Create(ctx context.Context, v *Vehiculo) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO vehiculos
		(id, patente, marca, modelo, inspector_id, activo, creado_en)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Patente, v.Marca, v.Modelo, v.InspectorID, v.Activo, v.CreadoEn.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return interrors.NewUniqueViolation("vehiculos_patente_key", err)
		}
		return fmt.Errorf("insertando vehículo: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) Get(ctx context.Context, id string) (*Vehiculo, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, patente, marca, modelo,
		COALESCE(inspector_id, ''), activo, creado_en FROM vehiculos WHERE id = ?`, id)
	return scanVehiculo(row)
}

func (r *SQLiteRepo) Update(ctx context.Context, v *Vehiculo) error {
	result, err := r.db.ExecContext(ctx, `UPDATE vehiculos SET
		patente = ?, marca = ?, modelo = ?, inspector_id = ?, activo = ?
		WHERE id = ?`,
		v.Patente, v.Marca, v.Modelo, v.InspectorID, v.Activo, v.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return interrors.NewUniqueViolation("vehiculos_patente_key", err)
		}
		return fmt.Errorf("actualizando vehículo: %w", err)
	}
	return requireRow(result)
}

func (r *SQLiteRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM vehiculos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("eliminando vehículo: %w", err)
	}
	return requireRow(result)
}

func (r *SQLiteRepo) List(ctx context.Context, page, limit int) ([]*Vehiculo, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehiculos`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("contando vehículos: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, patente, marca, modelo,
		COALESCE(inspector_id, ''), activo, creado_en
		FROM vehiculos ORDER BY patente LIMIT ? OFFSET ?`, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("listando vehículos: %w", err)
	}
	defer rows.Close()

	items := make([]*Vehiculo, 0, limit)
	for rows.Next() {
		v, err := scanVehiculo(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	return items, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehiculo(row rowScanner) (*Vehiculo, error) {
	var v Vehiculo
	var creado time.Time
	err := row.Scan(&v.ID, &v.Patente, &v.Marca, &v.Modelo, &v.InspectorID, &v.Activo, &creado)
	if err == sql.ErrNoRows {
		return nil, interrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("leyendo vehículo: %w", err)
	}
	v.CreadoEn = creado
	return &v, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return interrors.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
