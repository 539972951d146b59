package denuncias

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

// SQLiteRepo persists complaints in the portal database.
type SQLiteRepo struct {
	db *sql.DB
}

// NewSQLiteRepo attaches to an already opened portal database and ensures
// the table exists.
func NewSQLiteRepo(db *sql.DB) (*SQLiteRepo, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS denuncias (
		id TEXT PRIMARY KEY,
		folio TEXT NOT NULL UNIQUE,
		titulo TEXT NOT NULL,
		descripcion TEXT NOT NULL,
		categoria_id TEXT NOT NULL,
		direccion TEXT,
		latitud REAL NOT NULL,
		longitud REAL NOT NULL,
		estado TEXT NOT NULL,
		inspector_id TEXT,
		creada_por TEXT NOT NULL,
		creada_en TIMESTAMP NOT NULL,
		actualizada_en TIMESTAMP NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("creando tabla denuncias: %w", err)
	}
	return &SQLiteRepo{db: db}, nil
}

func (r *SQLiteRepo) Create(ctx context.Context, d *Denuncia) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO denuncias
		(id, folio, titulo, descripcion, categoria_id, direccion, latitud, longitud, estado, inspector_id, creada_por, creada_en, actualizada_en)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Folio, d.Titulo, d.Descripcion, d.CategoriaID, d.Direccion,
		d.Latitud, d.Longitud, string(d.Estado), d.InspectorID, d.CreadaPor,
		d.CreadaEn.UTC(), d.ActualizadaEn.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return interrors.NewUniqueViolation("denuncias_folio_key", err)
		}
		return fmt.Errorf("insertando denuncia: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) Get(ctx context.Context, id string) (*Denuncia, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, folio, titulo, descripcion, categoria_id,
		COALESCE(direccion, ''), latitud, longitud, estado, COALESCE(inspector_id, ''),
		creada_por, creada_en, actualizada_en
		FROM denuncias WHERE id = ?`, id)
	return scanDenuncia(row)
}

func (r *SQLiteRepo) Update(ctx context.Context, d *Denuncia) error {
	result, err := r.db.ExecContext(ctx, `UPDATE denuncias SET
		folio = ?, titulo = ?, descripcion = ?, categoria_id = ?, direccion = ?,
		latitud = ?, longitud = ?, estado = ?, inspector_id = ?, actualizada_en = ?
		WHERE id = ?`,
		d.Folio, d.Titulo, d.Descripcion, d.CategoriaID, d.Direccion,
		d.Latitud, d.Longitud, string(d.Estado), d.InspectorID, d.ActualizadaEn.UTC(), d.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return interrors.NewUniqueViolation("denuncias_folio_key", err)
		}
		return fmt.Errorf("actualizando denuncia: %w", err)
	}
	return requireRow(result)
}

func (r *SQLiteRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM denuncias WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("eliminando denuncia: %w", err)
	}
	return requireRow(result)
}

func (r *SQLiteRepo) List(ctx context.Context, page, limit int) ([]*Denuncia, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM denuncias`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("contando denuncias: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, folio, titulo, descripcion, categoria_id,
		COALESCE(direccion, ''), latitud, longitud, estado, COALESCE(inspector_id, ''),
		creada_por, creada_en, actualizada_en
		FROM denuncias ORDER BY creada_en DESC LIMIT ? OFFSET ?`, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("listando denuncias: %w", err)
	}
	defer rows.Close()

	items := make([]*Denuncia, 0, limit)
	for rows.Next() {
		d, err := scanDenuncia(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDenuncia(row rowScanner) (*Denuncia, error) {
	var d Denuncia
	var estado string
	var creada, actualizada time.Time
	err := row.Scan(&d.ID, &d.Folio, &d.Titulo, &d.Descripcion, &d.CategoriaID,
		&d.Direccion, &d.Latitud, &d.Longitud, &estado, &d.InspectorID,
		&d.CreadaPor, &creada, &actualizada)
	if err == sql.ErrNoRows {
		return nil, interrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("leyendo denuncia: %w", err)
	}
	d.Estado = Estado(estado)
	d.CreadaEn = creada
	d.ActualizadaEn = actualizada
	return &d, nil
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
