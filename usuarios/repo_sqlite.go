package usuarios

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

// SQLiteRepo persists portal accounts in the portal database.
type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(db *sql.DB) (*SQLiteRepo, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS usuarios (
		id TEXT PRIMARY KEY,
		principal_id TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		nombre TEXT NOT NULL,
		rol_id INTEGER NOT NULL,
		activo INTEGER NOT NULL DEFAULT 1,
		creado_en TIMESTAMP NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("creando tabla usuarios: %w", err)
	}
	return &SQLiteRepo{db: db}, nil
}

func (r *SQLiteRepo) Create(ctx context.Context, u *Usuario) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO usuarios
		(id, principal_id, email, nombre, rol_id, activo, creado_en)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.PrincipalID, u.Email, u.Nombre, u.RolID, u.Activo, u.CreadoEn.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return interrors.NewUniqueViolation("usuarios_email_key", err)
		}
		return fmt.Errorf("insertando usuario: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) Get(ctx context.Context, id string) (*Usuario, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, principal_id, email, nombre,
		rol_id, activo, creado_en FROM usuarios WHERE id = ?`, id)
	u, err := scanUsuario(row)
	if err == interrors.ErrAccountNotFound {
		return nil, interrors.ErrNotFound
	}
	return u, err
}

func (r *SQLiteRepo) FindByPrincipalID(ctx context.Context, principalID string) (*Usuario, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, principal_id, email, nombre,
		rol_id, activo, creado_en FROM usuarios WHERE principal_id = ?`, principalID)
	return scanUsuario(row)
}

func (r *SQLiteRepo) Update(ctx context.Context, u *Usuario) error {
	result, err := r.db.ExecContext(ctx, `UPDATE usuarios SET
		principal_id = ?, email = ?, nombre = ?, rol_id = ?, activo = ?
		WHERE id = ?`,
		u.PrincipalID, u.Email, u.Nombre, u.RolID, u.Activo, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return interrors.NewUniqueViolation("usuarios_email_key", err)
		}
		return fmt.Errorf("actualizando usuario: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return interrors.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) List(ctx context.Context, page, limit int) ([]*Usuario, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM usuarios`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("contando usuarios: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, principal_id, email, nombre,
		rol_id, activo, creado_en
		FROM usuarios ORDER BY email LIMIT ? OFFSET ?`, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("listando usuarios: %w", err)
	}
	defer rows.Close()

	items := make([]*Usuario, 0, limit)
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, u)
	}
	return items, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUsuario(row rowScanner) (*Usuario, error) {
	var u Usuario
	var creado time.Time
	err := row.Scan(&u.ID, &u.PrincipalID, &u.Email, &u.Nombre, &u.RolID, &u.Activo, &creado)
	if err == sql.ErrNoRows {
		return nil, interrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("leyendo usuario: %w", err)
	}
	u.CreadoEn = creado
	return &u, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
