package ratelimit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

var _ Store = (*SQLStore)(nil)

// SQLStore keeps buckets in a shared database so multiple portal instances
// count against the same windows. It is selected when a rate-limit DSN is
// configured.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// SQLOption modifies a SQLStore.
type SQLOption func(*SQLStore)

// WithSQLNow sets the clock (primarily for testing).
func WithSQLNow(now func() time.Time) SQLOption {
	return func(s *SQLStore) { s.now = now }
}

// NewSQLStore opens the shared database and ensures the bucket table
// exists.
func NewSQLStore(dsn string, options ...SQLOption) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("abriendo base de rate limit: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS rate_limits (
		clave TEXT PRIMARY KEY,
		contador INTEGER NOT NULL,
		reinicio INTEGER NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creando tabla de rate limit: %w", err)
	}
	s := &SQLStore{db: db, now: time.Now}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

func (s *SQLStore) Increment(ctx context.Context, key string, window time.Duration) (Entry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("iniciando transacción: %w", err)
	}
	defer tx.Rollback()

	now := s.now()
	var count int
	var resetMs int64
	err = tx.QueryRowContext(ctx, `SELECT contador, reinicio FROM rate_limits WHERE clave = ?`, key).
		Scan(&count, &resetMs)
	switch {
	case err == sql.ErrNoRows || (err == nil && time.UnixMilli(resetMs).Before(now)):
		count = 1
		resetMs = now.Add(window).UnixMilli()
		if _, err := tx.ExecContext(ctx, `INSERT INTO rate_limits (clave, contador, reinicio) VALUES (?, ?, ?)
			ON CONFLICT(clave) DO UPDATE SET contador = excluded.contador, reinicio = excluded.reinicio`,
			key, count, resetMs); err != nil {
			return Entry{}, fmt.Errorf("reiniciando ventana: %w", err)
		}
	case err != nil:
		return Entry{}, fmt.Errorf("leyendo ventana: %w", err)
	default:
		count++
		if _, err := tx.ExecContext(ctx, `UPDATE rate_limits SET contador = ? WHERE clave = ?`, count, key); err != nil {
			return Entry{}, fmt.Errorf("incrementando contador: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Entry{}, fmt.Errorf("confirmando transacción: %w", err)
	}
	return Entry{Count: count, ResetAt: time.UnixMilli(resetMs)}, nil
}

func (s *SQLStore) Reset(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM rate_limits WHERE clave = ?`, key)
	return err
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
