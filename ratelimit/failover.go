package ratelimit

import (
	"context"
	"time"

	"github.com/munidigital/portal-denuncias/internal/logging"
)

var _ Store = (*FailoverStore)(nil)

// FailoverStore wraps the external store and degrades to an in-memory
// instance whenever it fails: availability wins over strict enforcement.
// Composition keeps the memory store fully owned by the wrapper.
type FailoverStore struct {
	primary  Store
	fallback *MemoryStore
	log      *logging.Logger
}

func NewFailoverStore(primary Store, fallback *MemoryStore, log *logging.Logger) *FailoverStore {
	return &FailoverStore{primary: primary, fallback: fallback, log: log}
}

func (s *FailoverStore) Increment(ctx context.Context, key string, window time.Duration) (Entry, error) {
	entry, err := s.primary.Increment(ctx, key, window)
	if err == nil {
		return entry, nil
	}
	s.log.Warn("almacén externo de rate limit no disponible, usando memoria", logging.Context{
		"clave": key,
		"error": err.Error(),
	})
	return s.fallback.Increment(ctx, key, window)
}

func (s *FailoverStore) Reset(ctx context.Context, key string) error {
	if err := s.primary.Reset(ctx, key); err != nil {
		return s.fallback.Reset(ctx, key)
	}
	return s.fallback.Reset(ctx, key)
}
