package view

import (
	"context"
	"sync"

	"github.com/LeJamon/goIAZO/internal/storage/database"
)

// Store serializes mutations over one database. Every Update runs against
// a fresh View and commits it as one batch when the callback succeeds.
type Store struct {
	db database.DB
	mu sync.RWMutex
}

// NewStore wraps db.
func NewStore(db database.DB) *Store {
	return &Store{db: db}
}

// Update runs fn under the apply lock. If fn returns an error nothing is
// written.
func (s *Store) Update(ctx context.Context, fn func(v *View) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := New(s.db)
	if err := fn(v); err != nil {
		v.Discard()
		return err
	}
	return v.Apply(ctx)
}

// View runs fn against a read-only snapshot. Any writes fn makes to the
// view are dropped. Concurrent View calls do not block each other.
func (s *Store) View(ctx context.Context, fn func(r Reader) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(New(s.db))
}
