// Package backend selects the key-value database implementation named in
// the configuration.
package backend

import (
	"fmt"

	"github.com/LeJamon/goIAZO/internal/config"
	"github.com/LeJamon/goIAZO/internal/storage/database"
	"github.com/LeJamon/goIAZO/internal/storage/database/bbolt"
	"github.com/LeJamon/goIAZO/internal/storage/database/leveldb"
	"github.com/LeJamon/goIAZO/internal/storage/database/pebble"
)

// NewManager returns the database manager for cfg.Backend.
func NewManager(cfg config.DatabaseConfig) (database.Manager, error) {
	switch cfg.Backend {
	case config.BackendPebble:
		return pebble.NewManager(cfg.Path), nil
	case config.BackendBbolt:
		return bbolt.NewManager(cfg.Path), nil
	case config.BackendLevelDB:
		return leveldb.NewManager(cfg.Path), nil
	case config.BackendMemory:
		return leveldb.NewMemManager(), nil
	default:
		return nil, fmt.Errorf("unknown database backend: %s", cfg.Backend)
	}
}

// Open opens the configured database and returns it with its manager.
// Closing the manager closes the database.
func Open(cfg config.DatabaseConfig) (database.Manager, database.DB, error) {
	m, err := NewManager(cfg)
	if err != nil {
		return nil, nil, err
	}
	db, err := m.OpenDB(cfg.Name)
	if err != nil {
		m.Close()
		return nil, nil, fmt.Errorf("failed to open %s database %s: %w", cfg.Backend, cfg.Name, err)
	}
	return m, db, nil
}
