// Package view buffers reads and writes against the backing database so a
// whole operation commits as one batch or not at all.
package view

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/LeJamon/goIAZO/internal/core/ledger/keylet"
	"github.com/LeJamon/goIAZO/internal/storage/database"
)

// ErrEntryExists is returned by Insert when the key is already present.
var ErrEntryExists = errors.New("entry already exists")

// Action represents the type of modification to a tracked entry
type Action int

const (
	// ActionCache means the entry was read but not modified
	ActionCache Action = iota
	// ActionInsert means a new entry was created
	ActionInsert
	// ActionModify means an existing entry was modified
	ActionModify
	// ActionErase means an entry was deleted
	ActionErase
)

// TrackedEntry is a record touched by the current operation.
type TrackedEntry struct {
	Action   Action
	Original []byte // nil for inserts
	Current  []byte // nil after erase
}

// Reader is the read half of a View.
type Reader interface {
	Read(ctx context.Context, k keylet.Keylet, out any) (bool, error)
	Exists(ctx context.Context, k keylet.Keylet) (bool, error)
}

// View wraps a database and tracks every modification until Apply.
type View struct {
	base  database.DB
	items map[[32]byte]*TrackedEntry
}

// New creates an empty view over base.
func New(base database.DB) *View {
	return &View{
		base:  base,
		items: make(map[[32]byte]*TrackedEntry),
	}
}

func (v *View) load(ctx context.Context, k keylet.Keylet) (*TrackedEntry, error) {
	if e, ok := v.items[k.Key]; ok {
		return e, nil
	}

	data, err := v.base.Read(ctx, k.Key[:])
	if errors.Is(err, database.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", k.Type, err)
	}

	e := &TrackedEntry{Action: ActionCache, Original: data, Current: data}
	v.items[k.Key] = e
	return e, nil
}

// Read decodes the entry at k into out. It reports false when the entry
// does not exist, leaving out untouched.
func (v *View) Read(ctx context.Context, k keylet.Keylet, out any) (bool, error) {
	e, err := v.load(ctx, k)
	if err != nil {
		return false, err
	}
	if e == nil || e.Action == ActionErase {
		return false, nil
	}
	if err := Decode(e.Current, out); err != nil {
		return false, fmt.Errorf("%s: %w", k.Type, err)
	}
	return true, nil
}

// Exists checks if an entry exists
func (v *View) Exists(ctx context.Context, k keylet.Keylet) (bool, error) {
	e, err := v.load(ctx, k)
	if err != nil {
		return false, err
	}
	return e != nil && e.Action != ActionErase, nil
}

// Insert adds a new entry, failing if one is already present.
func (v *View) Insert(ctx context.Context, k keylet.Keylet, in any) error {
	exists, err := v.Exists(ctx, k)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrEntryExists, k.Type)
	}
	return v.Put(ctx, k, in)
}

// Put inserts or replaces the entry at k.
func (v *View) Put(ctx context.Context, k keylet.Keylet, in any) error {
	data, err := Encode(in)
	if err != nil {
		return fmt.Errorf("%s: %w", k.Type, err)
	}

	e, err := v.load(ctx, k)
	if err != nil {
		return err
	}

	switch {
	case e == nil:
		v.items[k.Key] = &TrackedEntry{Action: ActionInsert, Current: data}
	case e.Action == ActionInsert:
		e.Current = data
	default:
		// Re-inserting an erased entry becomes a modify
		e.Action = ActionModify
		e.Current = data
	}
	return nil
}

// Erase deletes the entry at k. Erasing a missing entry is a no-op.
func (v *View) Erase(ctx context.Context, k keylet.Keylet) error {
	e, err := v.load(ctx, k)
	if err != nil {
		return err
	}
	if e == nil {
		return nil
	}
	if e.Action == ActionInsert {
		delete(v.items, k.Key)
		return nil
	}
	e.Action = ActionErase
	e.Current = nil
	return nil
}

// Changes returns the batch that Apply would write, ordered by key.
func (v *View) Changes() []database.BatchOperation {
	keys := make([][32]byte, 0, len(v.items))
	for key, e := range v.items {
		if e.Action != ActionCache {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return string(keys[i][:]) < string(keys[j][:])
	})

	ops := make([]database.BatchOperation, 0, len(keys))
	for _, key := range keys {
		e := v.items[key]
		k := append([]byte(nil), key[:]...)
		if e.Action == ActionErase {
			ops = append(ops, database.BatchOperation{Type: database.BatchDelete, Key: k})
			continue
		}
		ops = append(ops, database.BatchOperation{Type: database.BatchPut, Key: k, Value: e.Current})
	}
	return ops
}

// Apply writes every tracked modification as a single batch and resets
// the view.
func (v *View) Apply(ctx context.Context) error {
	ops := v.Changes()
	if len(ops) > 0 {
		if err := v.base.Batch(ctx, ops); err != nil {
			return fmt.Errorf("failed to apply %d changes: %w", len(ops), err)
		}
	}
	v.Discard()
	return nil
}

// Discard drops every tracked entry without writing.
func (v *View) Discard() {
	v.items = make(map[[32]byte]*TrackedEntry)
}
