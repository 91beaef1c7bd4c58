// Package dbtest runs the same behavioural checks against every
// database.DB backend.
package dbtest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/LeJamon/goIAZO/internal/storage/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises the DB contract against databases opened from m.
func Run(t *testing.T, m database.Manager) {
	ctx := context.Background()

	t.Run("Read missing key", func(t *testing.T) {
		db, err := m.OpenDB("missing")
		require.NoError(t, err)

		_, err = db.Read(ctx, []byte("nope"))
		assert.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("Write read delete", func(t *testing.T) {
		db, err := m.OpenDB("basic")
		require.NoError(t, err)

		require.NoError(t, db.Write(ctx, []byte("k"), []byte("v")))
		got, err := db.Read(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)

		require.NoError(t, db.Delete(ctx, []byte("k")))
		_, err = db.Read(ctx, []byte("k"))
		assert.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("Batch operations", func(t *testing.T) {
		db, err := m.OpenDB("batch")
		require.NoError(t, err)

		ops := []database.BatchOperation{
			{Type: database.BatchPut, Key: []byte("batch1"), Value: []byte("value1")},
			{Type: database.BatchPut, Key: []byte("batch2"), Value: []byte("value2")},
			{Type: database.BatchDelete, Key: []byte("batch1")},
		}
		require.NoError(t, db.Batch(ctx, ops))

		_, err = db.Read(ctx, []byte("batch1"))
		assert.ErrorIs(t, err, database.ErrKeyNotFound)

		value, err := db.Read(ctx, []byte("batch2"))
		require.NoError(t, err)
		assert.Equal(t, "value2", string(value))
	})

	t.Run("Batch rejects unknown operations", func(t *testing.T) {
		db, err := m.OpenDB("batch-bad")
		require.NoError(t, err)

		ops := []database.BatchOperation{
			{Type: database.BatchPut, Key: []byte("a"), Value: []byte("1")},
			{Type: database.BatchOpType(99), Key: []byte("b")},
		}
		assert.ErrorIs(t, db.Batch(ctx, ops), database.ErrBatchOperationFailed)

		_, err = db.Read(ctx, []byte("a"))
		assert.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("Iterator is half open", func(t *testing.T) {
		db, err := m.OpenDB("iterator")
		require.NoError(t, err)

		for _, k := range []string{"iter1", "iter2", "iter3"} {
			require.NoError(t, db.Write(ctx, []byte(k), []byte("value-"+k)))
		}

		iter, err := db.Iterator(ctx, []byte("iter1"), []byte("iter3"))
		require.NoError(t, err)
		defer iter.Close()

		var keys []string
		for iter.Next() {
			keys = append(keys, string(iter.Key()))
			assert.Equal(t, "value-"+string(iter.Key()), string(iter.Value()))
		}
		require.NoError(t, iter.Error())
		assert.Equal(t, []string{"iter1", "iter2"}, keys)
	})

	t.Run("Concurrent access", func(t *testing.T) {
		db, err := m.OpenDB("concurrent")
		require.NoError(t, err)

		const numGoroutines = 8
		const numOperations = 50

		var wg sync.WaitGroup
		errCh := make(chan error, numGoroutines)
		for i := 0; i < numGoroutines; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				for j := 0; j < numOperations; j++ {
					key := []byte(fmt.Sprintf("concurrent-%d-%d", id, j))
					if err := db.Write(ctx, key, key); err != nil {
						errCh <- err
						return
					}
					if _, err := db.Read(ctx, key); err != nil {
						errCh <- err
						return
					}
				}
			}(i)
		}
		wg.Wait()
		close(errCh)
		for err := range errCh {
			t.Errorf("goroutine error: %v", err)
		}
	})

	t.Run("Close unknown database", func(t *testing.T) {
		assert.ErrorIs(t, m.CloseDB("never-opened"), database.ErrNamespaceNotFound)
	})
}
