// Package kvtest holds behaviour checks shared by every kv.Store backend.
package kvtest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfredjeanlab/wledrelay/internal/kv"
)

// Run exercises s against the kv.Store contract. The store must start empty.
func Run(t *testing.T, s kv.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("MissingKey", func(t *testing.T) {
		_, err := s.Get(ctx, "kvtest_missing")
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("PutThenGet", func(t *testing.T) {
		want := []byte(`{"effect":"rainbow","updated_at":"2024-01-01T00:00:00Z"}`)
		require.NoError(t, s.Put(ctx, "kvtest_roundtrip", want))
		got, err := s.Get(ctx, "kvtest_roundtrip")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "kvtest_overwrite", []byte("first")))
		require.NoError(t, s.Put(ctx, "kvtest_overwrite", []byte("second")))
		got, err := s.Get(ctx, "kvtest_overwrite")
		require.NoError(t, err)
		assert.Equal(t, "second", string(got))
	})

	t.Run("ConcurrentPutsLastWriteWins", func(t *testing.T) {
		values := make(map[string]bool)
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			v := fmt.Sprintf(`{"effect":"e%d","updated_at":"t%d"}`, i, i)
			values[v] = true
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, s.Put(ctx, "kvtest_race", []byte(v)))
			}()
		}
		wg.Wait()
		got, err := s.Get(ctx, "kvtest_race")
		require.NoError(t, err)
		assert.True(t, values[string(got)], "stored value %q is not one of the writes", got)
	})
}
