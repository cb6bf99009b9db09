// Package tests provides reusable contract suites for ports implementations.
package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikBellini/web-graph/pkg/domain"
	"github.com/NikBellini/web-graph/pkg/ports"
)

// RunStoreContract verifies that a store complies with ports.RunStore.
// The store must be empty when the suite starts.
func RunStoreContract(t *testing.T, store ports.RunStore) {
	t.Helper()
	ctx := context.Background()

	report := &domain.RunReport{
		RunID:     "run-1",
		GraphName: "contract-flow",
		Status:    domain.StatusDone,
		Path:      []string{"first", "second"},
		FallbackAttempts: map[string]int{
			"first": 2,
		},
		StartedAt:  time.Now().UTC().Truncate(time.Second),
		FinishedAt: time.Now().UTC().Truncate(time.Second),
		FinalState: map[string]any{"logged_in": true},
	}

	t.Run("SaveAndLoad", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "run-1", report))

		got, err := store.Load(ctx, "run-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDone, got.Status)
		assert.Equal(t, []string{"first", "second"}, got.Path)
		assert.Equal(t, 2, got.FallbackAttempts["first"])
	})

	t.Run("LoadIsolatedFromCaller", func(t *testing.T) {
		got, err := store.Load(ctx, "run-1")
		require.NoError(t, err)
		got.Path[0] = "mutated"

		again, err := store.Load(ctx, "run-1")
		require.NoError(t, err)
		assert.Equal(t, "first", again.Path[0])
	})

	t.Run("LoadMissing", func(t *testing.T) {
		_, err := store.Load(ctx, "no-such-run")
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "run-2", &domain.RunReport{RunID: "run-2", Status: domain.StatusFailed}))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"run-1", "run-2"}, ids)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "run-2"))

		_, err := store.Load(ctx, "run-2")
		assert.ErrorIs(t, err, domain.ErrRunNotFound)

		// Deleting an unknown ID is not an error.
		assert.NoError(t, store.Delete(ctx, "run-2"))
	})
}
