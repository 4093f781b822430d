package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/prr/pkg/domain"
	"github.com/aretw0/prr/pkg/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore implementation
// adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := contractSnapshot(t)

		err := store.Save(ctx, name, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap, loaded)

		restored, err := network.Restore(loaded)
		require.NoError(t, err, "loaded snapshot should restore")
		c, err := restored.Client("A1")
		require.NoError(t, err)
		assert.Equal(t, domain.Units(10), c.Debts())
	})

	t.Run("Save Replaces", func(t *testing.T) {
		empty := network.New().Snapshot()
		require.NoError(t, store.Save(ctx, name, empty))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Empty(t, loaded.Clients)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, name, contractSnapshot(t))
		require.NoError(t, err)

		err = store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")

		assert.NoError(t, store.Delete(ctx, name), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		n1 := name + "-1"
		n2 := name + "-2"
		_ = store.Save(ctx, n1, contractSnapshot(t))
		_ = store.Save(ctx, n2, contractSnapshot(t))

		defer func() {
			_ = store.Delete(ctx, n1)
			_ = store.Delete(ctx, n2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, n1)
		assert.Contains(t, names, n2)
	})
}

// contractSnapshot builds a small network with a pending notification, a friend and a call
// in progress, so stores must preserve nested records and busy states.
func contractSnapshot(t *testing.T) *network.Snapshot {
	t.Helper()
	n := network.New()
	require.NoError(t, n.RegisterClient("A1", "Ann", "100"))
	require.NoError(t, n.RegisterClient("B1", "Bob", "200"))
	require.NoError(t, n.RegisterTerminal("FANCY", "111111", "A1", "ON"))
	require.NoError(t, n.RegisterTerminal("FANCY", "222222", "B1", "OFF"))
	require.NoError(t, n.RegisterFriend("111111", "222222"))

	_, err := n.SendText("111111", "222222", "hi")
	require.Error(t, err)
	require.NoError(t, n.TurnOn("222222"))
	_, err = n.SendText("111111", "222222", "hi")
	require.NoError(t, err)
	_, err = n.StartInteractive("222222", "111111", domain.CommVoice)
	require.NoError(t, err)
	return n.Snapshot()
}
