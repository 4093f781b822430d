package session

import (
	"context"
	"testing"

	"github.com/aretw0/prr/pkg/adapters/memory"
	"github.com/aretw0/prr/pkg/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cached(m *Manager) []string {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	var names []string
	for name := range m.cache {
		names = append(names, name)
	}
	return names
}

func TestManager_ReadsOfUnknownNetworksAreNotCached(t *testing.T) {
	manager := NewManager(memory.NewStore())
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		err := manager.Execute(ctx, name, func(n *network.Network) error {
			assert.Empty(t, n.Clients())
			return nil
		})
		require.NoError(t, err)
	}
	assert.Empty(t, cached(manager))

	require.NoError(t, manager.Execute(ctx, "d", func(n *network.Network) error {
		return n.RegisterClient("A1", "Ann", "100")
	}))
	assert.Equal(t, []string{"d"}, cached(manager))

	require.NoError(t, manager.Save(ctx, "e"))
	assert.ElementsMatch(t, []string{"d", "e"}, cached(manager))
}

func TestManager_StoredNetworksAreCached(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	n := network.New()
	require.NoError(t, n.RegisterClient("A1", "Ann", "100"))
	require.NoError(t, store.Save(ctx, "main", n.Snapshot()))

	manager := NewManager(store)
	require.NoError(t, manager.Execute(ctx, "main", func(*network.Network) error { return nil }))
	assert.Equal(t, []string{"main"}, cached(manager))
}
