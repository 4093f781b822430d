package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/prr/pkg/adapters/memory"
	"github.com/aretw0/prr/pkg/network"
	"github.com/stretchr/testify/assert"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()
	count := 1000

	for i := 0; i < count; i++ {
		name := fmt.Sprintf("network-%d", i)
		_ = mgr.Execute(ctx, name, func(n *network.Network) error {
			return n.RegisterClient("A1", "Ann", "1")
		})
		_ = mgr.Delete(ctx, name)
	}

	assert.Empty(t, mgr.locks, "lock entries must be released once unused")
	assert.Empty(t, mgr.cache, "deleted networks must leave the cache")
}
