package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/prr/pkg/adapters/memory"
	"github.com/aretw0/prr/pkg/network"
	"github.com/aretw0/prr/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlyingStore := memory.NewStore()
	secureStore := middleware.NewPIIMiddleware([]string{"^A"})(underlyingStore)

	ctx := context.Background()
	snap := sampleSnapshot(t)
	require.NoError(t, secureStore.Save(ctx, "pii", snap))

	assert.Equal(t, "Ann", snap.Clients[0].Name, "caller's snapshot must not change")

	stored, err := underlyingStore.Load(ctx, "pii")
	require.NoError(t, err)
	assert.Equal(t, middleware.MaskedName, stored.Clients[0].Name)
	assert.Equal(t, middleware.MaskedTaxID, stored.Clients[0].TaxID)
	assert.Equal(t, "Bob", stored.Clients[1].Name)
	assert.Equal(t, "200", stored.Clients[1].TaxID)

	_, err = network.Restore(stored)
	assert.NoError(t, err, "masked snapshots stay restorable")
}

func TestChain_OrderIsOutermostFirst(t *testing.T) {
	underlyingStore := memory.NewStore()
	store := middleware.Chain(underlyingStore,
		middleware.NewPIIMiddleware([]string{".*"}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)}),
	)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "both", sampleSnapshot(t)))

	stored, err := underlyingStore.Load(ctx, "both")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Sealed)

	loaded, err := store.Load(ctx, "both")
	require.NoError(t, err)
	for _, c := range loaded.Clients {
		assert.Equal(t, middleware.MaskedName, c.Name)
	}
}
