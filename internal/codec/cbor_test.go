package codec_test

import (
	"testing"

	"github.com/aretw0/prr/internal/codec"
	"github.com/aretw0/prr/pkg/domain"
	"github.com/aretw0/prr/pkg/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot(t *testing.T) *network.Snapshot {
	t.Helper()
	n := network.New()
	require.NoError(t, n.RegisterClient("A1", "Ann", "100"))
	require.NoError(t, n.RegisterTerminal("FANCY", "111111", "A1", "ON"))
	require.NoError(t, n.RegisterTerminal("BASIC", "222222", "A1", "SILENCE"))
	_, err := n.SendText("111111", "222222", "hello")
	require.NoError(t, err)
	return n.Snapshot()
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap := sampleSnapshot(t)

	data, err := codec.Marshal(snap)
	require.NoError(t, err)

	var out network.Snapshot
	require.NoError(t, codec.Unmarshal(data, &out))
	assert.Equal(t, snap, &out)
	assert.Equal(t, domain.Units(10), out.Clients[0].Debts)
}

func TestDeterministic(t *testing.T) {
	a, err := codec.Marshal(sampleSnapshot(t))
	require.NoError(t, err)
	b, err := codec.Marshal(sampleSnapshot(t))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMoneyIsText(t *testing.T) {
	data, err := codec.Marshal(domain.Money(1250))
	require.NoError(t, err)

	var s string
	require.NoError(t, codec.Unmarshal(data, &s))
	assert.Equal(t, "12.50", s)
}
