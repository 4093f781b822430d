package network_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/prr/pkg/domain"
	"github.com/aretw0/prr/pkg/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// busyNetwork has one pending notification, one pending attempt, a friend and a call in
// progress from a silent terminal.
func busyNetwork(t *testing.T) *network.Network {
	t.Helper()
	n := fixture(t)
	require.NoError(t, n.RegisterClient("C1", "Cat", "300"))
	require.NoError(t, n.RegisterTerminal("FANCY", "444444", "C1", "OFF"))
	require.NoError(t, n.RegisterFriend("111111", "222222"))

	_, err := n.SendText("111111", "222222", "hi")
	require.Error(t, err)
	require.NoError(t, n.TurnOn("222222"))
	_, err = n.SendText("111111", "444444", "hi")
	require.Error(t, err)

	_, err = n.SendText("111111", "222222", "hello")
	require.NoError(t, err)
	require.NoError(t, n.Silence("111111"))
	_, err = n.StartInteractive("111111", "222222", domain.CommVideo)
	require.NoError(t, err)
	return n
}

func TestSnapshotRoundTrip(t *testing.T) {
	n := busyNetwork(t)
	snap := n.Snapshot()

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded network.Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored, err := network.Restore(&decoded)
	require.NoError(t, err)
	assert.False(t, restored.Dirty())
	assert.Equal(t, snap, restored.Snapshot())

	src, _ := restored.Terminal("111111")
	assert.Equal(t, domain.Busy{Previous: domain.Silent{}}, src.State())
	assertBusyInvariant(t, restored)

	cost, err := restored.EndInteractive("111111", 2)
	require.NoError(t, err)
	assert.Equal(t, domain.Units(60), cost, "the normal plan has no friend discount")
	assert.Equal(t, domain.Silent{}, src.State())

	notes, err := restored.Notifications("A1")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, domain.OffToIdle, notes[0].Kind)

	require.NoError(t, restored.TurnOn("444444"))
	notes, _ = restored.Notifications("A1")
	assert.Len(t, notes, 1)

	next, err := restored.SendText("222222", "111111", "ids continue")
	require.NoError(t, err)
	assert.Equal(t, 3, next.ID())
}

func TestRestoreRejectsCorruptSnapshots(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*network.Snapshot)
	}{
		{"version", func(s *network.Snapshot) { s.Version = 99 }},
		{"duplicate client", func(s *network.Snapshot) { s.Clients = append(s.Clients, s.Clients[0]) }},
		{"unknown owner", func(s *network.Snapshot) { s.Terminals[0].Owner = "ghost" }},
		{"unknown friend", func(s *network.Snapshot) { s.Terminals[0].Friends = []string{"999999"} }},
		{"busy without previous", func(s *network.Snapshot) { s.Terminals[0].Previous = "" }},
		{"busy without ongoing", func(s *network.Snapshot) { s.Terminals[0].Ongoing = 0 }},
		{"gap in ids", func(s *network.Snapshot) { s.Communications[0].ID = 7 }},
		{"counter behind", func(s *network.Snapshot) { s.LastCommID = 1 }},
		{"finished call keeps terminals busy", func(s *network.Snapshot) { s.Communications[1].InProgress = false }},
		{"bad tier", func(s *network.Snapshot) { s.Clients[0].Tier = "SILVER" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := busyNetwork(t).Snapshot()
			tt.mutate(snap)
			_, err := network.Restore(snap)
			assert.ErrorIs(t, err, network.ErrCorruptSnapshot)
		})
	}

	_, err := network.Restore(nil)
	assert.ErrorIs(t, err, network.ErrCorruptSnapshot)
}
