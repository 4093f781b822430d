package ports

import (
	"context"

	"github.com/aretw0/prr/pkg/network"
)

// SnapshotStore defines the interface for persisting networks.
// Networks are stored whole, as snapshots keyed by network name.
type SnapshotStore interface {
	// Save persists the snapshot under the given network name, replacing any previous one.
	Save(ctx context.Context, name string, snap *network.Snapshot) error

	// Load retrieves the snapshot of a network.
	// Returns domain.ErrSnapshotNotFound if the network does not exist.
	Load(ctx context.Context, name string) (*network.Snapshot, error)

	// Delete removes the snapshot of a network. Deleting a missing network is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of every stored network.
	List(ctx context.Context) ([]string, error)
}
