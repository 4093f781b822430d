/*
Package ports defines the driven ports (interfaces) of the prr registry.

These interfaces decouple the network and session layers from storage and coordination
backends, so the same registry runs in memory, on the file system, on SQLite or on Redis.

# Key Interfaces

  - SnapshotStore: Persists and loads whole networks as snapshots keyed by name.
  - DistributedLocker: Serializes access to one network across several processes.

RunSnapshotStoreContract is a reusable test suite every SnapshotStore adapter runs.
*/
package ports
