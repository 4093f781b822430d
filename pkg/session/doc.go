/*
Package session implements network access and persistence orchestration.

A Manager serializes every operation on a named network, loads it from a
ports.SnapshotStore on first use and writes it back only when an operation
left it dirty. Across replicas, an optional ports.DistributedLocker extends
the per-name serialization and disables the in-memory cache.
*/
package session
