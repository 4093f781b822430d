// Package network implements the prr registry: the single owner of clients, terminals and
// communications.
//
// A Network resolves entity keys, enforces uniqueness and every cross-entity invariant, and is
// the only place where state changes. The Client, Terminal and Communication values it hands out
// expose getters only; relationships between them are keys resolved through the Network.
//
// Every public operation validates first and mutates last, so a failed call leaves the network
// untouched. The one exception is a failed contact: when a destination cannot be reached and the
// caller's client opted into notifications, the attempt is recorded on the destination terminal
// before the error is returned.
//
// A Network is not safe for concurrent use. Callers that share one across goroutines serialize
// access, which is what session.Manager does.
package network
