package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/prr/internal/logging"
	"github.com/aretw0/prr/pkg/domain"
	"github.com/aretw0/prr/pkg/network"
	"github.com/aretw0/prr/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed replica can hold a distributed lock.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates network access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.SnapshotStore

	mu    sync.Mutex            // Global lock for the locks map
	locks map[string]*lockEntry // Map of active locks

	cacheMu sync.Mutex
	cache   map[string]*network.Network

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
	netOpts []network.Option
	hooksOf func(name string) domain.LifecycleHooks
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking. Networks are then reloaded from the store on
// every operation, since another replica may have written them.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock expiration.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithNetworkOptions sets the options used to create and restore networks
// (tariffs, tier policy, hooks).
func WithNetworkOptions(opts ...network.Option) Option {
	return func(m *Manager) {
		m.netOpts = append(m.netOpts, opts...)
	}
}

// WithNetworkHooks attaches hooks built for each network name, so observers can tell
// networks apart.
func WithNetworkHooks(hooksOf func(name string) domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooksOf = hooksOf
	}
}

// NewManager creates a new Manager with the given persistence store.
func NewManager(store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		cache:   make(map[string]*network.Network),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(name) after unlocking.
func (m *Manager) acquire(name string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[name]
	if !exists {
		entry = &lockEntry{}
		m.locks[name] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[name]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, name)
	}
}

// Execute runs fn on the named network while holding its lock. A network missing from the
// store starts empty. When fn leaves the network dirty it is saved, even if fn failed:
// a rejected call can still record a contact attempt, and earlier operations in fn stay applied.
func (m *Manager) Execute(ctx context.Context, name string, fn func(*network.Network) error) error {
	return m.WithLock(ctx, name, func(ctx context.Context) error {
		n, err := m.network(ctx, name)
		if err != nil {
			return err
		}

		fnErr := fn(n)
		if !n.Dirty() {
			return fnErr
		}
		m.keep(name, n)
		if err := m.persist(ctx, name, n); err != nil {
			return errors.Join(fnErr, err)
		}
		return fnErr
	})
}

// Save writes the named network even when it is clean.
func (m *Manager) Save(ctx context.Context, name string) error {
	return m.WithLock(ctx, name, func(ctx context.Context) error {
		n, err := m.network(ctx, name)
		if err != nil {
			return err
		}
		if err := m.persist(ctx, name, n); err != nil {
			return err
		}
		m.keep(name, n)
		return nil
	})
}

// SaveAs copies network from under the name to. Later operations on from keep writing to
// from; to is a fresh copy that replaces anything stored under that name.
func (m *Manager) SaveAs(ctx context.Context, from, to string) error {
	if from == to {
		return m.Save(ctx, from)
	}

	var snap *network.Snapshot
	err := m.WithLock(ctx, from, func(ctx context.Context) error {
		n, err := m.network(ctx, from)
		if err != nil {
			return err
		}
		snap = n.Snapshot()
		return nil
	})
	if err != nil {
		return err
	}

	return m.WithLock(ctx, to, func(ctx context.Context) error {
		if err := m.store.Save(ctx, to, snap); err != nil {
			return fmt.Errorf("failed to save network %s: %w", to, err)
		}
		m.evict(to)
		m.logger.Debug("network copied", "from", from, "to", to)
		return nil
	})
}

// Evict drops the cached copy of a network. Unsaved changes are lost.
func (m *Manager) Evict(ctx context.Context, name string) error {
	return m.WithLock(ctx, name, func(ctx context.Context) error {
		m.evict(name)
		return nil
	})
}

// Delete removes the network from the store and the cache.
func (m *Manager) Delete(ctx context.Context, name string) error {
	return m.WithLock(ctx, name, func(ctx context.Context) error {
		m.evict(name)
		return m.store.Delete(ctx, name)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// WithLock executes a function while holding the lock for the network.
func (m *Manager) WithLock(ctx context.Context, name string, fn func(context.Context) error) error {
	entry := m.acquire(name)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(name)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, name, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"network", name,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// network returns the cached network or loads it. The caller holds the lock for name.
// A network missing from the store starts empty and is only cached once it is written,
// so reads of unknown names leave the cache alone.
func (m *Manager) network(ctx context.Context, name string) (*network.Network, error) {
	if m.locker == nil {
		m.cacheMu.Lock()
		n, ok := m.cache[name]
		m.cacheMu.Unlock()
		if ok {
			return n, nil
		}
	}

	opts := m.netOpts
	if m.hooksOf != nil {
		opts = append(slices.Clone(opts), network.WithLifecycleHooks(m.hooksOf(name)))
	}

	var n *network.Network
	snap, err := m.store.Load(ctx, name)
	switch {
	case errors.Is(err, domain.ErrSnapshotNotFound):
		m.logger.Debug("network created", "network", name)
		return network.New(opts...), nil
	case err != nil:
		return nil, fmt.Errorf("failed to load network %s: %w", name, err)
	default:
		n, err = network.Restore(snap, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to restore network %s: %w", name, err)
		}
		m.logger.Debug("network loaded", "network", name)
	}

	m.keep(name, n)
	return n, nil
}

func (m *Manager) keep(name string, n *network.Network) {
	if m.locker != nil {
		return
	}
	m.cacheMu.Lock()
	m.cache[name] = n
	m.cacheMu.Unlock()
}

func (m *Manager) persist(ctx context.Context, name string, n *network.Network) error {
	if err := m.store.Save(ctx, name, n.Snapshot()); err != nil {
		return fmt.Errorf("failed to save network %s: %w", name, err)
	}
	n.MarkClean()
	m.logger.Debug("network saved", "network", name)
	return nil
}

func (m *Manager) evict(name string) {
	m.cacheMu.Lock()
	delete(m.cache, name)
	m.cacheMu.Unlock()
}
