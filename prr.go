package prr

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/prr/pkg/adapters/memory"
	"github.com/aretw0/prr/pkg/domain"
	"github.com/aretw0/prr/pkg/importer"
	"github.com/aretw0/prr/pkg/network"
	"github.com/aretw0/prr/pkg/ports"
	"github.com/aretw0/prr/pkg/session"
)

// Version is the release of the prr module. Overridden at build time with
// -ldflags "-X github.com/aretw0/prr.Version=...".
var Version = "0.1.0-dev"

// Engine is the high-level entry point for the prr library.
// It wraps the session manager and provides a simplified API for consumers.
type Engine struct {
	manager *session.Manager
	store   ports.SnapshotStore
	locker  ports.DistributedLocker
	hooks   domain.LifecycleHooks
	hooksOf func(name string) domain.LifecycleHooks
	logger  *slog.Logger
	tariffs *domain.TariffTable
	policy  *domain.TierPolicy
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets where networks are persisted. The default keeps them in memory.
func WithStore(store ports.SnapshotStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker serializes access to a network across processes sharing the store.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLifecycleHooks registers observability hooks on every network.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithNetworkHooks registers hooks that depend on the network name, such as
// per-network event streams.
func WithNetworkHooks(hooksOf func(name string) domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooksOf = hooksOf
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTariffs replaces the default tariff table.
func WithTariffs(t domain.TariffTable) Option {
	return func(e *Engine) {
		e.tariffs = &t
	}
}

// WithTierPolicy replaces the default tier thresholds.
func WithTierPolicy(p domain.TierPolicy) Option {
	return func(e *Engine) {
		e.policy = &p
	}
}

// New initializes a new Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	netOpts := []network.Option{
		network.WithLogger(eng.logger),
		network.WithLifecycleHooks(eng.hooks),
	}
	if eng.tariffs != nil {
		if err := eng.tariffs.Validate(); err != nil {
			return nil, fmt.Errorf("invalid tariffs: %w", err)
		}
		netOpts = append(netOpts, network.WithTariffs(*eng.tariffs))
	}
	if eng.policy != nil {
		if err := eng.policy.Validate(); err != nil {
			return nil, fmt.Errorf("invalid tier policy: %w", err)
		}
		netOpts = append(netOpts, network.WithTierPolicy(*eng.policy))
	}

	mgrOpts := []session.Option{
		session.WithLogger(eng.logger),
		session.WithNetworkOptions(netOpts...),
	}
	if eng.locker != nil {
		mgrOpts = append(mgrOpts, session.WithLocker(eng.locker))
	}
	if eng.hooksOf != nil {
		mgrOpts = append(mgrOpts, session.WithNetworkHooks(eng.hooksOf))
	}

	eng.manager = session.NewManager(eng.store, mgrOpts...)
	return eng, nil
}

// Execute runs fn against the named network under its lock. The network is created empty
// when the store does not hold it, and written back only when fn changed it.
func (e *Engine) Execute(ctx context.Context, name string, fn func(*network.Network) error) error {
	return e.manager.Execute(ctx, name, fn)
}

// Import registers every record read from r into the named network.
// Records before a failing line stay registered and are persisted.
func (e *Engine) Import(ctx context.Context, name string, r io.Reader) (importer.Stats, error) {
	var stats importer.Stats
	err := e.manager.Execute(ctx, name, func(n *network.Network) error {
		var err error
		stats, err = importer.Import(ctx, r, n)
		return err
	})
	return stats, err
}

// Snapshot returns the serializable form of the named network.
func (e *Engine) Snapshot(ctx context.Context, name string) (*network.Snapshot, error) {
	var snap *network.Snapshot
	err := e.manager.Execute(ctx, name, func(n *network.Network) error {
		snap = n.Snapshot()
		return nil
	})
	return snap, err
}

// Save writes the named network even when it is clean.
func (e *Engine) Save(ctx context.Context, name string) error {
	return e.manager.Save(ctx, name)
}

// SaveAs copies the named network under a new name.
func (e *Engine) SaveAs(ctx context.Context, from, to string) error {
	return e.manager.SaveAs(ctx, from, to)
}

// Delete removes the named network from the store.
func (e *Engine) Delete(ctx context.Context, name string) error {
	return e.manager.Delete(ctx, name)
}

// List returns the names of the stored networks.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.manager.List(ctx)
}

// Manager exposes the underlying session manager.
func (e *Engine) Manager() *session.Manager {
	return e.manager
}

// Store returns the snapshot store in use.
func (e *Engine) Store() ports.SnapshotStore {
	return e.store
}
