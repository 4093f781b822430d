package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/prr"
	fileStore "github.com/aretw0/prr/internal/adapters/file"
	"github.com/aretw0/prr/internal/config"
	"github.com/aretw0/prr/internal/logging"
	"github.com/aretw0/prr/internal/metrics"
	httpAdapter "github.com/aretw0/prr/pkg/adapters/http"
	"github.com/aretw0/prr/pkg/adapters/memory"
	redisStore "github.com/aretw0/prr/pkg/adapters/redis"
	"github.com/aretw0/prr/pkg/adapters/sqlite"
	"github.com/aretw0/prr/pkg/domain"
	"github.com/aretw0/prr/pkg/persistence/middleware"
	"github.com/aretw0/prr/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Default locations of the file and sqlite stores.
var (
	DefaultFileDir    = filepath.Join(".prr", "networks")
	DefaultSQLitePath = filepath.Join(".prr", "prr.db")
)

// Runtime is everything a command needs, built from the configuration.
type Runtime struct {
	Config   *config.Config
	Logger   *slog.Logger
	Engine   *prr.Engine
	Registry *prometheus.Registry
	Streams  *httpAdapter.StreamManager

	closers []io.Closer
}

// Options adjusts Build for one command.
type Options struct {
	// Debug forces debug logging regardless of the configured level.
	Debug bool

	// LogOutput receives log records. It defaults to stderr.
	LogOutput io.Writer
}

// Build opens the configured store and wires the engine with metrics, event streams and
// store middleware. Callers must Close the runtime.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	logger := createLogger(cfg, opts)

	rt := &Runtime{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
		Streams:  httpAdapter.NewStreamManager(logger),
	}

	store, locker, err := rt.openStore(ctx)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	store, err = wrapStore(cfg, store)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	rt.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(rt.Registry)

	engineOpts := []prr.Option{
		prr.WithStore(store),
		prr.WithLogger(logger),
		prr.WithTariffs(cfg.Tariffs),
		prr.WithTierPolicy(cfg.Tiers),
		prr.WithLifecycleHooks(m.Hooks()),
		prr.WithNetworkHooks(rt.Streams.Hooks),
	}
	if opts.Debug {
		engineOpts = append(engineOpts, prr.WithLifecycleHooks(createDebugHooks(logger)))
	}
	if locker != nil {
		engineOpts = append(engineOpts, prr.WithLocker(locker))
	}

	rt.Engine, err = prr.New(engineOpts...)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}

	logger.Debug("runtime ready", "store", cfg.Store.Driver, "encrypted", cfg.Encryption.Enabled())
	return rt, nil
}

// Close releases the store connections.
func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		errs = append(errs, rt.closers[i].Close())
	}
	rt.closers = nil
	return errors.Join(errs...)
}

func (rt *Runtime) openStore(ctx context.Context) (ports.SnapshotStore, ports.DistributedLocker, error) {
	cfg := rt.Config
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return memory.NewStore(), nil, nil

	case config.DriverFile:
		dir := cfg.Store.Path
		if dir == "" {
			dir = DefaultFileDir
		}
		return fileStore.New(dir), nil, nil

	case config.DriverSQLite:
		path := cfg.Store.Path
		if path == "" {
			path = DefaultSQLitePath
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, err
		}
		rt.closers = append(rt.closers, store)
		return store, nil, nil

	case config.DriverRedis:
		rc := cfg.Redis
		store := redisStore.New(rc.Addr, rc.Password, rc.DB,
			redisStore.WithPrefix(rc.Prefix),
			redisStore.WithTTL(rc.TTL),
		)
		rt.closers = append(rt.closers, store)
		if err := store.Client().Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", rc.Addr, err)
		}
		var locker ports.DistributedLocker
		if rc.Lock {
			locker = redisStore.NewLocker(store.Client(), rc.Prefix)
		}
		return store, locker, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// wrapStore applies the privacy and encryption middleware. Masking runs first so that
// encrypted envelopes never hold the original names.
func wrapStore(cfg *config.Config, store ports.SnapshotStore) (ports.SnapshotStore, error) {
	var mws []middleware.Middleware
	if len(cfg.Privacy.MaskClients) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(cfg.Privacy.MaskClients))
	}
	if cfg.Encryption.Enabled() {
		active, fallback, err := cfg.Encryption.Keys()
		if err != nil {
			return nil, err
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		}))
	}
	return middleware.Chain(store, mws...), nil
}

// createLogger configures the application logger.
// Logs go to stderr so that command output on stdout stays parseable.
func createLogger(cfg *config.Config, opts Options) *slog.Logger {
	w := opts.LogOutput
	if w == nil {
		w = os.Stderr
	}
	level := cfg.LogLevel()
	if opts.Debug {
		level = slog.LevelDebug
	}
	return logging.NewWithWriter(w, level, cfg.Log.Format)
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTerminalTransition: func(e *domain.TerminalEvent) {
			logger.Debug("Terminal Transition", "terminal", e.TerminalKey, "from", e.From, "to", e.To)
		},
		OnCommunicationStart: func(e *domain.CommunicationEvent) {
			logger.Debug("Communication Start", "id", e.ID, "kind", e.Kind, "source", e.Source, "destination", e.Destination)
		},
		OnCommunicationEnd: func(e *domain.CommunicationEvent) {
			logger.Debug("Communication End", "id", e.ID, "cost", e.Cost)
		},
		OnPayment: func(e *domain.PaymentEvent) {
			logger.Debug("Payment", "client", e.ClientKey, "comm_id", e.CommID, "amount", e.Amount)
		},
		OnTierChange: func(e *domain.TierEvent) {
			logger.Debug("Tier Change", "client", e.ClientKey, "from", e.From, "to", e.To)
		},
		OnNotification: func(e *domain.NotificationEvent) {
			logger.Debug("Notification", "client", e.ClientKey, "notification", e.Notification.String())
		},
	}
}
