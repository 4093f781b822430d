// Package config loads prr settings from defaults, an optional YAML file and PRR_* environment
// variables, in that order of precedence.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/prr/internal/logging"
	"github.com/aretw0/prr/pkg/domain"
	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PRR_"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config is the full application configuration.
type Config struct {
	Store      StoreConfig        `mapstructure:"store" yaml:"store" envPrefix:"STORE_"`
	Redis      RedisConfig        `mapstructure:"redis" yaml:"redis" envPrefix:"REDIS_"`
	HTTP       HTTPConfig         `mapstructure:"http" yaml:"http" envPrefix:"HTTP_"`
	Log        LogConfig          `mapstructure:"log" yaml:"log" envPrefix:"LOG_"`
	Encryption EncryptionConfig   `mapstructure:"encryption" yaml:"encryption" envPrefix:"ENCRYPTION_"`
	Privacy    PrivacyConfig      `mapstructure:"privacy" yaml:"privacy" envPrefix:"PRIVACY_"`
	Tariffs    domain.TariffTable `mapstructure:"tariffs" yaml:"tariffs"`
	Tiers      domain.TierPolicy  `mapstructure:"tiers" yaml:"tiers"`
}

// StoreConfig selects where networks are persisted.
type StoreConfig struct {
	// Driver is memory, file, sqlite or redis.
	Driver string `mapstructure:"driver" yaml:"driver" env:"DRIVER"`

	// Path is the directory of the file store or the database of the sqlite store.
	Path string `mapstructure:"path" yaml:"path" env:"PATH"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr" env:"ADDR"`
	Password string        `mapstructure:"password" yaml:"password" env:"PASSWORD"`
	DB       int           `mapstructure:"db" yaml:"db" env:"DB"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix" env:"PREFIX"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl" env:"TTL"`

	// Lock enables the distributed network lock, for several replicas sharing one Redis.
	Lock bool `mapstructure:"lock" yaml:"lock" env:"LOCK"`
}

type HTTPConfig struct {
	Addr    string `mapstructure:"addr" yaml:"addr" env:"ADDR"`
	Metrics bool   `mapstructure:"metrics" yaml:"metrics" env:"METRICS"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" env:"LEVEL"`
	Format string `mapstructure:"format" yaml:"format" env:"FORMAT"`
}

// EncryptionConfig holds hex-encoded AES-256 keys. An empty Key stores networks in the clear.
type EncryptionConfig struct {
	Key          string   `mapstructure:"key" yaml:"key" env:"KEY"`
	FallbackKeys []string `mapstructure:"fallback_keys" yaml:"fallback_keys" env:"FALLBACK_KEYS" envSeparator:","`
}

// PrivacyConfig lists client key patterns whose names and tax IDs are masked when saved.
type PrivacyConfig struct {
	MaskClients []string `mapstructure:"mask_clients" yaml:"mask_clients" env:"MASK_CLIENTS" envSeparator:","`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Store: StoreConfig{Driver: DriverFile},
		Redis: RedisConfig{Addr: "localhost:6379", Prefix: "prr:"},
		HTTP:  HTTPConfig{Addr: ":8080", Metrics: true},
		Log:   LogConfig{Level: "info", Format: "text"},

		Tariffs: domain.DefaultTariffTable(),
		Tiers:   domain.DefaultTierPolicy(),
	}
}

// Load builds the configuration. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return Decode(raw, c)
}

// Decode copies a generic map onto target, keeping target's values for missing keys.
// Money fields accept "2.50" style strings and whole numbers.
func Decode(raw map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			moneyHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

var moneyType = reflect.TypeOf(domain.Money(0))

func moneyHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != moneyType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return domain.ParseMoney(v)
	case int:
		return domain.Units(int64(v)), nil
	case int64:
		return domain.Units(v), nil
	case uint64:
		return domain.Units(int64(v)), nil
	case float64:
		return domain.ParseMoney(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return data, nil
	}
}

// Validate rejects settings the application cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case DriverMemory, DriverFile, DriverSQLite, DriverRedis:
	default:
		errs = append(errs, fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: must be text or json, got %q", c.Log.Format))
	}
	if _, _, err := c.Encryption.Keys(); err != nil {
		errs = append(errs, err)
	}
	for i, p := range c.Privacy.MaskClients {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("privacy.mask_clients[%d]: %w", i, err))
		}
	}
	if err := c.Tariffs.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Tiers.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tiers: %w", err))
	}

	return errors.Join(errs...)
}

// Enabled reports whether snapshots are encrypted.
func (e EncryptionConfig) Enabled() bool {
	return e.Key != ""
}

// Keys decodes the active and fallback keys. Each must be 32 bytes.
func (e EncryptionConfig) Keys() (active []byte, fallback [][]byte, err error) {
	if e.Key == "" {
		if len(e.FallbackKeys) > 0 {
			return nil, nil, errors.New("encryption.fallback_keys: set without encryption.key")
		}
		return nil, nil, nil
	}
	active, err = decodeKey("encryption.key", e.Key)
	if err != nil {
		return nil, nil, err
	}
	for i, k := range e.FallbackKeys {
		key, err := decodeKey(fmt.Sprintf("encryption.fallback_keys[%d]", i), k)
		if err != nil {
			return nil, nil, err
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(field, s string) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%s: not hex: %w", field, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%s: must be 32 bytes, got %d", field, len(key))
	}
	return key, nil
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Redis.Password != "" {
		out.Redis.Password = "***"
	}
	if out.Encryption.Key != "" {
		out.Encryption.Key = "***"
	}
	if len(out.Encryption.FallbackKeys) > 0 {
		out.Encryption.FallbackKeys = []string{"***"}
	}
	return &out
}

// LogLevel returns the parsed log level. Validate has already checked it.
func (c *Config) LogLevel() slog.Level {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}
