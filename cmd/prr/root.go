package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/prr/internal/cli"
	"github.com/aretw0/prr/internal/config"
	"github.com/aretw0/prr/internal/presentation/report"
	"github.com/aretw0/prr/pkg/network"
	"github.com/spf13/cobra"
)

// app carries the persistent flags and the runtime built from them.
type app struct {
	configPath string
	network    string
	store      string
	debug      bool

	cfg *config.Config
	rt  *cli.Runtime
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:           "prr",
		Short:         "prr manages a telecom billing network",
		Long:          `prr registers clients and terminals, bills text, voice and video communications by tariff tier, and notifies clients when unreachable terminals come back.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags (available to all commands)
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVarP(&a.network, "network", "n", "default", "Name of the network to operate on")
	root.PersistentFlags().StringVar(&a.store, "store", "", "Store override as driver[:path], e.g. sqlite:./prr.db")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		newImportCmd(a),
		newClientCmd(a),
		newTerminalCmd(a),
		newLookupCmd(a),
		newStoreCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root, a
}

// loadConfig reads the configuration and applies the --store override.
func (a *app) loadConfig() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if a.store != "" {
		driver, path, _ := strings.Cut(a.store, ":")
		cfg.Store.Driver = driver
		cfg.Store.Path = path
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	a.cfg = cfg
	return cfg, nil
}

// runtime builds the engine on first use. The caller of Execute closes it.
func (a *app) runtime(cmd *cobra.Command) (*cli.Runtime, error) {
	if a.rt != nil {
		return a.rt, nil
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	rt, err := cli.Build(cmd.Context(), cfg, cli.Options{Debug: a.debug, LogOutput: cmd.ErrOrStderr()})
	if err != nil {
		return nil, err
	}
	a.rt = rt
	return rt, nil
}

// close releases the runtime, if a command built one.
func (a *app) close() error {
	if a.rt == nil {
		return nil
	}
	err := a.rt.Close()
	a.rt = nil
	return err
}

// run executes fn on the selected network.
func (a *app) run(cmd *cobra.Command, fn func(*network.Network) error) error {
	rt, err := a.runtime(cmd)
	if err != nil {
		return err
	}
	return rt.Engine.Execute(cmd.Context(), a.network, fn)
}

func (a *app) printer(cmd *cobra.Command) *report.Printer {
	return report.NewPrinter(cmd.OutOrStdout())
}

// keyArgs wraps cobra.ExactArgs with a usage hint.
func keyArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("expected %s", usage)
		}
		return nil
	}
}
