package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/prr"
	"github.com/aretw0/prr/internal/presentation/tui"
	httpAdapter "github.com/aretw0/prr/pkg/adapters/http"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Exposes every network of the configured store through a JSON API, with server-sent events per network and Prometheus metrics.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.runtime(cmd)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = rt.Config.HTTP.Addr
			}

			opts := []httpAdapter.Option{
				httpAdapter.WithStreams(rt.Streams),
				httpAdapter.WithVersion(prr.Version),
				httpAdapter.WithLogger(rt.Logger),
			}
			if rt.Config.HTTP.Metrics {
				opts = append(opts, httpAdapter.WithGatherer(rt.Registry))
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           httpAdapter.NewHandler(rt.Engine, opts...),
				ReadHeaderTimeout: 10 * time.Second,
			}

			if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				tui.PrintBanner(f, prr.Version)
			}

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)
			go func() {
				rt.Logger.Info("server starting", "addr", srv.Addr, "store", rt.Config.Store.Driver)
				fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", srv.Addr)
				serverErrors <- srv.ListenAndServe()
			}()

			// Blocking main and waiting for shutdown.
			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server error: %w", err)

			case <-cmd.Context().Done():
				rt.Logger.Info("shutdown started")

				// Give outstanding requests a deadline for completion.
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				if err := srv.Shutdown(ctx); err != nil {
					rt.Logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
					if err := srv.Close(); err != nil {
						return fmt.Errorf("error killing server: %w", err)
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Server stopped gracefully")
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from config, :8080)")
	return cmd
}
