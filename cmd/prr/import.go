package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Register clients, terminals and friendships from a file",
		Long: `Reads the pipe-delimited import format, one record per line:

  CLIENT|<key>|<name>|<tax id>
  BASIC|<terminal>|<client>|<ON|SILENCE|OFF>
  FANCY|<terminal>|<client>|<ON|SILENCE|OFF>
  FRIENDS|<terminal>|<terminal>,<terminal>

Import stops at the first invalid line; earlier lines stay registered.`,
		Args: keyArgs(1, "a file name, or - for stdin"),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			rt, err := a.runtime(cmd)
			if err != nil {
				return err
			}
			stats, err := rt.Engine.Import(cmd.Context(), a.network, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d clients, %d terminals, %d friendships into %q\n",
				stats.Clients, stats.Terminals, stats.Friendships, a.network)
			return nil
		},
	}
}
