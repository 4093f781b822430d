package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/prr"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of prr",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "prr version %s\n", strings.TrimSpace(prr.Version))
		},
	}
}
