package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newStoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage persisted networks",
		Long:  `List, inspect, copy and remove the networks kept by the configured store.`,
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List stored networks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.runtime(cmd)
			if err != nil {
				return err
			}
			names, err := rt.Engine.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("error listing networks: %w", err)
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No networks found.")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	inspect := &cobra.Command{
		Use:   "inspect [name]",
		Short: "Print the snapshot of a network as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := a.network
			if len(args) == 1 {
				name = args[0]
			}
			rt, err := a.runtime(cmd)
			if err != nil {
				return err
			}
			snap, err := rt.Engine.Store().Load(cmd.Context(), name)
			if err != nil {
				return fmt.Errorf("error loading network '%s': %w", name, err)
			}
			data, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <name>...",
		Short: "Remove one or more networks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.runtime(cmd)
			if err != nil {
				return err
			}
			failed := 0
			for _, name := range args {
				if err := rt.Engine.Delete(cmd.Context(), name); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", name, err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed network '%s'\n", name)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d networks not removed", failed, len(args))
			}
			return nil
		},
	}

	saveAs := &cobra.Command{
		Use:   "saveas <name>",
		Short: "Copy the selected network under a new name",
		Args:  keyArgs(1, "<name>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.runtime(cmd)
			if err != nil {
				return err
			}
			if err := rt.Engine.SaveAs(cmd.Context(), a.network, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved '%s' as '%s'\n", a.network, args[0])
			return nil
		},
	}

	cmd.AddCommand(ls, inspect, rm, saveAs)
	return cmd
}
