package main

import (
	"fmt"

	"github.com/aretw0/prr/internal/presentation/report"
	"github.com/aretw0/prr/pkg/network"
	"github.com/spf13/cobra"
)

func newLookupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Query the network",
	}

	// query builds a read-only subcommand without arguments.
	query := func(use, short string, fn func(*cobra.Command, *network.Network)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.run(cmd, func(n *network.Network) error {
					fn(cmd, n)
					return nil
				})
			},
		}
	}

	// byClient builds a subcommand listing the communications of one client.
	byClient := func(use, short string, fn func(*network.Network, string) ([]*network.Communication, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <client>",
			Short: short,
			Args:  keyArgs(1, "<client>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.run(cmd, func(n *network.Network) error {
					comms, err := fn(n, args[0])
					if err != nil {
						return err
					}
					a.printer(cmd).Communications(comms)
					return nil
				})
			},
		}
	}

	balance := &cobra.Command{
		Use:   "balance <client>",
		Short: "Show the payments and debts of a client",
		Args:  keyArgs(1, "<client>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(n *network.Network) error {
				payments, debts, err := n.ClientBalance(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), report.Balance(payments, debts))
				return nil
			})
		},
	}

	cmd.AddCommand(
		query("comms", "List every communication", func(cmd *cobra.Command, n *network.Network) {
			a.printer(cmd).Communications(n.Communications())
		}),
		byClient("from", "List communications originated by a client", (*network.Network).CommunicationsFromClient),
		byClient("to", "List communications received by a client", (*network.Network).CommunicationsToClient),
		query("debts", "List clients with debts", func(cmd *cobra.Command, n *network.Network) {
			a.printer(cmd).Clients(n.ClientsWithDebts())
		}),
		query("nodebts", "List clients without debts", func(cmd *cobra.Command, n *network.Network) {
			a.printer(cmd).Clients(n.ClientsWithoutDebts())
		}),
		query("unused", "List terminals without communications", func(cmd *cobra.Command, n *network.Network) {
			a.printer(cmd).Terminals(n.UnusedTerminals())
		}),
		query("positive", "List terminals that paid more than they owe", func(cmd *cobra.Command, n *network.Network) {
			a.printer(cmd).Terminals(n.TerminalsWithPositiveBalance())
		}),
		query("totals", "Show the payments and debts of the whole network", func(cmd *cobra.Command, n *network.Network) {
			fmt.Fprintln(cmd.OutOrStdout(), report.Balance(n.TotalPayments(), n.TotalDebts()))
		}),
		balance,
		&cobra.Command{
			Use:   "report",
			Short: "Render a markdown summary of the network",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.run(cmd, func(n *network.Network) error {
					return a.printer(cmd).Markdown(report.Markdown("Network "+a.network, n))
				})
			},
		},
	)
	return cmd
}
