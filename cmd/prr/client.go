package main

import (
	"github.com/aretw0/prr/pkg/network"
	"github.com/spf13/cobra"
)

func newClientCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Register and inspect clients",
	}

	add := &cobra.Command{
		Use:   "add <key> <name> <tax-id>",
		Short: "Register a client",
		Args:  keyArgs(3, "<key> <name> <tax-id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(n *network.Network) error {
				if err := n.RegisterClient(args[0], args[1], args[2]); err != nil {
					return err
				}
				c, err := n.Client(args[0])
				if err != nil {
					return err
				}
				a.printer(cmd).Clients([]*network.Client{c})
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <key>",
		Short: "Show a client and its terminals",
		Args:  keyArgs(1, "<key>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(n *network.Network) error {
				c, err := n.Client(args[0])
				if err != nil {
					return err
				}
				p := a.printer(cmd)
				p.Clients([]*network.Client{c})
				terms := make([]*network.Terminal, 0, len(c.Terminals()))
				for _, key := range c.Terminals() {
					t, err := n.Terminal(key)
					if err != nil {
						return err
					}
					terms = append(terms, t)
				}
				p.Terminals(terms)
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(n *network.Network) error {
				a.printer(cmd).Clients(n.Clients())
				return nil
			})
		},
	}

	notifications := &cobra.Command{
		Use:   "notifications <key>",
		Short: "Deliver and clear the pending notifications of a client",
		Args:  keyArgs(1, "<key>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(n *network.Network) error {
				notes, err := n.Notifications(args[0])
				if err != nil {
					return err
				}
				a.printer(cmd).Notifications(notes)
				return nil
			})
		},
	}

	enable := &cobra.Command{
		Use:   "enable <key>",
		Short: "Opt a client into failed-contact notifications",
		Args:  keyArgs(1, "<key>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(n *network.Network) error {
				return n.EnableNotifications(args[0])
			})
		},
	}

	disable := &cobra.Command{
		Use:   "disable <key>",
		Short: "Opt a client out of failed-contact notifications",
		Args:  keyArgs(1, "<key>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(n *network.Network) error {
				return n.DisableNotifications(args[0])
			})
		},
	}

	cmd.AddCommand(add, show, list, notifications, enable, disable)
	return cmd
}
