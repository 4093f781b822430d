package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/prr/pkg/domain"
	"github.com/aretw0/prr/pkg/network"
	"github.com/spf13/cobra"
)

func newTerminalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "terminal",
		Aliases: []string{"term"},
		Short:   "Register terminals and run communications",
	}

	// showTerminal prints the terminal after a command changed it.
	showTerminal := func(cmd *cobra.Command, n *network.Network, key string) error {
		t, err := n.Terminal(key)
		if err != nil {
			return err
		}
		a.printer(cmd).Terminals([]*network.Terminal{t})
		return nil
	}

	add := &cobra.Command{
		Use:   "add <BASIC|FANCY> <key> <client> <ON|SILENCE|OFF>",
		Short: "Register a terminal for a client",
		Args:  keyArgs(4, "<kind> <key> <client> <state>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(n *network.Network) error {
				if err := n.RegisterTerminal(args[0], args[1], args[2], args[3]); err != nil {
					return err
				}
				return showTerminal(cmd, n, args[1])
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <key>",
		Short: "Show a terminal and its communications",
		Args:  keyArgs(1, "<key>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(n *network.Network) error {
				t, err := n.Terminal(args[0])
				if err != nil {
					return err
				}
				comms := make([]*network.Communication, 0, len(t.Communications()))
				for _, id := range t.Communications() {
					c, err := n.Communication(id)
					if err != nil {
						return err
					}
					comms = append(comms, c)
				}
				p := a.printer(cmd)
				p.Terminals([]*network.Terminal{t})
				p.Communications(comms)
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(n *network.Network) error {
				a.printer(cmd).Terminals(n.Terminals())
				return nil
			})
		},
	}

	state := func(use, short string, apply func(*network.Network, string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <key>",
			Short: short,
			Args:  keyArgs(1, "<key>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.run(cmd, func(n *network.Network) error {
					if err := apply(n, args[0]); err != nil {
						return err
					}
					return showTerminal(cmd, n, args[0])
				})
			},
		}
	}

	friend := &cobra.Command{
		Use:   "friend <key> <friend>...",
		Short: "Add friends to a terminal",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(n *network.Network) error {
				if err := n.RegisterFriends(args[0], args[1:]...); err != nil {
					return err
				}
				return showTerminal(cmd, n, args[0])
			})
		},
	}

	unfriend := &cobra.Command{
		Use:   "unfriend <key> <friend>",
		Short: "Remove a friend from a terminal",
		Args:  keyArgs(2, "<key> <friend>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(n *network.Network) error {
				if err := n.RemoveFriend(args[0], args[1]); err != nil {
					return err
				}
				return showTerminal(cmd, n, args[0])
			})
		},
	}

	text := &cobra.Command{
		Use:   "text <from> <to> <message>...",
		Short: "Send a text message",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(n *network.Network) error {
				comm, err := n.SendText(args[0], args[1], strings.Join(args[2:], " "))
				if err != nil {
					return err
				}
				a.printer(cmd).Communications([]*network.Communication{comm})
				return nil
			})
		},
	}

	var video bool
	call := &cobra.Command{
		Use:   "call <from> <to>",
		Short: "Start a voice call, or a video call with --video",
		Args:  keyArgs(2, "<from> <to>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := domain.CommVoice
			if video {
				kind = domain.CommVideo
			}
			return a.run(cmd, func(n *network.Network) error {
				comm, err := n.StartInteractive(args[0], args[1], kind)
				if err != nil {
					return err
				}
				a.printer(cmd).Communications([]*network.Communication{comm})
				return nil
			})
		},
	}
	call.Flags().BoolVar(&video, "video", false, "Start a video call")

	end := &cobra.Command{
		Use:   "end <from> <duration>",
		Short: "End the call a terminal started",
		Args:  keyArgs(2, "<from> <duration>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			duration, err := strconv.Atoi(args[1])
			if err != nil {
				return domain.NewError(domain.CodeInvalidDuration, args[1])
			}
			return a.run(cmd, func(n *network.Network) error {
				cost, err := n.EndInteractive(args[0], duration)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\n", cost.Round())
				return nil
			})
		},
	}

	pay := &cobra.Command{
		Use:   "pay <key> <communication-id>",
		Short: "Pay a communication the terminal originated",
		Args:  keyArgs(2, "<key> <communication-id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[1])
			if err != nil {
				return domain.NewError(domain.CodeInvalidCommunicationKey, args[1])
			}
			return a.run(cmd, func(n *network.Network) error {
				if err := n.Pay(args[0], id); err != nil {
					return err
				}
				return showTerminal(cmd, n, args[0])
			})
		},
	}

	cmd.AddCommand(
		add, show, list,
		state("on", "Turn a terminal on", (*network.Network).TurnOn),
		state("off", "Turn a terminal off", (*network.Network).TurnOff),
		state("silence", "Put a terminal in silence", (*network.Network).Silence),
		friend, unfriend, text, call, end, pay,
	)
	return cmd
}
