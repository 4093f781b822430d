/*
Package prr is a billing network for telecom subscribers: clients own terminals, terminals
exchange text messages and voice or video calls, and every communication is priced by the
tariff tier of the client that originated it.

# Concept

A network is a registry of clients, terminals and communications. Terminals move between the
IDLE, SILENCE, BUSY and OFF states; clients move between the NORMAL, GOLD and PLATINUM tiers
as they pay and communicate. Networks are persisted by name through a pluggable snapshot store
(memory, files, SQLite or Redis), and every operation runs under a per-network lock.

# Usage

	eng, err := prr.New(prr.WithStore(memory.NewStore()))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	err = eng.Execute(ctx, "default", func(n *network.Network) error {
		if err := n.RegisterClient("A1", "Ann", "100"); err != nil {
			return err
		}
		if err := n.RegisterTerminal("FANCY", "111111", "A1", "ON"); err != nil {
			return err
		}
		if err := n.RegisterTerminal("BASIC", "222222", "A1", "ON"); err != nil {
			return err
		}
		_, err := n.SendText("111111", "222222", "hello")
		return err
	})

The network is written back to the store only when the function changed it.
*/
package prr
