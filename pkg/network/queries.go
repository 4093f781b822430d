package network

import (
	"sort"

	"github.com/aretw0/prr/pkg/domain"
)

// Clients returns every client ordered by key, ignoring case.
func (n *Network) Clients() []*Client {
	return n.sortedClients(nil)
}

// Terminals returns every terminal ordered by key.
func (n *Network) Terminals() []*Terminal {
	return n.sortedTerminals(nil)
}

// Communications returns every communication ordered by id.
func (n *Network) Communications() []*Communication {
	return append([]*Communication(nil), n.comms...)
}

// CommunicationsFromClient returns the communications started by any terminal of the client,
// ordered by id.
func (n *Network) CommunicationsFromClient(clientKey string) ([]*Communication, error) {
	return n.clientComms(clientKey, func(c *Communication) string { return c.source })
}

// CommunicationsToClient returns the communications received by any terminal of the client,
// ordered by id.
func (n *Network) CommunicationsToClient(clientKey string) ([]*Communication, error) {
	return n.clientComms(clientKey, func(c *Communication) string { return c.destination })
}

func (n *Network) clientComms(clientKey string, side func(*Communication) string) ([]*Communication, error) {
	c, err := n.Client(clientKey)
	if err != nil {
		return nil, err
	}
	var out []*Communication
	for _, comm := range n.comms {
		if t, ok := n.terminals[side(comm)]; ok && t.owner == c.key {
			out = append(out, comm)
		}
	}
	return out, nil
}

// ClientsWithDebts returns clients with a positive debt, largest debt first and then by key.
func (n *Network) ClientsWithDebts() []*Client {
	out := n.sortedClients(func(c *Client) bool { return c.HasDebts() })
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].debts > out[j].debts
	})
	return out
}

// ClientsWithoutDebts returns clients whose debt is zero or negative, ordered by key.
func (n *Network) ClientsWithoutDebts() []*Client {
	return n.sortedClients(func(c *Client) bool { return !c.HasDebts() })
}

// UnusedTerminals returns terminals that never originated nor received a communication.
func (n *Network) UnusedTerminals() []*Terminal {
	return n.sortedTerminals(func(t *Terminal) bool { return t.Unused() })
}

// TerminalsWithPositiveBalance returns terminals whose payments exceed their debts.
func (n *Network) TerminalsWithPositiveBalance() []*Terminal {
	return n.sortedTerminals(func(t *Terminal) bool { return t.PositiveBalance() })
}

// TotalPayments sums the payments of every client.
func (n *Network) TotalPayments() domain.Money {
	var sum domain.Money
	for _, c := range n.clients {
		sum += c.payments
	}
	return sum
}

// TotalDebts sums the debts of every client.
func (n *Network) TotalDebts() domain.Money {
	var sum domain.Money
	for _, c := range n.clients {
		sum += c.debts
	}
	return sum
}

// ClientBalance returns the payments and debts of one client.
func (n *Network) ClientBalance(clientKey string) (payments, debts domain.Money, err error) {
	c, err := n.Client(clientKey)
	if err != nil {
		return 0, 0, err
	}
	return c.payments, c.debts, nil
}
