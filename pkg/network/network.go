package network

import (
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/prr/pkg/domain"
)

// Network is the registry of clients, terminals and communications.
type Network struct {
	clients   map[string]*Client
	terminals map[string]*Terminal
	comms     []*Communication

	// lastID is the single communication counter. Ids are never reused.
	lastID int

	tariffs domain.TariffTable
	policy  domain.TierPolicy
	hooks   domain.LifecycleHooks
	logger  *slog.Logger

	dirty bool
}

// Option configures a Network.
type Option func(*Network)

// WithTariffs replaces the default tariff table.
func WithTariffs(t domain.TariffTable) Option {
	return func(n *Network) {
		n.tariffs = t
	}
}

// WithTierPolicy replaces the default promotion and demotion thresholds.
func WithTierPolicy(p domain.TierPolicy) Option {
	return func(n *Network) {
		n.policy = p
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(n *Network) {
		n.hooks = n.hooks.Merge(hooks)
	}
}

// WithLogger sets a structured logger. Registry operations log at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Network) {
		n.logger = logger
	}
}

// New returns an empty network.
func New(opts ...Option) *Network {
	n := &Network{
		clients:   make(map[string]*Client),
		terminals: make(map[string]*Terminal),
		tariffs:   domain.DefaultTariffTable(),
		policy:    domain.DefaultTierPolicy(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return n
}

// Dirty reports whether the network changed since it was created, restored or marked clean.
func (n *Network) Dirty() bool {
	return n.dirty
}

// MarkClean clears the dirty flag. Persistence calls it after a successful write.
func (n *Network) MarkClean() {
	n.dirty = false
}

func (n *Network) touch() {
	n.dirty = true
}

// Tariffs returns the tariff table in use.
func (n *Network) Tariffs() domain.TariffTable {
	return n.tariffs
}

// TierPolicy returns the tier thresholds in use.
func (n *Network) TierPolicy() domain.TierPolicy {
	return n.policy
}

// Client returns the client registered under key, compared without case.
func (n *Network) Client(key string) (*Client, error) {
	c, ok := n.clients[clientIndex(key)]
	if !ok {
		return nil, domain.NewError(domain.CodeUnknownClientKey, key)
	}
	return c, nil
}

// Terminal returns the terminal registered under key.
func (n *Network) Terminal(key string) (*Terminal, error) {
	t, ok := n.terminals[key]
	if !ok {
		return nil, domain.NewError(domain.CodeUnknownTerminalKey, key)
	}
	return t, nil
}

// Communication returns the communication with the given id.
func (n *Network) Communication(id int) (*Communication, error) {
	if id < 1 || id > len(n.comms) {
		return nil, domain.NewError(domain.CodeInvalidCommunicationKey, strconv.Itoa(id))
	}
	return n.comms[id-1], nil
}

func (n *Network) owner(t *Terminal) *Client {
	return n.clients[clientIndex(t.owner)]
}

func (n *Network) sortedClients(keep func(*Client) bool) []*Client {
	out := make([]*Client, 0, len(n.clients))
	for _, c := range n.clients {
		if keep == nil || keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return clientIndex(out[i].key) < clientIndex(out[j].key)
	})
	return out
}

func (n *Network) sortedTerminals(keep func(*Terminal) bool) []*Terminal {
	out := make([]*Terminal, 0, len(n.terminals))
	for _, t := range n.terminals {
		if keep == nil || keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].key < out[j].key
	})
	return out
}

func clientIndex(key string) string {
	return strings.ToLower(key)
}
