package network

import (
	"sort"

	"github.com/aretw0/prr/pkg/domain"
)

// Client is a subscriber. Keys are unique regardless of case.
type Client struct {
	key   string
	name  string
	taxID string

	tier          domain.Tier
	notifications bool

	payments domain.Money
	debts    domain.Money

	terminals []string
	inbox     []domain.Notification
}

func newClient(key, name, taxID string) *Client {
	return &Client{
		key:           key,
		name:          name,
		taxID:         taxID,
		tier:          domain.NewTier(domain.TierNormal),
		notifications: true,
	}
}

func (c *Client) Key() string                { return c.key }
func (c *Client) Name() string               { return c.name }
func (c *Client) TaxID() string              { return c.taxID }
func (c *Client) Tier() domain.TierKind      { return c.tier.Kind }
func (c *Client) TierState() domain.Tier     { return c.tier }
func (c *Client) NotificationsEnabled() bool { return c.notifications }
func (c *Client) Payments() domain.Money     { return c.payments }
func (c *Client) Debts() domain.Money        { return c.debts }
func (c *Client) Balance() domain.Money      { return c.payments - c.debts }
func (c *Client) HasDebts() bool             { return c.debts > 0 }

// Terminals returns the keys of the client's terminals in ascending order.
func (c *Client) Terminals() []string {
	return append([]string(nil), c.terminals...)
}

// PendingNotifications returns the number of queued notifications without consuming them.
func (c *Client) PendingNotifications() int {
	return len(c.inbox)
}

func (c *Client) addTerminal(key string) {
	c.terminals = append(c.terminals, key)
	sort.Strings(c.terminals)
}

func (c *Client) charge(cost domain.Money) {
	c.debts += cost
}

func (c *Client) pay(amount domain.Money) {
	c.payments += amount
	c.debts -= amount
}

func (c *Client) drain() []domain.Notification {
	out := c.inbox
	c.inbox = nil
	return out
}
