// Package report renders network entities as pipe-delimited lines and as a markdown summary.
package report

import (
	"fmt"
	"strings"

	"github.com/aretw0/prr/pkg/domain"
	"github.com/aretw0/prr/pkg/network"
)

// Client formats CLIENT|key|name|taxID|tier|YES/NO|#terminals|payments|debts.
// Amounts are rounded to whole units.
func Client(c *network.Client) string {
	notifications := "NO"
	if c.NotificationsEnabled() {
		notifications = "YES"
	}
	return fmt.Sprintf("CLIENT|%s|%s|%s|%s|%s|%d|%d|%d",
		c.Key(), c.Name(), c.TaxID(), c.Tier(), notifications,
		len(c.Terminals()), c.Payments().Round(), c.Debts().Round())
}

// Terminal formats KIND|key|client|state|payments|debts, followed by |friend,friend when
// the terminal has friends.
func Terminal(t *network.Terminal) string {
	line := fmt.Sprintf("%s|%s|%s|%s|%d|%d",
		t.Kind(), t.Key(), t.Owner(), t.State().Name(), t.Payments().Round(), t.Debts().Round())
	if friends := t.Friends(); len(friends) > 0 {
		line += "|" + strings.Join(friends, ",")
	}
	return line
}

// Communication formats KIND|id|source|destination|size|cost|ONGOING/FINISHED, where size is
// the message length of texts and the duration of calls.
func Communication(c *network.Communication) string {
	status := "FINISHED"
	if c.InProgress() {
		status = "ONGOING"
	}
	return fmt.Sprintf("%s|%d|%s|%s|%d|%d|%s",
		c.Kind(), c.ID(), c.Source(), c.Destination(), c.Size(), c.Cost().Round(), status)
}

// Notification formats KIND|terminal, e.g. O2I|222222.
func Notification(n domain.Notification) string {
	return n.String()
}

// Balance formats the payments and debts pair shown by balance lookups.
func Balance(payments, debts domain.Money) string {
	return fmt.Sprintf("%d|%d", payments.Round(), debts.Round())
}
