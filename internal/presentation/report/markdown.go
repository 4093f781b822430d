package report

import (
	"fmt"
	"strings"

	"github.com/aretw0/prr/pkg/network"
)

// Markdown summarizes a network: totals, then every client and the clients in debt.
func Markdown(title string, n *network.Network) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "| Clients | Terminals | Communications | Payments | Debts |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %s | %s |\n\n",
		len(n.Clients()), len(n.Terminals()), len(n.Communications()),
		n.TotalPayments(), n.TotalDebts())

	b.WriteString("## Clients\n\n")
	clients := n.Clients()
	if len(clients) == 0 {
		b.WriteString("_No clients registered._\n\n")
	} else {
		b.WriteString("| Key | Name | Tier | Terminals | Payments | Debts |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, c := range clients {
			fmt.Fprintf(&b, "| %s | %s | %s | %d | %s | %s |\n",
				c.Key(), escape(c.Name()), c.Tier(), len(c.Terminals()), c.Payments(), c.Debts())
		}
		b.WriteString("\n")
	}

	if debtors := n.ClientsWithDebts(); len(debtors) > 0 {
		b.WriteString("## Debts\n\n")
		for i, c := range debtors {
			fmt.Fprintf(&b, "%d. **%s** owes %s\n", i+1, c.Key(), c.Debts())
		}
		b.WriteString("\n")
	}

	if unused := n.UnusedTerminals(); len(unused) > 0 {
		keys := make([]string, len(unused))
		for i, t := range unused {
			keys[i] = "`" + t.Key() + "`"
		}
		fmt.Fprintf(&b, "Unused terminals: %s\n", strings.Join(keys, ", "))
	}

	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
