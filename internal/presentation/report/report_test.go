package report_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/prr/internal/presentation/report"
	"github.com/aretw0/prr/pkg/domain"
	"github.com/aretw0/prr/pkg/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleNetwork(t *testing.T) *network.Network {
	t.Helper()
	n := network.New()
	require.NoError(t, n.RegisterClient("A1", "Ann", "100"))
	require.NoError(t, n.RegisterClient("B1", "Bob", "200"))
	require.NoError(t, n.RegisterTerminal("FANCY", "111111", "A1", "ON"))
	require.NoError(t, n.RegisterTerminal("BASIC", "222222", "B1", "ON"))
	require.NoError(t, n.RegisterTerminal("BASIC", "333333", "B1", "OFF"))
	require.NoError(t, n.RegisterFriend("111111", "222222"))
	return n
}

func TestLineFormats(t *testing.T) {
	n := sampleNetwork(t)

	text, err := n.SendText("111111", "222222", "hi")
	require.NoError(t, err)
	call, err := n.StartInteractive("222222", "111111", domain.CommVoice)
	require.NoError(t, err)

	a1, err := n.Client("A1")
	require.NoError(t, err)
	assert.Equal(t, "CLIENT|A1|Ann|100|NORMAL|YES|1|0|10", report.Client(a1))

	t1, err := n.Terminal("111111")
	require.NoError(t, err)
	assert.Equal(t, "FANCY|111111|A1|BUSY|0|10|222222", report.Terminal(t1))

	t3, err := n.Terminal("333333")
	require.NoError(t, err)
	assert.Equal(t, "BASIC|333333|B1|OFF|0|0", report.Terminal(t3))

	assert.Equal(t, "TEXT|1|111111|222222|2|10|FINISHED", report.Communication(text))
	assert.Equal(t, "VOICE|2|222222|111111|0|0|ONGOING", report.Communication(call))

	assert.Equal(t, "O2I|333333", report.Notification(domain.Notification{Kind: domain.OffToIdle, TerminalKey: "333333"}))
	assert.Equal(t, "13|2", report.Balance(domain.Money(1250), domain.Money(249)))
}

func TestMarkdown(t *testing.T) {
	n := sampleNetwork(t)
	_, err := n.SendText("111111", "222222", "hi")
	require.NoError(t, err)

	md := report.Markdown("main", n)
	assert.Contains(t, md, "# main")
	assert.Contains(t, md, "| 2 | 3 | 1 | 0.00 | 10.00 |")
	assert.Contains(t, md, "| A1 | Ann | NORMAL | 1 | 0.00 | 10.00 |")
	assert.Contains(t, md, "1. **A1** owes 10.00")
	assert.Contains(t, md, "Unused terminals: `333333`")
	assert.NotContains(t, md, "`111111`")

	empty := report.Markdown("empty", network.New())
	assert.Contains(t, empty, "_No clients registered._")
	assert.NotContains(t, empty, "## Debts")
}

func TestPrinter_PlainOutput(t *testing.T) {
	n := sampleNetwork(t)
	var buf bytes.Buffer

	p := report.NewPrinter(&buf)
	assert.False(t, p.Rich(), "a buffer is not a terminal")

	p.Clients(n.Clients())
	p.Terminals(n.Terminals())
	p.Message("%d communications", 0)

	assert.Equal(t,
		"CLIENT|A1|Ann|100|NORMAL|YES|1|0|0\n"+
			"CLIENT|B1|Bob|200|NORMAL|YES|2|0|0\n"+
			"FANCY|111111|A1|IDLE|0|0|222222\n"+
			"BASIC|222222|B1|IDLE|0|0\n"+
			"BASIC|333333|B1|OFF|0|0\n"+
			"0 communications\n",
		buf.String())

	buf.Reset()
	require.NoError(t, report.NewPlainPrinter(&buf).Markdown("# title\n"))
	assert.Equal(t, "# title\n", buf.String())
}
