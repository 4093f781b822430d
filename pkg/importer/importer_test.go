package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/prr/pkg/domain"
	"github.com/aretw0/prr/pkg/importer"
	"github.com/aretw0/prr/pkg/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# clients
CLIENT|A1|Ann|100
CLIENT|B1|Bob|200

BASIC|111111|A1|ON
FANCY|222222|B1|OFF
FANCY|333333|B1|SILENCE
FRIENDS|111111|222222,333333
`

func TestImport(t *testing.T) {
	n := network.New()
	st, err := importer.Import(context.Background(), strings.NewReader(sample), n)
	require.NoError(t, err)
	assert.Equal(t, importer.Stats{Lines: 6, Clients: 2, Terminals: 3, Friendships: 2}, st)

	assert.Len(t, n.Clients(), 2)
	term, err := n.Terminal("333333")
	require.NoError(t, err)
	assert.Equal(t, domain.Silent{}, term.State())

	term, _ = n.Terminal("111111")
	assert.Equal(t, []string{"222222", "333333"}, term.Friends())
	assert.True(t, n.Dirty())
}

func TestImportStopsAtFirstBadLine(t *testing.T) {
	input := "CLIENT|A1|Ann|100\nBASIC|12|A1|ON\nCLIENT|B1|Bob|200\n"
	n := network.New()

	st, err := importer.Import(context.Background(), strings.NewReader(input), n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	assert.Equal(t, 1, st.Clients)

	_, err = n.Client("B1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImportUnknownTag(t *testing.T) {
	_, err := importer.Import(context.Background(), strings.NewReader("PHONE|1|2\n"), network.New())
	assert.ErrorIs(t, err, domain.ErrUnrecognizedEntry)
}

func TestImportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := importer.Import(ctx, strings.NewReader(sample), network.New())
	assert.ErrorIs(t, err, context.Canceled)
}
