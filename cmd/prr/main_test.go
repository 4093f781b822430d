package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/prr/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `CLIENT|A1|Ann|100
CLIENT|B1|Bob|200
FANCY|111111|A1|ON
BASIC|222222|B1|ON
FRIENDS|111111|222222
`

// runPrr runs the CLI against a store in dir and returns stdout.
func runPrr(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root, a := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--store", "file:" + dir}, args...))

	err := root.ExecuteContext(context.Background())
	require.NoError(t, a.close())
	return out.String(), err
}

func mustPrr(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runPrr(t, dir, args...)
	require.NoError(t, err, "prr %s", strings.Join(args, " "))
	return out
}

func importFixture(t *testing.T, dir string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "net.txt")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0644))
	out := mustPrr(t, dir, "import", path)
	assert.Equal(t, "Imported 2 clients, 2 terminals, 1 friendships into \"default\"\n", out)
}

func TestCLI_RegistryFlow(t *testing.T) {
	dir := t.TempDir()
	importFixture(t, dir)

	out := mustPrr(t, dir, "client", "list")
	assert.Equal(t, "CLIENT|A1|Ann|100|NORMAL|NO|1|0|0\nCLIENT|B1|Bob|200|NORMAL|NO|1|0|0\n", out)

	out = mustPrr(t, dir, "terminal", "show", "111111")
	assert.Equal(t, "FANCY|111111|A1|IDLE|0|0|222222\n", out)

	out = mustPrr(t, dir, "terminal", "text", "111111", "222222", "hello", "there")
	assert.Equal(t, "TEXT|1|111111|222222|11|10|FINISHED\n", out)

	out = mustPrr(t, dir, "terminal", "call", "111111", "222222")
	assert.Equal(t, "VOICE|2|111111|222222|0|0|ONGOING\n", out)

	out = mustPrr(t, dir, "terminal", "show", "222222")
	assert.Contains(t, out, "BASIC|222222|B1|BUSY")

	out = mustPrr(t, dir, "terminal", "end", "111111", "3")
	assert.Equal(t, "60\n", out)

	out = mustPrr(t, dir, "terminal", "pay", "111111", "2")
	assert.Equal(t, "FANCY|111111|A1|IDLE|60|10|222222\n", out)

	out = mustPrr(t, dir, "lookup", "debts")
	assert.Equal(t, "CLIENT|A1|Ann|100|NORMAL|NO|1|60|10\n", out)

	out = mustPrr(t, dir, "lookup", "nodebts")
	assert.Contains(t, out, "CLIENT|B1")

	out = mustPrr(t, dir, "lookup", "to", "B1")
	assert.Equal(t, 2, strings.Count(out, "\n"))

	out = mustPrr(t, dir, "lookup", "positive")
	assert.Equal(t, "FANCY|111111|A1|IDLE|60|10|222222\n", out)

	out = mustPrr(t, dir, "lookup", "totals")
	assert.Equal(t, "60|10\n", out)

	out = mustPrr(t, dir, "lookup", "report")
	assert.Contains(t, out, "# Network default")
	assert.Contains(t, out, "**A1** owes 10.00")
}

func TestCLI_Notifications(t *testing.T) {
	dir := t.TempDir()
	importFixture(t, dir)

	mustPrr(t, dir, "client", "enable", "A1")
	mustPrr(t, dir, "terminal", "off", "222222")

	_, err := runPrr(t, dir, "terminal", "text", "111111", "222222", "ping")
	require.Error(t, err)
	assert.Equal(t, domain.CodeDestinationOff, domain.CodeOf(err))

	mustPrr(t, dir, "terminal", "on", "222222")

	out := mustPrr(t, dir, "client", "notifications", "A1")
	assert.Equal(t, "O2I|222222\n", out)

	out = mustPrr(t, dir, "client", "notifications", "A1")
	assert.Empty(t, out)
}

func TestCLI_Errors(t *testing.T) {
	dir := t.TempDir()
	importFixture(t, dir)

	_, err := runPrr(t, dir, "terminal", "on", "111111")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	_, err = runPrr(t, dir, "client", "add", "a1", "Again", "1")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = runPrr(t, dir, "terminal", "end", "111111", "soon")
	assert.Equal(t, domain.CodeInvalidDuration, domain.CodeOf(err))

	_, err = runPrr(t, dir, "terminal", "call", "111111", "222222", "--video")
	assert.Equal(t, domain.CodeUnsupportedAtDestination, domain.CodeOf(err))

	_, err = runPrr(t, dir, "client", "show")
	assert.ErrorContains(t, err, "expected <key>")
}

func TestCLI_Store(t *testing.T) {
	dir := t.TempDir()

	out := mustPrr(t, dir, "store", "ls")
	assert.Equal(t, "No networks found.\n", out)

	importFixture(t, dir)
	mustPrr(t, dir, "store", "saveas", "backup")

	out = mustPrr(t, dir, "store", "ls")
	assert.Equal(t, "backup\ndefault\n", out)

	out = mustPrr(t, dir, "store", "inspect", "backup")
	assert.Contains(t, out, `"key": "A1"`)

	out = mustPrr(t, dir, "--network", "backup", "client", "show", "B1")
	assert.Contains(t, out, "CLIENT|B1|Bob|200")

	mustPrr(t, dir, "store", "rm", "default")
	out = mustPrr(t, dir, "store", "ls")
	assert.Equal(t, "backup\n", out)

	_, err := runPrr(t, dir, "store", "inspect", "default")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestCLI_SQLiteStore(t *testing.T) {
	db := filepath.Join(t.TempDir(), "prr.db")
	root, a := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader(fixture))
	root.SetArgs([]string{"--store", "sqlite:" + db, "import", "-"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	require.NoError(t, a.close())

	root, a = newRootCmd()
	out.Reset()
	root.SetOut(&out)
	root.SetArgs([]string{"--store", "sqlite:" + db, "lookup", "unused"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	require.NoError(t, a.close())
	assert.Equal(t, "FANCY|111111|A1|IDLE|0|0|222222\nBASIC|222222|B1|IDLE|0|0\n", out.String())
}

func TestCLI_VersionAndConfig(t *testing.T) {
	dir := t.TempDir()

	out := mustPrr(t, dir, "version")
	assert.True(t, strings.HasPrefix(out, "prr version "))

	t.Setenv("PRR_ENCRYPTION_KEY", strings.Repeat("ab", 32))
	out = mustPrr(t, dir, "config")
	assert.Contains(t, out, "driver: file")
	assert.Regexp(t, `key: ['"]\*\*\*['"]`, out)
	assert.NotContains(t, out, strings.Repeat("ab", 32))
}

func TestCLI_BadStoreOverride(t *testing.T) {
	root, a := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--store", "postgres:x", "client", "list"})
	err := root.ExecuteContext(context.Background())
	require.NoError(t, a.close())
	assert.ErrorContains(t, err, "store.driver")
}
