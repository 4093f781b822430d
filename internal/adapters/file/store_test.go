package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/prr/internal/adapters/file"
	"github.com/aretw0/prr/pkg/network"
	"github.com/aretw0/prr/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.SnapshotStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "main", network.New().Snapshot()))
	require.NoError(t, store.Save(ctx, "main", network.New().Snapshot()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files are cleaned up")
	assert.Equal(t, "main.json", entries[0].Name())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, names)
}

func TestFileStore_RejectsEscapingNames(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"", "../x", `a\b`, ".hidden"} {
		err := store.Save(ctx, name, network.New().Snapshot())
		assert.ErrorIs(t, err, file.ErrInvalidName, name)
	}
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "missing"))
	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}
