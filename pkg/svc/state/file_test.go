package state_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kagenti/kagenti-installer/pkg/svc/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallationStatePath_RejectsTraversal(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "../etc", "a/b", `a\b`, ".."} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := state.InstallationStatePath(name)

			require.ErrorIs(t, err, state.ErrInvalidInstallationName)
		})
	}
}

func TestInstallationStatePath_UnderHome(t *testing.T) {
	t.Parallel()

	path, err := state.InstallationStatePath("kagenti")

	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, "state.json", filepath.Base(path))
	assert.Equal(t, "kagenti", filepath.Base(filepath.Dir(path)))
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	store := state.NewFileStoreAt(filepath.Join(t.TempDir(), "state.json"))

	_, present, err := store.InstalledVersion(context.Background(), "cert-manager")
	require.NoError(t, err)
	assert.False(t, present)

	_, err = store.Records()
	require.ErrorIs(t, err, state.ErrStateNotFound)
}

func TestFileStore_RecordPersists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	writer := state.NewFileStoreAt(path)
	require.NoError(t, writer.RecordInstalled(ctx, "cert-manager", "v1.17.2"))
	require.NoError(t, writer.RecordInstalled(ctx, "operator", "0.2.0"))
	require.NoError(t, writer.RecordInstalled(ctx, "operator", "0.3.0"))

	reader := state.NewFileStoreAt(path)

	version, present, err := reader.InstalledVersion(ctx, "operator")
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, "0.3.0", version)

	records, err := reader.Records()
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.False(t, records["cert-manager"].InstalledAt.IsZero())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_CorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := state.NewFileStoreAt(path)

	_, _, err := store.InstalledVersion(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal installation state")

	err = store.RecordInstalled(context.Background(), "x", "1")
	require.Error(t, err)
}

func TestFileStore_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := state.NewFileStoreAt(filepath.Join(t.TempDir(), "state.json"))

	require.NoError(t, store.Delete())
	require.NoError(t, store.RecordInstalled(ctx, "a", "1"))
	require.NoError(t, store.Delete())

	_, present, err := store.InstalledVersion(ctx, "a")
	require.NoError(t, err)
	assert.False(t, present)
}

func TestFileStore_RemoveInstalled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := state.NewFileStoreAt(filepath.Join(t.TempDir(), "state.json"))

	require.NoError(t, store.RemoveInstalled(ctx, "operator"))
	require.NoError(t, store.RecordInstalled(ctx, "operator", "0.2.0"))
	require.NoError(t, store.RecordInstalled(ctx, "cert-manager", "v1.17.2"))
	require.NoError(t, store.RemoveInstalled(ctx, "operator"))
	require.NoError(t, store.RemoveInstalled(ctx, "unknown"))

	_, present, err := store.InstalledVersion(ctx, "operator")
	require.NoError(t, err)
	assert.False(t, present)

	_, present, err = store.InstalledVersion(ctx, "cert-manager")
	require.NoError(t, err)
	assert.True(t, present)
}
