package nfs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiarlawd/fs-crawler/pkg/fs"
	"github.com/wiarlawd/fs-crawler/pkg/fs/nfs"
)

func TestStaticMountManagerResolve(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644))

	typ := nfs.New(nfs.NewStaticMountManager(root))
	f, err := typ.GetFile(context.Background(), "nfs://fileserver/a.txt", fs.Credentials{})
	require.NoError(t, err)

	assert.Equal(t, "nfs://fileserver/a.txt", f.Path())
	assert.Equal(t, "nfs", f.FilesystemType())

	exists, err := f.Exists()
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGetFileWithoutMountManager(t *testing.T) {
	typ := nfs.New(nil)
	_, err := typ.GetFile(context.Background(), "nfs://fileserver/a.txt", fs.Credentials{})
	assert.Error(t, err)
}

func TestIsPathMatchesPrefix(t *testing.T) {
	typ := nfs.New(nil)
	assert.True(t, typ.IsPath("nfs://host/path"))
	assert.False(t, typ.IsPath("/local"))
}
