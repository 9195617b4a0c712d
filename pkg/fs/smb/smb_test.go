package smb_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiarlawd/fs-crawler/pkg/fs"
	"github.com/wiarlawd/fs-crawler/pkg/fs/smb"
)

type fakeClient struct {
	entries map[string]smb.Entry
	listing map[string][]string
	shareACL smb.RawACL
}

func (c *fakeClient) Connect(context.Context, string, string, fs.Credentials) error { return nil }
func (c *fakeClient) Stat(_ context.Context, path string) (smb.Entry, error) {
	e, ok := c.entries[path]
	if !ok {
		return smb.Entry{}, nil
	}
	return e, nil
}
func (c *fakeClient) List(_ context.Context, path string) ([]string, error) {
	return c.listing[path], nil
}
func (c *fakeClient) Open(context.Context, string) (io.ReadCloser, error) { return nil, nil }
func (c *fakeClient) ReadACL(context.Context, string) (smb.RawACL, error) {
	return smb.RawACL{AllowUsers: []string{"alice"}}, nil
}
func (c *fakeClient) ReadShareACL(context.Context, string, string) (smb.RawACL, error) {
	return c.shareACL, nil
}

func TestSmbTypeClaimsURLPrefix(t *testing.T) {
	typ := smb.Type{}
	assert.True(t, typ.IsPath("smb://host/share/f"))
	assert.True(t, typ.IsPath("SMB://host/share/f"))
	assert.False(t, typ.IsPath("/local/path"))
}

func TestGetFileAndListFiles(t *testing.T) {
	client := &fakeClient{
		entries: map[string]smb.Entry{
			"smb://h/s/f": {Exists: true, IsRegular: true, LastModified: time.Unix(100, 0), Length: 4},
		},
		listing: map[string][]string{"smb://h/s/": {"f"}},
		shareACL: smb.RawACL{AllowUsers: []string{"bob"}},
	}
	typ := smb.New(client)

	root, err := typ.GetFile(context.Background(), "smb://h/s/", fs.Credentials{})
	require.NoError(t, err)

	children, err := root.ListFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "smb://h/s/f", children[0].Path())

	isRegular, err := children[0].IsRegularFile()
	require.NoError(t, err)
	assert.True(t, isRegular)

	shareACL, err := root.ShareACL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bob", shareACL.AllowUsers[0].Name)
}

func TestGetFileRejectsMalformedURL(t *testing.T) {
	typ := smb.New(&fakeClient{})
	_, err := typ.GetFile(context.Background(), "smb://onlyhost", fs.Credentials{})
	require.Error(t, err)
}
