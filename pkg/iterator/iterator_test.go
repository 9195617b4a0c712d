package iterator_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiarlawd/fs-crawler/pkg/acl"
	"github.com/wiarlawd/fs-crawler/pkg/errtypes"
	"github.com/wiarlawd/fs-crawler/pkg/fs"
	"github.com/wiarlawd/fs-crawler/pkg/iterator"
)

// fakeFile is a minimal in-memory fs.File for exercising the iterator
// without touching a real filesystem.
type fakeFile struct {
	path         string
	isDir        bool
	hidden       bool
	lastModified time.Time
	children     []fs.File
	listErr      error
}

func (f *fakeFile) FilesystemType() string { return "fake" }
func (f *fakeFile) Path() string           { return f.path }
func (f *fakeFile) Name() string           { return f.path }
func (f *fakeFile) ParentPath() string     { return "" }
func (f *fakeFile) Exists() (bool, error)        { return true, nil }
func (f *fakeFile) IsDirectory() (bool, error)   { return f.isDir, nil }
func (f *fakeFile) IsRegularFile() (bool, error) { return !f.isDir, nil }
func (f *fakeFile) CanRead() (bool, error)       { return true, nil }
func (f *fakeFile) IsHidden() (bool, error)      { return f.hidden, nil }
func (f *fakeFile) LastModified() (time.Time, error) { return f.lastModified, nil }
func (f *fakeFile) Length() (int64, error)           { return 0, nil }
func (f *fakeFile) ListFiles(context.Context) ([]fs.File, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.children, nil
}
func (f *fakeFile) DisplayURL() (string, error)                     { return f.path, nil }
func (f *fakeFile) Content(context.Context) (io.ReadCloser, error)  { return nil, nil }
func (f *fakeFile) FileACL(context.Context) (acl.ACL, error)            { return acl.Indeterminate, nil }
func (f *fakeFile) InheritedACL(context.Context) (acl.ACL, error)       { return acl.Indeterminate, nil }
func (f *fakeFile) ContainerInheritACL(context.Context) (acl.ACL, error) { return acl.Indeterminate, nil }
func (f *fakeFile) FileInheritACL(context.Context) (acl.ACL, error)     { return acl.Indeterminate, nil }
func (f *fakeFile) ShareACL(context.Context) (acl.ACL, error)           { return acl.Indeterminate, nil }

func TestDepthFirstOrder(t *testing.T) {
	x := &fakeFile{path: "/root/foo/x"}
	fooDir := &fakeFile{path: "/root/foo", isDir: true, children: []fs.File{x}}
	abc := &fakeFile{path: "/root/abc"}
	fooBar := &fakeFile{path: "/root/foo.bar"}
	root := &fakeFile{path: "/root", isDir: true, children: []fs.File{abc, fooDir, fooBar}}

	it, err := iterator.New(context.Background(), root, iterator.Options{})
	require.NoError(t, err)

	var got []string
	for {
		f, err := it.Next(context.Background())
		if err == iterator.ErrDone {
			break
		}
		require.NoError(t, err)
		got = append(got, f.Path())
	}
	assert.Equal(t, []string{"/root/abc", "/root/foo/x", "/root/foo.bar"}, got)
}

func TestPushBackIdempotence(t *testing.T) {
	a := &fakeFile{path: "/root/a"}
	root := &fakeFile{path: "/root", isDir: true, children: []fs.File{a}}

	it, err := iterator.New(context.Background(), root, iterator.Options{})
	require.NoError(t, err)

	f, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/root/a", f.Path())

	it.PushBack(f)
	again, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, f, again)
}

func TestHiddenFileSkipped(t *testing.T) {
	hidden := &fakeFile{path: "/root/.secret", hidden: true}
	visible := &fakeFile{path: "/root/visible"}
	root := &fakeFile{path: "/root", isDir: true, children: []fs.File{hidden, visible}}

	it, err := iterator.New(context.Background(), root, iterator.Options{})
	require.NoError(t, err)

	f, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/root/visible", f.Path())

	_, err = it.Next(context.Background())
	assert.Equal(t, iterator.ErrDone, err)
}

func TestDirectoryListingErrorSkipsSubtreeNotSiblings(t *testing.T) {
	broken := &fakeFile{path: "/root/private", isDir: true, listErr: errtypes.DirectoryListing("denied")}
	ok := &fakeFile{path: "/root/public"}
	root := &fakeFile{path: "/root", isDir: true, children: []fs.File{broken, ok}}

	it, err := iterator.New(context.Background(), root, iterator.Options{})
	require.NoError(t, err)

	f, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/root/public", f.Path())
}

func TestTransientErrorBubblesOut(t *testing.T) {
	broken := &fakeFile{path: "/root/flaky", isDir: true, listErr: errtypes.Repository("server down")}
	root := &fakeFile{path: "/root", isDir: true, children: []fs.File{broken}}

	it, err := iterator.New(context.Background(), root, iterator.Options{})
	require.NoError(t, err)

	_, err = it.Next(context.Background())
	require.Error(t, err)
	assert.True(t, errtypes.IsRepositoryError(err))
}

func TestIncrementalCutoffSkipsOlderFiles(t *testing.T) {
	cutoff := time.Unix(1000, 0)
	old := &fakeFile{path: "/root/old", lastModified: time.Unix(500, 0)}
	fresh := &fakeFile{path: "/root/fresh", lastModified: time.Unix(1500, 0)}
	root := &fakeFile{path: "/root", isDir: true, children: []fs.File{old, fresh}}

	it, err := iterator.New(context.Background(), root, iterator.Options{IfModifiedSince: cutoff})
	require.NoError(t, err)

	f, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/root/fresh", f.Path())

	_, err = it.Next(context.Background())
	assert.Equal(t, iterator.ErrDone, err)
}

func TestDirectoriesReturnedMode(t *testing.T) {
	x := &fakeFile{path: "/root/foo/x"}
	fooDir := &fakeFile{path: "/root/foo", isDir: true, children: []fs.File{x}}
	root := &fakeFile{path: "/root", isDir: true, children: []fs.File{fooDir}}

	it, err := iterator.New(context.Background(), root, iterator.Options{DirectoriesReturned: true})
	require.NoError(t, err)

	var got []string
	for {
		f, err := it.Next(context.Background())
		if err == iterator.ErrDone {
			break
		}
		require.NoError(t, err)
		got = append(got, f.Path())
	}
	assert.Equal(t, []string{"/root/foo", "/root/foo/x"}, got)
}
