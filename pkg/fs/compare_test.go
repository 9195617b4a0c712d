package fs_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wiarlawd/fs-crawler/pkg/acl"
	"github.com/wiarlawd/fs-crawler/pkg/fs"
)

type stubFile struct {
	name  string
	isDir bool
}

func (s stubFile) FilesystemType() string { return "stub" }
func (s stubFile) Path() string           { return s.name }
func (s stubFile) Name() string           { return s.name }
func (s stubFile) ParentPath() string     { return "" }
func (s stubFile) Exists() (bool, error)        { return true, nil }
func (s stubFile) IsDirectory() (bool, error)   { return s.isDir, nil }
func (s stubFile) IsRegularFile() (bool, error) { return !s.isDir, nil }
func (s stubFile) CanRead() (bool, error)       { return true, nil }
func (s stubFile) IsHidden() (bool, error)      { return false, nil }
func (s stubFile) LastModified() (time.Time, error) { return time.Time{}, nil }
func (s stubFile) Length() (int64, error)           { return 0, nil }
func (s stubFile) ListFiles(ctx context.Context) ([]fs.File, error) { return nil, nil }
func (s stubFile) DisplayURL() (string, error)                     { return s.name, nil }
func (s stubFile) Content(ctx context.Context) (io.ReadCloser, error) { return nil, nil }
func (s stubFile) FileACL(ctx context.Context) (acl.ACL, error)            { return acl.Indeterminate, nil }
func (s stubFile) InheritedACL(ctx context.Context) (acl.ACL, error)       { return acl.Indeterminate, nil }
func (s stubFile) ContainerInheritACL(ctx context.Context) (acl.ACL, error) { return acl.Indeterminate, nil }
func (s stubFile) FileInheritACL(ctx context.Context) (acl.ACL, error)     { return acl.Indeterminate, nil }
func (s stubFile) ShareACL(ctx context.Context) (acl.ACL, error)           { return acl.Indeterminate, nil }

func TestSortChildrenAdjustedComparator(t *testing.T) {
	children := []fs.File{
		stubFile{name: "foo.bar", isDir: false},
		stubFile{name: "abc", isDir: false},
		stubFile{name: "foo", isDir: true},
	}
	fs.SortChildren(children)

	var names []string
	for _, c := range children {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"abc", "foo", "foo.bar"}, names)
}
