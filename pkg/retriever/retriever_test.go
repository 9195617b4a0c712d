package retriever_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiarlawd/fs-crawler/pkg/acl"
	"github.com/wiarlawd/fs-crawler/pkg/document"
	"github.com/wiarlawd/fs-crawler/pkg/errtypes"
	"github.com/wiarlawd/fs-crawler/pkg/fs"
	"github.com/wiarlawd/fs-crawler/pkg/retriever"
)

type fakeFile struct {
	path         string
	parent       string
	isDir        bool
	exists       bool
	canRead      bool
	length       int64
	statErr      error
	lastModified time.Time
}

func (f *fakeFile) FilesystemType() string { return "fake" }
func (f *fakeFile) Path() string           { return f.path }
func (f *fakeFile) Name() string           { return f.path }
func (f *fakeFile) ParentPath() string     { return f.parent }
func (f *fakeFile) Exists() (bool, error) {
	if f.statErr != nil {
		return false, f.statErr
	}
	return f.exists, nil
}
func (f *fakeFile) IsDirectory() (bool, error)   { return f.isDir, nil }
func (f *fakeFile) IsRegularFile() (bool, error) { return !f.isDir, nil }
func (f *fakeFile) CanRead() (bool, error) {
	if f.statErr != nil {
		return false, f.statErr
	}
	return f.canRead, nil
}
func (f *fakeFile) IsHidden() (bool, error)          { return false, nil }
func (f *fakeFile) LastModified() (time.Time, error) { return f.lastModified, nil }
func (f *fakeFile) Length() (int64, error) {
	if f.statErr != nil {
		return 0, f.statErr
	}
	return f.length, nil
}
func (f *fakeFile) ListFiles(context.Context) ([]fs.File, error) { return nil, nil }
func (f *fakeFile) DisplayURL() (string, error)                  { return f.path, nil }
func (f *fakeFile) Content(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(nil), nil
}
func (f *fakeFile) FileACL(context.Context) (acl.ACL, error)             { return acl.Indeterminate, nil }
func (f *fakeFile) InheritedACL(context.Context) (acl.ACL, error)        { return acl.Indeterminate, nil }
func (f *fakeFile) ContainerInheritACL(context.Context) (acl.ACL, error) { return acl.Indeterminate, nil }
func (f *fakeFile) FileInheritACL(context.Context) (acl.ACL, error)      { return acl.Indeterminate, nil }
func (f *fakeFile) ShareACL(context.Context) (acl.ACL, error)            { return acl.Indeterminate, nil }

type fakeType struct {
	files  map[string]*fakeFile
	prefix string
}

func (t *fakeType) Name() string        { return "fake" }
func (t *fakeType) IsPath(p string) bool { return len(p) >= len(t.prefix) && p[:len(t.prefix)] == t.prefix }
func (t *fakeType) GetFile(ctx context.Context, path string, creds fs.Credentials) (fs.File, error) {
	if f, ok := t.files[path]; ok {
		return f, nil
	}
	if t.IsPath(path) {
		// An unregistered path under this type's prefix stands in for an
		// ordinary directory node (e.g. a configured root never otherwise
		// referenced by a test's file map).
		return &fakeFile{path: path, isDir: true, exists: true, canRead: true}, nil
	}
	return nil, errtypes.UnknownFileSystem(path)
}
func (t *fakeType) SupportsACL() bool         { return false }
func (t *fakeType) RequiresCredentials() bool { return false }

func newFactory() *document.Factory {
	builder := acl.NewBuilder(acl.Options{})
	return document.NewFactory(document.Options{}, builder, nil)
}

func TestGetMetaDataUnknownFilesystem(t *testing.T) {
	registry := fs.NewRegistry()
	r := retriever.New(registry, newFactory(), nil, nil, retriever.Options{})

	_, err := r.GetMetaData(context.Background(), "/nowhere")
	require.Error(t, err)
	assert.True(t, errtypes.IsUnknownFileSystemError(err))
}

func TestGetMetaDataMissingIsRepositoryDocument(t *testing.T) {
	missing := &fakeFile{path: "/root/gone", parent: "/root", exists: false}
	typ := &fakeType{prefix: "/root", files: map[string]*fakeFile{"/root/gone": missing}}
	registry := fs.NewRegistry(typ)

	r := retriever.New(registry, newFactory(), nil, []string{"/root"}, retriever.Options{})

	_, err := r.GetMetaData(context.Background(), "/root/gone")
	require.Error(t, err)
	assert.True(t, errtypes.IsRepositoryDocumentError(err))
}

func TestGetMetaDataSucceedsAndCaches(t *testing.T) {
	f := &fakeFile{path: "/root/a", parent: "/root", exists: true, canRead: true, length: 10}
	typ := &fakeType{prefix: "/root", files: map[string]*fakeFile{"/root/a": f}}
	registry := fs.NewRegistry(typ)

	r := retriever.New(registry, newFactory(), nil, []string{"/root"}, retriever.Options{})

	doc, err := r.GetMetaData(context.Background(), "/root/a")
	require.NoError(t, err)
	assert.Equal(t, "/root/a", doc.Docid)
	assert.Equal(t, document.KindContent, doc.Kind)

	doc2, err := r.GetMetaData(context.Background(), "/root/a")
	require.NoError(t, err)
	assert.Equal(t, doc.Docid, doc2.Docid)
}

func TestGetContentOnDirectoryReturnsNil(t *testing.T) {
	dir := &fakeFile{path: "/root/b", parent: "/root", isDir: true, exists: true, canRead: true}
	typ := &fakeType{prefix: "/root", files: map[string]*fakeFile{"/root/b": dir}}
	registry := fs.NewRegistry(typ)

	r := retriever.New(registry, newFactory(), nil, []string{"/root"}, retriever.Options{})

	rc, err := r.GetContent(context.Background(), "/root/b")
	require.NoError(t, err)
	assert.Nil(t, rc)
}

func TestGetContentOnAclDocidReturnsNil(t *testing.T) {
	registry := fs.NewRegistry()
	r := retriever.New(registry, newFactory(), nil, nil, retriever.Options{})

	rc, err := r.GetContent(context.Background(), acl.ShareAclDocid("/root"))
	require.NoError(t, err)
	assert.Nil(t, rc)
}

func TestGetContentOversizeReturnsNilNotError(t *testing.T) {
	big := &fakeFile{path: "/root/huge", parent: "/root", exists: true, canRead: true, length: 1000}
	typ := &fakeType{prefix: "/root", files: map[string]*fakeFile{"/root/huge": big}}
	registry := fs.NewRegistry(typ)

	r := retriever.New(registry, newFactory(), nil, []string{"/root"}, retriever.Options{MaxDocumentSize: 10})

	rc, err := r.GetContent(context.Background(), "/root/huge")
	require.NoError(t, err)
	assert.Nil(t, rc)
}

func TestGetContentTransientErrorBubbles(t *testing.T) {
	flaky := &fakeFile{path: "/root/flaky", parent: "/root", statErr: errtypes.Repository("timeout")}
	typ := &fakeType{prefix: "/root", files: map[string]*fakeFile{"/root/flaky": flaky}}
	registry := fs.NewRegistry(typ)

	r := retriever.New(registry, newFactory(), nil, []string{"/root"}, retriever.Options{})

	_, err := r.GetContent(context.Background(), "/root/flaky")
	require.Error(t, err)
	assert.True(t, errtypes.IsRepositoryError(err))
}
