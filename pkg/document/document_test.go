package document_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiarlawd/fs-crawler/pkg/acl"
	"github.com/wiarlawd/fs-crawler/pkg/document"
	"github.com/wiarlawd/fs-crawler/pkg/fs"
)

type fakeFile struct {
	path         string
	parent       string
	isDir        bool
	lastModified time.Time
	length       int64
	fileACL      acl.ACL
	shareACL     acl.ACL
	containerACL acl.ACL
	fileInhACL   acl.ACL
}

func (f *fakeFile) FilesystemType() string { return "fake" }
func (f *fakeFile) Path() string           { return f.path }
func (f *fakeFile) Name() string           { return f.path }
func (f *fakeFile) ParentPath() string     { return f.parent }
func (f *fakeFile) Exists() (bool, error)        { return true, nil }
func (f *fakeFile) IsDirectory() (bool, error)   { return f.isDir, nil }
func (f *fakeFile) IsRegularFile() (bool, error) { return !f.isDir, nil }
func (f *fakeFile) CanRead() (bool, error)       { return true, nil }
func (f *fakeFile) IsHidden() (bool, error)      { return false, nil }
func (f *fakeFile) LastModified() (time.Time, error) { return f.lastModified, nil }
func (f *fakeFile) Length() (int64, error)           { return f.length, nil }
func (f *fakeFile) ListFiles(context.Context) ([]fs.File, error) { return nil, nil }
func (f *fakeFile) DisplayURL() (string, error)                    { return f.path, nil }
func (f *fakeFile) Content(context.Context) (io.ReadCloser, error) { return nil, nil }
func (f *fakeFile) FileACL(context.Context) (acl.ACL, error)            { return f.fileACL, nil }
func (f *fakeFile) InheritedACL(context.Context) (acl.ACL, error)       { return f.fileACL, nil }
func (f *fakeFile) ContainerInheritACL(context.Context) (acl.ACL, error) { return f.containerACL, nil }
func (f *fakeFile) FileInheritACL(context.Context) (acl.ACL, error)     { return f.fileInhACL, nil }
func (f *fakeFile) ShareACL(context.Context) (acl.ACL, error)           { return f.shareACL, nil }

func newBuilder(t *testing.T) *acl.Builder {
	b := acl.NewBuilder(acl.Options{SupportsInheritedAcls: true})
	t.Cleanup(func() { _ = b.Close() })
	return b
}

// TestContentDocumentRootChildInheritsParentFiles matches the worked
// example in spec.md's ACL-inheritance-graph scenario: a root's direct
// child points at the root's own filesAcl document, not at the share ACL
// directly, so the root's filesAcl document (which itself points at the
// share ACL) is never an orphan in the inheritance graph.
func TestContentDocumentRootChildInheritsParentFiles(t *testing.T) {
	root := &fakeFile{path: "/root", isDir: true}
	child := &fakeFile{
		path: "/root/a.txt", parent: "/root",
		fileACL: acl.ACL{IsDeterminate: true, AllowUsers: []acl.Principal{{Name: "alice"}}},
	}

	factory := document.NewFactory(document.Options{SupportsInheritedAcls: true}, newBuilder(t), nil)
	docs, err := factory.Documents(context.Background(), child, root)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "/root/a.txt", doc.Docid)
	assert.Equal(t, []string{"alice"}, doc.AllowUsers)
	assert.Equal(t, acl.ParentFiles("/root"), doc.AclInheritFrom)
}

// TestRootFilesAclDocumentInheritsShare proves the root's own filesAcl
// document is the link between its children (above) and the share ACL,
// closing the inheritance chain without an orphan document.
func TestRootFilesAclDocumentInheritsShare(t *testing.T) {
	root := &fakeFile{path: "/root", isDir: true}

	factory := document.NewFactory(document.Options{PushAcls: true, SupportsInheritedAcls: true}, newBuilder(t), nil)
	docs, err := factory.Documents(context.Background(), root, root)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "filesAcl:/root", docs[1].Docid)
	assert.Equal(t, acl.Share("/root"), docs[1].AclInheritFrom)
}

func TestContentDocumentNestedInheritsParentFiles(t *testing.T) {
	root := &fakeFile{path: "/root", isDir: true}
	nested := &fakeFile{path: "/root/b/c.txt", parent: "/root/b"}

	factory := document.NewFactory(document.Options{SupportsInheritedAcls: true}, newBuilder(t), nil)
	docs, err := factory.Documents(context.Background(), nested, root)
	require.NoError(t, err)
	assert.Equal(t, acl.ParentFiles("/root/b"), docs[0].AclInheritFrom)
}

func TestDirectoryDocumentsEmitBothKinds(t *testing.T) {
	root := &fakeFile{path: "/root", isDir: true}
	dir := &fakeFile{
		path: "/root/b", parent: "/root", isDir: true,
		containerACL: acl.ACL{IsDeterminate: true, AllowGroups: []acl.Principal{{Name: "eng"}}},
		fileInhACL:   acl.ACL{IsDeterminate: true, AllowUsers: []acl.Principal{{Name: "bob"}}},
	}

	factory := document.NewFactory(document.Options{PushAcls: true, SupportsInheritedAcls: true}, newBuilder(t), nil)
	docs, err := factory.Documents(context.Background(), dir, root)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, document.KindFoldersACL, docs[0].Kind)
	assert.Equal(t, "foldersAcl:/root/b", docs[0].Docid)
	assert.Equal(t, acl.ParentContainers("/root"), docs[0].AclInheritFrom)

	assert.Equal(t, document.KindFilesACL, docs[1].Kind)
	assert.Equal(t, "filesAcl:/root/b", docs[1].Docid)
}

func TestShareDocument(t *testing.T) {
	root := &fakeFile{path: "/root", isDir: true, shareACL: acl.ACL{IsDeterminate: true, AllowUsers: []acl.Principal{{Name: "alice"}}}}

	factory := document.NewFactory(document.Options{SupportsInheritedAcls: true}, newBuilder(t), nil)
	doc, err := factory.ShareDocument(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, "shareAcl:/root", doc.Docid)
	assert.Equal(t, document.KindShareACL, doc.Kind)
	assert.Equal(t, []string{"alice"}, doc.AllowUsers)
}

func TestMarkAllDocumentsPublicOmitsAcls(t *testing.T) {
	root := &fakeFile{path: "/root", isDir: true}
	file := &fakeFile{path: "/root/a.txt", parent: "/root"}

	factory := document.NewFactory(document.Options{MarkAllDocumentsPublic: true}, newBuilder(t), nil)
	docs, err := factory.Documents(context.Background(), file, root)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.True(t, docs[0].IsPublic)
	assert.Empty(t, docs[0].AllowUsers)
}
