// Package document implements the crawler's document factory (spec
// component C6): turning a visited file node, plus its root context, into
// the feed documents the sink consumes — one content document per regular
// file, or a pair of synthetic ACL documents per directory when ACL push
// is enabled.
package document

import (
	"context"
	"io"
	"time"

	"github.com/wiarlawd/fs-crawler/pkg/acl"
	"github.com/wiarlawd/fs-crawler/pkg/fs"
)

// Kind discriminates the four document shapes spec.md §3 names.
type Kind int

const (
	KindContent Kind = iota
	KindShareACL
	KindFoldersACL
	KindFilesACL
)

// Document is the crawler's feed unit: a docid plus a property bag. Only
// the fields relevant to Kind are populated; MimeType and Content are
// lazy so a sink that never asks for them (e.g. an unmodified file under
// ifModifiedSince) never pays for a content read.
type Document struct {
	Docid string
	Kind  Kind

	// Content-document properties.
	DisplayURL    string
	LastModified  time.Time
	ContentLength int64
	FeedType      string
	MimeType      func() (string, error)
	Content       func(ctx context.Context) (io.ReadCloser, error)

	// ACL properties, shared by content and ACL documents. IsPublic and
	// the principal sets are mutually exclusive per acl.ACL's own
	// invariant.
	IsPublic    bool
	AllowUsers  []string
	AllowGroups []string
	DenyUsers   []string
	DenyGroups  []string

	// AclInheritFrom is the tagged pointer to the ACL document this one
	// inherits from; its zero value (acl.KindNone) means no inheritance.
	AclInheritFrom acl.InheritFrom
}

const feedTypeContentURL = "contenturl"

// Options mirrors the subset of spec.md §6 config keys the factory needs.
type Options struct {
	PushAcls               bool
	MarkAllDocumentsPublic bool
	SupportsInheritedAcls  bool
}

// MimeDetector lazily sniffs a file's MIME type; wired to pkg/mimetype.Detect
// by the caller that knows how to open the file's bytes.
type MimeDetector func(ctx context.Context, file fs.File) (string, error)

// Factory builds Documents from visited files.
type Factory struct {
	opts     Options
	builder  *acl.Builder
	detector MimeDetector
}

// NewFactory builds a Factory. detector may be nil if MIME detection is not needed.
func NewFactory(opts Options, builder *acl.Builder, detector MimeDetector) *Factory {
	return &Factory{opts: opts, builder: builder, detector: detector}
}

// Documents implements getDocuments(file, root) → 1..2 documents (spec.md §4.6).
func (f *Factory) Documents(ctx context.Context, file fs.File, root fs.File) ([]Document, error) {
	isDir, err := file.IsDirectory()
	if err != nil {
		return nil, err
	}
	if isDir && f.opts.PushAcls {
		return f.directoryDocuments(ctx, file, root)
	}
	doc, err := f.contentDocument(ctx, file, root)
	if err != nil {
		return nil, err
	}
	return []Document{doc}, nil
}

// ShareDocument builds the root share-ACL document, emitted first when
// directories-are-returned mode is on (spec.md §4.7 step 4).
func (f *Factory) ShareDocument(ctx context.Context, root fs.File) (Document, error) {
	var a acl.ACL
	var err error
	if f.opts.MarkAllDocumentsPublic {
		a = acl.Public
	} else {
		a, err = root.ShareACL(ctx)
		if err != nil {
			return Document{}, err
		}
	}
	return f.aclDocument(acl.ShareAclDocid(root.Path()), KindShareACL, a, acl.None()), nil
}

func (f *Factory) directoryDocuments(ctx context.Context, dir fs.File, root fs.File) ([]Document, error) {
	inherit := dirInheritFrom(dir, root)

	var containerACL, fileACL acl.ACL
	var err error
	if f.opts.MarkAllDocumentsPublic {
		containerACL, fileACL = acl.Public, acl.Public
	} else {
		containerACL, err = dir.ContainerInheritACL(ctx)
		if err != nil {
			return nil, err
		}
		fileACL, err = dir.FileInheritACL(ctx)
		if err != nil {
			return nil, err
		}
	}

	containerDoc := f.aclDocument(acl.FoldersAclDocid(dir.Path()), KindFoldersACL, containerACL, inherit)
	fileDoc := f.aclDocument(acl.FilesAclDocid(dir.Path()), KindFilesACL, fileACL, inherit)
	return []Document{containerDoc, fileDoc}, nil
}

// dirInheritFrom computes the pointer a directory's own container/file
// inherit documents carry: the parent's container-inherit document, or the
// root share-ACL document if dir is the root itself.
func dirInheritFrom(dir fs.File, root fs.File) acl.InheritFrom {
	if dir.Path() == root.Path() {
		return acl.Share(root.Path())
	}
	return acl.ParentContainers(dir.ParentPath())
}

func (f *Factory) aclDocument(docid string, kind Kind, a acl.ACL, inherit acl.InheritFrom) Document {
	doc := Document{Docid: docid, Kind: kind, AclInheritFrom: inherit}
	f.applyACL(&doc, a)
	return doc
}

func (f *Factory) contentDocument(ctx context.Context, file fs.File, root fs.File) (Document, error) {
	lastMod, err := file.LastModified()
	if err != nil {
		return Document{}, err
	}
	length, err := file.Length()
	if err != nil {
		return Document{}, err
	}
	displayURL, err := file.DisplayURL()
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		Docid:         file.Path(),
		Kind:          KindContent,
		DisplayURL:    displayURL,
		LastModified:  lastMod,
		ContentLength: length,
		FeedType:      feedTypeContentURL,
	}
	if f.detector != nil {
		doc.MimeType = func() (string, error) { return f.detector(ctx, file) }
	}
	doc.Content = file.Content

	if f.opts.MarkAllDocumentsPublic {
		f.applyACL(&doc, acl.Public)
		return doc, nil
	}

	a, err := f.contentACL(ctx, file, root)
	if err != nil {
		return Document{}, err
	}
	f.applyACL(&doc, a)
	if f.opts.SupportsInheritedAcls {
		doc.AclInheritFrom = contentInheritFrom(file, root)
	}
	return doc, nil
}

// contentACL resolves the ACL a content document carries. The
// root-special-case (spec.md §4.6) flattens the root's own inherited ACL
// into its content ACL, since there is no parent to attribute it to.
func (f *Factory) contentACL(ctx context.Context, file fs.File, root fs.File) (acl.ACL, error) {
	own, err := file.FileACL(ctx)
	if err != nil {
		return acl.ACL{}, err
	}
	if !f.opts.SupportsInheritedAcls {
		return own, nil
	}
	if file.Path() != root.Path() {
		return own, nil
	}
	inherited, err := file.InheritedACL(ctx)
	if err != nil {
		return acl.ACL{}, err
	}
	return mergeACL(own, inherited), nil
}

func mergeACL(a, b acl.ACL) acl.ACL {
	return acl.ACL{
		AllowUsers:    append(append([]acl.Principal{}, a.AllowUsers...), b.AllowUsers...),
		AllowGroups:   append(append([]acl.Principal{}, a.AllowGroups...), b.AllowGroups...),
		DenyUsers:     append(append([]acl.Principal{}, a.DenyUsers...), b.DenyUsers...),
		DenyGroups:    append(append([]acl.Principal{}, a.DenyGroups...), b.DenyGroups...),
		IsDeterminate: a.IsDeterminate && b.IsDeterminate,
	}
}

// contentInheritFrom computes a content document's inheritance pointer.
// Every content document, including a root's direct children, points at its
// parent directory's file-inherit document (spec.md §3's general rule and
// the worked example in §8 scenario 2: a root child inherits
// filesAcl:<root>, not shareAcl:<root> directly). The root directory's own
// filesAcl document in turn points at shareAcl:<root> via dirInheritFrom, so
// the graph stays a single tree rooted at the share ACL with no orphans —
// an earlier revision special-cased root children to point at the share ACL
// directly, which left the root's own filesAcl document unreferenced by
// anything. The remaining special case is file.Path() == root.Path(): a
// root that is itself a plain file has no parent directory to attribute
// inheritance to, so it carries no inheritance pointer at all (its ACL is
// already flattened by contentACL's own root special case).
func contentInheritFrom(file fs.File, root fs.File) acl.InheritFrom {
	if file.Path() == root.Path() {
		return acl.None()
	}
	return acl.ParentFiles(file.ParentPath())
}

func (f *Factory) applyACL(doc *Document, a acl.ACL) {
	if !a.IsDeterminate {
		return
	}
	if a.IsPublic {
		doc.IsPublic = true
		return
	}
	doc.AllowUsers = f.builder.RenderAllowUsers(a)
	doc.AllowGroups = f.builder.RenderAllowGroups(a)
	doc.DenyUsers = f.builder.RenderDenyUsers(a)
	doc.DenyGroups = f.builder.RenderDenyGroups(a)
}
