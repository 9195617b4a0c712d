// Package fs implements the crawler's path classifier and readonly-file
// abstraction (spec components C1 and C2): a small capability-based
// interface over concrete filesystem node types (POSIX, Windows local, NFS,
// SMB), dispatched by an ordered Registry instead of class inheritance.
package fs

import (
	"context"
	"io"
	"time"

	"github.com/wiarlawd/fs-crawler/pkg/acl"
)

// Credentials is the (domain, user, password) triple used to authenticate
// against SMB shares. Read-only after startup, shared across every Type
// that needs it.
type Credentials struct {
	Domain   string
	User     string
	Password string
}

// File is the uniform, immutable view over one path in some filesystem
// (spec.md §3 "Readonly-file node"). Every metadata accessor may fail with
// an errtypes.IsRepositoryDocument (permanent) or errtypes.IsRepository
// (transient) error; Content's returned stream propagates I/O errors as-is.
type File interface {
	// FilesystemType names the Type that produced this node ("posix",
	// "windows", "nfs", "smb").
	FilesystemType() string
	// Path is the absolute path or URL this node represents.
	Path() string
	// Name is the final path segment.
	Name() string
	// ParentPath is Path with the final segment removed, or "" at a root.
	ParentPath() string

	Exists() (bool, error)
	IsDirectory() (bool, error)
	IsRegularFile() (bool, error)
	CanRead() (bool, error)
	IsHidden() (bool, error)

	LastModified() (time.Time, error)
	Length() (int64, error)

	// ListFiles returns this node's direct children, already ordered per
	// the adjusted depth-first comparator (see SortChildren).
	ListFiles(ctx context.Context) ([]File, error)

	// DisplayURL is the value attached to a content document for the
	// sink's human-facing link; usually Path itself.
	DisplayURL() (string, error)

	// Content opens the node's bytes. Access-time preservation is done
	// inside Content by the Types that offer it (winlocal, when its Type's
	// PreserveAccessTime is set); callers do nothing extra.
	Content(ctx context.Context) (io.ReadCloser, error)

	// FileACL, InheritedACL, ContainerInheritACL and FileInheritACL form
	// the ACL quadruple from spec.md §3. ShareACL applies only to SMB
	// nodes; posix, nfs and winlocal nodes return an empty, determinate
	// ACL from it.
	FileACL(ctx context.Context) (acl.ACL, error)
	InheritedACL(ctx context.Context) (acl.ACL, error)
	ContainerInheritACL(ctx context.Context) (acl.ACL, error)
	FileInheritACL(ctx context.Context) (acl.ACL, error)
	ShareACL(ctx context.Context) (acl.ACL, error)
}

// Type is one registered filesystem kind. The traverser queries SupportsACL
// once per crawl cycle for the root's Type, never per file.
type Type interface {
	// Name identifies the type ("posix", "windows", "nfs", "smb").
	Name() string
	// IsPath reports whether path belongs to this type, by case-insensitive
	// URL prefix or by path shape (spec.md §4.1).
	IsPath(path string) bool
	// GetFile resolves path to a File. Implementations return
	// errtypes.UnknownFileSystem if path is malformed for this type despite
	// IsPath matching, or errtypes.RepositoryDocument/Repository per the
	// usual metadata error taxonomy.
	GetFile(ctx context.Context, path string, creds Credentials) (File, error)
	// SupportsACL reports whether this type's directories get their own ACL
	// documents; the traverser returns directories only when it is true
	// (true for smb, windows and posix; false for nfs).
	SupportsACL() bool
	// RequiresCredentials reports whether GetFile needs non-zero Credentials.
	RequiresCredentials() bool
}
