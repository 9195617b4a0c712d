// Package nfs implements the fs.Type for mounted NFS trees. Spec.md's
// Design Notes (§9 Open Question) describe two parallel code paths in the
// original — a direct nfs:// URL form and a NetApp-mounted-as-local form —
// collapsed here into one NFS type plus an optional MountManager
// collaborator that resolves an nfs:// URL to the local mount point an
// ordinary os.Stat/os.Open can reach. Without a MountManager, only already-
// mounted local paths under the configured mount roots are reachable.
package nfs

import (
	"context"
	"strings"

	"github.com/wiarlawd/fs-crawler/pkg/errtypes"
	"github.com/wiarlawd/fs-crawler/pkg/fs"
	"github.com/wiarlawd/fs-crawler/pkg/fs/posix"
)

const urlPrefix = "nfs://"

// MountManager resolves an nfs:// URL to the local filesystem path it is
// mounted at. Whether a resolved mount must survive process restarts is an
// open question per spec.md §9; this interface only describes the
// resolution itself, not mount lifecycle.
type MountManager interface {
	Resolve(nfsURL string) (localPath string, err error)
}

// staticMountManager resolves by stripping the nfs:// scheme and host,
// treating the remainder as already mounted at root. It is the zero-config
// default and matches the common case of an NFS export bind-mounted at a
// single local root.
type staticMountManager struct {
	root string
}

func (m staticMountManager) Resolve(nfsURL string) (string, error) {
	rest := strings.TrimPrefix(nfsURL, urlPrefix)
	if idx := strings.Index(rest, "/"); idx >= 0 {
		return m.root + rest[idx:], nil
	}
	return m.root, nil
}

// NewStaticMountManager returns a MountManager that resolves every nfs://
// URL under root, dropping the host segment.
func NewStaticMountManager(root string) MountManager {
	return staticMountManager{root: root}
}

// Type is the NFS fs.Type.
type Type struct {
	Mounts MountManager
}

// New builds an NFS Type; a nil MountManager means no nfs:// URL will ever
// resolve (IsPath still matches, so GetFile fails with UnknownFileSystem
// rather than silently falling through to another Type).
func New(mounts MountManager) Type {
	return Type{Mounts: mounts}
}

func (Type) Name() string { return "nfs" }

func (Type) IsPath(p string) bool {
	return strings.HasPrefix(strings.ToLower(p), urlPrefix)
}

func (t Type) GetFile(ctx context.Context, p string, creds fs.Credentials) (fs.File, error) {
	if t.Mounts == nil {
		return nil, errtypes.UnknownFileSystem(p)
	}
	local, err := t.Mounts.Resolve(p)
	if err != nil {
		return nil, errtypes.RepositoryDocument(err.Error())
	}
	underlying, err := posix.Type{}.GetFile(ctx, local, creds)
	if err != nil {
		return nil, err
	}
	return &File{File: underlying.(*posix.File), nfsPath: p}, nil
}

func (Type) SupportsACL() bool         { return false }
func (Type) RequiresCredentials() bool { return false }

// File wraps a posix.File so that FilesystemType and Path report "nfs" and
// the original nfs:// URL, while every other operation delegates to the
// mounted local node.
type File struct {
	*posix.File
	nfsPath string
}

func (f *File) FilesystemType() string { return "nfs" }
func (f *File) Path() string           { return f.nfsPath }

func (f *File) ListFiles(ctx context.Context) ([]fs.File, error) {
	children, err := f.File.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	wrapped := make([]fs.File, len(children))
	for i, c := range children {
		pf := c.(*posix.File)
		wrapped[i] = &File{File: pf, nfsPath: f.nfsPath + "/" + pf.Name()}
	}
	return wrapped, nil
}
