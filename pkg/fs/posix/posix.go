// Package posix implements the local-POSIX fs.Type: plain os.Stat-backed
// nodes rooted at an absolute path, with an optional best-effort ACL
// extension read from a single extended attribute for filesystems that
// choose to carry one (most do not, in which case the node behaves exactly
// like the spec's plain POSIX type with no ACL support).
package posix

import (
	"bufio"
	"context"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/pkg/xattr"

	"github.com/wiarlawd/fs-crawler/pkg/acl"
	"github.com/wiarlawd/fs-crawler/pkg/errtypes"
	"github.com/wiarlawd/fs-crawler/pkg/fs"
	"github.com/wiarlawd/fs-crawler/pkg/log"
	"github.com/wiarlawd/fs-crawler/pkg/mimetype"
)

var logger = log.New("fs/posix")

// aclXattrName is the crawler's own convention for filesystems that carry a
// synthetic ACL extension; real system.posix_acl_access is a binary kernel
// format this package does not attempt to decode.
const aclXattrName = "user.crawler.acl"

// Type is the local-POSIX fs.Type. Paths belong to it iff they are absolute
// and no other registered Type's prefix (smb://, nfs://) claims them first;
// Registry ordering, not IsPath here, enforces that priority.
type Type struct{}

func (Type) Name() string { return "posix" }

func (Type) IsPath(p string) bool {
	return strings.HasPrefix(p, "/")
}

func (Type) GetFile(_ context.Context, p string, _ fs.Credentials) (fs.File, error) {
	return &File{path: p}, nil
}

func (Type) SupportsACL() bool         { return true }
func (Type) RequiresCredentials() bool { return false }

// File is a POSIX filesystem node.
type File struct {
	path string
}

func (f *File) FilesystemType() string { return "posix" }
func (f *File) Path() string           { return f.path }
func (f *File) Name() string           { return path.Base(f.path) }
func (f *File) ParentPath() string {
	dir := path.Dir(f.path)
	if dir == "." || dir == f.path {
		return ""
	}
	return dir
}

func (f *File) stat() (os.FileInfo, error) {
	info, err := os.Stat(f.path)
	if err == nil {
		return info, nil
	}
	if os.IsNotExist(err) || os.IsPermission(err) {
		return nil, errtypes.RepositoryDocument(err.Error())
	}
	return nil, errtypes.Repository(err.Error())
}

func (f *File) Exists() (bool, error) {
	_, err := os.Stat(f.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	if os.IsPermission(err) {
		return false, errtypes.RepositoryDocument(err.Error())
	}
	return false, errtypes.Repository(err.Error())
}

func (f *File) IsDirectory() (bool, error) {
	info, err := f.stat()
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (f *File) IsRegularFile() (bool, error) {
	info, err := f.stat()
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (f *File) CanRead() (bool, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		if os.IsPermission(err) {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, errtypes.RepositoryDocument(err.Error())
		}
		return false, errtypes.Repository(err.Error())
	}
	_ = fh.Close()
	return true, nil
}

func (f *File) IsHidden() (bool, error) {
	return strings.HasPrefix(f.Name(), "."), nil
}

func (f *File) LastModified() (time.Time, error) {
	info, err := f.stat()
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (f *File) Length() (int64, error) {
	info, err := f.stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (f *File) ListFiles(_ context.Context) ([]fs.File, error) {
	entries, err := os.ReadDir(f.path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, errtypes.DirectoryListing(err.Error())
		}
		if os.IsNotExist(err) {
			return nil, errtypes.RepositoryDocument(err.Error())
		}
		return nil, errtypes.Repository(err.Error())
	}
	children := make([]fs.File, 0, len(entries))
	for _, e := range entries {
		children = append(children, &File{path: path.Join(f.path, e.Name())})
	}
	fs.SortChildren(children)
	return children, nil
}

func (f *File) DisplayURL() (string, error) {
	return f.path, nil
}

func (f *File) Content(_ context.Context) (io.ReadCloser, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return nil, errtypes.RepositoryDocument(err.Error())
		}
		return nil, errtypes.Repository(err.Error())
	}
	return fh, nil
}

// DetectMime sniffs the node's MIME type; the document factory calls this
// lazily, only when the sink actually asks for it.
func (f *File) DetectMime(isDir bool) (string, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return "", err
	}
	defer fh.Close()
	return mimetype.Detect(f.Name(), isDir, bufio.NewReader(fh)), nil
}

// FileACL reads the crawler's synthetic ACL extension off the node, if any.
// Absence of the attribute is not an error: it means this particular file
// carries no extra ACL beyond whatever inherited ACL applies, which is the
// common case for a plain POSIX tree.
func (f *File) FileACL(_ context.Context) (acl.ACL, error) {
	raw, err := xattr.Get(f.path, aclXattrName)
	if err != nil {
		if errtypes.XattrIsNoData(err) || errtypes.XattrIsNotFound(err) {
			return acl.ACL{IsDeterminate: true}, nil
		}
		logger.Warn().Err(err).Str("path", f.path).Msg("acl xattr read failed")
		return acl.Indeterminate, nil
	}
	return parseAclXattr(raw), nil
}

// InheritedACL, ContainerInheritACL and FileInheritACL have no POSIX
// equivalent; a plain POSIX tree has no inheritance graph of its own, only
// whatever a caller's legacy-ACL-mode builder folds in from FileACL.
func (f *File) InheritedACL(ctx context.Context) (acl.ACL, error)       { return f.FileACL(ctx) }
func (f *File) ContainerInheritACL(context.Context) (acl.ACL, error)    { return acl.ACL{IsDeterminate: true}, nil }
func (f *File) FileInheritACL(context.Context) (acl.ACL, error)         { return acl.ACL{IsDeterminate: true}, nil }
func (f *File) ShareACL(context.Context) (acl.ACL, error)               { return acl.ACL{IsDeterminate: true}, nil }

// parseAclXattr decodes the crawler's line-oriented ACL convention:
// "allow:user:name", "allow:group:name", "deny:user:name", "deny:group:name".
func parseAclXattr(raw []byte) acl.ACL {
	a := acl.ACL{IsDeterminate: true}
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 3)
		if len(parts) != 3 {
			continue
		}
		allow := parts[0] == "allow"
		isGroup := parts[1] == "group"
		p := acl.Principal{Name: parts[2], CaseSensitive: true}
		switch {
		case allow && isGroup:
			a.AllowGroups = append(a.AllowGroups, p)
		case allow && !isGroup:
			a.AllowUsers = append(a.AllowUsers, p)
		case !allow && isGroup:
			a.DenyGroups = append(a.DenyGroups, p)
		default:
			a.DenyUsers = append(a.DenyUsers, p)
		}
	}
	return a
}
