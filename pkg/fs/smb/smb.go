// Package smb implements the fs.Type for remote SMB/CIFS shares. Native
// SMB wire access is an external-interop concern per the purpose-and-scope
// exclusions (spec.md §1); this package defines the Client collaborator a
// concrete SMB stack is wired through, plus the File/Type plumbing that
// turns Client responses into the crawler's uniform node shape, including
// the share-level ACL no other filesystem type carries.
package smb

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/wiarlawd/fs-crawler/pkg/acl"
	"github.com/wiarlawd/fs-crawler/pkg/errtypes"
	"github.com/wiarlawd/fs-crawler/pkg/fs"
	"github.com/wiarlawd/fs-crawler/pkg/log"
)

var logger = log.New("fs/smb")

const urlPrefix = "smb://"

// Entry is the information a Client reports about one path.
type Entry struct {
	Exists       bool
	IsDir        bool
	IsRegular    bool
	Hidden       bool
	LastModified time.Time
	Length       int64
}

// RawACL mirrors winlocal.RawACL; SMB reuses the same shape since both
// carry Windows-style ACEs.
type RawACL struct {
	AllowUsers  []string
	AllowGroups []string
	DenyUsers   []string
	DenyGroups  []string
}

// Client is the native-SMB collaborator this package delegates every
// remote call to. A production deployment wires a concrete implementation
// backed by whatever SMB stack it has available; this package ships none.
type Client interface {
	Connect(ctx context.Context, host, share string, creds fs.Credentials) error
	Stat(ctx context.Context, path string) (Entry, error)
	List(ctx context.Context, path string) ([]string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	ReadACL(ctx context.Context, path string) (RawACL, error)
	ReadShareACL(ctx context.Context, host, share string) (RawACL, error)
}

// Type is the SMB fs.Type.
type Type struct {
	Client Client
}

// New builds an SMB Type backed by client.
func New(client Client) Type {
	return Type{Client: client}
}

func (Type) Name() string { return "smb" }

func (Type) IsPath(p string) bool {
	return strings.HasPrefix(strings.ToLower(p), urlPrefix)
}

func (Type) SupportsACL() bool         { return true }
func (Type) RequiresCredentials() bool { return true }

// splitURL breaks smb://host/share/rest into its parts.
func splitURL(p string) (host, share, rest string, ok bool) {
	trimmed := strings.TrimPrefix(p, urlPrefix)
	segs := strings.SplitN(trimmed, "/", 3)
	if len(segs) < 2 || segs[0] == "" || segs[1] == "" {
		return "", "", "", false
	}
	host = segs[0]
	share = segs[1]
	if len(segs) == 3 {
		rest = segs[2]
	}
	return host, share, rest, true
}

func (t Type) GetFile(ctx context.Context, p string, creds fs.Credentials) (fs.File, error) {
	if t.Client == nil {
		return nil, errtypes.UnknownFileSystem(p)
	}
	host, share, _, ok := splitURL(p)
	if !ok {
		return nil, errtypes.UnknownFileSystem(p)
	}
	if err := t.Client.Connect(ctx, host, share, creds); err != nil {
		return nil, errtypes.Repository(err.Error())
	}
	return &File{path: p, host: host, share: share, typ: t}, nil
}

// File is an SMB filesystem node.
type File struct {
	path  string
	host  string
	share string
	typ   Type
}

func (f *File) FilesystemType() string { return "smb" }
func (f *File) Path() string           { return f.path }

func (f *File) Name() string {
	idx := strings.LastIndex(strings.TrimSuffix(f.path, "/"), "/")
	if idx < 0 {
		return f.path
	}
	return f.path[idx+1:]
}

func (f *File) ParentPath() string {
	trimmed := strings.TrimSuffix(f.path, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 || trimmed[:idx] == urlPrefix[:len(urlPrefix)-1] {
		return ""
	}
	return trimmed[:idx]
}

func (f *File) rootPath() string {
	return urlPrefix + f.host + "/" + f.share + "/"
}

func (f *File) entry(ctx context.Context) (Entry, error) {
	e, err := f.typ.Client.Stat(ctx, f.path)
	if err != nil {
		return Entry{}, errtypes.Repository(err.Error())
	}
	if !e.Exists {
		return Entry{}, errtypes.RepositoryDocument("not found: " + f.path)
	}
	return e, nil
}

func (f *File) Exists() (bool, error) {
	e, err := f.typ.Client.Stat(context.Background(), f.path)
	if err != nil {
		return false, errtypes.Repository(err.Error())
	}
	return e.Exists, nil
}

func (f *File) IsDirectory() (bool, error) {
	e, err := f.entry(context.Background())
	if err != nil {
		return false, err
	}
	return e.IsDir, nil
}

func (f *File) IsRegularFile() (bool, error) {
	e, err := f.entry(context.Background())
	if err != nil {
		return false, err
	}
	return e.IsRegular, nil
}

func (f *File) CanRead() (bool, error) {
	_, err := f.entry(context.Background())
	if err != nil {
		if errtypes.IsRepositoryDocumentError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (f *File) IsHidden() (bool, error) {
	e, err := f.entry(context.Background())
	if err != nil {
		return false, err
	}
	return e.Hidden, nil
}

func (f *File) LastModified() (time.Time, error) {
	e, err := f.entry(context.Background())
	if err != nil {
		return time.Time{}, err
	}
	return e.LastModified, nil
}

func (f *File) Length() (int64, error) {
	e, err := f.entry(context.Background())
	if err != nil {
		return 0, err
	}
	return e.Length, nil
}

func (f *File) ListFiles(ctx context.Context) ([]fs.File, error) {
	names, err := f.typ.Client.List(ctx, f.path)
	if err != nil {
		return nil, errtypes.DirectoryListing(err.Error())
	}
	base := strings.TrimSuffix(f.path, "/")
	children := make([]fs.File, 0, len(names))
	for _, n := range names {
		children = append(children, &File{path: base + "/" + n, host: f.host, share: f.share, typ: f.typ})
	}
	fs.SortChildren(children)
	return children, nil
}

func (f *File) DisplayURL() (string, error) { return f.path, nil }

func (f *File) Content(ctx context.Context) (io.ReadCloser, error) {
	rc, err := f.typ.Client.Open(ctx, f.path)
	if err != nil {
		return nil, errtypes.Repository(err.Error())
	}
	return rc, nil
}

func rawToAcl(raw RawACL) acl.ACL {
	a := acl.ACL{IsDeterminate: true}
	for _, n := range raw.AllowUsers {
		a.AllowUsers = append(a.AllowUsers, acl.Principal{Name: n})
	}
	for _, n := range raw.AllowGroups {
		a.AllowGroups = append(a.AllowGroups, acl.Principal{Name: n})
	}
	for _, n := range raw.DenyUsers {
		a.DenyUsers = append(a.DenyUsers, acl.Principal{Name: n})
	}
	for _, n := range raw.DenyGroups {
		a.DenyGroups = append(a.DenyGroups, acl.Principal{Name: n})
	}
	return a
}

func (f *File) FileACL(ctx context.Context) (acl.ACL, error) {
	raw, err := f.typ.Client.ReadACL(ctx, f.path)
	if err != nil {
		logger.Warn().Err(err).Str("path", f.path).Msg("smb acl read failed")
		return acl.Indeterminate, nil
	}
	return rawToAcl(raw), nil
}

func (f *File) InheritedACL(ctx context.Context) (acl.ACL, error) { return f.FileACL(ctx) }

func (f *File) ContainerInheritACL(ctx context.Context) (acl.ACL, error) { return f.FileACL(ctx) }

func (f *File) FileInheritACL(ctx context.Context) (acl.ACL, error) { return f.FileACL(ctx) }

func (f *File) ShareACL(ctx context.Context) (acl.ACL, error) {
	raw, err := f.typ.Client.ReadShareACL(ctx, f.host, f.share)
	if err != nil {
		logger.Warn().Err(err).Str("share", f.share).Msg("smb share acl read failed")
		return acl.Indeterminate, nil
	}
	return rawToAcl(raw), nil
}
