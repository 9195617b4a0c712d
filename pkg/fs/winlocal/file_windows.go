//go:build windows

package winlocal

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/windows"

	"github.com/wiarlawd/fs-crawler/pkg/acl"
	"github.com/wiarlawd/fs-crawler/pkg/errtypes"
	"github.com/wiarlawd/fs-crawler/pkg/fs"
	"github.com/wiarlawd/fs-crawler/pkg/log"
	"github.com/wiarlawd/fs-crawler/pkg/mimetype"
)

var logger = log.New("fs/winlocal")

func (t Type) GetFile(_ context.Context, p string, _ fs.Credentials) (fs.File, error) {
	return &File{path: p, typ: t}, nil
}

// File is a local-Windows filesystem node.
type File struct {
	path string
	typ  Type
}

func (f *File) FilesystemType() string { return "windows" }
func (f *File) Path() string           { return f.path }
func (f *File) Name() string           { return filepath.Base(f.path) }
func (f *File) ParentPath() string {
	dir := filepath.Dir(f.path)
	if samePath(dir, f.path) {
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
		return false, errtypes.Repository(err.Error())
	}
	_ = fh.Close()
	return true, nil
}

func (f *File) IsHidden() (bool, error) {
	pp, err := windows.UTF16PtrFromString(f.path)
	if err != nil {
		return false, errtypes.RepositoryDocument(err.Error())
	}
	attrs, err := windows.GetFileAttributes(pp)
	if err != nil {
		return false, errtypes.Repository(err.Error())
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0, nil
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
		return nil, errtypes.Repository(err.Error())
	}
	children := make([]fs.File, 0, len(entries))
	for _, e := range entries {
		children = append(children, &File{path: filepath.Join(f.path, e.Name()), typ: f.typ})
	}
	fs.SortChildren(children)
	return children, nil
}

func (f *File) DisplayURL() (string, error) { return f.path, nil }

// atimeReader wraps a file handle so that, when PreserveAccessTime is set,
// the node's pre-read access time is restored on Close. Restoration
// failures are logged at warning level and never fatal (spec.md §4.2,
// §9 "Access-time preservation").
type atimeReader struct {
	*os.File
	path     string
	original windows.Filetime
	restore  bool
}

func (r *atimeReader) Close() error {
	err := r.File.Close()
	if r.restore {
		if setErr := setAccessTime(r.path, r.original); setErr != nil {
			logger.Warn().Err(setErr).Str("path", r.path).Msg("failed to restore access time")
		}
	}
	return err
}

func getAccessTime(path string) (windows.Filetime, error) {
	pp, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return windows.Filetime{}, err
	}
	h, err := windows.CreateFile(pp, windows.GENERIC_READ, windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil, windows.OPEN_EXISTING, windows.FILE_ATTRIBUTE_NORMAL, 0)
	if err != nil {
		return windows.Filetime{}, err
	}
	defer windows.CloseHandle(h)

	var creation, access, write windows.Filetime
	if err := windows.GetFileTime(h, &creation, &access, &write); err != nil {
		return windows.Filetime{}, err
	}
	return access, nil
}

func setAccessTime(path string, access windows.Filetime) error {
	pp, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	h, err := windows.CreateFile(pp, windows.FILE_WRITE_ATTRIBUTES, windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil, windows.OPEN_EXISTING, windows.FILE_ATTRIBUTE_NORMAL, 0)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)
	return windows.SetFileTime(h, nil, &access, nil)
}

func (f *File) Content(_ context.Context) (io.ReadCloser, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return nil, errtypes.RepositoryDocument(err.Error())
		}
		return nil, errtypes.Repository(err.Error())
	}
	if !f.typ.PreserveAccessTime {
		return fh, nil
	}
	original, err := getAccessTime(f.path)
	if err != nil {
		logger.Warn().Err(err).Str("path", f.path).Msg("failed to read access time before read")
		return fh, nil
	}
	return &atimeReader{File: fh, path: f.path, original: original, restore: true}, nil
}

func (f *File) DetectMime(isDir bool) (string, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return "", err
	}
	defer fh.Close()
	return mimetype.Detect(f.Name(), isDir, bufio.NewReader(fh)), nil
}

func (f *File) rawAcl() (acl.ACL, error) {
	if f.typ.Acl == nil {
		return acl.Indeterminate, nil
	}
	raw, err := f.typ.Acl.ReadACL(f.path)
	if err != nil {
		logger.Warn().Err(err).Str("path", f.path).Msg("windows acl read failed")
		return acl.Indeterminate, nil
	}
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
	return a, nil
}

func (f *File) FileACL(context.Context) (acl.ACL, error)            { return f.rawAcl() }
func (f *File) InheritedACL(context.Context) (acl.ACL, error)       { return f.rawAcl() }
func (f *File) ContainerInheritACL(context.Context) (acl.ACL, error) { return f.rawAcl() }
func (f *File) FileInheritACL(context.Context) (acl.ACL, error)     { return f.rawAcl() }
func (f *File) ShareACL(context.Context) (acl.ACL, error)           { return acl.ACL{IsDeterminate: true}, nil }
