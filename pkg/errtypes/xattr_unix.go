//go:build !windows

package errtypes

import (
	"github.com/pkg/xattr"
	"golang.org/x/sys/unix"
)

// XattrIsNoData reports whether err is the xattr driver's ENODATA, meaning
// the attribute (e.g. system.posix_acl_access) is simply absent.
func XattrIsNoData(err error) bool {
	return xattrErrno(err) == unix.ENODATA
}

// XattrIsNotFound reports whether err is the xattr driver's ENOENT. The
// underlying os.ErrNotExist is buried inside xattr.Error, so os.IsNotExist
// does not unwrap it.
func XattrIsNotFound(err error) bool {
	return xattrErrno(err) == unix.ENOENT
}

func xattrErrno(err error) unix.Errno {
	xerr, ok := err.(*xattr.Error)
	if !ok {
		return 0
	}
	errno, _ := xerr.Err.(unix.Errno)
	return errno
}
