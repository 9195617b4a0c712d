//go:build !windows

package winlocal

import (
	"context"

	"github.com/wiarlawd/fs-crawler/pkg/errtypes"
	"github.com/wiarlawd/fs-crawler/pkg/fs"
)

// GetFile fails on every non-Windows build: the raw access-time and
// attribute syscalls this type needs (file_windows.go) only exist under
// GOOS=windows. A crawler deployment that needs to reach local Windows
// paths from a non-Windows host should use the smb type against an
// administrative share instead.
func (Type) GetFile(_ context.Context, p string, _ fs.Credentials) (fs.File, error) {
	return nil, errtypes.Repository("windows filesystem type unavailable on this platform: " + p)
}
