// Package mimetype provides the default MIME-type detector the document
// factory attaches as a lazy property on every content document. Real MIME
// sniffing is an external collaborator per the crawler's scope (the
// downstream connector framework may swap in a fuller detector); this
// default only needs to be good enough that the sink is never handed an
// empty contentType.
package mimetype

import (
	"bufio"
	"net/http"
	"path"
	"strings"
	"sync"
)

const directoryMime = "httpd/unix-directory"

var custom sync.Map

// Register overrides (or adds) the MIME type reported for a file extension
// (without the leading dot), taking precedence over both the built-in table
// and content sniffing.
func Register(ext, mime string) {
	custom.Store(strings.ToLower(ext), mime)
}

// Detector resolves the MIME type for a file. content may be nil, in which
// case detection falls back to the extension table and, failing that,
// application/octet-stream; Detect never reads more than a sniff-sized
// prefix of content.
type Detector func(name string, isDir bool, content *bufio.Reader) string

// Detect is the crawler's default Detector: extension table first, then
// content sniffing via net/http's algorithm, then application/octet-stream.
func Detect(name string, isDir bool, content *bufio.Reader) string {
	if isDir {
		return directoryMime
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if m, ok := custom.Load(ext); ok {
		return m.(string)
	}
	if m, ok := builtinByExt[ext]; ok {
		return m
	}

	if content != nil {
		if sniff, err := content.Peek(512); err == nil || len(sniff) > 0 {
			return http.DetectContentType(sniff)
		}
	}

	return "application/octet-stream"
}

var builtinByExt = map[string]string{
	"txt":  "text/plain",
	"html": "text/html",
	"htm":  "text/html",
	"css":  "text/css",
	"csv":  "text/csv",
	"json": "application/json",
	"xml":  "application/xml",
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"zip":  "application/zip",
	"gz":   "application/gzip",
	"tar":  "application/x-tar",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
	"mp3":  "audio/mpeg",
	"mp4":  "video/mp4",
	"go":   "text/x-go",
	"md":   "text/markdown",
}
