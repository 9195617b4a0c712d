// Package retriever implements the crawler's on-demand metadata/content
// lookup path (spec component C9): given a docid previously handed to the
// sink, re-open the underlying path through the same path classifier the
// traverser uses and produce a fresh Document or byte stream. Unlike the
// traverser, the retriever is invoked concurrently by the external sink on
// arbitrary goroutines and must be reentrant; a short-lived gcache layer
// (grounded on the thumbnail LRU cache's gcache.New(...).LRU().Build()
// usage) absorbs repeated lookups of the same docid within one TTL window.
package retriever

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/bluele/gcache"

	"github.com/wiarlawd/fs-crawler/pkg/acl"
	"github.com/wiarlawd/fs-crawler/pkg/document"
	"github.com/wiarlawd/fs-crawler/pkg/errtypes"
	"github.com/wiarlawd/fs-crawler/pkg/fs"
	"github.com/wiarlawd/fs-crawler/pkg/log"
)

var logger = log.New("retriever")

// DefaultMaxDocumentSize is used when Options.MaxDocumentSize is unset.
const DefaultMaxDocumentSize = 4 << 30 // 4 GiB

// DefaultCacheSize and DefaultCacheTTL bound the metadata-lookup cache.
const (
	DefaultCacheSize = 10000
	DefaultCacheTTL  = 30 * time.Second
)

// CredentialsLookup resolves the credentials a given path's Type needs
// (only SMB roots require non-zero values); the daemon wires one closure
// per configured root.
type CredentialsLookup func(path string) fs.Credentials

// Options configures a Retriever per spec.md §6's maxDocumentSize key.
type Options struct {
	MaxDocumentSize int64
	CacheSize       int
	CacheTTL        time.Duration
}

// Retriever answers getMetaData/getContent requests by docid.
type Retriever struct {
	registry *fs.Registry
	factory  *document.Factory
	creds    CredentialsLookup
	roots    []string
	opts     Options
	cache    gcache.Cache
}

// New builds a Retriever. credsFor may be nil, meaning every root uses zero
// Credentials. roots is the crawler's configured startPaths list, used to
// recover which root a re-opened path belongs to for ACL-inheritance
// context (the same root a traverser would have passed to the factory).
func New(registry *fs.Registry, factory *document.Factory, credsFor CredentialsLookup, roots []string, opts Options) *Retriever {
	if opts.MaxDocumentSize <= 0 {
		opts.MaxDocumentSize = DefaultMaxDocumentSize
	}
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if credsFor == nil {
		credsFor = func(string) fs.Credentials { return fs.Credentials{} }
	}
	return &Retriever{
		registry: registry,
		factory:  factory,
		creds:    credsFor,
		roots:    roots,
		opts:     Options{MaxDocumentSize: opts.MaxDocumentSize, CacheSize: size, CacheTTL: ttl},
		cache:    gcache.New(size).LRU().Build(),
	}
}

// docRef is a docid decoded back into the path it was derived from plus
// which of the four document kinds it names (spec.md §6 "Docid format").
type docRef struct {
	kind document.Kind
	path string
}

func parseDocid(docid string) docRef {
	kind, path := acl.ParseDocid(docid)
	switch kind {
	case acl.KindShare:
		return docRef{kind: document.KindShareACL, path: path}
	case acl.KindParentContainers:
		return docRef{kind: document.KindFoldersACL, path: path}
	case acl.KindParentFiles:
		return docRef{kind: document.KindFilesACL, path: path}
	default:
		return docRef{kind: document.KindContent, path: docid}
	}
}

// GetMetaData re-opens docid's path and rebuilds a fresh Document.
//
// Four failure modes (spec.md §4.9): an unclaimed prefix fails with
// errtypes.UnknownFileSystem; a missing, unreadable, empty, or oversize
// content document fails with errtypes.RepositoryDocument; a transient I/O
// failure fails with errtypes.Repository; everything else succeeds.
func (r *Retriever) GetMetaData(ctx context.Context, docid string) (document.Document, error) {
	if cached, err := r.cache.Get(docid); err == nil {
		return cached.(document.Document), nil
	}

	ref := parseDocid(docid)
	file, root, err := r.open(ctx, ref.path)
	if err != nil {
		return document.Document{}, err
	}

	var doc document.Document
	switch ref.kind {
	case document.KindShareACL:
		doc, err = r.factory.ShareDocument(ctx, file)
	case document.KindFoldersACL, document.KindFilesACL:
		docs, derr := r.factory.Documents(ctx, file, root)
		err = derr
		if err == nil {
			doc = pickDocument(docs, ref.kind, docid)
		}
	default:
		doc, err = r.contentMetaData(ctx, file, root)
	}
	if err != nil {
		return document.Document{}, err
	}

	_ = r.cache.SetWithExpire(docid, doc, r.opts.CacheTTL)
	return doc, nil
}

func pickDocument(docs []document.Document, kind document.Kind, fallbackDocid string) document.Document {
	for _, d := range docs {
		if d.Kind == kind {
			return d
		}
	}
	return document.Document{Docid: fallbackDocid, Kind: kind}
}

func (r *Retriever) contentMetaData(ctx context.Context, file fs.File, root fs.File) (document.Document, error) {
	if err := r.checkRetrievable(file); err != nil {
		return document.Document{}, err
	}
	docs, err := r.factory.Documents(ctx, file, root)
	if err != nil {
		return document.Document{}, err
	}
	return pickDocument(docs, document.KindContent, file.Path()), nil
}

// GetContent re-opens docid's path and returns its byte stream. ACL
// documents carry no bytes, so their docids always yield (nil, nil); a
// directory likewise yields (nil, nil) rather than an error. A permanent
// per-document failure (missing, unreadable, empty, oversize) is reported
// the same way, since the sink has no use for a nil-content error distinct
// from "there is nothing to read".
func (r *Retriever) GetContent(ctx context.Context, docid string) (io.ReadCloser, error) {
	ref := parseDocid(docid)
	if ref.kind != document.KindContent {
		return nil, nil
	}

	file, _, err := r.open(ctx, ref.path)
	if err != nil {
		return nil, err
	}

	isDir, err := file.IsDirectory()
	if err != nil {
		return nil, classify(err)
	}
	if isDir {
		return nil, nil
	}

	if err := r.checkRetrievable(file); err != nil {
		if errtypes.IsRepositoryDocumentError(err) {
			logger.Debug().Str("docid", docid).Err(err).Msg("content unavailable for docid")
			return nil, nil
		}
		return nil, err
	}

	return file.Content(ctx)
}

// open resolves path to its File and, separately, to the File for the
// configured root path owns (the same root a live traverser would pass to
// the document factory for ACL-inheritance context). An unclaimed prefix
// classifies as errtypes.UnknownFileSystem.
func (r *Retriever) open(ctx context.Context, path string) (file fs.File, root fs.File, err error) {
	f, err := r.registry.GetFile(ctx, path, r.creds(path))
	if err != nil {
		return nil, nil, err
	}
	rootPath := r.rootPathFor(path)
	if rootPath == path {
		return f, f, nil
	}
	rootFile, err := r.registry.GetFile(ctx, rootPath, r.creds(rootPath))
	if err != nil {
		return nil, nil, err
	}
	return f, rootFile, nil
}

// rootPathFor returns the longest configured root path that prefixes path,
// or path itself if none of the configured roots claim it (e.g. a stale
// docid from a root since removed from configuration).
func (r *Retriever) rootPathFor(path string) string {
	best := ""
	for _, root := range r.roots {
		if strings.HasPrefix(path, root) && len(root) > len(best) {
			best = root
		}
	}
	if best == "" {
		return path
	}
	return best
}

// checkRetrievable implements the "missing, unreadable, empty, or oversize"
// permanent-failure test shared by metadata and content lookups.
func (r *Retriever) checkRetrievable(file fs.File) error {
	exists, err := file.Exists()
	if err != nil {
		return classify(err)
	}
	if !exists {
		return errtypes.RepositoryDocument("does not exist: " + file.Path())
	}
	canRead, err := file.CanRead()
	if err != nil {
		return classify(err)
	}
	if !canRead {
		return errtypes.RepositoryDocument("unreadable: " + file.Path())
	}
	length, err := file.Length()
	if err != nil {
		return classify(err)
	}
	if length == 0 {
		return errtypes.RepositoryDocument("empty: " + file.Path())
	}
	if length > r.opts.MaxDocumentSize {
		return errtypes.RepositoryDocument("exceeds maxDocumentSize: " + file.Path())
	}
	return nil
}

// classify passes transient errors through unchanged and demotes anything
// else (an error neither Repository nor RepositoryDocument already) to a
// RepositoryDocument, since a stat-level failure with no further
// classification is, from the retriever's point of view, this one document
// being unproducible rather than the whole root being unreachable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errtypes.IsRepositoryError(err) || errtypes.IsRepositoryDocumentError(err) || errtypes.IsUnknownFileSystemError(err) {
		return err
	}
	return errtypes.RepositoryDocument(err.Error())
}
