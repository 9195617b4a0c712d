// Package errtypes defines the crawler's error taxonomy as sentinel
// string-based error values, each implementing both error and a marker
// interface so callers type-assert IsXxx instead of comparing sentinels.
//
// The four crawl-time kinds map directly onto spec §7:
//   - UnknownFileSystem: no registered filesystem type claims this path.
//   - RepositoryDocument: this one document is permanently unproducible
//     (missing, access-denied, malformed, oversize, empty).
//   - Repository: a transient failure (network, timeout, auth expiry);
//     the caller should retry after a delay.
//   - DirectoryListing: one subtree could not be enumerated; the walk
//     should skip it and continue with siblings.
package errtypes

// UnknownFileSystem is returned when no registered filesystem type accepts a path.
type UnknownFileSystem string

func (e UnknownFileSystem) Error() string { return "unknown filesystem: " + string(e) }

// IsUnknownFileSystem marks UnknownFileSystem.
func (e UnknownFileSystem) IsUnknownFileSystem() {}

// RepositoryDocument is a permanent, document-scoped failure: this document
// cannot be produced now or in the foreseeable future.
type RepositoryDocument string

func (e RepositoryDocument) Error() string { return "document error: " + string(e) }

// IsRepositoryDocument marks RepositoryDocument.
func (e RepositoryDocument) IsRepositoryDocument() {}

// Repository is a transient failure: server unreachable, timeout, expired
// credentials. Callers should back off and retry.
type Repository string

func (e Repository) Error() string { return "repository error: " + string(e) }

// IsRepository marks Repository.
func (e Repository) IsRepository() {}

// DirectoryListing marks a failure to enumerate one directory's children.
// The walk skips the subtree but keeps going; it is never surfaced as a
// cycle-ending error.
type DirectoryListing string

func (e DirectoryListing) Error() string { return "directory listing error: " + string(e) }

// IsDirectoryListing marks DirectoryListing.
func (e DirectoryListing) IsDirectoryListing() {}

// IsUnknownFileSystem is implemented by errors produced when a path matches
// no registered filesystem type.
type IsUnknownFileSystem interface {
	IsUnknownFileSystem()
}

// IsRepositoryDocument is implemented by permanent, document-scoped errors.
type IsRepositoryDocument interface {
	IsRepositoryDocument()
}

// IsRepository is implemented by transient errors that warrant a retry.
type IsRepository interface {
	IsRepository()
}

// IsDirectoryListing is implemented by errors that should cause one
// subtree to be skipped without aborting the walk.
type IsDirectoryListing interface {
	IsDirectoryListing()
}
