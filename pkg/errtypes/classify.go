package errtypes

import "errors"

// IsRepositoryDocumentError reports whether err (or any error it wraps) is
// a permanent, document-scoped failure.
func IsRepositoryDocumentError(err error) bool {
	var marker IsRepositoryDocument
	return errors.As(err, &marker)
}

// IsRepositoryError reports whether err (or any error it wraps) is a
// transient failure that warrants a retry.
func IsRepositoryError(err error) bool {
	var marker IsRepository
	return errors.As(err, &marker)
}

// IsDirectoryListingError reports whether err (or any error it wraps)
// should cause one subtree to be skipped without aborting the walk.
func IsDirectoryListingError(err error) bool {
	var marker IsDirectoryListing
	return errors.As(err, &marker)
}

// IsUnknownFileSystemError reports whether err (or any error it wraps)
// means no registered filesystem type claims the path.
func IsUnknownFileSystemError(err error) bool {
	var marker IsUnknownFileSystem
	return errors.As(err, &marker)
}
