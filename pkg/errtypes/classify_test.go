package errtypes_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wiarlawd/fs-crawler/pkg/errtypes"
)

func TestClassifyHelpers(t *testing.T) {
	assert.True(t, errtypes.IsRepositoryDocumentError(errtypes.RepositoryDocument("missing")))
	assert.True(t, errtypes.IsRepositoryError(errtypes.Repository("down")))
	assert.True(t, errtypes.IsDirectoryListingError(errtypes.DirectoryListing("denied")))
	assert.True(t, errtypes.IsUnknownFileSystemError(errtypes.UnknownFileSystem("ftp://x")))

	assert.False(t, errtypes.IsRepositoryError(errtypes.RepositoryDocument("missing")))
}

func TestClassifyHelpersSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("while listing: %w", errtypes.DirectoryListing("denied"))
	assert.True(t, errtypes.IsDirectoryListingError(wrapped))
}
