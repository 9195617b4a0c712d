package mimetype_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wiarlawd/fs-crawler/pkg/mimetype"
)

func TestDetectByExtension(t *testing.T) {
	assert.Equal(t, "application/pdf", mimetype.Detect("report.PDF", false, nil))
	assert.Equal(t, "text/plain", mimetype.Detect("notes.txt", false, nil))
}

func TestDetectDirectory(t *testing.T) {
	assert.Equal(t, "httpd/unix-directory", mimetype.Detect("somedir", true, nil))
}

func TestDetectUnknownFallsBackToOctetStream(t *testing.T) {
	assert.Equal(t, "application/octet-stream", mimetype.Detect("blob.unknownext", false, nil))
}

func TestRegisterOverridesBuiltin(t *testing.T) {
	mimetype.Register("txt", "application/x-custom-text")
	defer mimetype.Register("txt", "text/plain")
	assert.Equal(t, "application/x-custom-text", mimetype.Detect("notes.txt", false, nil))
}
