package log_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wiarlawd/fs-crawler/pkg/log"
)

func TestNewRegistersPackage(t *testing.T) {
	var buf bytes.Buffer
	log.Out = &buf
	log.Mode = "prod"

	l := log.New("traversal")
	l.Info().Msg("cycle started")

	assert.Contains(t, log.ListRegisteredPackages(), "traversal")
	assert.Contains(t, buf.String(), "cycle started")
	assert.Contains(t, buf.String(), `"pkg":"traversal"`)
}
