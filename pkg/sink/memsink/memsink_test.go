package memsink_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiarlawd/fs-crawler/pkg/document"
	"github.com/wiarlawd/fs-crawler/pkg/sink/memsink"
)

func TestTakeRecordsInOrder(t *testing.T) {
	s := memsink.New()
	require.NoError(t, s.Take(document.Document{Docid: "a"}))
	require.NoError(t, s.Take(document.Document{Docid: "b"}))
	assert.Equal(t, []string{"a", "b"}, s.Docids())
}

func TestTakeAfterCancelFails(t *testing.T) {
	s := memsink.New()
	require.NoError(t, s.Cancel())
	err := s.Take(document.Document{Docid: "a"})
	assert.Error(t, err)
	assert.Equal(t, 1, s.CancelCount())
}
