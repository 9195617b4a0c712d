package config_test

import (
	"testing"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiarlawd/fs-crawler/pkg/config"
)

func TestDefaultOptions(t *testing.T) {
	opts := config.Default()
	assert.Equal(t, 10, opts.ThreadPoolSize)
	assert.Equal(t, 60, opts.IfModifiedSinceCushionMinutes)
	assert.Equal(t, -1, opts.FullTraversalIntervalDays)
}

func TestDecodeOverridesDefaults(t *testing.T) {
	opts := config.Default()
	raw := map[string]interface{}{
		"thread_pool_size": 4,
		"push_acls":        true,
		"credentials": map[string]interface{}{
			"domain": "CORP",
			"user":   "svc-crawler",
		},
	}
	require.NoError(t, mapstructure.Decode(raw, &opts))

	assert.Equal(t, 4, opts.ThreadPoolSize)
	assert.True(t, opts.PushAcls)
	assert.Equal(t, "CORP", opts.Credentials.Domain)
	assert.Equal(t, 60, opts.IfModifiedSinceCushionMinutes, "untouched defaults survive the decode")
}
