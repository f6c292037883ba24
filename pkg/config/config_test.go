package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	require.NoError(t, Load())

	assert.Equal(t, "http://localhost:8000", GlobalConfig.APIBaseURL)
	assert.Equal(t, ":8000", GlobalConfig.Addr)
	assert.Equal(t, "local", GlobalConfig.CacheType)
	assert.Equal(t, "disk", GlobalConfig.MediaStore)
	assert.Equal(t, "gemini-1.5-flash", GlobalConfig.LLMModel)
	assert.NotEmpty(t, GlobalConfig.DeviceStorePath)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CITYSAFE_API_URL", "https://api.citysafe.jm")
	t.Setenv("CACHE_TYPE", "redis")

	require.NoError(t, Load())
	assert.Equal(t, "https://api.citysafe.jm", GlobalConfig.APIBaseURL)
	assert.Equal(t, "redis", GlobalConfig.CacheType)
}
