package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventorytracker/internal/logger"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGetConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, "")

	config, err := GetConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:8000", config.ServerAddress)
	assert.Equal(t, "mongodb://localhost:27017", config.DatabaseURI)
	assert.Equal(t, "", config.RedisAddress)
	assert.Equal(t, "./web", config.StaticDir)
	assert.Equal(t, logger.LevelInfo, config.LogLevel)
	assert.False(t, config.LogToFile)
}

func TestGetConfigFullFile(t *testing.T) {
	path := writeConfigFile(t, `
server_address = "0.0.0.0:9000"
database_uri = "mongodb://db:27017"
redis_address = "localhost:6379"
static_dir = "./assets"
log_level = "trace"
log_to_file = true
`)

	config, err := GetConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", config.ServerAddress)
	assert.Equal(t, "mongodb://db:27017", config.DatabaseURI)
	assert.Equal(t, "localhost:6379", config.RedisAddress)
	assert.Equal(t, "./assets", config.StaticDir)
	assert.Equal(t, logger.LevelTrace, config.LogLevel)
	assert.True(t, config.LogToFile)
}

func TestGetConfigInvalidLogLevel(t *testing.T) {
	path := writeConfigFile(t, `log_level = "verbose"`)

	_, err := GetConfig(path)
	assert.Error(t, err)
}

func TestGetConfigMissingFile(t *testing.T) {
	_, err := GetConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
