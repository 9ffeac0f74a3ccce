package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haccpkit/haccp/pkg/constants"
	"github.com/haccpkit/haccp/pkg/errors"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LOG_FORMAT", "")

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultEncoding, config.Encoding)
	assert.Equal(t, "auto", config.LogFormat)
	assert.Equal(t, "stderr", config.LogOutput)
	assert.Empty(t, config.DataDir)
	assert.Empty(t, config.ConfigFile)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HACCP_DATA_DIR", "/srv/haccp")
	t.Setenv("HACCP_ENCODING", "cp949")
	t.Setenv("HACCP_FAIL_ON_EMPTY", "true")

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/haccp", config.DataDir)
	assert.Equal(t, "cp949", config.Encoding)
	assert.True(t, config.FailOnEmpty)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HACCP_MANIFEST=from-dotenv.yaml\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("HACCP_MANIFEST") })

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.yaml", config.ManifestPath)
}

func TestLoadConfig_File(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "haccp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: ./inputs\nfont: /fonts/NanumGothic.ttf\noutput: yaml\n"), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "./inputs", config.DataDir)
	assert.Equal(t, "/fonts/NanumGothic.ttf", config.FontPath)
	assert.Equal(t, "yaml", config.Output)
	assert.Equal(t, path, config.ConfigFile)

	// environment beats the file
	t.Setenv("HACCP_DATA_DIR", "/env")
	config, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/env", config.DataDir)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{DataDir: "/env", Encoding: "auto", Output: "yaml"}
	flags := &Config{DataDir: "/flag", Encoding: "cp949", Output: "json", Verbose: true}

	changed := map[string]bool{"data-dir": true, "verbose": true}
	config.UpdateFromFlags(flags, func(name string) bool { return changed[name] })

	assert.Equal(t, "/flag", config.DataDir)
	assert.True(t, config.Verbose)
	assert.Equal(t, "auto", config.Encoding, "unchanged flags keep the configured value")
	assert.Equal(t, "yaml", config.Output)
}
