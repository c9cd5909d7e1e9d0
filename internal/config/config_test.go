package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LoadOrCreate_Writes_Defaults_On_First_Launch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "myday", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err, "config file should be created")
	assert.Equal(t, filepath.Join(dir, "myday", DefaultDBName), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "myday", DefaultLogName), cfg.LogFile)
	assert.Empty(t, cfg.DefaultFilter)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultKeymap(), cfg.Keys)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func Test_LoadOrCreate_Reads_User_Values(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	content := `
db_path = "/var/lib/myday/data.db"
log_file = "logs/debug.log"
log_level = "debug"
default_filter = "today"
default_sort = "priority"
sort_order = "desc"
locale = "en"

[keys]
quit = "x"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/myday/data.db", cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "logs", "debug.log"), cfg.LogFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "today", cfg.DefaultFilter)
	assert.Equal(t, "priority", cfg.DefaultSort)
	assert.Equal(t, "desc", cfg.SortOrder)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, "x", cfg.Keys.Quit)
	assert.Equal(t, "a", cfg.Keys.Add, "unset bindings keep their defaults")
}

func Test_LoadOrCreate_Empty_DB_Path_Uses_Default(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`db_path = ""`), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultDBName), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, DefaultLogName), cfg.LogFile, "missing keys keep their defaults")
}

func Test_LoadOrCreate_Rejects_Invalid_TOML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`db_path = `), 0o644))

	_, err := LoadOrCreate(path)
	require.Error(t, err)
}

func Test_ResolveConfigPath_Honors_Environment(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/custom.toml")
	assert.Equal(t, "/tmp/custom.toml", ResolveConfigPath())
}
