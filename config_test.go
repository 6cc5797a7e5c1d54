package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heshanpadmasiri/csvb/convert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(logLevelEnv, "")
	cfg := loadConfig(t.TempDir())
	assert.Equal(t, defaultConfig(), cfg)
	assert.Equal(t, convert.DefaultAmbientImports, cfg.AmbientImports)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv(logLevelEnv, "")
	dir := t.TempDir()
	content := `root_namespace = "Contoso.App."
strict = true
jobs = 3
log_level = "debug"
exclude = ["**/Generated/**"]

[type_mappings]
"Contoso.Money" = "Decimal"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Config.toml"), []byte(content), 0o644))

	cfg := loadConfig(dir)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"**/*.cs"}, cfg.Include)
	assert.Equal(t, []string{"**/Generated/**"}, cfg.Exclude)
	assert.Equal(t, map[string]string{"Contoso.Money": "Decimal"}, cfg.TypeMappings)

	opts := cfg.options("A.cs")
	assert.Equal(t, "Contoso.App", opts.RootNamespace)
	assert.Equal(t, "A.cs", opts.FilePath)
	assert.True(t, opts.Strict)
	assert.Equal(t, convert.DefaultAmbientImports, opts.AmbientImports)
}

func TestInvalidConfigGivesDefaults(t *testing.T) {
	t.Setenv(logLevelEnv, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Config.toml"), []byte("strict = [unterminated"), 0o644))
	assert.Equal(t, defaultConfig(), loadConfig(dir))
}

func TestLogLevelFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Config.toml"), []byte(`log_level = "info"`), 0o644))

	t.Setenv(logLevelEnv, "error")
	assert.Equal(t, "error", loadConfig(dir).LogLevel)
}

func TestLogLevelFromDotEnv(t *testing.T) {
	// godotenv does not override variables that are already set
	t.Setenv(logLevelEnv, "")
	require.NoError(t, os.Unsetenv(logLevelEnv))
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(logLevelEnv+"=debug\n"), 0o644))

	assert.Equal(t, "debug", loadConfig(dir).LogLevel)
}
