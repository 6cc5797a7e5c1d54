package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/heshanpadmasiri/csvb/convert"
)

// config represents conversion configuration
type config struct {
	RootNamespace  string            `toml:"root_namespace"`
	LicenseHeader  string            `toml:"license_header"`
	AmbientImports []string          `toml:"ambient_imports"`
	Strict         bool              `toml:"strict"`
	LogLevel       string            `toml:"log_level"`
	Jobs           int               `toml:"jobs"`
	Include        []string          `toml:"include"`
	Exclude        []string          `toml:"exclude"`
	TypeMappings   map[string]string `toml:"type_mappings"`
}

const logLevelEnv = "CSVB_LOG_LEVEL"

func defaultConfig() config {
	return config{
		AmbientImports: convert.DefaultAmbientImports,
		LogLevel:       "warn",
		Include:        []string{"**/*.cs"},
		Exclude:        []string{"**/bin/**", "**/obj/**"},
	}
}

// loadConfig loads conversion configuration from Config.toml in dir. A
// missing or invalid file gives the defaults. Variables from a .env file
// in dir are applied on top.
func loadConfig(dir string) config {
	_ = godotenv.Load(filepath.Join(dir, ".env"))
	c := readConfigFile(filepath.Join(dir, "Config.toml"))
	if level := os.Getenv(logLevelEnv); level != "" {
		c.LogLevel = level
	}
	return c
}

func readConfigFile(path string) config {
	c := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		// Config file doesn't exist, return defaults
		return c
	}

	var fileConfig config
	if err := toml.Unmarshal(data, &fileConfig); err != nil {
		// Invalid TOML, return defaults
		return c
	}

	// Use values from file if provided, otherwise keep defaults
	if fileConfig.RootNamespace != "" {
		c.RootNamespace = fileConfig.RootNamespace
	}
	if fileConfig.LicenseHeader != "" {
		c.LicenseHeader = fileConfig.LicenseHeader
	}
	if fileConfig.AmbientImports != nil {
		c.AmbientImports = fileConfig.AmbientImports
	}
	if fileConfig.LogLevel != "" {
		c.LogLevel = fileConfig.LogLevel
	}
	if fileConfig.Jobs > 0 {
		c.Jobs = fileConfig.Jobs
	}
	if fileConfig.Include != nil {
		c.Include = fileConfig.Include
	}
	if fileConfig.Exclude != nil {
		c.Exclude = fileConfig.Exclude
	}
	if fileConfig.TypeMappings != nil {
		c.TypeMappings = fileConfig.TypeMappings
	}
	c.Strict = fileConfig.Strict

	return c
}

func (c config) options(path string) convert.Options {
	return convert.Options{
		Strict:         c.Strict,
		AmbientImports: c.AmbientImports,
		FilePath:       path,
		LicenseHeader:  c.LicenseHeader,
		TypeMappings:   c.TypeMappings,
		RootNamespace:  strings.Trim(c.RootNamespace, "."),
	}
}
