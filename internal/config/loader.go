package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// NewFileLoader creates a loader reading an explicit config file.
func NewFileLoader(rootDir, configFile string) Loader {
	return &loader{
		rootDir:    rootDir,
		configFile: configFile,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (BEANCRAFT_*)
// 2. Config file (.beancraft/config.yml, .yaml, .toml or .json)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(filepath.Join(l.rootDir, DirName))
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("BEANCRAFT")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., BEANCRAFT_SCHEMA_MODULE)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("schema.module")
	v.BindEnv("schema.output")
	v.BindEnv("schema.enum_output")
	v.BindEnv("schema.default_parent")
	v.BindEnv("codegen.enabled")
	v.BindEnv("codegen.output_dir")
	v.BindEnv("codegen.import_limit")
	v.BindEnv("cache.enabled")
	v.BindEnv("cache.path")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || l.configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("sources", defaults.Sources)
	v.SetDefault("include", defaults.Include)
	v.SetDefault("ignore", defaults.Ignore)

	v.SetDefault("schema.module", defaults.Schema.Module)
	v.SetDefault("schema.output", defaults.Schema.Output)
	v.SetDefault("schema.enum_output", defaults.Schema.EnumOutput)
	v.SetDefault("schema.bean_types", defaults.Schema.BeanTypes)
	v.SetDefault("schema.bean_types_output", defaults.Schema.BeanTypesOutput)
	v.SetDefault("schema.default_parent", defaults.Schema.DefaultParent)

	v.SetDefault("codegen.enabled", defaults.Codegen.Enabled)
	v.SetDefault("codegen.output_dir", defaults.Codegen.OutputDir)
	v.SetDefault("codegen.tables_file", defaults.Codegen.TablesFile)
	v.SetDefault("codegen.beans_file", defaults.Codegen.BeansFile)
	v.SetDefault("codegen.import_limit", defaults.Codegen.ImportLimit)

	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.path", defaults.Cache.Path)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
