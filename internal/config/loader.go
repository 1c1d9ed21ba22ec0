package config

import (
	"os"
	"path/filepath"

	"github.com/meshwatch/meshwatch/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".meshwatch.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/meshwatch"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'meshwatch init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .meshwatch.yaml in current directory
// 3. .meshwatch.yaml in parent directories (stops at home)
// 4. ~/.config/meshwatch/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	// 1. Explicit path takes precedence
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	// 2. Current directory
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	// 3. Walk up to parent directories
	home, _ := os.UserHomeDir()
	dir := cwd
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		if home != "" && parent == home {
			// Don't go above home directory
			break
		}
		dir = parent

		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	// 4. Global config
	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults if not
// found. Useful for commands like 'meshwatch init' that should work without
// an existing config.
func LoadOrDefault() (*Config, error) {
	path, err := Find("")
	if err != nil {
		return nil, err
	}

	if path == "" {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	setDefaults(v)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	// Anchor relative data paths to the config file's directory, so
	// running from another cwd still hits the same log and registry.
	dir := filepath.Dir(path)
	cfg.Paths.TelemetryLog = anchor(dir, cfg.Paths.TelemetryLog)
	cfg.Paths.Registry = anchor(dir, cfg.Paths.Registry)
	cfg.Paths.Diagnostics = anchor(dir, cfg.Paths.Diagnostics)

	return cfg, nil
}

// setDefaults configures viper defaults merged beneath the file's values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("transport.kind", "serial")
	v.SetDefault("transport.binary", "meshtastic")
	v.SetDefault("timeouts.telemetry", "2m")
	v.SetDefault("timeouts.nodes", "1m")
	v.SetDefault("interval", "5m")
	v.SetDefault("retry", "1m")
	v.SetDefault("lock.enabled", true)
	v.SetDefault("lock.dir", "/tmp")
	v.SetDefault("lock.timeout", "5m")
	v.SetDefault("lock.stale", "30m")
	v.SetDefault("paths.telemetry_log", "telemetry_log.csv")
	v.SetDefault("paths.registry", "nodes_log.csv")
	v.SetDefault("paths.diagnostics", "meshwatch.log")
}

// anchor resolves path against dir unless it is already absolute or empty.
func anchor(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
