package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/dhnet/config.yml.
type GlobalConfig struct {
	// DefaultConfig is used when no dhnet.yml is found above the working directory.
	DefaultConfig string `yaml:"default_config,omitempty"`
	UserAgent     string `yaml:"user_agent,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "dhnet"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/dhnet/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.DefaultConfig != "" {
		cfg.DefaultConfig = ExpandPath(cfg.DefaultConfig)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// Resolve picks the project config path: an explicit path wins, then the
// nearest dhnet.yml above start, then the global default_config. When none
// applies it returns start/dhnet.yml, which Load treats as defaults.
func Resolve(explicit, start string) (string, error) {
	if explicit != "" {
		return ExpandPath(explicit), nil
	}
	if path, ok := FindConfig(start); ok {
		return path, nil
	}
	global, err := LoadGlobalConfig()
	if err != nil {
		return "", err
	}
	if global.DefaultConfig != "" {
		return global.DefaultConfig, nil
	}
	return filepath.Join(start, ConfigFile), nil
}
