package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML configuration file format.
//
// Example:
//
//	gateway: http://192.168.8.1
//	username: admin
//	state_dir: /var/lib/gatelink
//	log_level: info
//	log_file: /var/log/gatelink/events.cbor
//	timeout: 30s
type FileConfig struct {
	Gateway  string `yaml:"gateway"`
	Username string `yaml:"username"`
	StateDir string `yaml:"state_dir"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
	Timeout  string `yaml:"timeout"`
}

// loadConfigFile reads a YAML configuration file and applies its values
// to any config fields not already set by command-line flags.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	// Flags take precedence over the file.
	if cfg.Gateway == "" {
		cfg.Gateway = fc.Gateway
	}
	if cfg.Username == "" {
		cfg.Username = fc.Username
	}
	if cfg.StateDir == "" {
		cfg.StateDir = fc.StateDir
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = fc.LogLevel
	}
	if cfg.LogFile == "" {
		cfg.LogFile = fc.LogFile
	}
	if cfg.Timeout == 0 && fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout in config file: %w", err)
		}
		cfg.Timeout = d
	}

	return nil
}
