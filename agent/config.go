// Package agent implements the monitored-host side: it collects system
// metrics with gopsutil and serves them on /systeminfo behind a static
// bearer token that the central server holds.
package agent

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds agent configuration
type Config struct {
	ListenPort   int    `yaml:"listen_port"`
	TokenFile    string `yaml:"token_file"`
	DiskPath     string `yaml:"disk_path"`
	TopProcesses int    `yaml:"top_processes"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	diskPath := "/"
	if runtime.GOOS == "windows" {
		diskPath = `C:\`
	}
	return &Config{
		ListenPort:   8000,
		TokenFile:    "client_token.txt",
		DiskPath:     diskPath,
		TopProcesses: 10,
	}
}

// LoadConfig reads the YAML config file at path, falling back to defaults
// when the file does not exist. Environment variables override the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if port := os.Getenv("AGENT_PORT"); port != "" {
		if v, err := strconv.Atoi(port); err == nil {
			cfg.ListenPort = v
		}
	}
	if tokenFile := os.Getenv("AGENT_TOKEN_FILE"); tokenFile != "" {
		cfg.TokenFile = tokenFile
	}

	if cfg.ListenPort < 1 || cfg.ListenPort > 65535 {
		return nil, fmt.Errorf("invalid listen_port %d", cfg.ListenPort)
	}
	if cfg.TopProcesses < 1 {
		cfg.TopProcesses = 10
	}

	return cfg, nil
}
