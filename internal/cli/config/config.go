package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultServerURL    = "ws://127.0.0.1:8080/ws"
	DefaultAPIBase      = "http://127.0.0.1:8080"
	DefaultTimeout      = 10 * time.Second
	DefaultIdentityPath = "configs/duelctl_identity.json"
	DefaultHistoryPath  = "configs/duelctl_history"
)

// Config holds CLI configuration.
type Config struct {
	ServerURL    string        `yaml:"serverURL"`
	APIBase      string        `yaml:"apiBase"`
	Timeout      time.Duration `yaml:"timeout"`
	IdentityPath string        `yaml:"identityPath"`
	HistoryPath  string        `yaml:"historyPath"`
	PrettyJSON   *bool         `yaml:"prettyJSON"`
}

// Load reads the config file. A missing file yields defaults so the CLI
// works without any setup.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyDefaults(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file failed: %w", err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.IdentityPath == "" {
		cfg.IdentityPath = DefaultIdentityPath
	}
	if cfg.HistoryPath == "" {
		cfg.HistoryPath = DefaultHistoryPath
	}
	if cfg.PrettyJSON == nil {
		value := true
		cfg.PrettyJSON = &value
	}
}
