// Package config loads the CLI configuration file.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the service endpoints the CLI talks to.
type Config struct {
	ReceiverURL   string `yaml:"receiver_url"`
	StorageURL    string `yaml:"storage_url"`
	ProcessingURL string `yaml:"processing_url"`
	AnalyzerURL   string `yaml:"analyzer_url"`
	AnomalyURL    string `yaml:"anomaly_url"`
	CheckURL      string `yaml:"check_url"`

	path string
}

func Default() *Config {
	return &Config{
		ReceiverURL:   "http://localhost:8080",
		StorageURL:    "http://localhost:8090",
		ProcessingURL: "http://localhost:8100",
		AnalyzerURL:   "http://localhost:8110",
		AnomalyURL:    "http://localhost:8120",
		CheckURL:      "http://localhost:8130",
	}
}

// Load reads the config file, falling back to defaults when it is absent.
func Load(cfgFile string) (*Config, error) {
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfgFile = filepath.Join(home, ".pwctl", "config.yaml")
	}

	cfg := Default()
	cfg.path = cfgFile

	data, err := os.ReadFile(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config back to its file.
func (c *Config) Save() error {
	if c.path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.path = filepath.Join(home, ".pwctl", "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.path, data, 0o600)
}
