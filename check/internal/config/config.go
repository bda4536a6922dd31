package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// MonitorConfig locates the monitored services and controls polling.
type MonitorConfig struct {
	ReceiverURL   string        `mapstructure:"receiver_url"`
	StorageURL    string        `mapstructure:"storage_url"`
	ProcessingURL string        `mapstructure:"processing_url"`
	AnalyzerURL   string        `mapstructure:"analyzer_url"`
	Interval      time.Duration `mapstructure:"interval"`
	CallTimeout   time.Duration `mapstructure:"call_timeout"`
	ReportPath    string        `mapstructure:"report_path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8130)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("monitor.receiver_url", "http://localhost:8080")
	v.SetDefault("monitor.storage_url", "http://localhost:8090")
	v.SetDefault("monitor.processing_url", "http://localhost:8100")
	v.SetDefault("monitor.analyzer_url", "http://localhost:8110")
	v.SetDefault("monitor.interval", "30s")
	v.SetDefault("monitor.call_timeout", "5s")
	v.SetDefault("monitor.report_path", "data/health_report.json")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/parkwatch/check")
	}

	// Environment variables override
	v.SetEnvPrefix("CHECK")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
