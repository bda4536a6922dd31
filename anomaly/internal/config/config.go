package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Events   EventsConfig   `mapstructure:"events"`
	Detector DetectorConfig `mapstructure:"detector"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type EventsConfig struct {
	URL             string        `mapstructure:"url"`
	Stream          string        `mapstructure:"stream"`
	Subject         string        `mapstructure:"subject"`
	ConnectAttempts int           `mapstructure:"connect_attempts"`
	ConnectDelay    time.Duration `mapstructure:"connect_delay"`
}

// DetectorConfig controls the periodic detection cycle.
type DetectorConfig struct {
	Group         string        `mapstructure:"group"`
	Interval      time.Duration `mapstructure:"interval"`
	PollTimeout   time.Duration `mapstructure:"poll_timeout"`
	StorePath     string        `mapstructure:"store_path"`
	MaxAmount     float64       `mapstructure:"max_amount"`
	MinSpotNumber int           `mapstructure:"min_spot_number"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8120)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("events.url", "nats://localhost:4222")
	v.SetDefault("events.stream", "PARKING_EVENTS")
	v.SetDefault("events.subject", "parking.events")
	v.SetDefault("events.connect_attempts", 5)
	v.SetDefault("events.connect_delay", "5s")
	v.SetDefault("detector.group", "anomaly_group")
	v.SetDefault("detector.interval", "30s")
	v.SetDefault("detector.poll_timeout", "2s")
	v.SetDefault("detector.store_path", "data/anomalies.json")
	v.SetDefault("detector.max_amount", 100.0)
	v.SetDefault("detector.min_spot_number", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/parkwatch/anomaly")
	}

	// Environment variables override
	v.SetEnvPrefix("ANOMALY")
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
