// Package config loads server configuration from configs/config.yaml with
// environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Sim     SimConfig     `mapstructure:"sim"`
	Game    GameConfig    `mapstructure:"game"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

type SimConfig struct {
	TickIntervalMs     int    `mapstructure:"tick_interval_ms"`
	AutosaveIntervalMs int    `mapstructure:"autosave_interval_ms"`
	SavePath           string `mapstructure:"save_path"`
	Seed               int64  `mapstructure:"seed"`
}

type GameConfig struct {
	DataDir      string `mapstructure:"data_dir"`
	StartingCash int64  `mapstructure:"starting_cash"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configs/config.yaml (when present) and applies MATATU_*
// environment overrides on top. A missing config file is fine; the defaults
// describe a fully playable local setup.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MATATU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("sim.tick_interval_ms", 250)
	v.SetDefault("sim.autosave_interval_ms", 30000)
	v.SetDefault("sim.save_path", "data/savegame.json")
	v.SetDefault("sim.seed", 0)
	v.SetDefault("game.data_dir", "data")
	v.SetDefault("game.starting_cash", 50000)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", cfg.Server.Port)
	}
	if cfg.Sim.TickIntervalMs <= 0 {
		return fmt.Errorf("sim.tick_interval_ms must be positive")
	}
	if cfg.Sim.AutosaveIntervalMs < 0 {
		return fmt.Errorf("sim.autosave_interval_ms must not be negative")
	}
	if cfg.Game.StartingCash < 0 {
		return fmt.Errorf("game.starting_cash must not be negative")
	}
	return nil
}

// TickInterval is the scheduler cadence as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Sim.TickIntervalMs) * time.Millisecond
}

// AutosaveInterval is the autosave cadence as a duration.
func (c *Config) AutosaveInterval() time.Duration {
	return time.Duration(c.Sim.AutosaveIntervalMs) * time.Millisecond
}

// Addr is the host:port the HTTP server binds.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
