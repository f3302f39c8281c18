// Package config loads the server configuration from a YAML file with
// environment variable overrides (prefix ASCENT_, dots as underscores).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ascentcg/ascent-server-go/internal/game"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Replay   ReplayConfig   `mapstructure:"replay"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig configures the WebSocket gateway.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// GameConfig carries the match rule constants and the card catalog
// location.
type GameConfig struct {
	CardFile       string `mapstructure:"card_file"`
	Levels         int    `mapstructure:"levels"`
	BaseRadius     int    `mapstructure:"base_radius"`
	StartingHealth int    `mapstructure:"starting_health"`
	OpeningHand    int    `mapstructure:"opening_hand"`
	ResourceCap    int    `mapstructure:"resource_cap"`
	TurnLimit      int    `mapstructure:"turn_limit"`
}

// ReplayConfig configures replay persistence.
type ReplayConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// DatabaseConfig configures the optional match result store. An empty
// URL disables persistence.
type DatabaseConfig struct {
	URL      string        `mapstructure:"url"`
	MaxConns int32         `mapstructure:"max_conns"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Rules converts the game section into the engine's rule set.
func (g GameConfig) Rules() game.Rules {
	return game.Rules{
		Levels:         g.Levels,
		BaseRadius:     g.BaseRadius,
		StartingHealth: g.StartingHealth,
		OpeningHand:    g.OpeningHand,
		ResourceCap:    g.ResourceCap,
		TurnLimit:      g.TurnLimit,
	}
}

func setDefaults(v *viper.Viper) {
	defaults := game.DefaultRules()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.ping_interval", "30s")
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("game.card_file", "config/cards.yaml")
	v.SetDefault("game.levels", defaults.Levels)
	v.SetDefault("game.base_radius", defaults.BaseRadius)
	v.SetDefault("game.starting_health", defaults.StartingHealth)
	v.SetDefault("game.opening_hand", defaults.OpeningHand)
	v.SetDefault("game.resource_cap", defaults.ResourceCap)
	v.SetDefault("game.turn_limit", defaults.TurnLimit)

	v.SetDefault("replay.enabled", true)
	v.SetDefault("replay.dir", "replays")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.timeout", "5s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Load reads the configuration file at path. A missing file is fine;
// defaults and environment overrides still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("ASCENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}
	if c.Game.Levels < 1 {
		return fmt.Errorf("game.levels must be at least 1, got %d", c.Game.Levels)
	}
	if c.Game.BaseRadius < c.Game.Levels {
		return fmt.Errorf("game.base_radius %d cannot hold %d levels", c.Game.BaseRadius, c.Game.Levels)
	}
	if c.Game.StartingHealth < 1 {
		return fmt.Errorf("game.starting_health must be positive, got %d", c.Game.StartingHealth)
	}
	if c.Game.OpeningHand < 0 {
		return fmt.Errorf("game.opening_hand must not be negative, got %d", c.Game.OpeningHand)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}
