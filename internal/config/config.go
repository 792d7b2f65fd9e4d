package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Game        GameConfig        `mapstructure:"game"`
	Clock       ClockConfig       `mapstructure:"clock"`
	Seats       SeatsConfig       `mapstructure:"seats"`
	Development DevelopmentConfig `mapstructure:"development"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type GameConfig struct {
	DefaultMode        string `mapstructure:"default_mode"`
	WeightedAllocation bool   `mapstructure:"weighted_allocation"`
	HintsEnabled       bool   `mapstructure:"hints_enabled"`
	// Seed fixes the allocation sampler; 0 seeds from the clock.
	Seed int64 `mapstructure:"seed"`
}

type ClockConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// SeatsConfig controls signed seat tokens. When Required is false anyone
// may act for either color.
type SeatsConfig struct {
	Required bool `mapstructure:"required"`
	// Secret signs seat tokens; empty means a random per-process key.
	Secret string `mapstructure:"secret"`
}

type DevelopmentConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads config.yaml from the working directory or ./config. A missing
// file is not an error; defaults and RANDCHESS_* environment variables
// still apply.
func Load() (*Config, error) {
	return LoadFrom(".", "./config")
}

// LoadFrom is Load with explicit search paths.
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Enable environment variables
	v.SetEnvPrefix("RANDCHESS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("game.default_mode", "classic")
	v.SetDefault("game.weighted_allocation", false)
	v.SetDefault("game.hints_enabled", true)
	v.SetDefault("game.seed", 0)
	v.SetDefault("clock.sweep_interval", time.Second)
	v.SetDefault("seats.required", false)
	v.SetDefault("seats.secret", "")
	v.SetDefault("development.debug", false)
	v.SetDefault("development.log_level", "info")
}
