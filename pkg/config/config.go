// Package config loads attackmap settings from defaults, an optional YAML
// file and ATTACKMAP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dd0wney/cluso-attackmap/pkg/validation"
	"github.com/dd0wney/cluso-attackmap/pkg/visualization"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable names
const EnvPrefix = "ATTACKMAP"

type Config struct {
	Log    LogConfig                  `mapstructure:"log"`
	Layout visualization.LayoutConfig `mapstructure:"layout"`
	Server ServerConfig               `mapstructure:"server"`
	Data   DataConfig                 `mapstructure:"data"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	// Origins allowed to call the API from a browser; "*" allows any
	CORSOrigins []string `mapstructure:"cors_origins"`
	// Maximum nesting of GraphQL selections
	GraphQLMaxDepth int `mapstructure:"graphql_max_depth"`
}

type DataConfig struct {
	GraphFile   string `mapstructure:"graph_file"`
	AttacksFile string `mapstructure:"attacks_file"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Layout: visualization.DefaultLayoutConfig(),
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			CORSOrigins:     []string{},
			GraphQLMaxDepth: 6,
		},
	}
}

// NewViper returns a viper instance carrying the defaults and the
// environment binding. Callers may bind flags to it before Load.
func NewViper() *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("layout.width", d.Layout.Width)
	v.SetDefault("layout.height", d.Layout.Height)
	v.SetDefault("layout.padding", d.Layout.Padding)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", d.Server.IdleTimeout)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.graphql_max_depth", d.Server.GraphQLMaxDepth)
	v.SetDefault("data.graph_file", "")
	v.SetDefault("data.attacks_file", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads path (if non-empty) into v and returns the validated config.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = NewViper()
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section and reports all problems at once
func (c *Config) Validate() error {
	return errors.Join(
		validation.NewConfigValidator("log").
			OneOf("level", c.Log.Level, []string{"debug", "info", "warn", "warning", "error"}).
			OneOf("format", c.Log.Format, []string{"json", "console"}).
			Validate(),
		validation.NewConfigValidator("layout").
			PositiveFloat("width", c.Layout.Width).
			PositiveFloat("height", c.Layout.Height).
			NonNegativeFloat("padding", c.Layout.Padding).
			Custom("padding", func() error {
				if r := min(c.Layout.Width, c.Layout.Height)/2 - c.Layout.Padding; r <= 0 {
					return fmt.Errorf("leaves a non-positive radius %g", r)
				}
				return nil
			}).
			Validate(),
		validation.NewConfigValidator("server").
			RangeInt("port", c.Server.Port, 1, 65535).
			MinDuration("read_timeout", c.Server.ReadTimeout, time.Second).
			MinDuration("write_timeout", c.Server.WriteTimeout, time.Second).
			MinDuration("idle_timeout", c.Server.IdleTimeout, time.Second).
			RangeInt("graphql_max_depth", c.Server.GraphQLMaxDepth, 1, 32).
			Validate(),
	)
}

// Addr returns the listen address for the HTTP server
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}
