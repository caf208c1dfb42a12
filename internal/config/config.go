// Package config loads the TOML configuration file and provides XDG path helpers.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultBoots is the item allow-list of the boots view: the seven
// upgraded boots as named in the Korean client.
var DefaultBoots = []string{
	"광전사의 군화",
	"마법사의 신발",
	"닌자의 신발",
	"헤르메스의 발걸음",
	"신속의 장화",
	"명석함의 아이오니아 장화",
	"기동력의 장화",
}

// Config is the fully resolved configuration.
type Config struct {
	Data    DataConfig    `toml:"data"`
	Icons   IconsConfig   `toml:"icons"`
	Cache   CacheConfig   `toml:"cache"`
	Items   ItemsConfig   `toml:"items"`
	Chart   ChartConfig   `toml:"chart"`
	Analyze AnalyzeConfig `toml:"analyze"`
	Log     LogConfig     `toml:"log"`
}

// DataConfig names the default inputs.
type DataConfig struct {
	CSV string `toml:"csv"` // used when no --csv or --dataset is given
	DB  string `toml:"db"`
}

// IconsConfig controls the icon dictionary refresh.
type IconsConfig struct {
	Locale  string   `toml:"locale"`
	Version string   `toml:"version"` // "latest" or a pinned version such as "14.1.1"
	MaxAge  Duration `toml:"max_age"`
	BaseURL string   `toml:"base_url"`
}

// CacheConfig sizes the dashboard cache.
type CacheConfig struct {
	Size int `toml:"size"`
}

// ItemsConfig holds item view settings.
type ItemsConfig struct {
	Boots     []string `toml:"boots"`
	CoreSlots int      `toml:"core_slots"`
}

// ChartConfig holds chart settings.
type ChartConfig struct {
	Limit int    `toml:"limit"`
	Theme string `toml:"theme"`
}

// AnalyzeConfig holds the AI commentary settings.
type AnalyzeConfig struct {
	Model string `toml:"model"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Duration is a time.Duration decoded from strings such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", b, err)
	}
	d.Duration = v
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Data: DataConfig{DB: DefaultDBPath()},
		Icons: IconsConfig{
			Locale:  "ko_KR",
			Version: "latest",
			MaxAge:  Duration{24 * time.Hour},
		},
		Cache:   CacheConfig{Size: 128},
		Items:   ItemsConfig{Boots: append([]string(nil), DefaultBoots...), CoreSlots: 3},
		Chart:   ChartConfig{Limit: 15, Theme: "light"},
		Analyze: AnalyzeConfig{Model: "claude-haiku-4-5-20251001"},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a TOML config from path over the defaults. Missing file is not an error.
// Keys absent from the file keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("stat config: %w", err)
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Default(), fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Default(), fmt.Errorf("decode config: unknown key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate rejects values no command can work with.
func (c Config) Validate() error {
	if c.Cache.Size <= 0 {
		return fmt.Errorf("cache.size must be positive, got %d", c.Cache.Size)
	}
	if c.Items.CoreSlots <= 0 {
		return fmt.Errorf("items.core_slots must be positive, got %d", c.Items.CoreSlots)
	}
	if c.Icons.MaxAge.Duration < 0 {
		return fmt.Errorf("icons.max_age must not be negative")
	}
	if c.Chart.Limit < 0 {
		return fmt.Errorf("chart.limit must not be negative")
	}
	return nil
}
