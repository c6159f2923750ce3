// Package config loads game settings from defaults, an optional
// nightshift.yaml and NIGHTSHIFT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"nightshift/pkg/game/clock"
	"nightshift/pkg/game/save"
)

// Save backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Frontends.
const (
	FrontendTUI    = "tui"
	FrontendEbiten = "ebiten"
)

const (
	fileName  = "nightshift"
	envPrefix = "NIGHTSHIFT"
	appDir    = "nightshift"
)

// Config is everything main needs to put a session on screen.
type Config struct {
	SecondsPerHour float64
	Difficulty     float64
	Seed           int64
	SaveBackend    string
	SavePath       string
	Frontend       string
	LocaleDir      string
	LocaleLang     string
	Debug          bool
	// Keys rebinds actions by config name, e.g. flashlight: l.
	Keys map[string]string
}

// Load reads the configuration. If file is empty, nightshift.yaml is looked
// up in the working directory and the user config directory and may be
// absent. An explicit file must exist and parse.
func Load(file string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appDir))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		SecondsPerHour: v.GetFloat64("seconds_per_hour"),
		Difficulty:     v.GetFloat64("difficulty"),
		Seed:           v.GetInt64("seed"),
		SaveBackend:    strings.ToLower(v.GetString("save.backend")),
		SavePath:       v.GetString("save.path"),
		Frontend:       strings.ToLower(v.GetString("frontend")),
		LocaleDir:      v.GetString("locale.dir"),
		LocaleLang:     v.GetString("locale.lang"),
		Debug:          v.GetBool("debug"),
	}
	if keys := v.GetStringMapString("keys"); len(keys) > 0 {
		cfg.Keys = keys
	}
	cfg.Normalize()
	return cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	cfg := Config{
		SecondsPerHour: v.GetFloat64("seconds_per_hour"),
		Difficulty:     v.GetFloat64("difficulty"),
		SaveBackend:    v.GetString("save.backend"),
		Frontend:       v.GetString("frontend"),
		LocaleLang:     v.GetString("locale.lang"),
	}
	cfg.Normalize()
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("seconds_per_hour", clock.DefaultSecondsPerHour)
	v.SetDefault("difficulty", save.DefaultDifficulty)
	v.SetDefault("seed", 0)
	v.SetDefault("save.backend", BackendJSON)
	v.SetDefault("save.path", "")
	v.SetDefault("frontend", FrontendTUI)
	v.SetDefault("locale.dir", "")
	v.SetDefault("locale.lang", "en_GB")
	v.SetDefault("debug", false)
}

// Normalize clamps numeric settings, replaces unknown enum values with the
// defaults and fills in the save path.
func (c *Config) Normalize() {
	c.SecondsPerHour = clock.ClampSecondsPerHour(c.SecondsPerHour)
	c.Difficulty = save.ClampDifficulty(c.Difficulty)

	switch c.SaveBackend {
	case BackendJSON, BackendSQLite:
	default:
		c.SaveBackend = BackendJSON
	}
	switch c.Frontend {
	case FrontendTUI, FrontendEbiten:
	default:
		c.Frontend = FrontendTUI
	}
	if c.SavePath == "" {
		c.SavePath = DefaultSavePath(c.SaveBackend)
	}
}

// DefaultSavePath is where progress lives when save.path is unset.
func DefaultSavePath(backend string) string {
	name := "save.json"
	if backend == BackendSQLite {
		name = "save.db"
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join("."+appDir, name)
	}
	return filepath.Join(dir, appDir, name)
}
