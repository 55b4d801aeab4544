package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "FOCUSFLOW"

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type SyncConfig struct {
	URL     string        `mapstructure:"url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Config holds the persisted preferences and storage locations.
type Config struct {
	DataDir       string     `mapstructure:"data_dir"`
	Mode          string     `mapstructure:"mode"`
	SessionLength string     `mapstructure:"session_length"`
	Timezone      string     `mapstructure:"timezone"`
	Log           LogConfig  `mapstructure:"log"`
	Sync          SyncConfig `mapstructure:"sync"`
}

func Defaults() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:       filepath.Join(home, ".focusflow"),
		Mode:          "zen",
		SessionLength: "quick-focus",
		Log:           LogConfig{Level: "warn"},
		Sync:          SyncConfig{Timeout: 10 * time.Second},
	}
}

// Load reads configuration from file and environment. An empty path searches
// ./.focusflow/config.yaml, then $HOME/.config/focusflow/config.yaml. A missing
// config file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	defaults := Defaults()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("mode", defaults.Mode)
	v.SetDefault("session_length", defaults.SessionLength)
	v.SetDefault("timezone", defaults.Timezone)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("sync.url", defaults.Sync.URL)
	v.SetDefault("sync.token", defaults.Sync.Token)
	v.SetDefault("sync.timeout", defaults.Sync.Timeout)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".focusflow")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "focusflow"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if (c.Sync.URL == "") != (c.Sync.Token == "") {
		return fmt.Errorf("sync.url and sync.token must be set together")
	}
	return nil
}

// Location resolves the timezone used for calendar-day boundaries.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c Config) SyncEnabled() bool {
	return c.Sync.URL != "" && c.Sync.Token != ""
}

func (c Config) ProgressPath() string {
	return filepath.Join(c.DataDir, "progress.json")
}

func (c Config) TimerStatePath() string {
	return filepath.Join(c.DataDir, "timer-state.json")
}

func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "focusflow.db")
}

func (c Config) SessionsDir() string {
	return filepath.Join(c.DataDir, "sessions")
}
