package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	envPrefix = "TTSCORE"

	defaultDBPath       = "ttscore.db"
	defaultTabTBaseURL  = "http://junosolutions.be/ttscore.php"
	defaultTabTTimeout  = 10 * time.Second
	defaultSettingsPath = "ttscore-settings.yaml"
	defaultLogLevel     = "info"
	defaultHTTPAddress  = "127.0.0.1:8080"
)

type Config struct {
	DBPath       string
	TabTBaseURL  string
	TabTTimeout  time.Duration
	SettingsPath string
	LogLevel     string
	HTTPAddress  string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	v := viper.New()
	ApplyDefaults(v)
	return v
}

func ApplyDefaults(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database.path", defaultDBPath)
	v.SetDefault("tabt.base_url", defaultTabTBaseURL)
	v.SetDefault("tabt.timeout", defaultTabTTimeout)
	v.SetDefault("settings.path", defaultSettingsPath)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("http.address", defaultHTTPAddress)
}

func Load(v *viper.Viper, logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:       v.GetString("database.path"),
		TabTBaseURL:  v.GetString("tabt.base_url"),
		TabTTimeout:  v.GetDuration("tabt.timeout"),
		SettingsPath: v.GetString("settings.path"),
		LogLevel:     v.GetString("log.level"),
		HTTPAddress:  v.GetString("http.address"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("db_path", cfg.DBPath).
		Str("tabt_base_url", cfg.TabTBaseURL).
		Dur("tabt_timeout", cfg.TabTTimeout).
		Str("settings_path", cfg.SettingsPath).
		Str("log_level", cfg.LogLevel).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("database.path is required")
	}
	if strings.TrimSpace(c.SettingsPath) == "" {
		return fmt.Errorf("settings.path is required")
	}
	u, err := url.Parse(c.TabTBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("tabt.base_url must be an absolute URL, got %q", c.TabTBaseURL)
	}
	if c.TabTTimeout <= 0 {
		c.TabTTimeout = defaultTabTTimeout
	}
	return nil
}
