package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Config holds service configuration loaded from an optional config file
// and environment variables.
type Config struct {
	Env      string `mapstructure:"env"` // local, dev, production
	Mode     Mode   `mapstructure:"mode"`
	HTTPAddr string `mapstructure:"http_addr"`

	DBDriver string `mapstructure:"db_driver"` // sqlite|postgres
	DBDSN    string `mapstructure:"-"`

	SiteID string `mapstructure:"site_id"` // stamped onto event-log rows

	AuthHMACSecret string `mapstructure:"-"`
	DevUser        string `mapstructure:"dev_user"`
	DevPassHash    string `mapstructure:"-"` // bcrypt

	CORSOrigins []string `mapstructure:"cors_origins"`

	MediaDir string `mapstructure:"media_dir"`

	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	SweepEvery  time.Duration `mapstructure:"sweep_every"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// Load reads configuration from config/config.yaml (if present) and the
// environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("mode", string(ModeOffline))
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("site_id", "local")
	v.SetDefault("dev_user", "student")
	v.SetDefault("cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("media_dir", "./media")
	v.SetDefault("session_ttl", "4h")
	v.SetDefault("sweep_every", "10m")
	v.SetDefault("http_timeout", "30s")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("db_dsn", "DB_DSN")
	_ = v.BindEnv("db_driver", "DB_DRIVER")
	_ = v.BindEnv("http_addr", "HTTP_ADDR")
	_ = v.BindEnv("auth_hmac_secret", "AUTH_HMAC_SECRET")
	_ = v.BindEnv("dev_pass_hash", "DEV_PASS_HASH")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("mode", "MODE")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.DBDSN = v.GetString("db_dsn")
	cfg.AuthHMACSecret = v.GetString("auth_hmac_secret")
	if cfg.AuthHMACSecret == "" {
		cfg.AuthHMACSecret = "supersecret-dev-key"
	}
	// empty hash keeps the dev login in username==password mode
	cfg.DevPassHash = v.GetString("dev_pass_hash")
	return &cfg, nil
}
