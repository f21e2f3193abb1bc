package config

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/voxstream-ai/realtime-go/internal/logger"
	"github.com/voxstream-ai/realtime-go/pkg/realtime"
)

// Config holds everything the sample programs need: the endpoint, auth,
// retry tuning and logging.
type Config struct {
	RealtimeURL       string        `mapstructure:"realtime_url"`
	APIKey            string        `mapstructure:"api_key"`
	MaxRetries        int           `mapstructure:"max_retries"`
	InitialRetryDelay time.Duration `mapstructure:"initial_retry_delay"`
	MaxRetryDelay     time.Duration `mapstructure:"max_retry_delay"`
	RetryJitter       float64       `mapstructure:"retry_jitter"`
	Log               logger.Config `mapstructure:"log"`
}

// Load reads configuration from the given YAML file (optional), RT_-prefixed
// environment variables and built-in defaults, in that order of precedence.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("realtime_url", "")
	v.SetDefault("api_key", "")
	v.SetDefault("max_retries", 5)
	v.SetDefault("initial_retry_delay", "1s")
	v.SetDefault("max_retry_delay", "30s")
	v.SetDefault("retry_jitter", 0.1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("log.file.enabled", false)
	v.SetDefault("log.file.path", "logs/realtime.log")
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_backups", 5)
	v.SetDefault("log.file.max_age_days", 30)
	v.SetDefault("log.file.compress", true)

	v.SetEnvPrefix("rt")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	// Unprefixed fallbacks, matching the .env files shipped with the
	// original sample scripts.
	if cfg.RealtimeURL == "" {
		cfg.RealtimeURL = strings.TrimSpace(os.Getenv("REALTIME_URL"))
	}
	if cfg.APIKey == "" {
		cfg.APIKey = strings.TrimSpace(os.Getenv("REALTIME_API_KEY"))
	}
	return cfg, nil
}

// ClientConfig converts the loaded settings into a realtime client
// configuration with bearer authentication.
func (c Config) ClientConfig(onReconnect func(attempts int)) realtime.Config {
	headers := http.Header{}
	if c.APIKey != "" {
		headers.Set("Authorization", "Bearer "+c.APIKey)
	}
	return realtime.Config{
		URL:               c.RealtimeURL,
		Headers:           headers,
		MaxRetries:        c.MaxRetries,
		InitialRetryDelay: c.InitialRetryDelay,
		MaxRetryDelay:     c.MaxRetryDelay,
		RetryJitter:       c.RetryJitter,
		OnReconnect:       onReconnect,
	}
}
