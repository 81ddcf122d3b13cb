// README: Config loader with env defaults for HTTP, DB, Redis, AI, Maps, session and logging settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type AIConfig struct {
	GeminiKey   string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		// DSN empty disables the monthly quota.
		DSN string
	}
	Redis struct {
		// Addr empty keeps session slots in memory.
		Addr string
	}
	AI   AIConfig
	Maps struct {
		// APIKey empty disables route distance hints.
		APIKey string
	}
	Session struct {
		TTL time.Duration
	}
	Quota struct {
		Monthly int
	}
	Log struct {
		Level  string
		Format string
	}
}

// Load reads the environment. A missing GEMINI_API_KEY is not an error here;
// estimation requests fail with a configuration error instead.
func Load() (Config, error) {
	var cfg Config
	var errs []error

	cfg.HTTP.Addr = envOrDefault("TRIPSAGE_HTTP_ADDR", ":8080")
	cfg.DB.DSN = envOrDefault("TRIPSAGE_DB_DSN", "")
	cfg.Redis.Addr = envOrDefault("TRIPSAGE_REDIS_ADDR", "")
	cfg.AI.GeminiKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	cfg.AI.Model = envOrDefault("TRIPSAGE_AI_MODEL", "gemini-2.5-flash")
	cfg.AI.Temperature = float32(envOrDefaultFloat("TRIPSAGE_AI_TEMPERATURE", 0.3, &errs))
	cfg.AI.Timeout = envOrDefaultDuration("TRIPSAGE_AI_TIMEOUT", 30*time.Second, &errs)
	cfg.Maps.APIKey = strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY"))
	cfg.Session.TTL = envOrDefaultDuration("TRIPSAGE_SESSION_TTL", 30*time.Minute, &errs)
	cfg.Quota.Monthly = envOrDefaultInt("TRIPSAGE_QUOTA_MONTHLY", 100, &errs)
	cfg.Log.Level = strings.ToLower(envOrDefault("TRIPSAGE_LOG_LEVEL", "info"))
	cfg.Log.Format = strings.ToLower(envOrDefault("TRIPSAGE_LOG_FORMAT", "text"))

	if cfg.AI.Temperature < 0 || cfg.AI.Temperature > 2 {
		errs = append(errs, fmt.Errorf("TRIPSAGE_AI_TEMPERATURE: %v out of range [0, 2]", cfg.AI.Temperature))
	}
	if cfg.AI.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("TRIPSAGE_AI_TIMEOUT: must be positive"))
	}
	if cfg.Session.TTL <= 0 {
		errs = append(errs, fmt.Errorf("TRIPSAGE_SESSION_TTL: must be positive"))
	}
	if cfg.Quota.Monthly <= 0 {
		errs = append(errs, fmt.Errorf("TRIPSAGE_QUOTA_MONTHLY: must be positive"))
	}
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("TRIPSAGE_LOG_LEVEL: %w", err))
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("TRIPSAGE_LOG_FORMAT: %q is not text or json", cfg.Log.Format))
	}

	if len(errs) > 0 {
		return cfg, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int, errs *[]error) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func envOrDefaultFloat(key string, def float64, errs *[]error) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func envOrDefaultDuration(key string, def time.Duration, errs *[]error) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}
