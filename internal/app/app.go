// README: Shared wiring from config to services for the API server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"tripsage/internal/ai"
	"tripsage/internal/config"
	"tripsage/internal/infra"
	"tripsage/internal/maps"
	"tripsage/internal/modules/estimate"
)

// LoadConfig reads an optional .env file, then the environment, and sets up logging.
func LoadConfig() (config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if err := infra.ConfigureLogging(cfg.Log.Level, cfg.Log.Format); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// NewEstimator builds the estimation client. Without GEMINI_API_KEY the
// client is still returned and fails every call with a configuration error.
// The returned func releases the provider.
func NewEstimator(ctx context.Context, cfg config.Config) (*estimate.Service, func(), error) {
	estCfg := estimate.Config{
		APIKey:      cfg.AI.GeminiKey,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	}

	var routes estimate.RouteHinter
	if cfg.Maps.APIKey != "" {
		rs, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			return nil, nil, err
		}
		routes = rs
	}

	if cfg.AI.GeminiKey == "" {
		log.Warn("GEMINI_API_KEY is not set; estimates will fail until it is configured")
		return estimate.NewService(estCfg, nil, routes), func() {}, nil
	}

	provider, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model, cfg.AI.Temperature)
	if err != nil {
		return nil, nil, fmt.Errorf("gemini init: %w", err)
	}
	return estimate.NewService(estCfg, provider, routes), provider.Close, nil
}
