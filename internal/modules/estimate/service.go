package estimate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"tripsage/internal/ai"
	"tripsage/internal/modules/trip"
)

const DefaultTimeout = 30 * time.Second

// Config is passed in by the caller; the service never reads the environment.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// RouteHinter looks up a driving distance for a route trip.
type RouteHinter interface {
	DrivingDistance(ctx context.Context, origin, destination string) (km float64, duration time.Duration, err error)
}

// Service turns a validated trip request into an EstimationResult.
type Service struct {
	cfg      Config
	provider ai.Provider
	routes   RouteHinter
}

// NewService builds the estimation client. routes may be nil.
func NewService(cfg Config, provider ai.Provider, routes RouteHinter) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Service{cfg: cfg, provider: provider, routes: routes}
}

// Estimate performs exactly one provider call for req. Failures are one of
// ErrConfiguration, ErrTransport, ErrFormat or a *trip.ValidationError.
func (s *Service) Estimate(ctx context.Context, req trip.TripRequest) (*EstimationResult, error) {
	if strings.TrimSpace(s.cfg.APIKey) == "" || s.provider == nil {
		log.Error("estimate: gemini api key is not configured")
		return nil, ErrConfiguration
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prompt := buildPrompt(req, s.routeHint(ctx, req))

	temperature := s.cfg.Temperature
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	started := time.Now()
	raw, err := s.provider.GenerateStructured(callCtx, ai.StructuredRequest{
		Prompt:      prompt,
		Schema:      responseSchema(),
		Model:       s.cfg.Model,
		Temperature: &temperature,
	})
	fields := log.Fields{
		"mode":    req.Mode,
		"vehicle": req.Vehicle,
		"fuel":    req.Fuel,
		"elapsed": time.Since(started).Round(time.Millisecond),
	}
	if err != nil {
		if errors.Is(err, ai.ErrEmptyResponse) {
			err = fmt.Errorf("%w: %w", ErrFormat, err)
		} else {
			err = fmt.Errorf("%w: %w", ErrTransport, err)
		}
		log.WithFields(fields).WithError(err).Error("estimate: provider call failed")
		return nil, err
	}

	res, err := decodeResult(raw)
	if err != nil {
		log.WithFields(fields).WithError(err).Error("estimate: rejected provider reply")
		return nil, err
	}
	log.WithFields(fields).WithField("trip_km", res.TripDistanceKm).Info("estimate: completed")
	return res, nil
}

// routeHint is best effort; any failure leaves the prompt without it.
func (s *Service) routeHint(ctx context.Context, req trip.TripRequest) *RouteHint {
	if s.routes == nil || req.Mode != trip.ModeRoute {
		return nil
	}
	km, dur, err := s.routes.DrivingDistance(ctx, req.Origin, req.Destination)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"origin":      req.Origin,
			"destination": req.Destination,
		}).Warn("estimate: route hint unavailable")
		return nil
	}
	if km <= 0 {
		return nil
	}
	return &RouteHint{DistanceKm: km, Duration: dur}
}
