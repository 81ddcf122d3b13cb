package session

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"tripsage/internal/modules/dashboard"
	"tripsage/internal/modules/estimate"
	"tripsage/internal/modules/trip"
)

type Estimator interface {
	Estimate(ctx context.Context, req trip.TripRequest) (*estimate.EstimationResult, error)
}

// Quota charges one estimation to a client id.
type Quota interface {
	UseToken(ctx context.Context, uid string) error
}

type Service struct {
	store     Store
	estimator Estimator
	quota     Quota
	now       func() time.Time
}

// NewService wires the slot store to the estimator. quota may be nil.
func NewService(store Store, estimator Estimator, quota Quota) *Service {
	return &Service{store: store, estimator: estimator, quota: quota, now: time.Now}
}

// Submit runs one estimation for the session and records it in the slot
// unless a later submission has already taken it. On estimation failure the
// returned Outcome still carries the sequence number.
func (s *Service) Submit(ctx context.Context, sessionID string, req trip.TripRequest) (Outcome, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Outcome{}, ErrMissingSession
	}
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}
	if s.quota != nil {
		if err := s.quota.UseToken(ctx, sessionID); err != nil {
			return Outcome{}, err
		}
	}

	seq, err := s.store.NextSeq(ctx, sessionID)
	if err != nil {
		return Outcome{}, err
	}
	entry := log.WithFields(log.Fields{"session": sessionID, "seq": seq})

	if _, err := s.store.Apply(ctx, sessionID, Slot{Seq: seq, Status: StatusInFlight, Request: &req, UpdatedAt: s.now()}); err != nil {
		return Outcome{}, err
	}

	res, estErr := s.estimator.Estimate(ctx, req)
	if estErr != nil {
		failed := Slot{Seq: seq, Status: StatusFailed, Request: &req, Message: estimate.UserMessage(estErr), UpdatedAt: s.now()}
		applied, err := s.store.Apply(ctx, sessionID, failed)
		if err != nil {
			entry.WithError(err).Warn("session: record failure")
		}
		return Outcome{Seq: seq, Superseded: err == nil && !applied}, estErr
	}

	dash := dashboard.Build(req, res)
	done := Slot{Seq: seq, Status: StatusSucceeded, Request: &req, Result: res, Dashboard: &dash, UpdatedAt: s.now()}
	applied, err := s.store.Apply(ctx, sessionID, done)
	if err != nil {
		return Outcome{}, err
	}
	if !applied {
		entry.Info("session: result superseded by a later submission")
		return Outcome{Seq: seq, Superseded: true}, nil
	}
	return Outcome{Seq: seq, Result: res, Dashboard: &dash}, nil
}

// Current returns the session's slot, or an idle slot when there is none.
func (s *Service) Current(ctx context.Context, sessionID string) (Slot, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Slot{}, ErrMissingSession
	}
	slot, ok, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return Slot{}, err
	}
	if !ok {
		return Slot{Status: StatusIdle}, nil
	}
	return slot, nil
}
