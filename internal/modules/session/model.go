// README: Per-session "current result" slot with sequence-numbered last-write-wins.
package session

import (
	"errors"
	"time"

	"tripsage/internal/modules/dashboard"
	"tripsage/internal/modules/estimate"
	"tripsage/internal/modules/trip"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusInFlight  Status = "in_flight"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// DefaultTTL bounds how long an untouched slot is kept.
const DefaultTTL = 30 * time.Minute

var ErrMissingSession = errors.New("missing session id")

// Slot is what the session currently shows. A failed slot never carries a result.
type Slot struct {
	Seq       int64                      `json:"seq"`
	Status    Status                     `json:"status"`
	Request   *trip.TripRequest          `json:"request,omitempty"`
	Result    *estimate.EstimationResult `json:"result,omitempty"`
	Dashboard *dashboard.Dashboard       `json:"dashboard,omitempty"`
	Message   string                     `json:"message,omitempty"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

// Outcome is returned to the submitter. Result and Dashboard are nil when the
// submission was superseded by a later one.
type Outcome struct {
	Seq        int64                      `json:"seq"`
	Superseded bool                       `json:"superseded"`
	Result     *estimate.EstimationResult `json:"result,omitempty"`
	Dashboard  *dashboard.Dashboard       `json:"dashboard,omitempty"`
}

// supersedes reports whether an outcome numbered seq may replace cur.
func supersedes(seq int64, cur Slot) bool {
	return seq > cur.Seq || (seq == cur.Seq && cur.Status == StatusInFlight)
}
