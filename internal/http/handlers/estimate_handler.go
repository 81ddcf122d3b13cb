// README: Estimate handlers: submit a trip and read the session's current result.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripsage/internal/http/middleware"
	"tripsage/internal/modules/session"
	"tripsage/internal/modules/trip"
)

type EstimateHandler struct {
	sessions *session.Service
}

func NewEstimateHandler(svc *session.Service) *EstimateHandler {
	return &EstimateHandler{sessions: svc}
}

// estimateReq carries wire strings; empty fields keep the form defaults.
type estimateReq struct {
	Mode          string  `json:"mode"`
	DistanceKm    float64 `json:"distance_km"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	Vehicle       string  `json:"vehicle"`
	Fuel          string  `json:"fuel"`
	DrivingStyle  string  `json:"driving_style"`
	RoadCondition string  `json:"road_condition"`
	ACOn          *bool   `json:"ac_on"`
}

// Create handles POST /api/estimates.
func (h *EstimateHandler) Create(c *gin.Context) {
	var req estimateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	tr, err := req.toTrip()
	if err != nil {
		writeEstimateError(c, err)
		return
	}

	out, err := h.sessions.Submit(c.Request.Context(), middleware.SessionID(c), tr)
	if err != nil {
		writeEstimateError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, out)
}

// Current handles GET /api/sessions/current.
func (h *EstimateHandler) Current(c *gin.Context) {
	slot, err := h.sessions.Current(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		writeEstimateError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, slot)
}

// toTrip replays the request through a trip.Form so fuel locking applies
// exactly as it does in the form.
func (r estimateReq) toTrip() (trip.TripRequest, error) {
	form := trip.NewForm()
	if r.Mode != "" {
		m, err := trip.ParseMode(r.Mode)
		if err != nil {
			return trip.TripRequest{}, err
		}
		form.SetMode(m)
	}
	form.SetDistance(r.DistanceKm)
	form.SetOrigin(r.Origin)
	form.SetDestination(r.Destination)

	if r.Vehicle != "" {
		v, err := trip.ParseVehicle(r.Vehicle)
		if err != nil {
			return trip.TripRequest{}, err
		}
		form.SetVehicle(v)
	}
	if r.Fuel != "" {
		f, err := trip.ParseFuel(r.Fuel)
		if err != nil {
			return trip.TripRequest{}, err
		}
		form.SetFuel(f)
	}
	if r.DrivingStyle != "" {
		s, err := trip.ParseDrivingStyle(r.DrivingStyle)
		if err != nil {
			return trip.TripRequest{}, err
		}
		form.SetDrivingStyle(s)
	}
	if r.RoadCondition != "" {
		rc, err := trip.ParseRoadCondition(r.RoadCondition)
		if err != nil {
			return trip.TripRequest{}, err
		}
		form.SetRoadCondition(rc)
	}
	if r.ACOn != nil {
		form.SetAC(*r.ACOn)
	}
	return form.Submit()
}
