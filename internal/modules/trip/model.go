// README: Trip request value and the selectable trip parameters.
package trip

import (
	"math"
	"strings"
)

type Mode string

const (
	ModeDistance Mode = "distance"
	ModeRoute    Mode = "route"
)

type Vehicle string

const (
	VehicleHatchback    Vehicle = "Hatchback"
	VehicleSedan        Vehicle = "Sedan"
	VehicleSUV          Vehicle = "SUV"
	VehicleLuxury       Vehicle = "Luxury"
	VehicleBike         Vehicle = "Bike"
	VehicleScooter      Vehicle = "Scooter"
	VehicleElectricCar  Vehicle = "EV Car"
	VehicleElectricBike Vehicle = "EV Bike"
)

// Electric reports whether the vehicle only runs on electricity.
func (v Vehicle) Electric() bool {
	return v == VehicleElectricCar || v == VehicleElectricBike
}

type Fuel string

const (
	FuelPetrol   Fuel = "Petrol"
	FuelDiesel   Fuel = "Diesel"
	FuelCNG      Fuel = "CNG"
	FuelElectric Fuel = "Electric"
)

type DrivingStyle string

const (
	StyleEco        DrivingStyle = "Eco"
	StyleNormal     DrivingStyle = "Normal"
	StyleAggressive DrivingStyle = "Aggressive"
)

type RoadCondition string

const (
	RoadCity    RoadCondition = "City"
	RoadHighway RoadCondition = "Highway"
	RoadMixed   RoadCondition = "Mixed"
)

var (
	Modes          = []Mode{ModeRoute, ModeDistance}
	Vehicles       = []Vehicle{VehicleHatchback, VehicleSedan, VehicleSUV, VehicleLuxury, VehicleBike, VehicleScooter, VehicleElectricCar, VehicleElectricBike}
	Fuels          = []Fuel{FuelPetrol, FuelDiesel, FuelCNG, FuelElectric}
	DrivingStyles  = []DrivingStyle{StyleEco, StyleNormal, StyleAggressive}
	RoadConditions = []RoadCondition{RoadCity, RoadHighway, RoadMixed}
)

// TripRequest is one submitted trip. Only the fields of the active Mode are
// populated: DistanceKm for ModeDistance, Origin and Destination for ModeRoute.
type TripRequest struct {
	Mode          Mode          `json:"mode"`
	DistanceKm    float64       `json:"distance_km,omitempty"`
	Origin        string        `json:"origin,omitempty"`
	Destination   string        `json:"destination,omitempty"`
	Vehicle       Vehicle       `json:"vehicle"`
	Fuel          Fuel          `json:"fuel"`
	DrivingStyle  DrivingStyle  `json:"driving_style"`
	RoadCondition RoadCondition `json:"road_condition"`
	ACOn          bool          `json:"ac_on"`
}

// Validate applies the required-field rules of the active mode and rejects
// fields that belong to the other mode.
func (r TripRequest) Validate() error {
	switch r.Mode {
	case ModeDistance:
		if r.DistanceKm <= 0 || math.IsNaN(r.DistanceKm) || math.IsInf(r.DistanceKm, 0) {
			return &ValidationError{Field: "distance_km", Message: msgInvalidDistance}
		}
		if r.Origin != "" || r.Destination != "" {
			return &ValidationError{Field: "origin", Message: "Origin and destination are only used for route trips."}
		}
	case ModeRoute:
		if strings.TrimSpace(r.Origin) == "" || strings.TrimSpace(r.Destination) == "" {
			field := "origin"
			if strings.TrimSpace(r.Origin) != "" {
				field = "destination"
			}
			return &ValidationError{Field: field, Message: msgMissingRoute}
		}
		if r.DistanceKm != 0 {
			return &ValidationError{Field: "distance_km", Message: "Distance is only used for distance trips."}
		}
	default:
		return &ValidationError{Field: "mode", Message: "Please choose route or distance."}
	}
	if r.Vehicle == "" {
		return &ValidationError{Field: "vehicle", Message: "Please choose a vehicle."}
	}
	if r.Fuel == "" {
		return &ValidationError{Field: "fuel", Message: "Please choose a fuel type."}
	}
	if r.Vehicle.Electric() && r.Fuel != FuelElectric {
		return &ValidationError{Field: "fuel", Message: "Electric vehicles only use electricity."}
	}
	if r.DrivingStyle == "" {
		return &ValidationError{Field: "driving_style", Message: "Please choose a driving style."}
	}
	if r.RoadCondition == "" {
		return &ValidationError{Field: "road_condition", Message: "Please choose a road condition."}
	}
	return nil
}
