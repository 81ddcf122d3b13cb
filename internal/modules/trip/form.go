// README: Trip input collector; holds form state and emits one TripRequest per submission.
package trip

import (
	"fmt"
	"strings"
)

// Form is the mutable state behind the trip form. It is not safe for
// concurrent use; each caller owns its own Form.
type Form struct {
	mode          Mode
	distanceKm    float64
	origin        string
	destination   string
	vehicle       Vehicle
	fuel          Fuel
	drivingStyle  DrivingStyle
	roadCondition RoadCondition
	acOn          bool
}

// NewForm returns a form with the default selections.
func NewForm() *Form {
	return &Form{
		mode:          ModeRoute,
		vehicle:       VehicleHatchback,
		fuel:          FuelPetrol,
		drivingStyle:  StyleNormal,
		roadCondition: RoadMixed,
		acOn:          true,
	}
}

func (f *Form) SetMode(m Mode)                   { f.mode = m }
func (f *Form) SetDistance(km float64)           { f.distanceKm = km }
func (f *Form) SetOrigin(v string)               { f.origin = v }
func (f *Form) SetDestination(v string)          { f.destination = v }
func (f *Form) SetDrivingStyle(s DrivingStyle)   { f.drivingStyle = s }
func (f *Form) SetRoadCondition(r RoadCondition) { f.roadCondition = r }
func (f *Form) SetAC(on bool)                    { f.acOn = on }

// SetVehicle selects a vehicle. Electric vehicles force the fuel to Electric
// and lock it; any other vehicle unlocks the fuel and resets it to Petrol.
func (f *Form) SetVehicle(v Vehicle) {
	f.vehicle = v
	if v.Electric() {
		f.fuel = FuelElectric
		return
	}
	f.fuel = FuelPetrol
}

// SetFuel changes the fuel unless it is locked by an electric vehicle.
// It reports whether the change was applied.
func (f *Form) SetFuel(fuel Fuel) bool {
	if f.FuelLocked() {
		return false
	}
	f.fuel = fuel
	return true
}

// FuelLocked reports whether the fuel field is currently not editable.
func (f *Form) FuelLocked() bool {
	return f.vehicle.Electric()
}

func (f *Form) Fuel() Fuel       { return f.fuel }
func (f *Form) Vehicle() Vehicle { return f.vehicle }
func (f *Form) Mode() Mode       { return f.mode }

// Submit validates the current values and returns the request for the active mode.
func (f *Form) Submit() (TripRequest, error) {
	req := TripRequest{
		Mode:          f.mode,
		Vehicle:       f.vehicle,
		Fuel:          f.fuel,
		DrivingStyle:  f.drivingStyle,
		RoadCondition: f.roadCondition,
		ACOn:          f.acOn,
	}
	if f.mode == ModeDistance {
		req.DistanceKm = f.distanceKm
	} else {
		req.Origin = strings.TrimSpace(f.origin)
		req.Destination = strings.TrimSpace(f.destination)
	}
	if err := req.Validate(); err != nil {
		return TripRequest{}, err
	}
	return req, nil
}

// ParseMode accepts "route"/"distance" and the UI spellings "byRoute"/"byDistance".
func ParseMode(v string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "route", "byroute":
		return ModeRoute, nil
	case "distance", "bydistance":
		return ModeDistance, nil
	}
	return "", unknownValue("mode", v)
}

func ParseVehicle(v string) (Vehicle, error) {
	v = strings.TrimSpace(v)
	for _, c := range Vehicles {
		if strings.EqualFold(string(c), v) {
			return c, nil
		}
	}
	switch strings.ToLower(v) {
	case "electriccar", "electric car":
		return VehicleElectricCar, nil
	case "electricbike", "electric bike":
		return VehicleElectricBike, nil
	}
	return "", unknownValue("vehicle", v)
}

func ParseFuel(v string) (Fuel, error) {
	return parseEnum("fuel", v, Fuels)
}

func ParseDrivingStyle(v string) (DrivingStyle, error) {
	return parseEnum("driving_style", v, DrivingStyles)
}

func ParseRoadCondition(v string) (RoadCondition, error) {
	return parseEnum("road_condition", v, RoadConditions)
}

func parseEnum[T ~string](field, v string, allowed []T) (T, error) {
	v = strings.TrimSpace(v)
	for _, c := range allowed {
		if strings.EqualFold(string(c), v) {
			return c, nil
		}
	}
	var zero T
	return zero, unknownValue(field, v)
}

func unknownValue(field, v string) error {
	if v == "" {
		return &ValidationError{Field: field, Message: fmt.Sprintf("Please choose a %s.", strings.ReplaceAll(field, "_", " "))}
	}
	return &ValidationError{Field: field, Message: fmt.Sprintf("Unknown %s %q.", strings.ReplaceAll(field, "_", " "), v)}
}
