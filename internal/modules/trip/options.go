package trip

// FormOptions describes the choices the trip form offers.
type FormOptions struct {
	Modes          []Mode          `json:"modes"`
	Vehicles       []Vehicle       `json:"vehicles"`
	Fuels          []Fuel          `json:"fuels"`
	DrivingStyles  []DrivingStyle  `json:"driving_styles"`
	RoadConditions []RoadCondition `json:"road_conditions"`

	// FuelLockedFor lists the vehicles that force FuelElectric.
	FuelLockedFor []Vehicle   `json:"fuel_locked_for"`
	Defaults      TripRequest `json:"defaults"`
}

func Options() FormOptions {
	f := NewForm()
	var locked []Vehicle
	for _, v := range Vehicles {
		if v.Electric() {
			locked = append(locked, v)
		}
	}
	return FormOptions{
		Modes:          Modes,
		Vehicles:       Vehicles,
		Fuels:          Fuels,
		DrivingStyles:  DrivingStyles,
		RoadConditions: RoadConditions,
		FuelLockedFor:  locked,
		Defaults: TripRequest{
			Mode:          f.mode,
			Vehicle:       f.vehicle,
			Fuel:          f.fuel,
			DrivingStyle:  f.drivingStyle,
			RoadCondition: f.roadCondition,
			ACOn:          f.acOn,
		},
	}
}
