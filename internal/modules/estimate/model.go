// README: Estimation result returned by the AI service, validated before use.
package estimate

// VehicleEstimate describes one vehicle/fuel option for the trip.
type VehicleEstimate struct {
	VehicleType          string  `json:"vehicleType"`
	FuelType             string  `json:"fuelType"`
	EstimatedConsumption string  `json:"estimatedConsumption"` // e.g. "5.5 L" or "12 kWh"
	EstimatedCost        float64 `json:"estimatedCost"`        // INR
	CO2Emissions         float64 `json:"co2Emissions"`         // kg
	Efficiency           string  `json:"efficiency"`           // e.g. "18 km/L"
}

type Assumptions struct {
	FuelPrice         float64 `json:"fuelPrice"`
	FuelUnit          string  `json:"fuelUnit"`
	MileageAssumption string  `json:"mileageAssumption"`
	Description       string  `json:"description"`
}

// EstimationResult is the structured reply for one trip request.
// ComparisonSet always holds exactly ComparisonSize entries in presentation order.
type EstimationResult struct {
	TripDistanceKm  float64           `json:"tripDistanceKm"`
	PrimaryEstimate VehicleEstimate   `json:"primaryEstimate"`
	ComparisonSet   []VehicleEstimate `json:"comparison"`
	Assumptions     Assumptions       `json:"assumptions"`
	Tips            []string          `json:"tips"`
}

const (
	ComparisonSize = 3
	MinTips        = 3
	MaxTips        = 4
)
