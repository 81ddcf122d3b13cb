// README: Presentation model derived from an estimation result.
package dashboard

import "tripsage/internal/modules/estimate"

type Card struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Note  string `json:"note"`
}

// ChartPoint is one bar pair of the cost/CO2 comparison chart.
type ChartPoint struct {
	Label string  `json:"label"` // "<vehicle> (<fuel>)"
	Cost  float64 `json:"cost"`
	CO2   float64 `json:"co2"`
}

type Row struct {
	Vehicle     string  `json:"vehicle"`
	Fuel        string  `json:"fuel"`
	Consumption string  `json:"consumption"`
	Cost        float64 `json:"cost"`
	CO2         float64 `json:"co2"`
	Efficiency  string  `json:"efficiency"`
	Primary     bool    `json:"primary"`
}

// Pick is the best comparison entry on one axis and what it saves versus
// the primary estimate. Savings are zero when the primary is already best.
type Pick struct {
	Label      string  `json:"label"`
	Cost       float64 `json:"cost"`
	CO2        float64 `json:"co2"`
	CostSaving float64 `json:"cost_saving"`
	CO2Saving  float64 `json:"co2_saving"`
}

type Dashboard struct {
	DistanceKm  float64              `json:"distance_km"`
	Cards       []Card               `json:"cards"`
	Chart       []ChartPoint         `json:"chart"`
	Table       []Row                `json:"table"`
	Tips        []string             `json:"tips"`
	Assumptions estimate.Assumptions `json:"assumptions"`
	MapURL      string               `json:"map_url,omitempty"`
	Cheapest    Pick                 `json:"cheapest"`
	Greenest    Pick                 `json:"greenest"`
}
