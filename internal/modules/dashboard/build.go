package dashboard

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"tripsage/internal/modules/estimate"
	"tripsage/internal/modules/trip"
)

const mapsDirURL = "https://www.google.com/maps/dir/?api=1"

// Build lays out res for display. It does not re-derive any figure.
func Build(req trip.TripRequest, res *estimate.EstimationResult) Dashboard {
	p := res.PrimaryEstimate
	a := res.Assumptions
	d := Dashboard{
		DistanceKm: res.TripDistanceKm,
		Cards: []Card{
			{Title: "Total Cost", Value: fmt.Sprintf("₹%.0f", p.EstimatedCost), Note: fmt.Sprintf("Based on %v %s", a.FuelPrice, a.FuelUnit)},
			{Title: "CO₂ Emissions", Value: fmt.Sprintf("%.1f kg", p.CO2Emissions), Note: fmt.Sprintf("For %v km trip", res.TripDistanceKm)},
			{Title: "Fuel Used", Value: p.EstimatedConsumption, Note: "Efficiency: " + p.Efficiency},
		},
		Chart:       make([]ChartPoint, 0, len(res.ComparisonSet)),
		Table:       make([]Row, 0, len(res.ComparisonSet)),
		Tips:        res.Tips,
		Assumptions: a,
		MapURL:      MapURL(req),
	}

	for _, v := range res.ComparisonSet {
		d.Chart = append(d.Chart, ChartPoint{Label: label(v), Cost: v.EstimatedCost, CO2: v.CO2Emissions})
		d.Table = append(d.Table, Row{
			Vehicle:     v.VehicleType,
			Fuel:        v.FuelType,
			Consumption: v.EstimatedConsumption,
			Cost:        v.EstimatedCost,
			CO2:         v.CO2Emissions,
			Efficiency:  v.Efficiency,
			Primary:     v.VehicleType == p.VehicleType && v.FuelType == p.FuelType,
		})
	}

	d.Cheapest = best(p, res.ComparisonSet, func(v estimate.VehicleEstimate) float64 { return v.EstimatedCost })
	d.Greenest = best(p, res.ComparisonSet, func(v estimate.VehicleEstimate) float64 { return v.CO2Emissions })
	return d
}

// MapURL links to Google Maps directions for route trips and is empty otherwise.
func MapURL(req trip.TripRequest) string {
	origin := strings.TrimSpace(req.Origin)
	dest := strings.TrimSpace(req.Destination)
	if req.Mode != trip.ModeRoute || origin == "" || dest == "" {
		return ""
	}
	return mapsDirURL + "&origin=" + escape(origin) + "&destination=" + escape(dest)
}

// uriComponent undoes the QueryEscape choices that encodeURIComponent does
// not make: space as "+" and escaped !'()*.
var uriComponent = strings.NewReplacer("+", "%20", "%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")

// escape encodes s the way encodeURIComponent does.
func escape(s string) string {
	return uriComponent.Replace(url.QueryEscape(s))
}

func label(v estimate.VehicleEstimate) string {
	return fmt.Sprintf("%s (%s)", v.VehicleType, v.FuelType)
}

// best returns the lowest entry by key; ties favour the primary estimate.
func best(primary estimate.VehicleEstimate, set []estimate.VehicleEstimate, key func(estimate.VehicleEstimate) float64) Pick {
	pick := primary
	for _, v := range set {
		if key(v) < key(pick) {
			pick = v
		}
	}
	return Pick{
		Label:      label(pick),
		Cost:       pick.EstimatedCost,
		CO2:        pick.CO2Emissions,
		CostSaving: round2(math.Max(0, primary.EstimatedCost-pick.EstimatedCost)),
		CO2Saving:  round2(math.Max(0, primary.CO2Emissions-pick.CO2Emissions)),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
