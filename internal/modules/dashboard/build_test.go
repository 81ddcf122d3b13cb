package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripsage/internal/modules/estimate"
	"tripsage/internal/modules/trip"
)

func sampleResult() *estimate.EstimationResult {
	primary := estimate.VehicleEstimate{VehicleType: "Hatchback", FuelType: "Petrol", EstimatedConsumption: "8.3 L", EstimatedCost: 830, CO2Emissions: 19.3, Efficiency: "18 km/L"}
	return &estimate.EstimationResult{
		TripDistanceKm:  150,
		PrimaryEstimate: primary,
		ComparisonSet: []estimate.VehicleEstimate{
			primary,
			{VehicleType: "EV Car", FuelType: "Electric", EstimatedConsumption: "21 kWh", EstimatedCost: 315, CO2Emissions: 15.1, Efficiency: "7 km/kWh"},
			{VehicleType: "Scooter", FuelType: "Petrol", EstimatedConsumption: "3.3 L", EstimatedCost: 330, CO2Emissions: 7.7, Efficiency: "45 km/L"},
		},
		Assumptions: estimate.Assumptions{FuelPrice: 100, FuelUnit: "INR/L", MileageAssumption: "18 km/L", Description: "Mixed roads."},
		Tips:        []string{"a", "b", "c"},
	}
}

func TestBuildDistanceTrip(t *testing.T) {
	req := trip.TripRequest{Mode: trip.ModeDistance, DistanceKm: 150}
	d := Build(req, sampleResult())

	assert.Equal(t, 150.0, d.DistanceKm)
	require.Len(t, d.Cards, 3)
	assert.Equal(t, "₹830", d.Cards[0].Value)
	assert.Equal(t, "Based on 100 INR/L", d.Cards[0].Note)
	assert.Equal(t, "19.3 kg", d.Cards[1].Value)
	assert.Equal(t, "For 150 km trip", d.Cards[1].Note)
	assert.Equal(t, "8.3 L", d.Cards[2].Value)
	assert.Equal(t, "Efficiency: 18 km/L", d.Cards[2].Note)

	require.Len(t, d.Chart, 3)
	assert.Equal(t, "Hatchback (Petrol)", d.Chart[0].Label)
	assert.Equal(t, "EV Car (Electric)", d.Chart[1].Label)
	assert.Equal(t, 315.0, d.Chart[1].Cost)

	require.Len(t, d.Table, 3)
	assert.True(t, d.Table[0].Primary)
	assert.False(t, d.Table[1].Primary)
	assert.False(t, d.Table[2].Primary)

	assert.Empty(t, d.MapURL)
	assert.Equal(t, []string{"a", "b", "c"}, d.Tips)
}

func TestBuildPicks(t *testing.T) {
	d := Build(trip.TripRequest{Mode: trip.ModeDistance, DistanceKm: 150}, sampleResult())

	assert.Equal(t, "EV Car (Electric)", d.Cheapest.Label)
	assert.Equal(t, 515.0, d.Cheapest.CostSaving)
	assert.Equal(t, "Scooter (Petrol)", d.Greenest.Label)
	assert.InDelta(t, 11.6, d.Greenest.CO2Saving, 1e-9)
}

func TestBuildPicksPrimaryWhenBest(t *testing.T) {
	res := sampleResult()
	res.PrimaryEstimate.EstimatedCost = 100
	res.PrimaryEstimate.CO2Emissions = 1
	res.ComparisonSet[0] = res.PrimaryEstimate

	d := Build(trip.TripRequest{Mode: trip.ModeDistance, DistanceKm: 150}, res)
	assert.Equal(t, "Hatchback (Petrol)", d.Cheapest.Label)
	assert.Zero(t, d.Cheapest.CostSaving)
	assert.Zero(t, d.Greenest.CO2Saving)
}

func TestMapURL(t *testing.T) {
	route := trip.TripRequest{Mode: trip.ModeRoute, Origin: "Connaught Place, Delhi", Destination: "Agra & Fort"}
	assert.Equal(t,
		"https://www.google.com/maps/dir/?api=1&origin=Connaught%20Place%2C%20Delhi&destination=Agra%20%26%20Fort",
		MapURL(route))

	marks := trip.TripRequest{Mode: trip.ModeRoute, Origin: "St. Mary's (Old) Church!*~", Destination: "Gate 1+2"}
	assert.Equal(t,
		"https://www.google.com/maps/dir/?api=1&origin=St.%20Mary's%20(Old)%20Church!*~&destination=Gate%201%2B2",
		MapURL(marks))

	assert.Empty(t, MapURL(trip.TripRequest{Mode: trip.ModeDistance, Origin: "A", Destination: "B"}))
	assert.Empty(t, MapURL(trip.TripRequest{Mode: trip.ModeRoute, Origin: "A"}))
}
