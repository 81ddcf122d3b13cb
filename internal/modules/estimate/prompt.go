package estimate

import (
	"fmt"
	"strconv"
	"time"

	"tripsage/internal/modules/trip"
)

// RouteHint is an optional third-party driving estimate for a route trip.
type RouteHint struct {
	DistanceKm float64
	Duration   time.Duration
}

// buildPrompt constructs the instructions for the AI. The adjustment figures
// are guidance for the model, not values computed here.
func buildPrompt(req trip.TripRequest, hint *RouteHint) string {
	ac := "Off"
	if req.ACOn {
		ac = "On"
	}

	return fmt.Sprintf(`Act as an expert automotive engineer and environmental scientist specialized in Indian transport.

Calculate trip energy/fuel consumption, cost (in INR), and CO2 emissions.

Input Details:
- Context: %s
- Vehicle: %s
- Fuel: %s
- Conditions: %s roads, Driving Style: %s, AC: %s.

Requirements:
1. Use realistic current fuel prices in India (approx: Petrol ₹100/L, Diesel ₹90/L, CNG ₹80/kg, EV ₹10/kWh domestic or ₹20/kWh public - assume a mix or standard).
2. Adjust mileage based on driving style (Aggressive = -20%% efficiency, Eco = +10%% efficiency) and AC usage (-10%% to -15%% efficiency).
3. For the comparison array, provide the user's vehicle result PLUS 2 distinct alternatives (e.g., if user chose Petrol Car, compare with Electric Car and a Two-wheeler or Diesel option). The comparison array MUST contain exactly 3 items.
4. Provide 3 to 4 actionable tips to save cost or energy on this specific trip.
5. Return strictly valid JSON matching the schema.
`, distanceContext(req, hint), req.Vehicle, req.Fuel, req.RoadCondition, req.DrivingStyle, ac)
}

func distanceContext(req trip.TripRequest, hint *RouteHint) string {
	if req.Mode == trip.ModeDistance {
		return fmt.Sprintf("The trip distance is exactly %s km.", formatKm(req.DistanceKm))
	}
	ctx := fmt.Sprintf("The trip is from %s to %s. Estimate the driving distance via the most common route.", req.Origin, req.Destination)
	if hint != nil && hint.DistanceKm > 0 {
		ctx += fmt.Sprintf(" Google Maps reports the driving route as about %s km (%s); prefer this figure unless it is clearly wrong.",
			formatKm(hint.DistanceKm), hint.Duration.Round(time.Minute))
	}
	return ctx
}

// formatKm prints the distance without rounding or trailing zeros.
func formatKm(km float64) string {
	return strconv.FormatFloat(km, 'f', -1, 64)
}
