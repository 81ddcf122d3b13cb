package estimate

import "github.com/google/generative-ai-go/genai"

var vehicleEstimateFields = []string{"vehicleType", "fuelType", "estimatedConsumption", "estimatedCost", "co2Emissions", "efficiency"}

// responseSchema is declared to the model so it replies with an EstimationResult.
func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"tripDistanceKm": {
				Type:        genai.TypeNumber,
				Description: "The estimated one-way distance of the trip in kilometers.",
			},
			"primaryEstimate": vehicleEstimateSchema("Estimate for the user's chosen vehicle and fuel."),
			"comparison": {
				Type:        genai.TypeArray,
				Description: "Comparison with 2 other relevant vehicle types. Total 3 items including the user's choice.",
				Items:       vehicleEstimateSchema(""),
			},
			"assumptions": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"fuelPrice":         {Type: genai.TypeNumber, Description: "Price per unit (L, kg or kWh) used for calculation"},
					"fuelUnit":          {Type: genai.TypeString, Description: "e.g., 'INR/L' or 'INR/kWh'"},
					"mileageAssumption": {Type: genai.TypeString},
					"description":       {Type: genai.TypeString, Description: "Brief text about how conditions affected the result"},
				},
				Required: []string{"fuelPrice", "fuelUnit", "mileageAssumption", "description"},
			},
			"tips": {
				Type:        genai.TypeArray,
				Description: "3-4 actionable tips to save cost/energy for this specific trip.",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"tripDistanceKm", "primaryEstimate", "comparison", "assumptions", "tips"},
	}
}

func vehicleEstimateSchema(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeObject,
		Description: description,
		Properties: map[string]*genai.Schema{
			"vehicleType":          {Type: genai.TypeString},
			"fuelType":             {Type: genai.TypeString},
			"estimatedConsumption": {Type: genai.TypeString, Description: "e.g., '5.5 L' or '12 kWh'"},
			"estimatedCost":        {Type: genai.TypeNumber, Description: "Total cost in INR"},
			"co2Emissions":         {Type: genai.TypeNumber, Description: "Total CO2 emissions in kg"},
			"efficiency":           {Type: genai.TypeString, Description: "e.g., '18 km/L'"},
		},
		Required: vehicleEstimateFields,
	}
}
