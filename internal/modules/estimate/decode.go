package estimate

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// decodeResult validates the untyped reply against the declared schema and
// only then builds the typed result. Every mismatch is an ErrFormat.
func decodeResult(raw string) (*EstimationResult, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrFormat)
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %w", ErrFormat, err)
	}
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, formatErr("$", "expected object, got %s", kindOf(doc))
	}

	var res EstimationResult
	var err error
	if res.TripDistanceKm, err = number(root, "$", "tripDistanceKm"); err != nil {
		return nil, err
	}
	if res.TripDistanceKm <= 0 {
		return nil, formatErr("$.tripDistanceKm", "must be positive, got %v", res.TripDistanceKm)
	}

	primary, err := object(root, "$", "primaryEstimate")
	if err != nil {
		return nil, err
	}
	if res.PrimaryEstimate, err = vehicleEstimate(primary, "$.primaryEstimate"); err != nil {
		return nil, err
	}

	items, err := array(root, "$", "comparison")
	if err != nil {
		return nil, err
	}
	if len(items) != ComparisonSize {
		return nil, formatErr("$.comparison", "expected %d entries, got %d", ComparisonSize, len(items))
	}
	res.ComparisonSet = make([]VehicleEstimate, 0, len(items))
	for i, item := range items {
		path := fmt.Sprintf("$.comparison[%d]", i)
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, formatErr(path, "expected object, got %s", kindOf(item))
		}
		ve, err := vehicleEstimate(obj, path)
		if err != nil {
			return nil, err
		}
		res.ComparisonSet = append(res.ComparisonSet, ve)
	}

	assumptions, err := object(root, "$", "assumptions")
	if err != nil {
		return nil, err
	}
	if res.Assumptions, err = decodeAssumptions(assumptions); err != nil {
		return nil, err
	}

	tips, err := array(root, "$", "tips")
	if err != nil {
		return nil, err
	}
	if len(tips) < MinTips || len(tips) > MaxTips {
		return nil, formatErr("$.tips", "expected %d-%d entries, got %d", MinTips, MaxTips, len(tips))
	}
	res.Tips = make([]string, 0, len(tips))
	for i, tip := range tips {
		s, ok := tip.(string)
		if !ok {
			return nil, formatErr(fmt.Sprintf("$.tips[%d]", i), "expected string, got %s", kindOf(tip))
		}
		res.Tips = append(res.Tips, s)
	}

	return &res, nil
}

func vehicleEstimate(obj map[string]any, path string) (VehicleEstimate, error) {
	var ve VehicleEstimate
	var err error
	if ve.VehicleType, err = text(obj, path, "vehicleType"); err != nil {
		return ve, err
	}
	if ve.FuelType, err = text(obj, path, "fuelType"); err != nil {
		return ve, err
	}
	if ve.EstimatedConsumption, err = text(obj, path, "estimatedConsumption"); err != nil {
		return ve, err
	}
	if ve.EstimatedCost, err = nonNegative(obj, path, "estimatedCost"); err != nil {
		return ve, err
	}
	if ve.CO2Emissions, err = nonNegative(obj, path, "co2Emissions"); err != nil {
		return ve, err
	}
	if ve.Efficiency, err = text(obj, path, "efficiency"); err != nil {
		return ve, err
	}
	return ve, nil
}

func decodeAssumptions(obj map[string]any) (Assumptions, error) {
	const path = "$.assumptions"
	var a Assumptions
	var err error
	if a.FuelPrice, err = nonNegative(obj, path, "fuelPrice"); err != nil {
		return a, err
	}
	if a.FuelUnit, err = text(obj, path, "fuelUnit"); err != nil {
		return a, err
	}
	if a.MileageAssumption, err = text(obj, path, "mileageAssumption"); err != nil {
		return a, err
	}
	if a.Description, err = text(obj, path, "description"); err != nil {
		return a, err
	}
	return a, nil
}

func field(obj map[string]any, path, key string) (any, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, formatErr(path+"."+key, "required field missing")
	}
	return v, nil
}

func number(obj map[string]any, path, key string) (float64, error) {
	v, err := field(obj, path, key)
	if err != nil {
		return 0, err
	}
	n, ok := v.(float64)
	if !ok {
		return 0, formatErr(path+"."+key, "expected number, got %s", kindOf(v))
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, formatErr(path+"."+key, "expected finite number")
	}
	return n, nil
}

func nonNegative(obj map[string]any, path, key string) (float64, error) {
	n, err := number(obj, path, key)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, formatErr(path+"."+key, "must not be negative, got %v", n)
	}
	return n, nil
}

func text(obj map[string]any, path, key string) (string, error) {
	v, err := field(obj, path, key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", formatErr(path+"."+key, "expected string, got %s", kindOf(v))
	}
	return s, nil
}

func object(obj map[string]any, path, key string) (map[string]any, error) {
	v, err := field(obj, path, key)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, formatErr(path+"."+key, "expected object, got %s", kindOf(v))
	}
	return m, nil
}

func array(obj map[string]any, path, key string) ([]any, error) {
	v, err := field(obj, path, key)
	if err != nil {
		return nil, err
	}
	a, ok := v.([]any)
	if !ok {
		return nil, formatErr(path+"."+key, "expected array, got %s", kindOf(v))
	}
	return a, nil
}

func formatErr(path, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrFormat, path, fmt.Sprintf(format, args...))
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
