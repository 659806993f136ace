package utils

import (
	"errors"
	"math"
)

var (
	ErrMissingMeasurements = errors.New("Height and weight are required")
	ErrInvalidHeight       = errors.New("Height must be greater than zero")
)

// CalculateBMI expects weight in kilograms and height in centimeters.
// The result is rounded to 2 decimals.
func CalculateBMI(weightKg, heightCm *float64) (float64, error) {
	if weightKg == nil || heightCm == nil {
		return 0, ErrMissingMeasurements
	}
	h := *heightCm / 100.0 // to meters
	if h <= 0 {
		return 0, ErrInvalidHeight
	}
	bmi := *weightKg / (h * h)
	return math.Round(bmi*100) / 100, nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}
