package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Provenance of a food's calorie figure.
const (
	SourceLibrary  = "library"
	SourceFallback = "fallback"
	SourceManual   = "manual"
)

// Macros holds grams of each macro-nutrient.
type Macros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// FoodEntry is a normalized food with its calorie estimate.
type FoodEntry struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Quantity float64 `json:"quantity"`
	Macros   *Macros `json:"macros"`
	Source   string  `json:"source"`
}

// StructuredFood is a food described field by field. Nil pointers mean the
// field was absent.
type StructuredFood struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity,omitempty"`
	Servings *float64 `json:"servings,omitempty"`
	Calories *float64 `json:"calories,omitempty"`
	Macros   *Macros  `json:"macros,omitempty"`
	Source   string   `json:"source,omitempty"`
}

// UnmarshalJSON accepts quantity, servings and calories as numbers or
// numeric strings.
func (s *StructuredFood) UnmarshalJSON(data []byte) error {
	type plain StructuredFood
	aux := struct {
		*plain
		Quantity *Number `json:"quantity"`
		Servings *Number `json:"servings"`
		Calories *Number `json:"calories"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.Quantity = aux.Quantity.Float64()
	s.Servings = aux.Servings.Float64()
	s.Calories = aux.Calories.Float64()
	return nil
}

// FoodInput is either free text ("2x chicken") or a StructuredFood.
// Exactly one of Text or Item is meaningful; Item != nil selects the
// structured form.
type FoodInput struct {
	Text string
	Item *StructuredFood
}

func TextFood(s string) FoodInput { return FoodInput{Text: s} }

func ItemFood(f StructuredFood) FoodInput { return FoodInput{Item: &f} }

// IsStructured reports whether the input carries a StructuredFood.
func (f FoodInput) IsStructured() bool { return f.Item != nil }

func (f FoodInput) MarshalJSON() ([]byte, error) {
	if f.Item != nil {
		return json.Marshal(f.Item)
	}
	return json.Marshal(f.Text)
}

func (f *FoodInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty food input")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FoodInput{Text: s}
		return nil
	case '{':
		var item StructuredFood
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		*f = FoodInput{Item: &item}
		return nil
	default:
		return errors.New("food must be a string or an object")
	}
}
