package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"mealtracker/models"
)

const noFoodsExplanation = "No recognizable foods detected; using default calorie estimate."

var methodBaseConfidence = map[string]float64{
	models.MethodManual:   0.92,
	models.MethodPhoto:    0.78,
	models.MethodHint:     0.68,
	models.MethodFallback: 0.50,
}

const (
	defaultBaseConfidence = 0.60
	minConfidence         = 0.35
	maxConfidence         = 0.98
)

// DetectionRequest lists every source a meal's foods may come from.
type DetectionRequest struct {
	Foods          []models.FoodInput
	PhotoReference string
	NutritionHints []models.FoodInput
}

type DetectionResult struct {
	Foods       []models.FoodEntry `json:"foods"`
	Calories    float64            `json:"calories"`
	Method      string             `json:"method"`
	Confidence  float64            `json:"confidence"`
	Explanation string             `json:"explanation"`
}

type CalorieDetector struct {
	photos PhotoDetector
	log    *slog.Logger
}

func NewCalorieDetector(photos PhotoDetector, log *slog.Logger) *CalorieDetector {
	if photos == nil {
		photos = HashPhotoDetector{}
	}
	return &CalorieDetector{photos: photos, log: log}
}

// Detect picks the first available source (explicit foods, then hints, then
// the photo) and estimates calories from it. It never fails: with nothing
// usable it returns an empty fallback result.
func (d *CalorieDetector) Detect(ctx context.Context, req DetectionRequest) DetectionResult {
	method := models.MethodManual
	source := req.Foods

	if len(source) == 0 && len(req.NutritionHints) > 0 {
		method = models.MethodHint
		source = req.NutritionHints
	}

	if len(source) == 0 && req.PhotoReference != "" {
		method = models.MethodPhoto
		names, err := d.photos.DetectFoods(ctx, req.PhotoReference)
		if err != nil {
			d.log.Warn("photo detection failed", "error", err)
		}
		for _, n := range names {
			source = append(source, models.TextFood(n))
		}
	}

	if len(source) == 0 {
		method = models.MethodFallback
	}

	foods, total := EstimateCalories(source)
	confidence := ConfidenceScore(method, foods)
	return DetectionResult{
		Foods:       foods,
		Calories:    total,
		Method:      method,
		Confidence:  confidence,
		Explanation: CalorieExplanation(foods, total, method, confidence),
	}
}

// ConfidenceScore is base(method) + 0.1*coverage + distinct names/10,
// clamped to [0.35, 0.98] and rounded to 2 decimals.
func ConfidenceScore(method string, foods []models.FoodEntry) float64 {
	base, ok := methodBaseConfidence[method]
	if !ok {
		base = defaultBaseConfidence
	}

	var coverage, diversity float64
	if len(foods) > 0 {
		withCalories := 0
		names := make(map[string]struct{}, len(foods))
		for _, f := range foods {
			if f.Calories != 0 {
				withCalories++
			}
			if f.Name != "" {
				names[f.Name] = struct{}{}
			}
		}
		coverage = float64(withCalories) / float64(len(foods))
		diversity = float64(len(names)) / 10
	}

	confidence := base + 0.1*coverage + diversity
	return round2(math.Max(minConfidence, math.Min(confidence, maxConfidence)))
}

// CalorieExplanation renders the user-facing summary of a detection. The
// percentage is truncated, so 0.876 reads as 87%.
func CalorieExplanation(foods []models.FoodEntry, calories float64, method string, confidence float64) string {
	if len(foods) == 0 {
		return noFoodsExplanation
	}

	breakdown := make([]string, 0, len(foods))
	for _, f := range foods {
		if f.Calories != 0 {
			breakdown = append(breakdown, fmt.Sprintf("%s (%d kcal)", f.Name, int(f.Calories)))
		} else {
			breakdown = append(breakdown, f.Name)
		}
	}

	return fmt.Sprintf("Detected via %s input with %d%% confidence. Breakdown: %s. Total estimate: %s kcal.",
		method, int(confidence*100), strings.Join(breakdown, ", "), formatKcal(calories))
}
