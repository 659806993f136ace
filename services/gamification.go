package services

import (
	"math"
	"strings"

	"mealtracker/models"
)

var proteinTokens = []string{"chicken", "tofu", "egg", "yogurt"}

// CalculatePoints scores a meal: lighter meals start higher, with bonuses
// for plants, protein, variety and a balanced calorie range, and a penalty
// above 900 kcal. Never below 5.
func CalculatePoints(calories float64, foods []models.FoodEntry) int {
	base := max(5, 60-int(math.Floor(calories/12)))

	labels := make([]string, 0, len(foods))
	distinct := make(map[string]struct{}, len(foods))
	for _, f := range foods {
		label := strings.ToLower(f.Name)
		labels = append(labels, label)
		if label != "" {
			distinct[label] = struct{}{}
		}
	}

	plantBonus, proteinBonus := 0, 0
	for _, label := range labels {
		if strings.Contains(label, "salad") || strings.Contains(label, "vegg") {
			plantBonus = 5
		}
		for _, token := range proteinTokens {
			if strings.Contains(label, token) {
				proteinBonus = 5
			}
		}
	}

	varietyBonus := min(10, max(0, len(distinct)-1)*2)

	balanceBonus := 0
	if calories >= 350 && calories <= 650 {
		balanceBonus = 8
	}
	indulgePenalty := 0
	if calories > 900 {
		indulgePenalty = -5
	}

	return max(5, base+plantBonus+proteinBonus+varietyBonus+balanceBonus+indulgePenalty)
}
