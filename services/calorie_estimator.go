package services

import (
	"math"
	"regexp"
	"strings"

	"mealtracker/models"
)

// MacroProfile is the per-serving reference for one food.
type MacroProfile struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

const unknownFoodName = "Unknown food"

var DefaultProfile = MacroProfile{Calories: 220, Protein: 8, Carbs: 20, Fat: 9}

var foodLibrary = map[string]MacroProfile{
	"salad":             {150, 4, 12, 9},
	"grilled chicken":   {250, 35, 0, 11},
	"chicken":           {240, 32, 0, 12},
	"rice":              {210, 4, 45, 2},
	"brown rice":        {195, 4, 41, 2},
	"avocado":           {160, 3, 9, 15},
	"smoothie":          {190, 6, 32, 4},
	"pasta":             {320, 12, 58, 4},
	"whole grain pasta": {300, 13, 54, 4},
	"oatmeal":           {180, 6, 30, 4},
	"berries":           {85, 1, 21, 0},
	"veggies":           {120, 4, 18, 2},
	"steak":             {400, 32, 0, 30},
	"tofu":              {160, 16, 6, 9},
	"protein shake":     {200, 25, 6, 5},
	"yogurt":            {120, 12, 14, 3},
	"greek yogurt":      {140, 17, 9, 5},
	"eggs":              {150, 12, 1, 11},
	"egg":               {78, 6, 0, 5},
	"sweet potato":      {130, 2, 27, 0},
	"quinoa":            {220, 8, 39, 3},
	"lentils":           {200, 18, 34, 1},
	"beans":             {210, 15, 35, 2},
	"banana":            {105, 1, 27, 0},
	"apple":             {95, 0, 25, 0},
	"spinach":           {40, 5, 4, 0},
}

// Checked in order, before numeric quantities.
var quantityHints = []struct {
	prefix string
	factor float64
}{
	{"half ", 0.5},
	{"quarter ", 0.25},
	{"double ", 2.0},
	{"single ", 1.0},
}

var quantityPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(?:x|×)?\s*(.*)$`)

const minQuantity = 0.1

// LookupProfile returns the library profile for name, ignoring case and
// surrounding space, or DefaultProfile.
func LookupProfile(name string) MacroProfile {
	if p, ok := foodLibrary[canonicalName(name)]; ok {
		return p
	}
	return DefaultProfile
}

func canonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ParseQuantity splits a free-text food into its name and serving multiplier.
func ParseQuantity(label string) (string, float64) {
	cleaned := strings.TrimSpace(label)
	if cleaned == "" {
		return "", 1.0
	}

	lower := strings.ToLower(cleaned)
	for _, h := range quantityHints {
		if strings.HasPrefix(lower, h.prefix) {
			return strings.TrimSpace(cleaned[len(h.prefix):]), h.factor
		}
	}

	if m := quantityPattern.FindStringSubmatch(cleaned); m != nil {
		quantity, err := parseFloat(m[1])
		if err == nil {
			name := strings.TrimSpace(m[2])
			if name == "" {
				name = cleaned
			}
			return name, math.Max(quantity, minQuantity)
		}
	}
	return cleaned, 1.0
}

func scaleProfile(p MacroProfile, quantity float64) (float64, models.Macros) {
	return round1(p.Calories * quantity), models.Macros{
		Protein: round1(p.Protein * quantity),
		Carbs:   round1(p.Carbs * quantity),
		Fat:     round1(p.Fat * quantity),
	}
}

func normalizeText(text string) models.FoodEntry {
	name, quantity := ParseQuantity(text)
	calories, macros := scaleProfile(LookupProfile(name), quantity)
	entry := models.FoodEntry{
		Name:     name,
		Calories: calories,
		Quantity: quantity,
		Macros:   &macros,
		Source:   models.SourceLibrary,
	}
	if name == "" {
		entry.Name = unknownFoodName
		entry.Source = models.SourceFallback
	}
	return entry
}

func structuredQuantity(item *models.StructuredFood) float64 {
	q := 1.0
	switch {
	case item.Quantity != nil && *item.Quantity != 0:
		q = *item.Quantity
	case item.Servings != nil && *item.Servings != 0:
		q = *item.Servings
	}
	return math.Max(q, minQuantity)
}

func normalizeStructured(item *models.StructuredFood) models.FoodEntry {
	name := strings.TrimSpace(item.Name)
	quantity := structuredQuantity(item)
	entry := models.FoodEntry{
		Name:     name,
		Quantity: quantity,
		Macros:   item.Macros,
		Source:   item.Source,
	}
	if entry.Source == "" {
		entry.Source = models.SourceManual
	}

	if item.Calories != nil && *item.Calories != 0 {
		entry.Calories = round1(*item.Calories)
	} else {
		calories, macros := scaleProfile(LookupProfile(name), quantity)
		entry.Calories = calories
		if entry.Macros == nil {
			entry.Macros = &macros
		}
	}

	if name == "" {
		entry.Name = unknownFoodName
	}
	return entry
}

// NormalizeFoods turns raw inputs into FoodEntry values and merges entries
// that share a name, ignoring case.
func NormalizeFoods(foods []models.FoodInput) []models.FoodEntry {
	normalized := make([]models.FoodEntry, 0, len(foods))
	for _, f := range foods {
		if f.IsStructured() {
			normalized = append(normalized, normalizeStructured(f.Item))
		} else {
			normalized = append(normalized, normalizeText(f.Text))
		}
	}
	return MergeFoods(normalized)
}

// MergeFoods groups entries by lower-cased name, summing calories, quantity
// and each macro. Output keeps the first occurrence's position and name;
// entries with blank names are dropped.
func MergeFoods(entries []models.FoodEntry) []models.FoodEntry {
	index := make(map[string]int, len(entries))
	out := make([]models.FoodEntry, 0, len(entries))

	for _, e := range entries {
		key := canonicalName(e.Name)
		if key == "" {
			continue
		}
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			if e.Macros != nil {
				m := *e.Macros
				e.Macros = &m
			}
			out = append(out, e)
			continue
		}

		target := &out[i]
		target.Calories = round1(target.Calories + e.Calories)
		target.Quantity = round2(target.Quantity + e.Quantity)
		if target.Macros != nil || e.Macros != nil {
			var a, b models.Macros
			if target.Macros != nil {
				a = *target.Macros
			}
			if e.Macros != nil {
				b = *e.Macros
			}
			target.Macros = &models.Macros{
				Protein: round1(a.Protein + b.Protein),
				Carbs:   round1(a.Carbs + b.Carbs),
				Fat:     round1(a.Fat + b.Fat),
			}
		}
	}
	return out
}

// EstimateCalories normalizes foods and returns them with their total
// calories rounded to 1 decimal.
func EstimateCalories(foods []models.FoodInput) ([]models.FoodEntry, float64) {
	normalized := NormalizeFoods(foods)
	total := 0.0
	for _, e := range normalized {
		total += e.Calories
	}
	return normalized, round1(total)
}
