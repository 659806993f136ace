package models

import "time"

// Calorie detection methods, in selection priority order.
const (
	MethodManual   = "manual"
	MethodHint     = "hint"
	MethodPhoto    = "photo"
	MethodFallback = "fallback"
)

// Meal is one logged meal. Records are append-only; ID is the store's count
// at insertion time, starting at 1.
type Meal struct {
	ID                uint        `gorm:"primaryKey;autoIncrement:false" json:"id"`
	MealName          string      `gorm:"size:255"                       json:"meal_name"`
	Foods             []FoodEntry `gorm:"type:text;serializer:json"      json:"foods"`
	Calories          float64     `json:"calories"`
	Points            int         `json:"points"`
	Mood              *string     `json:"mood"`
	Notes             *string     `gorm:"type:text"                      json:"notes"`
	Photo             *string     `gorm:"type:text"                      json:"photo"`
	CalorieMethod     string      `gorm:"size:16"                        json:"calorie_method"`
	CalorieConfidence float64     `json:"calorie_confidence"`
	CreatedAt         time.Time   `gorm:"index"                          json:"created_at"`
}

// NewMeal carries everything the caller decides about a meal before the
// store assigns its ID and timestamp.
type NewMeal struct {
	MealName          string
	Foods             []FoodEntry
	Calories          float64
	Points            int
	Mood              *string
	Notes             *string
	Photo             *string
	CalorieMethod     string
	CalorieConfidence float64
}
