package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"mealtracker/models"
	"mealtracker/utils"
)

var (
	ErrNoFoods         = errors.New("Provide at least one food item or a photo reference.")
	ErrInvalidCalories = errors.New("Calories must be a number.")
)

// PhotoStore turns an inline photo into a stored URL.
type PhotoStore interface {
	Upload(ctx context.Context, dataURI string) (string, error)
}

// MealLogRequest is the body of a log-meal call.
type MealLogRequest struct {
	MealName       string             `json:"meal_name"`
	Foods          []models.FoodInput `json:"foods"`
	Calories       json.RawMessage    `json:"calories,omitempty"`
	Mood           *string            `json:"mood"`
	Notes          *string            `json:"notes"`
	PhotoURL       string             `json:"photoUrl"`
	PhotoData      string             `json:"photoData"`
	NutritionHints []models.FoodInput `json:"nutritionHints"`
}

// LoggedMeal is a recorded meal plus the text explaining its estimate.
type LoggedMeal struct {
	models.Meal
	CalorieExplanation string `json:"calorieExplanation"`
}

type MealService struct {
	store     MealStore
	detector  *CalorieDetector
	analytics *AnalyticsService
	alerts    *AlertBus
	photos    PhotoStore
	log       *slog.Logger
}

func NewMealService(
	store MealStore,
	detector *CalorieDetector,
	analytics *AnalyticsService,
	alerts *AlertBus,
	photos PhotoStore,
	log *slog.Logger,
) *MealService {
	return &MealService{
		store:     store,
		detector:  detector,
		analytics: analytics,
		alerts:    alerts,
		photos:    photos,
		log:       log,
	}
}

// ParseCalories reads an optional calorie override. Finite JSON numbers and
// numeric strings are accepted; anything else is ErrInvalidCalories.
func ParseCalories(raw json.RawMessage) (*float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var n models.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, ErrInvalidCalories
	}
	v := float64(n)
	return &v, nil
}

func (r MealLogRequest) photoReference() string {
	if r.PhotoURL != "" {
		return r.PhotoURL
	}
	return r.PhotoData
}

// LogMeal detects the meal's foods, scores it, records it and announces
// any badges it unlocked.
func (s *MealService) LogMeal(ctx context.Context, req MealLogRequest) (*LoggedMeal, error) {
	ref := req.photoReference()
	detection := s.detector.Detect(ctx, DetectionRequest{
		Foods:          req.Foods,
		PhotoReference: ref,
		NutritionHints: req.NutritionHints,
	})
	if len(detection.Foods) == 0 {
		return nil, ErrNoFoods
	}

	override, err := ParseCalories(req.Calories)
	if err != nil {
		return nil, err
	}
	calories := detection.Calories
	if override != nil {
		calories = *override
	}
	points := CalculatePoints(calories, detection.Foods)

	before, err := s.achievements(ctx)
	if err != nil {
		return nil, err
	}

	var photo *string
	if ref != "" {
		stored := s.storePhoto(ctx, ref)
		photo = &stored
	}

	meal, err := s.store.Record(ctx, models.NewMeal{
		MealName:          mealName(req.MealName, detection.Foods),
		Foods:             detection.Foods,
		Calories:          calories,
		Points:            points,
		Mood:              req.Mood,
		Notes:             req.Notes,
		Photo:             photo,
		CalorieMethod:     detection.Method,
		CalorieConfidence: detection.Confidence,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("meal logged",
		"id", meal.ID, "calories", meal.Calories, "points", meal.Points,
		"method", meal.CalorieMethod, "confidence", meal.CalorieConfidence)

	s.announce(ctx, meal, before)

	return &LoggedMeal{Meal: *meal, CalorieExplanation: detection.Explanation}, nil
}

const defaultMealName = "Meal"

// mealName is the trimmed requested name, else the first food's name.
func mealName(requested string, foods []models.FoodEntry) string {
	if name := strings.TrimSpace(requested); name != "" {
		return name
	}
	if len(foods) > 0 && foods[0].Name != "" {
		return foods[0].Name
	}
	return defaultMealName
}

// storePhoto uploads inline photos when an uploader is configured. Upload
// failures keep the original reference.
func (s *MealService) storePhoto(ctx context.Context, ref string) string {
	if s.photos == nil || !utils.IsDataURI(ref) {
		return ref
	}
	url, err := s.photos.Upload(ctx, ref)
	if err != nil {
		s.log.Warn("photo upload failed", "error", err)
		return ref
	}
	return url
}

func (s *MealService) achievements(ctx context.Context) ([]Achievement, error) {
	if s.alerts == nil {
		return nil, nil
	}
	meals, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	return s.analytics.Achievements(meals, nil), nil
}

func (s *MealService) announce(ctx context.Context, meal *models.Meal, before []Achievement) {
	if s.alerts == nil {
		return
	}
	s.alerts.Emit(ctx, models.Alert{
		Type:    models.AlertMealLogged,
		Title:   "Meal logged",
		Message: fmt.Sprintf("+%d points for %s kcal", meal.Points, formatKcal(meal.Calories)),
		Ref:     strconv.FormatUint(uint64(meal.ID), 10),
	})

	after, err := s.achievements(ctx)
	if err != nil {
		s.log.Warn("achievement check failed", "error", err)
		return
	}
	for _, a := range NewlyAchieved(before, after) {
		s.alerts.Emit(ctx, models.Alert{
			Type:    models.AlertAchievement,
			Title:   "Achievement unlocked: " + a.Label,
			Message: a.Details,
			Ref:     a.ID,
		})
	}
}

func (s *MealService) ListMeals(ctx context.Context) ([]models.Meal, error) {
	return s.store.List(ctx)
}

// ListRecentMeals returns meals logged in the last days days.
func (s *MealService) ListRecentMeals(ctx context.Context, days int) ([]models.Meal, error) {
	since := s.analytics.now().Add(-time.Duration(days) * 24 * time.Hour)
	return s.store.ListSince(ctx, since)
}

// Insights computes the dashboard over the stored history.
func (s *MealService) Insights(ctx context.Context) (*Insights, error) {
	meals, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	points, err := s.store.TotalPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("total points: %w", err)
	}
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count meals: %w", err)
	}
	out := s.analytics.Insights(meals, points, count)
	return &out, nil
}

// HistoryMeal is a meal supplied by a client for stateless insights.
// CreatedAt is parsed leniently.
type HistoryMeal struct {
	Foods     []models.FoodEntry `json:"foods"`
	Calories  float64            `json:"calories"`
	Points    int                `json:"points"`
	CreatedAt string             `json:"created_at"`
}

// InsightsFor computes the dashboard over a client-supplied history without
// touching the store. Malformed timestamps count as now.
func (s *MealService) InsightsFor(history []HistoryMeal) Insights {
	now := s.analytics.now()
	meals := make([]models.Meal, 0, len(history))
	points := 0
	for i, h := range history {
		meals = append(meals, models.Meal{
			ID:        uint(i + 1),
			Foods:     h.Foods,
			Calories:  h.Calories,
			Points:    h.Points,
			CreatedAt: utils.ParseTimestamp(h.CreatedAt, now),
		})
		points += h.Points
	}
	return s.analytics.Insights(meals, points, len(meals))
}
