package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"mealtracker/models"
)

const (
	dateLayout = "2006-01-02"
	weekSpan   = 7 * 24 * time.Hour
)

// AnalyticsService derives weekly insights from a meal history. Calendar
// days are taken in loc (UTC unless configured otherwise).
type AnalyticsService struct {
	now func() time.Time
	loc *time.Location
}

func NewAnalyticsService(now func() time.Time, loc *time.Location) *AnalyticsService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{now: now, loc: loc}
}

// ---------- Weekly summary ----------

type DayCalories struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
}

// DayExtreme is a day picked out of the week; both fields are null when the
// week is empty.
type DayExtreme struct {
	Date     *string  `json:"date"`
	Calories *float64 `json:"calories"`
}

type WeeklySummary struct {
	TotalCalories   float64       `json:"totalCalories"`
	AverageCalories float64       `json:"averageCalories"`
	Count           int           `json:"count"`
	CaloriesByDay   []DayCalories `json:"caloriesByDay"`
	// BestDay is the lowest-calorie day of the week.
	BestDay      DayExtreme `json:"bestDay"`
	IndulgentDay DayExtreme `json:"indulgentDay"`
}

type StreakReport struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

type Achievement struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Achieved bool   `json:"achieved"`
	Details  string `json:"details"`
	Progress string `json:"progress"`
}

// Insights bundles everything the dashboard shows.
type Insights struct {
	Weekly          WeeklySummary `json:"weekly"`
	Achievements    []Achievement `json:"achievements"`
	Points          int           `json:"points"`
	TotalMeals      int           `json:"totalMeals"`
	Streaks         StreakReport  `json:"streaks"`
	Recommendations []string      `json:"recommendations"`
}

func (s *AnalyticsService) WeeklySummary(meals []models.Meal) WeeklySummary {
	weekly := s.weeklyWindow(meals)

	total := 0.0
	for _, m := range weekly {
		total += m.Calories
	}
	avg := 0.0
	if len(weekly) > 0 {
		avg = total / float64(len(weekly))
	}

	totals := s.dailyTotals(weekly)
	days := make([]string, 0, len(totals))
	for d := range totals {
		days = append(days, d)
	}
	sort.Strings(days)

	out := WeeklySummary{
		TotalCalories:   round1(total),
		AverageCalories: round1(avg),
		Count:           len(weekly),
		CaloriesByDay:   make([]DayCalories, 0, len(days)),
	}

	var best, indulgent string
	for _, d := range days {
		out.CaloriesByDay = append(out.CaloriesByDay, DayCalories{Date: d, Calories: round1(totals[d])})
		if best == "" || totals[d] < totals[best] {
			best = d
		}
		if indulgent == "" || totals[d] > totals[indulgent] {
			indulgent = d
		}
	}
	out.BestDay = extreme(best, totals)
	out.IndulgentDay = extreme(indulgent, totals)
	return out
}

func extreme(day string, totals map[string]float64) DayExtreme {
	if day == "" {
		return DayExtreme{}
	}
	cal := round1(totals[day])
	return DayExtreme{Date: &day, Calories: &cal}
}

// ---------- Streaks ----------

func (s *AnalyticsService) StreakReport(meals []models.Meal) StreakReport {
	return StreakReport{Current: s.currentStreak(meals), Longest: s.longestStreak(meals)}
}

// currentStreak counts consecutive logged days ending today, or ending
// yesterday when nothing is logged yet today.
func (s *AnalyticsService) currentStreak(meals []models.Meal) int {
	if len(meals) == 0 {
		return 0
	}
	logged := make(map[string]struct{}, len(meals))
	for _, m := range meals {
		logged[s.day(m).Format(dateLayout)] = struct{}{}
	}
	has := func(d time.Time) bool {
		_, ok := logged[d.Format(dateLayout)]
		return ok
	}

	day := s.dayOf(s.now())
	if !has(day) && has(day.AddDate(0, 0, -1)) {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for has(day) {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func (s *AnalyticsService) longestStreak(meals []models.Meal) int {
	if len(meals) == 0 {
		return 0
	}
	sorted := make([]models.Meal, len(meals))
	copy(sorted, meals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return s.timestamp(sorted[i]).Before(s.timestamp(sorted[j]))
	})

	streak, longest := 1, 1
	for i := 1; i < len(sorted); i++ {
		prev, cur := s.day(sorted[i-1]), s.day(sorted[i])
		if daysBetween(prev, cur) <= 1 {
			if cur.Equal(prev) {
				continue
			}
			streak++
		} else {
			streak = 1
		}
		longest = max(longest, streak)
	}
	return longest
}

// ---------- Variety, achievements, tips ----------

// WeeklyVariety counts distinct food names (ignoring case) logged this week.
func (s *AnalyticsService) WeeklyVariety(meals []models.Meal) int {
	names := make(map[string]struct{})
	for _, m := range s.weeklyWindow(meals) {
		for _, f := range m.Foods {
			if f.Name != "" {
				names[strings.ToLower(f.Name)] = struct{}{}
			}
		}
	}
	return len(names)
}

// Achievements evaluates the six badges. weekly may be nil, in which case it
// is computed from meals.
func (s *AnalyticsService) Achievements(meals []models.Meal, weekly *WeeklySummary) []Achievement {
	if weekly == nil {
		w := s.WeeklySummary(meals)
		weekly = &w
	}
	streaks := s.StreakReport(meals)
	variety := s.WeeklyVariety(meals)

	firstLog := 0
	if len(meals) > 0 {
		firstLog = 1
	}

	return []Achievement{
		{
			ID:       "first-log",
			Label:    "First Meal Logged",
			Achieved: len(meals) > 0,
			Details:  "Unlocked as soon as you record your first meal.",
			Progress: fmt.Sprintf("%d/1", firstLog),
		},
		{
			ID:       "weekly-habit",
			Label:    "3-Day Streak",
			Achieved: streaks.Longest >= 3,
			Details:  "Log meals three days in a row to prove your consistency.",
			Progress: fmt.Sprintf("%d/3", min(streaks.Longest, 3)),
		},
		{
			ID:       "weekly-hero",
			Label:    "Weekly Hero",
			Achieved: weekly.Count >= 5,
			Details:  "Capture five meals this week to stay mindful.",
			Progress: fmt.Sprintf("%d/5", min(weekly.Count, 5)),
		},
		{
			ID:       "balanced-week",
			Label:    "Balanced Week",
			Achieved: weekly.AverageCalories >= 350 && weekly.AverageCalories <= 700 && weekly.Count >= 3,
			Details:  "Keep your weekly average calories in the healthy sweet spot.",
			Progress: fmt.Sprintf("%d avg kcal", int(weekly.AverageCalories)),
		},
		{
			ID:       "colorful-plate",
			Label:    "Colorful Plate",
			Achieved: variety >= 5,
			Details:  "Try at least five unique foods in the last week for balanced nutrition.",
			Progress: fmt.Sprintf("%d/5 foods", min(variety, 5)),
		},
		{
			ID:       "streak-sprinter",
			Label:    "7-Day Sprinter",
			Achieved: streaks.Longest >= 7,
			Details:  "Maintain a week-long streak of mindful eating logs.",
			Progress: fmt.Sprintf("%d/7 days", min(streaks.Longest, 7)),
		},
	}
}

const maxCoachingTips = 3

// CoachingTips returns up to three tips in priority order, or a single
// positive one when nothing needs work.
func (s *AnalyticsService) CoachingTips(meals []models.Meal, weekly *WeeklySummary) []string {
	if weekly == nil {
		w := s.WeeklySummary(meals)
		weekly = &w
	}
	streaks := s.StreakReport(meals)

	var tips []string
	if streaks.Current < 3 {
		tips = append(tips, "Log meals three days in a row to unlock the Weekly Habit badge.")
	}
	if weekly.Count < 5 {
		tips = append(tips, "Aim for five meals this week to build awareness through repetition.")
	}
	if weekly.AverageCalories > 750 {
		tips = append(tips, "Your averages are trending high—try swapping in a lighter lunch or scaling back portions.")
	}
	if weekly.AverageCalories > 0 && weekly.AverageCalories < 350 {
		tips = append(tips, "Average calories look low. Make sure you are fueling enough for your activity.")
	}
	if s.WeeklyVariety(meals) < 5 {
		tips = append(tips, "Add more variety—colorful fruits and veggies can boost micronutrients.")
	}
	if len(tips) == 0 {
		tips = append(tips, "Great balance! Keep up the streak and consider setting a macro goal next.")
	}
	if len(tips) > maxCoachingTips {
		tips = tips[:maxCoachingTips]
	}
	return tips
}

// Insights assembles the full dashboard for a history. points and
// totalMeals come from the store, which may know more than meals holds.
func (s *AnalyticsService) Insights(meals []models.Meal, points, totalMeals int) Insights {
	weekly := s.WeeklySummary(meals)
	return Insights{
		Weekly:          weekly,
		Achievements:    s.Achievements(meals, &weekly),
		Points:          points,
		TotalMeals:      totalMeals,
		Streaks:         s.StreakReport(meals),
		Recommendations: s.CoachingTips(meals, &weekly),
	}
}

// ---------- internals ----------

// timestamp treats a missing creation time as now.
func (s *AnalyticsService) timestamp(m models.Meal) time.Time {
	if m.CreatedAt.IsZero() {
		return s.now()
	}
	return m.CreatedAt
}

func (s *AnalyticsService) dayOf(t time.Time) time.Time {
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

func (s *AnalyticsService) day(m models.Meal) time.Time { return s.dayOf(s.timestamp(m)) }

func (s *AnalyticsService) weeklyWindow(meals []models.Meal) []models.Meal {
	cutoff := s.now().Add(-weekSpan)
	var out []models.Meal
	for _, m := range meals {
		if !s.timestamp(m).Before(cutoff) {
			out = append(out, m)
		}
	}
	return out
}

func (s *AnalyticsService) dailyTotals(meals []models.Meal) map[string]float64 {
	totals := make(map[string]float64)
	for _, m := range meals {
		totals[s.day(m).Format(dateLayout)] += m.Calories
	}
	return totals
}

// daysBetween counts calendar days from a to b; both are midnights in the
// same location, so rounding absorbs DST shifts.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Round(24*time.Hour) / (24 * time.Hour))
}
