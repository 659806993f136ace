package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"mealtracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePhotoStore struct {
	url     string
	err     error
	uploads []string
}

func (f *fakePhotoStore) Upload(_ context.Context, dataURI string) (string, error) {
	f.uploads = append(f.uploads, dataURI)
	return f.url, f.err
}

type mealServiceFixture struct {
	svc    *MealService
	store  *MemoryMealStore
	rt     *recordingBroadcaster
	push   *recordingPusher
	photos *fakePhotoStore
}

func newMealServiceFixture(t *testing.T) *mealServiceFixture {
	t.Helper()
	log := discardLogger()
	f := &mealServiceFixture{
		store:  NewMemoryMealStore(fixedClock(testNow)),
		rt:     &recordingBroadcaster{},
		push:   &recordingPusher{},
		photos: &fakePhotoStore{url: "https://cdn.example.com/meal-photos/p.jpg"},
	}
	alerts := NewAlertBus(f.rt, f.push, log)
	alerts.now = fixedClock(testNow)
	f.svc = NewMealService(
		f.store,
		NewCalorieDetector(HashPhotoDetector{}, log),
		NewAnalyticsService(fixedClock(testNow), time.UTC),
		alerts,
		f.photos,
		log,
	)
	return f
}

func TestParseCalories(t *testing.T) {
	tests := []struct {
		raw     string
		want    *float64
		wantErr bool
	}{
		{"", nil, false},
		{"null", nil, false},
		{"512.5", ptr(512.5), false},
		{`"480"`, ptr(480.0), false},
		{`" 42 "`, ptr(42.0), false},
		{`"abc"`, nil, true},
		{"true", nil, true},
		{"[1]", nil, true},
		{`"NaN"`, nil, true},
		{`"Inf"`, nil, true},
		{`"-Inf"`, nil, true},
		{`"1e999"`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseCalories(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCalories)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogMeal_EstimatesAndScores(t *testing.T) {
	f := newMealServiceFixture(t)
	mood := "happy"

	got, err := f.svc.LogMeal(context.Background(), MealLogRequest{
		Foods: []models.FoodInput{models.TextFood("grilled chicken")},
		Mood:  &mood,
	})
	require.NoError(t, err)

	assert.Equal(t, uint(1), got.ID)
	assert.Equal(t, 250.0, got.Calories)
	assert.Equal(t, 45, got.Points)
	assert.Equal(t, models.MethodManual, got.CalorieMethod)
	assert.Equal(t, 0.98, got.CalorieConfidence)
	assert.Equal(t, "happy", *got.Mood)
	assert.Nil(t, got.Photo)
	assert.Contains(t, got.CalorieExplanation, "grilled chicken (250 kcal)")
	assert.Equal(t, testNow, got.CreatedAt)
	assert.Equal(t, "grilled chicken", got.MealName)
}

func TestLogMeal_MealName(t *testing.T) {
	f := newMealServiceFixture(t)
	ctx := context.Background()

	got, err := f.svc.LogMeal(ctx, MealLogRequest{
		MealName: "  Post-run lunch ",
		Foods:    []models.FoodInput{models.TextFood("grilled chicken")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Post-run lunch", got.MealName)

	got, err = f.svc.LogMeal(ctx, MealLogRequest{
		MealName: "   ",
		Foods:    []models.FoodInput{models.ItemFood(models.StructuredFood{Name: "Tofu"})},
	})
	require.NoError(t, err)
	assert.Equal(t, "Tofu", got.MealName)
}

func TestLogMeal_CalorieOverride(t *testing.T) {
	f := newMealServiceFixture(t)

	got, err := f.svc.LogMeal(context.Background(), MealLogRequest{
		Foods:    []models.FoodInput{models.TextFood("grilled chicken")},
		Calories: json.RawMessage(`"500"`),
	})
	require.NoError(t, err)
	assert.Equal(t, 500.0, got.Calories)
	assert.Equal(t, 32, got.Points)
	// the explanation still reflects the estimate
	assert.Contains(t, got.CalorieExplanation, "Total estimate: 250.0 kcal.")
}

func TestLogMeal_Errors(t *testing.T) {
	f := newMealServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.LogMeal(ctx, MealLogRequest{})
	assert.ErrorIs(t, err, ErrNoFoods)

	_, err = f.svc.LogMeal(ctx, MealLogRequest{
		Foods:    []models.FoodInput{models.TextFood("salad")},
		Calories: json.RawMessage(`"lots"`),
	})
	assert.ErrorIs(t, err, ErrInvalidCalories)

	// no foods wins over a bad calorie value
	_, err = f.svc.LogMeal(ctx, MealLogRequest{Calories: json.RawMessage(`"lots"`)})
	assert.ErrorIs(t, err, ErrNoFoods)

	count, _ := f.store.Count(ctx)
	assert.Zero(t, count)
}

func TestLogMeal_Photo(t *testing.T) {
	ctx := context.Background()
	const dataURI = "data:image/jpeg;base64,aGVsbG8="

	t.Run("photo url is stored as is", func(t *testing.T) {
		f := newMealServiceFixture(t)
		got, err := f.svc.LogMeal(ctx, MealLogRequest{PhotoURL: "https://img/plate.jpg"})
		require.NoError(t, err)
		assert.Equal(t, models.MethodPhoto, got.CalorieMethod)
		assert.NotEmpty(t, got.Foods)
		require.NotNil(t, got.Photo)
		assert.Equal(t, "https://img/plate.jpg", *got.Photo)
		assert.Empty(t, f.photos.uploads)
	})

	t.Run("inline photo is uploaded", func(t *testing.T) {
		f := newMealServiceFixture(t)
		got, err := f.svc.LogMeal(ctx, MealLogRequest{PhotoData: dataURI})
		require.NoError(t, err)
		require.NotNil(t, got.Photo)
		assert.Equal(t, "https://cdn.example.com/meal-photos/p.jpg", *got.Photo)
		assert.Equal(t, []string{dataURI}, f.photos.uploads)
	})

	t.Run("failed upload keeps the data uri", func(t *testing.T) {
		f := newMealServiceFixture(t)
		f.photos.err = errors.New("s3 down")
		got, err := f.svc.LogMeal(ctx, MealLogRequest{PhotoData: dataURI})
		require.NoError(t, err)
		assert.Equal(t, dataURI, *got.Photo)
	})
}

func TestLogMeal_Alerts(t *testing.T) {
	f := newMealServiceFixture(t)
	ctx := context.Background()
	req := MealLogRequest{Foods: []models.FoodInput{models.TextFood("salad")}}

	_, err := f.svc.LogMeal(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, []string{models.AlertMealLogged, models.AlertAchievement}, f.rt.kinds())
	require.Len(t, f.push.pushes, 1)
	assert.Equal(t, "Achievement unlocked: First Meal Logged", f.push.pushes[0].title)
	assert.Equal(t, "first-log", f.push.pushes[0].data["ref"])

	_, err = f.svc.LogMeal(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, []string{models.AlertMealLogged, models.AlertAchievement, models.AlertMealLogged}, f.rt.kinds())
	assert.Len(t, f.push.pushes, 1)
}

func TestListRecentMeals(t *testing.T) {
	ctx := context.Background()
	clock := testNow.AddDate(0, 0, -3)
	store := NewMemoryMealStore(func() time.Time { return clock })
	log := discardLogger()
	svc := NewMealService(store, NewCalorieDetector(nil, log), NewAnalyticsService(fixedClock(testNow), time.UTC), nil, nil, log)

	req := MealLogRequest{Foods: []models.FoodInput{models.TextFood("apple")}}
	_, err := svc.LogMeal(ctx, req)
	require.NoError(t, err)
	clock = testNow
	_, err = svc.LogMeal(ctx, req)
	require.NoError(t, err)

	recent, err := svc.ListRecentMeals(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, uint(2), recent[0].ID)

	all, err := svc.ListMeals(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMealService_Insights(t *testing.T) {
	f := newMealServiceFixture(t)
	ctx := context.Background()

	for _, food := range []string{"salad", "grilled chicken"} {
		_, err := f.svc.LogMeal(ctx, MealLogRequest{Foods: []models.FoodInput{models.TextFood(food)}})
		require.NoError(t, err)
	}

	got, err := f.svc.Insights(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalMeals)
	assert.Equal(t, 53+45, got.Points)
	assert.Equal(t, 2, got.Weekly.Count)
	assert.Equal(t, 1, got.Streaks.Current)
}

func TestInsightsFor(t *testing.T) {
	f := newMealServiceFixture(t)

	got := f.svc.InsightsFor([]HistoryMeal{
		{Foods: []models.FoodEntry{{Name: "salad"}}, Calories: 400, Points: 30, CreatedAt: "2024-05-09T08:00:00"},
		{Foods: []models.FoodEntry{{Name: "rice"}}, Calories: 600, Points: 20, CreatedAt: "not a date"},
		{Calories: 900, Points: 5, CreatedAt: "2024-04-01"},
	})

	assert.Equal(t, 3, got.TotalMeals)
	assert.Equal(t, 55, got.Points)
	assert.Equal(t, 2, got.Weekly.Count)
	assert.Equal(t, 1000.0, got.Weekly.TotalCalories)
	assert.Equal(t, StreakReport{Current: 2, Longest: 2}, got.Streaks)

	count, _ := f.store.Count(context.Background())
	assert.Zero(t, count)
}
