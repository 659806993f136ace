package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"mealtracker/config"
	"mealtracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

var (
	pgOnce sync.Once
	pgCfg  config.StoreConfig
	pgErr  error
)

// setupPostgres starts one postgres container for the whole test run and
// returns a migrated, empty database.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres tests skipped in -short mode")
	}

	pgOnce.Do(func() { pgCfg, pgErr = startPostgres() })
	if pgErr != nil {
		t.Skipf("postgres container unavailable: %v", pgErr)
	}

	db, err := config.OpenDB(pgCfg)
	require.NoError(t, err)
	require.NoError(t, db.Exec("TRUNCATE meals, user_profiles").Error)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func startPostgres() (config.StoreConfig, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "testuser",
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_DB":       "testdb",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return config.StoreConfig{}, fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return config.StoreConfig{}, fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return config.StoreConfig{}, fmt.Errorf("get mapped port: %w", err)
	}

	return config.StoreConfig{
		Driver:   "postgres",
		Host:     host,
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		Port:     port.Port(),
		SSLMode:  "disable",
	}, nil
}

func TestGormMealStore(t *testing.T) {
	ctx := context.Background()
	clock := testNow
	store := NewGormMealStore(setupPostgres(t), func() time.Time { return clock })

	meals, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, meals)
	points, err := store.TotalPoints(ctx)
	require.NoError(t, err)
	assert.Zero(t, points)

	mood := "good"
	first, err := store.Record(ctx, models.NewMeal{
		MealName:          "Lunch",
		Foods:             []models.FoodEntry{{Name: "salad", Calories: 150}},
		Calories:          123.456,
		Points:            40,
		Mood:              &mood,
		CalorieMethod:     models.MethodManual,
		CalorieConfidence: 0.876,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.ID)

	clock = testNow.Add(time.Hour)
	second, err := store.Record(ctx, models.NewMeal{Calories: 500, Points: 32, CalorieMethod: models.MethodFallback})
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.ID)

	meals, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.Equal(t, uint(2), meals[0].ID)
	assert.Equal(t, uint(1), meals[1].ID)

	got := meals[1]
	assert.Equal(t, "Lunch", got.MealName)
	assert.Equal(t, []models.FoodEntry{{Name: "salad", Calories: 150}}, got.Foods)
	assert.Equal(t, 123.5, got.Calories)
	assert.Equal(t, 0.88, got.CalorieConfidence)
	require.NotNil(t, got.Mood)
	assert.Equal(t, "good", *got.Mood)
	assert.Nil(t, got.Notes)
	assert.True(t, testNow.Equal(got.CreatedAt))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	points, err = store.TotalPoints(ctx)
	require.NoError(t, err)
	assert.Equal(t, 72, points)

	recent, err := store.ListSince(ctx, testNow.Add(30*time.Minute))
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, uint(2), recent[0].ID)
}

func TestGormProfileStore(t *testing.T) {
	ctx := context.Background()
	store := NewGormProfileStore(setupPostgres(t))

	p, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, p.Height)
	assert.Nil(t, p.Weight)

	p, err = store.Update(ctx, ptr(175.0), nil)
	require.NoError(t, err)
	require.NotNil(t, p.Height)
	assert.Equal(t, 175.0, *p.Height)
	assert.Nil(t, p.Weight)

	p, err = store.Update(ctx, nil, ptr(70.0))
	require.NoError(t, err)
	require.NotNil(t, p.Height)
	require.NotNil(t, p.Weight)
	assert.Equal(t, 175.0, *p.Height)
	assert.Equal(t, 70.0, *p.Weight)

	p, err = store.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, p.Weight)
	assert.Equal(t, 70.0, *p.Weight)
	assert.Equal(t, uint(models.ProfileID), p.ID)
}
