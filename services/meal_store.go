package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mealtracker/models"

	"gorm.io/gorm"
)

// MealStore persists logged meals. Meals are immutable once recorded and
// List returns them most recent first.
type MealStore interface {
	Record(ctx context.Context, m models.NewMeal) (*models.Meal, error)
	List(ctx context.Context) ([]models.Meal, error)
	ListSince(ctx context.Context, since time.Time) ([]models.Meal, error)
	Count(ctx context.Context) (int, error)
	TotalPoints(ctx context.Context) (int, error)
}

func buildMeal(id int, m models.NewMeal, now time.Time) models.Meal {
	return models.Meal{
		ID:                uint(id),
		MealName:          m.MealName,
		Foods:             m.Foods,
		Calories:          round1(m.Calories),
		Points:            m.Points,
		Mood:              m.Mood,
		Notes:             m.Notes,
		Photo:             m.Photo,
		CalorieMethod:     m.CalorieMethod,
		CalorieConfidence: round2(m.CalorieConfidence),
		CreatedAt:         now,
	}
}

// ---------- in-memory ----------

// MemoryMealStore keeps meals in process memory; everything is lost on
// restart.
type MemoryMealStore struct {
	mu    sync.RWMutex
	meals []models.Meal // most recent first
	now   func() time.Time
}

func NewMemoryMealStore(now func() time.Time) *MemoryMealStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryMealStore{now: now}
}

func (s *MemoryMealStore) Record(_ context.Context, m models.NewMeal) (*models.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meal := buildMeal(len(s.meals)+1, m, s.now().UTC())
	s.meals = append([]models.Meal{meal}, s.meals...)
	return &meal, nil
}

func (s *MemoryMealStore) List(_ context.Context) ([]models.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Meal, len(s.meals))
	copy(out, s.meals)
	return out, nil
}

func (s *MemoryMealStore) ListSince(_ context.Context, since time.Time) ([]models.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Meal
	for _, m := range s.meals {
		if !m.CreatedAt.Before(since) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *MemoryMealStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meals), nil
}

func (s *MemoryMealStore) TotalPoints(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, m := range s.meals {
		total += m.Points
	}
	return total, nil
}

// ---------- gorm ----------

// GormMealStore keeps meals in the meals table. Food entries are stored as
// a JSON column.
type GormMealStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormMealStore(db *gorm.DB, now func() time.Time) *GormMealStore {
	if now == nil {
		now = time.Now
	}
	return &GormMealStore{db: db, now: now}
}

// Record assigns the next ID inside a transaction so IDs stay equal to the
// row count at insertion time.
func (s *GormMealStore) Record(ctx context.Context, m models.NewMeal) (*models.Meal, error) {
	var meal models.Meal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Meal{}).Count(&count).Error; err != nil {
			return err
		}
		meal = buildMeal(int(count)+1, m, s.now().UTC())
		return tx.Create(&meal).Error
	})
	if err != nil {
		return nil, fmt.Errorf("record meal: %w", err)
	}
	return &meal, nil
}

func (s *GormMealStore) List(ctx context.Context) ([]models.Meal, error) {
	var meals []models.Meal
	err := s.db.WithContext(ctx).
		Order("id DESC").
		Find(&meals).Error
	return meals, err
}

func (s *GormMealStore) ListSince(ctx context.Context, since time.Time) ([]models.Meal, error) {
	var meals []models.Meal
	err := s.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("id DESC").
		Find(&meals).Error
	return meals, err
}

func (s *GormMealStore) Count(ctx context.Context) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Meal{}).Count(&count).Error
	return int(count), err
}

func (s *GormMealStore) TotalPoints(ctx context.Context) (int, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.Meal{}).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	return int(total), err
}
