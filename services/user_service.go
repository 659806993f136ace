package services

import (
	"context"
	"errors"
	"sync"

	"mealtracker/models"
	"mealtracker/utils"

	"gorm.io/gorm"
)

// ProfileStore holds the single user profile.
type ProfileStore interface {
	Get(ctx context.Context) (models.UserProfile, error)
	// Update sets each non-nil measurement and leaves the other as is.
	Update(ctx context.Context, height, weight *float64) (models.UserProfile, error)
}

// ProfileView is a profile plus its derived BMI (nil when incomplete or
// invalid).
type ProfileView struct {
	Profile     models.UserProfile `json:"profile"`
	BMI         *float64           `json:"bmi"`
	BMICategory string             `json:"bmi_category,omitempty"`
}

func NewProfileView(p models.UserProfile) ProfileView {
	view := ProfileView{Profile: p}
	if p.Height == nil || p.Weight == nil || *p.Height == 0 || *p.Weight == 0 {
		return view
	}
	bmi, err := utils.CalculateBMI(p.Weight, p.Height)
	if err != nil {
		return view
	}
	view.BMI = &bmi
	view.BMICategory = utils.BMICategory(bmi)
	return view
}

// ---------- in-memory ----------

type MemoryProfileStore struct {
	mu      sync.RWMutex
	profile models.UserProfile
}

func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{profile: models.UserProfile{ID: models.ProfileID}}
}

func (s *MemoryProfileStore) Get(_ context.Context) (models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile, nil
}

func (s *MemoryProfileStore) Update(_ context.Context, height, weight *float64) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if height != nil {
		h := *height
		s.profile.Height = &h
	}
	if weight != nil {
		w := *weight
		s.profile.Weight = &w
	}
	return s.profile, nil
}

// ---------- gorm ----------

type GormProfileStore struct{ db *gorm.DB }

func NewGormProfileStore(db *gorm.DB) *GormProfileStore { return &GormProfileStore{db: db} }

func (s *GormProfileStore) Get(ctx context.Context) (models.UserProfile, error) {
	var p models.UserProfile
	err := s.db.WithContext(ctx).First(&p, models.ProfileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserProfile{ID: models.ProfileID}, nil
	}
	return p, err
}

func (s *GormProfileStore) Update(ctx context.Context, height, weight *float64) (models.UserProfile, error) {
	var p models.UserProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&p, models.ProfileID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			p = models.UserProfile{ID: models.ProfileID}
		} else if err != nil {
			return err
		}
		if height != nil {
			p.Height = height
		}
		if weight != nil {
			p.Weight = weight
		}
		return tx.Save(&p).Error
	})
	return p, err
}
