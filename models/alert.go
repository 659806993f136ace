package models

import "time"

const (
	AlertAchievement = "achievement"
	AlertMealLogged  = "meal.logged"
	AlertTest        = "test"
)

// Alert is a notification fanned out to realtime clients and push.
type Alert struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Ref       string    `json:"ref,omitempty"` // achievement id or meal id
	CreatedAt time.Time `json:"created_at"`
}
