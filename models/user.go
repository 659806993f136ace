package models

import "time"

// ProfileID is the primary key of the single profile row.
const ProfileID = 1

// UserProfile holds body measurements. Each field is independently nullable;
// BMI is derived on read.
type UserProfile struct {
	ID        uint      `gorm:"primaryKey"       json:"-"`
	Height    *float64  `json:"height"` // cm
	Weight    *float64  `json:"weight"` // kg
	UpdatedAt time.Time `json:"-"`
}

// User is an account in the signup/login registry.
type User struct {
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
