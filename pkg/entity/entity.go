package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
}

// Category is the closed set of activity classifications.
type Category string

const (
	CategoryWork          Category = "Work"
	CategoryStudy         Category = "Study"
	CategorySleep         Category = "Sleep"
	CategoryEntertainment Category = "Entertainment"
	CategoryExercise      Category = "Exercise"
	CategoryOther         Category = "Other"
)

var Categories = []Category{
	CategoryWork,
	CategoryStudy,
	CategorySleep,
	CategoryEntertainment,
	CategoryExercise,
	CategoryOther,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryStudy, CategorySleep, CategoryEntertainment, CategoryExercise, CategoryOther:
		return true
	}
	return false
}

type Activity struct {
	ID           int64     `json:"id"`
	UserID       uuid.UUID `json:"uid"`
	ActivityDate time.Time `json:"activity_date"`
	Name         string    `json:"name"`
	Category     Category  `json:"category"`
	Duration     int       `json:"duration"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Goal struct {
	ID            int64     `json:"id"`
	UserID        uuid.UUID `json:"uid"`
	Category      Category  `json:"category"`
	TargetMinutes int       `json:"target_minutes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
