package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotAuthenticated = errors.New("no signed-in user")
	ErrNotOwner         = errors.New("resource belongs to another user")
)

// PlantLog records one "I ate this" event. The same (user, plant) pair may
// appear any number of times across time; weekly deduplication happens at
// read time, never at write time.
type PlantLog struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	PlantID      string    `json:"plant_id" db:"plant_id"`
	PointsEarned int       `json:"points_earned" db:"points_earned"`
	LoggedAt     time.Time `json:"logged_at" db:"logged_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func NewPlantLog(userID, plantID string, points int, loggedAt time.Time) *PlantLog {
	return &PlantLog{
		UserID:       userID,
		PlantID:      plantID,
		PointsEarned: points,
		LoggedAt:     loggedAt.UTC(),
		CreatedAt:    time.Now().UTC(),
	}
}

func (l *PlantLog) Validate() error {
	if strings.TrimSpace(l.UserID) == "" {
		return errors.New("user_id is required")
	}
	if strings.TrimSpace(l.PlantID) == "" {
		return errors.New("plant_id is required")
	}
	if l.PointsEarned < 0 {
		return errors.New("points_earned cannot be negative")
	}
	if l.LoggedAt.IsZero() {
		return errors.New("logged_at is required")
	}
	return nil
}

// LoggedPlant is a log row joined with the catalog display fields, the shape
// the aggregation and the API consume.
type LoggedPlant struct {
	PlantID   string    `json:"plant_id" db:"plant_id"`
	PlantName string    `json:"plant_name" db:"plant_name"`
	Emoji     string    `json:"emoji" db:"emoji"`
	Points    int       `json:"points" db:"points"`
	LoggedAt  time.Time `json:"logged_at" db:"logged_at"`
}
