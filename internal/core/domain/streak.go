package domain

import (
	"context"
	"time"
)

// WeeklySnapshot mirrors one user_streaks row: a per-week rollup kept for
// history. It is written off the hot path by the snapshot worker; the live
// aggregation never reads it.
type WeeklySnapshot struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	WeekStart    time.Time `json:"week_start" db:"week_start"`
	TotalPoints  int       `json:"total_points" db:"total_points"`
	UniquePlants int       `json:"unique_plants" db:"unique_plants"`
	GoalReached  bool      `json:"goal_reached" db:"goal_reached"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type SnapshotRepository interface {
	// Upsert writes the snapshot keyed on (user_id, week_start); the last
	// writer wins.
	Upsert(ctx context.Context, snap *WeeklySnapshot) error
}
