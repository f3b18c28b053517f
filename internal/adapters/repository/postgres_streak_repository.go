package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/plantpoints/plant-points/internal/core/domain"
)

type PostgresStreakRepository struct {
	db *sqlx.DB
}

func NewPostgresStreakRepository(db *sqlx.DB) *PostgresStreakRepository {
	return &PostgresStreakRepository{db: db}
}

// Upsert keys on (user_id, week_start); concurrent writers resolve to the
// last refresh, matching the rest of the discard-and-refetch model.
func (r *PostgresStreakRepository) Upsert(ctx context.Context, snap *domain.WeeklySnapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO user_streaks (
			id, user_id, week_start,
			total_points, unique_plants, goal_reached, created_at
		) VALUES (
			:id, :user_id, :week_start,
			:total_points, :unique_plants, :goal_reached, :created_at
		)
		ON CONFLICT (user_id, week_start) DO UPDATE
		SET total_points  = EXCLUDED.total_points,
		    unique_plants = EXCLUDED.unique_plants,
		    goal_reached  = EXCLUDED.goal_reached`

	_, err := r.db.NamedExecContext(ctx, query, snap)
	return err
}
