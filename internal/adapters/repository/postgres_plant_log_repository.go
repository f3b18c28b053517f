package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/plantpoints/plant-points/internal/core/domain"
)

type PostgresPlantLogRepository struct {
	db *sqlx.DB
}

func NewPostgresPlantLogRepository(db *sqlx.DB) *PostgresPlantLogRepository {
	return &PostgresPlantLogRepository{db: db}
}

func prepareLog(log *domain.PlantLog) {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
}

func mapLogWriteError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		return domain.ErrPlantNotFound
	}
	return err
}

func (r *PostgresPlantLogRepository) Insert(ctx context.Context, log *domain.PlantLog) error {
	prepareLog(log)

	query := `
		INSERT INTO user_plants (
			id, user_id, plant_id,
			points_earned, logged_at, created_at
		) VALUES (
			:id, :user_id, :plant_id,
			:points_earned, :logged_at, :created_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return mapLogWriteError(err)
	}
	return nil
}

func (r *PostgresPlantLogRepository) InsertBatch(ctx context.Context, logs []*domain.PlantLog) error {
	if len(logs) == 0 {
		return nil
	}

	for _, log := range logs {
		prepareLog(log)
	}

	query := `
		INSERT INTO user_plants (
			id, user_id, plant_id,
			points_earned, logged_at, created_at
		) VALUES (
			:id, :user_id, :plant_id,
			:points_earned, :logged_at, :created_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, logs); err != nil {
		return mapLogWriteError(err)
	}
	return nil
}

// ListSince orders ascending so the aggregator's first-seen dedup always
// retains the earliest event of the window.
func (r *PostgresPlantLogRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]domain.LoggedPlant, error) {
	events := []domain.LoggedPlant{}

	query := `
		SELECT up.plant_id,
		       p.name  AS plant_name,
		       p.emoji AS emoji,
		       up.points_earned AS points,
		       up.logged_at
		FROM user_plants up
		JOIN plants p ON p.id = up.plant_id
		WHERE up.user_id = $1
		  AND up.logged_at >= $2
		ORDER BY up.logged_at ASC, up.id ASC`

	if err := r.db.SelectContext(ctx, &events, query, userID, since); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *PostgresPlantLogRepository) DeleteByPlantSince(ctx context.Context, userID, plantID string, since time.Time) (int64, error) {
	query := `
		DELETE FROM user_plants
		WHERE user_id = $1
		  AND plant_id = $2
		  AND logged_at >= $3`

	result, err := r.db.ExecContext(ctx, query, userID, plantID, since)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
