package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/plantpoints/plant-points/internal/core/domain"
)

type PostgresPlantRepository struct {
	db *sqlx.DB
}

func NewPostgresPlantRepository(db *sqlx.DB) *PostgresPlantRepository {
	return &PostgresPlantRepository{db: db}
}

func (r *PostgresPlantRepository) List(ctx context.Context) ([]*domain.Plant, error) {
	plants := []*domain.Plant{}

	query := `
		SELECT id, name, category, base_points, emoji, created_at
		FROM plants
		ORDER BY category ASC, name ASC`

	if err := r.db.SelectContext(ctx, &plants, query); err != nil {
		return nil, err
	}
	return plants, nil
}

func (r *PostgresPlantRepository) GetByID(ctx context.Context, id string) (*domain.Plant, error) {
	var plant domain.Plant

	query := `
		SELECT id, name, category, base_points, emoji, created_at
		FROM plants
		WHERE id = $1`

	err := r.db.GetContext(ctx, &plant, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPlantNotFound
		}
		return nil, err
	}
	return &plant, nil
}
