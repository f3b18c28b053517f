package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/plantpoints/plant-points/internal/core/domain"
)

type PostgresMealRepository struct {
	db *sqlx.DB
}

func NewPostgresMealRepository(db *sqlx.DB) *PostgresMealRepository {
	return &PostgresMealRepository{db: db}
}

type mealPlantRow struct {
	MealID string `db:"meal_id"`
	domain.Plant
}

func mapMealWriteError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23503":
			return domain.ErrPlantNotFound
		case "23505":
			return domain.ErrMealConflict
		}
	}
	return err
}

func insertMealPlants(ctx context.Context, tx *sqlx.Tx, mealID string, plantIDs []string) error {
	if len(plantIDs) == 0 {
		return nil
	}

	now := time.Now().UTC()

	type membershipRow struct {
		ID        string    `db:"id"`
		MealID    string    `db:"meal_id"`
		PlantID   string    `db:"plant_id"`
		CreatedAt time.Time `db:"created_at"`
	}

	rows := make([]membershipRow, 0, len(plantIDs))
	for i, plantID := range plantIDs {
		rows = append(rows, membershipRow{
			ID:      uuid.NewString(),
			MealID:  mealID,
			PlantID: plantID,
			// Membership order is creation order; spread the timestamps so
			// the ordering survives a round trip.
			CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
		})
	}

	query := `
		INSERT INTO meal_plants (id, meal_id, plant_id, created_at)
		VALUES (:id, :meal_id, :plant_id, :created_at)`

	_, err := tx.NamedExecContext(ctx, query, rows)
	return err
}

func (r *PostgresMealRepository) Create(ctx context.Context, meal *domain.Meal, plantIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: begin create meal: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO meals (id, user_id, name, description, emoji, created_at, updated_at)
		VALUES (:id, :user_id, :name, :description, :emoji, :created_at, :updated_at)`

	if _, err := tx.NamedExecContext(ctx, query, meal); err != nil {
		return mapMealWriteError(err)
	}

	if err := insertMealPlants(ctx, tx, meal.ID, plantIDs); err != nil {
		return mapMealWriteError(err)
	}

	return tx.Commit()
}

func (r *PostgresMealRepository) Update(ctx context.Context, meal *domain.Meal, plantIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: begin update meal: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE meals
		SET name = :name,
		    description = :description,
		    emoji = :emoji,
		    updated_at = :updated_at
		WHERE id = :id
		  AND user_id = :user_id`

	result, err := tx.NamedExecContext(ctx, query, meal)
	if err != nil {
		return mapMealWriteError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMealNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM meal_plants WHERE meal_id = $1`, meal.ID); err != nil {
		return err
	}

	if err := insertMealPlants(ctx, tx, meal.ID, plantIDs); err != nil {
		return mapMealWriteError(err)
	}

	return tx.Commit()
}

func (r *PostgresMealRepository) Delete(ctx context.Context, id, userID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: begin delete meal: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM meal_plants WHERE meal_id = $1`, id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM meals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMealNotFound
	}

	return tx.Commit()
}

func (r *PostgresMealRepository) GetByID(ctx context.Context, id string) (*domain.Meal, error) {
	var meal domain.Meal

	err := r.db.GetContext(ctx, &meal, `SELECT * FROM meals WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMealNotFound
		}
		return nil, err
	}
	return &meal, nil
}

func (r *PostgresMealRepository) GetWithPlants(ctx context.Context, id string) (*domain.MealWithPlants, error) {
	meal, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	plants := []domain.Plant{}
	query := `
		SELECT p.id, p.name, p.category, p.base_points, p.emoji, p.created_at
		FROM meal_plants mp
		JOIN plants p ON p.id = mp.plant_id
		WHERE mp.meal_id = $1
		ORDER BY mp.created_at ASC`

	if err := r.db.SelectContext(ctx, &plants, query, id); err != nil {
		return nil, err
	}

	return &domain.MealWithPlants{
		Meal:        *meal,
		Plants:      plants,
		TotalPoints: domain.SumBasePoints(plants),
	}, nil
}

func (r *PostgresMealRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.MealWithPlants, error) {
	meals := []*domain.Meal{}

	err := r.db.SelectContext(ctx, &meals,
		`SELECT * FROM meals WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}

	if len(meals) == 0 {
		return []*domain.MealWithPlants{}, nil
	}

	mealIDs := make([]string, 0, len(meals))
	for _, m := range meals {
		mealIDs = append(mealIDs, m.ID)
	}

	query, args, err := sqlx.In(`
		SELECT mp.meal_id, p.id, p.name, p.category, p.base_points, p.emoji, p.created_at
		FROM meal_plants mp
		JOIN plants p ON p.id = mp.plant_id
		WHERE mp.meal_id IN (?)
		ORDER BY mp.created_at ASC`, mealIDs)
	if err != nil {
		return nil, err
	}

	rows := []mealPlantRow{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	plantsByMeal := make(map[string][]domain.Plant, len(meals))
	for _, row := range rows {
		plantsByMeal[row.MealID] = append(plantsByMeal[row.MealID], row.Plant)
	}

	result := make([]*domain.MealWithPlants, 0, len(meals))
	for _, m := range meals {
		plants := plantsByMeal[m.ID]
		result = append(result, &domain.MealWithPlants{
			Meal:        *m,
			Plants:      plants,
			TotalPoints: domain.SumBasePoints(plants),
		})
	}

	return result, nil
}
