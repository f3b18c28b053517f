package services

import (
	"context"
	"time"

	"github.com/plantpoints/plant-points/internal/core/domain"
	"github.com/plantpoints/plant-points/internal/core/workers"
)

// ProgressService owns the weekly view: it never mutates an aggregate in
// place. Every write goes straight to the store and readers rebuild the
// aggregate from a fresh fetch, so a failed write leaves the previously
// served view intact.
type ProgressService struct {
	logs   domain.PlantLogRepository
	plants domain.PlantRepository
	meals  domain.MealRepository
	worker *workers.SnapshotWorker
}

func NewProgressService(logs domain.PlantLogRepository, plants domain.PlantRepository, meals domain.MealRepository, worker *workers.SnapshotWorker) *ProgressService {
	return &ProgressService{
		logs:   logs,
		plants: plants,
		meals:  meals,
		worker: worker,
	}
}

// Get fetches this week's events and rebuilds the aggregate.
func (s *ProgressService) Get(ctx context.Context, userID string) (domain.WeeklyProgress, error) {
	if userID == "" {
		return domain.WeeklyProgress{}, domain.ErrNotAuthenticated
	}

	window := domain.WeekWindowAt(time.Now())

	events, err := s.logs.ListSince(ctx, userID, window.WeekStart)
	if err != nil {
		return domain.WeeklyProgress{}, err
	}

	return domain.AggregateWeek(events, window.TodayStart), nil
}

// Daily returns the Monday-first chart buckets over the deduplicated week.
func (s *ProgressService) Daily(ctx context.Context, userID string) ([]domain.DayPoints, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	window := domain.WeekWindowAt(time.Now())

	events, err := s.logs.ListSince(ctx, userID, window.WeekStart)
	if err != nil {
		return nil, err
	}

	progress := domain.AggregateWeek(events, window.TodayStart)

	return domain.DailyBreakdown(progress.LoggedPlants, window), nil
}

// Log records one plant eaten now. When points is zero or negative the
// plant's current base points are resolved from the catalog. Duplicates
// within the week are written as-is; the aggregator absorbs them at read
// time.
func (s *ProgressService) Log(ctx context.Context, userID, plantID string, points int) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}

	if points <= 0 {
		plant, err := s.plants.GetByID(ctx, plantID)
		if err != nil {
			return err
		}
		points = plant.BasePoints
	}

	entry := domain.NewPlantLog(userID, plantID, points, time.Now())
	if err := entry.Validate(); err != nil {
		return err
	}

	if err := s.logs.Insert(ctx, entry); err != nil {
		return err
	}

	s.worker.Enqueue(userID)

	return nil
}

// LogMeal batch-logs every plant of one of the user's meals at its current
// base points. Returns how many plants were logged.
func (s *ProgressService) LogMeal(ctx context.Context, userID, mealID string) (int, error) {
	if userID == "" {
		return 0, domain.ErrNotAuthenticated
	}

	meal, err := s.meals.GetWithPlants(ctx, mealID)
	if err != nil {
		return 0, err
	}
	if meal.UserID != userID {
		return 0, domain.ErrMealNotFound
	}

	if len(meal.Plants) == 0 {
		return 0, nil
	}

	now := time.Now()
	batch := make([]*domain.PlantLog, 0, len(meal.Plants))
	for _, p := range meal.Plants {
		entry := domain.NewPlantLog(userID, p.ID, p.BasePoints, now)
		if err := entry.Validate(); err != nil {
			return 0, err
		}
		batch = append(batch, entry)
	}

	if err := s.logs.InsertBatch(ctx, batch); err != nil {
		return 0, err
	}

	s.worker.Enqueue(userID)

	return len(batch), nil
}

// Remove drops every one of this week's events for the plant, not just the
// latest. Unknown plant ids match zero rows and succeed.
func (s *ProgressService) Remove(ctx context.Context, userID, plantID string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}

	window := domain.WeekWindowAt(time.Now())

	if _, err := s.logs.DeleteByPlantSince(ctx, userID, plantID, window.WeekStart); err != nil {
		return err
	}

	s.worker.Enqueue(userID)

	return nil
}
