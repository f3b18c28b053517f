package services

import (
	"context"

	"github.com/plantpoints/plant-points/internal/core/domain"
)

type MealService struct {
	repo domain.MealRepository
}

func NewMealService(repo domain.MealRepository) *MealService {
	return &MealService{
		repo: repo,
	}
}

type CreateMealInput struct {
	UserID      string
	Name        string
	Description string
	Emoji       string
	PlantIDs    []string
}

type UpdateMealInput struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Emoji       string
	PlantIDs    []string
}

func (s *MealService) Create(ctx context.Context, input CreateMealInput) (*domain.MealWithPlants, error) {
	meal, err := domain.NewMeal(input.UserID, input.Name, input.Description, input.Emoji)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, meal, input.PlantIDs); err != nil {
		return nil, err
	}

	return s.repo.GetWithPlants(ctx, meal.ID)
}

func (s *MealService) Update(ctx context.Context, input UpdateMealInput) (*domain.MealWithPlants, error) {
	meal, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if meal.UserID != input.UserID {
		return nil, domain.ErrMealNotFound
	}

	if err := meal.Rename(input.Name, input.Description, input.Emoji); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, meal, input.PlantIDs); err != nil {
		return nil, err
	}

	return s.repo.GetWithPlants(ctx, meal.ID)
}

func (s *MealService) Delete(ctx context.Context, id, userID string) error {
	meal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if meal.UserID != userID {
		return domain.ErrMealNotFound
	}

	return s.repo.Delete(ctx, id, userID)
}

func (s *MealService) ListByUserID(ctx context.Context, userID string) ([]*domain.MealWithPlants, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	return s.repo.ListByUserID(ctx, userID)
}
