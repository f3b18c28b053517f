package services

import (
	"context"

	"github.com/plantpoints/plant-points/internal/core/domain"
)

type PlantService struct {
	repo domain.PlantRepository
}

func NewPlantService(repo domain.PlantRepository) *PlantService {
	return &PlantService{
		repo: repo,
	}
}

func (s *PlantService) List(ctx context.Context) ([]*domain.Plant, error) {
	return s.repo.List(ctx)
}

// GroupedByCategory shapes the catalog for the add-plant picker. Slice order
// inside each category follows the repository's category-then-name ordering.
func (s *PlantService) GroupedByCategory(ctx context.Context) (map[string][]*domain.Plant, error) {
	plants, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]*domain.Plant)
	for _, p := range plants {
		grouped[p.Category] = append(grouped[p.Category], p)
	}

	return grouped, nil
}
