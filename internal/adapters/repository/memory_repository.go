package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plantpoints/plant-points/internal/core/domain"
)

// In-memory repositories back the handler tests and local experiments. They
// honor the same ordering contracts as the Postgres implementations.

type InMemoryPlantRepository struct {
	mu     sync.RWMutex
	plants map[string]*domain.Plant
}

func NewInMemoryPlantRepository() *InMemoryPlantRepository {
	return &InMemoryPlantRepository{
		plants: make(map[string]*domain.Plant),
	}
}

func (r *InMemoryPlantRepository) Seed(plants ...*domain.Plant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range plants {
		r.plants[p.ID] = p
	}
}

func (r *InMemoryPlantRepository) List(ctx context.Context) ([]*domain.Plant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*domain.Plant, 0, len(r.plants))
	for _, p := range r.plants {
		copied := *p
		list = append(list, &copied)
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].Category != list[j].Category {
			return list[i].Category < list[j].Category
		}
		return list[i].Name < list[j].Name
	})

	return list, nil
}

func (r *InMemoryPlantRepository) GetByID(ctx context.Context, id string) (*domain.Plant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plants[id]
	if !ok {
		return nil, domain.ErrPlantNotFound
	}
	copied := *p
	return &copied, nil
}

type InMemoryPlantLogRepository struct {
	mu     sync.RWMutex
	logs   []*domain.PlantLog
	plants *InMemoryPlantRepository
}

func NewInMemoryPlantLogRepository(plants *InMemoryPlantRepository) *InMemoryPlantLogRepository {
	return &InMemoryPlantLogRepository{plants: plants}
}

func (r *InMemoryPlantLogRepository) Insert(ctx context.Context, log *domain.PlantLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	copied := *log
	r.logs = append(r.logs, &copied)
	return nil
}

func (r *InMemoryPlantLogRepository) InsertBatch(ctx context.Context, logs []*domain.PlantLog) error {
	for _, log := range logs {
		if err := r.Insert(ctx, log); err != nil {
			return err
		}
	}
	return nil
}

func (r *InMemoryPlantLogRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]domain.LoggedPlant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := []domain.LoggedPlant{}
	for _, l := range r.logs {
		if l.UserID != userID || l.LoggedAt.Before(since) {
			continue
		}

		name, emoji := l.PlantID, ""
		if r.plants != nil {
			if p, err := r.plants.GetByID(ctx, l.PlantID); err == nil {
				name, emoji = p.Name, p.Emoji
			}
		}

		events = append(events, domain.LoggedPlant{
			PlantID:   l.PlantID,
			PlantName: name,
			Emoji:     emoji,
			Points:    l.PointsEarned,
			LoggedAt:  l.LoggedAt,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].LoggedAt.Before(events[j].LoggedAt)
	})

	return events, nil
}

func (r *InMemoryPlantLogRepository) DeleteByPlantSince(ctx context.Context, userID, plantID string, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.logs[:0]
	var removed int64
	for _, l := range r.logs {
		if l.UserID == userID && l.PlantID == plantID && !l.LoggedAt.Before(since) {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	r.logs = kept

	return removed, nil
}

type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Seed(users ...*domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range users {
		r.users[u.ID] = u
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}

	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

type InMemoryMealRepository struct {
	mu       sync.RWMutex
	meals    map[string]*domain.Meal
	plantIDs map[string][]string
	plants   *InMemoryPlantRepository
}

func NewInMemoryMealRepository(plants *InMemoryPlantRepository) *InMemoryMealRepository {
	return &InMemoryMealRepository{
		meals:    make(map[string]*domain.Meal),
		plantIDs: make(map[string][]string),
		plants:   plants,
	}
}

func (r *InMemoryMealRepository) Create(ctx context.Context, meal *domain.Meal, plantIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *meal
	r.meals[meal.ID] = &copied
	r.plantIDs[meal.ID] = append([]string(nil), plantIDs...)
	return nil
}

func (r *InMemoryMealRepository) Update(ctx context.Context, meal *domain.Meal, plantIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.meals[meal.ID]; !ok {
		return domain.ErrMealNotFound
	}

	copied := *meal
	r.meals[meal.ID] = &copied
	r.plantIDs[meal.ID] = append([]string(nil), plantIDs...)
	return nil
}

func (r *InMemoryMealRepository) Delete(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	meal, ok := r.meals[id]
	if !ok || meal.UserID != userID {
		return domain.ErrMealNotFound
	}

	delete(r.meals, id)
	delete(r.plantIDs, id)
	return nil
}

func (r *InMemoryMealRepository) GetByID(ctx context.Context, id string) (*domain.Meal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meal, ok := r.meals[id]
	if !ok {
		return nil, domain.ErrMealNotFound
	}
	copied := *meal
	return &copied, nil
}

func (r *InMemoryMealRepository) GetWithPlants(ctx context.Context, id string) (*domain.MealWithPlants, error) {
	meal, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	ids := append([]string(nil), r.plantIDs[id]...)
	r.mu.RUnlock()

	plants := make([]domain.Plant, 0, len(ids))
	for _, plantID := range ids {
		if r.plants == nil {
			continue
		}
		if p, err := r.plants.GetByID(ctx, plantID); err == nil {
			plants = append(plants, *p)
		}
	}

	return &domain.MealWithPlants{
		Meal:        *meal,
		Plants:      plants,
		TotalPoints: domain.SumBasePoints(plants),
	}, nil
}

func (r *InMemoryMealRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.MealWithPlants, error) {
	r.mu.RLock()
	ids := []string{}
	for id, m := range r.meals {
		if m.UserID == userID {
			ids = append(ids, id)
		}
	}
	r.mu.RUnlock()

	result := make([]*domain.MealWithPlants, 0, len(ids))
	for _, id := range ids {
		mwp, err := r.GetWithPlants(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, mwp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}
