package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/plantpoints/plant-points/internal/core/domain"
	"github.com/plantpoints/plant-points/internal/core/services"
	"github.com/plantpoints/plant-points/internal/core/workers"
)

type MockPlantLogRepo struct {
	mock.Mock
}

func (m *MockPlantLogRepo) Insert(ctx context.Context, log *domain.PlantLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockPlantLogRepo) InsertBatch(ctx context.Context, logs []*domain.PlantLog) error {
	args := m.Called(ctx, logs)
	return args.Error(0)
}

func (m *MockPlantLogRepo) ListSince(ctx context.Context, userID string, since time.Time) ([]domain.LoggedPlant, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoggedPlant), args.Error(1)
}

func (m *MockPlantLogRepo) DeleteByPlantSince(ctx context.Context, userID, plantID string, since time.Time) (int64, error) {
	args := m.Called(ctx, userID, plantID, since)
	return args.Get(0).(int64), args.Error(1)
}

type MockPlantRepo struct {
	mock.Mock
}

func (m *MockPlantRepo) List(ctx context.Context) ([]*domain.Plant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Plant), args.Error(1)
}

func (m *MockPlantRepo) GetByID(ctx context.Context, id string) (*domain.Plant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plant), args.Error(1)
}

type MockMealRepo struct {
	mock.Mock
}

func (m *MockMealRepo) Create(ctx context.Context, meal *domain.Meal, plantIDs []string) error {
	args := m.Called(ctx, meal, plantIDs)
	return args.Error(0)
}

func (m *MockMealRepo) Update(ctx context.Context, meal *domain.Meal, plantIDs []string) error {
	args := m.Called(ctx, meal, plantIDs)
	return args.Error(0)
}

func (m *MockMealRepo) Delete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockMealRepo) GetByID(ctx context.Context, id string) (*domain.Meal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Meal), args.Error(1)
}

func (m *MockMealRepo) GetWithPlants(ctx context.Context, id string) (*domain.MealWithPlants, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MealWithPlants), args.Error(1)
}

func (m *MockMealRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.MealWithPlants, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MealWithPlants), args.Error(1)
}

func getTestWorker() *workers.SnapshotWorker {
	return workers.NewSnapshotWorker(nil, nil, 0)
}

func isWeekStart(ts time.Time) bool {
	h, m, s := ts.Clock()
	return ts.Weekday() == time.Monday && h+m+s == 0 && ts.Nanosecond() == 0
}

func newProgressService(logs *MockPlantLogRepo, plants *MockPlantRepo, meals *MockMealRepo) *services.ProgressService {
	return services.NewProgressService(logs, plants, meals, getTestWorker())
}

func TestProgressService_Get(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"

	t.Run("Success: fetches from week start and aggregates", func(t *testing.T) {
		logs := new(MockPlantLogRepo)

		now := time.Now()
		logs.On("ListSince", ctx, uid, mock.MatchedBy(isWeekStart)).Return([]domain.LoggedPlant{
			{PlantID: "a", Points: 5, LoggedAt: now.Add(-time.Hour)},
			{PlantID: "b", Points: 3, LoggedAt: now},
			{PlantID: "a", Points: 5, LoggedAt: now},
		}, nil)

		svc := newProgressService(logs, new(MockPlantRepo), new(MockMealRepo))

		progress, err := svc.Get(ctx, uid)
		require.NoError(t, err)

		assert.Equal(t, 8, progress.TotalPoints)
		assert.Equal(t, 2, progress.UniquePlants)
		logs.AssertExpectations(t)
	})

	t.Run("Auth: empty user id never reaches the store", func(t *testing.T) {
		logs := new(MockPlantLogRepo)
		svc := newProgressService(logs, new(MockPlantRepo), new(MockMealRepo))

		_, err := svc.Get(ctx, "")

		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
		logs.AssertNotCalled(t, "ListSince")
	})

	t.Run("Persistence failure propagates", func(t *testing.T) {
		logs := new(MockPlantLogRepo)
		logs.On("ListSince", ctx, uid, mock.Anything).Return(nil, errors.New("connection refused"))

		svc := newProgressService(logs, new(MockPlantRepo), new(MockMealRepo))

		_, err := svc.Get(ctx, uid)
		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestProgressService_Log(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"
	pid := "plant-abc"

	t.Run("Success: explicit points are written as-is", func(t *testing.T) {
		logs := new(MockPlantLogRepo)
		plants := new(MockPlantRepo)

		logs.On("Insert", ctx, mock.MatchedBy(func(l *domain.PlantLog) bool {
			return l.UserID == uid && l.PlantID == pid && l.PointsEarned == 7
		})).Return(nil)

		svc := newProgressService(logs, plants, new(MockMealRepo))

		err := svc.Log(ctx, uid, pid, 7)
		require.NoError(t, err)

		plants.AssertNotCalled(t, "GetByID")
		logs.AssertExpectations(t)
	})

	t.Run("Success: missing points resolve to catalog base points", func(t *testing.T) {
		logs := new(MockPlantLogRepo)
		plants := new(MockPlantRepo)

		plants.On("GetByID", ctx, pid).Return(&domain.Plant{ID: pid, Name: "Kale", BasePoints: 4}, nil)
		logs.On("Insert", ctx, mock.MatchedBy(func(l *domain.PlantLog) bool {
			return l.PointsEarned == 4
		})).Return(nil)

		svc := newProgressService(logs, plants, new(MockMealRepo))

		err := svc.Log(ctx, uid, pid, 0)
		require.NoError(t, err)

		plants.AssertExpectations(t)
		logs.AssertExpectations(t)
	})

	t.Run("Unknown plant id fails before any write", func(t *testing.T) {
		logs := new(MockPlantLogRepo)
		plants := new(MockPlantRepo)

		plants.On("GetByID", ctx, "nope").Return(nil, domain.ErrPlantNotFound)

		svc := newProgressService(logs, plants, new(MockMealRepo))

		err := svc.Log(ctx, uid, "nope", 0)
		assert.ErrorIs(t, err, domain.ErrPlantNotFound)
		logs.AssertNotCalled(t, "Insert")
	})

	t.Run("Auth: empty user id", func(t *testing.T) {
		svc := newProgressService(new(MockPlantLogRepo), new(MockPlantRepo), new(MockMealRepo))

		err := svc.Log(ctx, "", pid, 5)
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})
}

func TestProgressService_LogMeal(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"
	mid := "meal-1"

	mealOf := func(owner string, plants ...domain.Plant) *domain.MealWithPlants {
		m := &domain.MealWithPlants{Plants: plants, TotalPoints: domain.SumBasePoints(plants)}
		m.ID = mid
		m.UserID = owner
		m.Name = "Buddha Bowl"
		return m
	}

	t.Run("Success: one event per meal plant at base points", func(t *testing.T) {
		logs := new(MockPlantLogRepo)
		meals := new(MockMealRepo)

		meals.On("GetWithPlants", ctx, mid).Return(mealOf(uid,
			domain.Plant{ID: "a", BasePoints: 5},
			domain.Plant{ID: "b", BasePoints: 3},
		), nil)

		logs.On("InsertBatch", ctx, mock.MatchedBy(func(batch []*domain.PlantLog) bool {
			return len(batch) == 2 && batch[0].PlantID == "a" && batch[0].PointsEarned == 5 &&
				batch[1].PlantID == "b" && batch[1].PointsEarned == 3
		})).Return(nil)

		svc := newProgressService(logs, new(MockPlantRepo), meals)

		count, err := svc.LogMeal(ctx, uid, mid)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		logs.AssertExpectations(t)
	})

	t.Run("Security: someone else's meal reads as not found", func(t *testing.T) {
		logs := new(MockPlantLogRepo)
		meals := new(MockMealRepo)

		meals.On("GetWithPlants", ctx, mid).Return(mealOf("other-user"), nil)

		svc := newProgressService(logs, new(MockPlantRepo), meals)

		_, err := svc.LogMeal(ctx, uid, mid)
		assert.ErrorIs(t, err, domain.ErrMealNotFound)
		logs.AssertNotCalled(t, "InsertBatch")
	})

	t.Run("Empty meal logs nothing", func(t *testing.T) {
		logs := new(MockPlantLogRepo)
		meals := new(MockMealRepo)

		meals.On("GetWithPlants", ctx, mid).Return(mealOf(uid), nil)

		svc := newProgressService(logs, new(MockPlantRepo), meals)

		count, err := svc.LogMeal(ctx, uid, mid)
		require.NoError(t, err)
		assert.Zero(t, count)
		logs.AssertNotCalled(t, "InsertBatch")
	})
}

func TestProgressService_Remove(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"

	t.Run("Success: bulk delete bounded by week start", func(t *testing.T) {
		logs := new(MockPlantLogRepo)

		logs.On("DeleteByPlantSince", ctx, uid, "plant-a", mock.MatchedBy(isWeekStart)).
			Return(int64(2), nil)

		svc := newProgressService(logs, new(MockPlantRepo), new(MockMealRepo))

		err := svc.Remove(ctx, uid, "plant-a")
		require.NoError(t, err)
		logs.AssertExpectations(t)
	})

	t.Run("Zero matching rows is not an error", func(t *testing.T) {
		logs := new(MockPlantLogRepo)

		logs.On("DeleteByPlantSince", ctx, uid, "unknown", mock.Anything).
			Return(int64(0), nil)

		svc := newProgressService(logs, new(MockPlantRepo), new(MockMealRepo))

		assert.NoError(t, svc.Remove(ctx, uid, "unknown"))
	})

	t.Run("Persistence failure propagates and keeps the old view readable", func(t *testing.T) {
		logs := new(MockPlantLogRepo)

		logs.On("DeleteByPlantSince", ctx, uid, "plant-a", mock.Anything).
			Return(int64(0), errors.New("write rejected"))

		svc := newProgressService(logs, new(MockPlantRepo), new(MockMealRepo))

		err := svc.Remove(ctx, uid, "plant-a")
		assert.ErrorContains(t, err, "write rejected")
	})
}
