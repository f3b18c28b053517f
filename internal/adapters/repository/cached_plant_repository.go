package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/plantpoints/plant-points/internal/core/domain"
)

var _ domain.PlantRepository = (*CachedPlantRepository)(nil)

const (
	catalogCacheKey = "plants:catalog"
	catalogCacheTTL = 30 * time.Minute
)

// CachedPlantRepository fronts the read-only plant catalog with Redis. The
// catalog is administered outside this service, so staleness is bounded by
// the TTL alone; there is no write path to invalidate on.
type CachedPlantRepository struct {
	next  domain.PlantRepository
	cache *redis.Client
}

func NewCachedPlantRepository(next domain.PlantRepository, cache *redis.Client) *CachedPlantRepository {
	return &CachedPlantRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedPlantRepository) List(ctx context.Context) ([]*domain.Plant, error) {
	val, err := r.cache.Get(ctx, catalogCacheKey).Result()
	if err == nil {
		var plants []*domain.Plant
		if err := json.Unmarshal([]byte(val), &plants); err == nil {
			return plants, nil
		}

		log.Println("[CACHE] Corrupted catalog payload, cleaning up key")
		r.cache.Del(ctx, catalogCacheKey)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	plants, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(plants); err == nil {
		if setErr := r.cache.Set(ctx, catalogCacheKey, data, catalogCacheTTL).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return plants, nil
}

func (r *CachedPlantRepository) GetByID(ctx context.Context, id string) (*domain.Plant, error) {
	return r.next.GetByID(ctx, id)
}
