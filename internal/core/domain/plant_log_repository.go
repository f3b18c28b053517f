package domain

import (
	"context"
	"time"
)

type PlantLogRepository interface {
	// Insert persists a single log event.
	Insert(ctx context.Context, log *PlantLog) error

	// InsertBatch persists several log events at once (meal logging).
	InsertBatch(ctx context.Context, logs []*PlantLog) error

	// ListSince returns the user's events with logged_at >= since, joined
	// with the catalog name/emoji. Rows are ordered by logged_at ascending
	// (ties by id) so that first-seen deduplication is deterministic: the
	// earliest event of the week wins for a re-logged plant.
	ListSince(ctx context.Context, userID string, since time.Time) ([]LoggedPlant, error)

	// DeleteByPlantSince removes every event for (user, plant) with
	// logged_at >= since and reports how many rows matched. An unknown
	// plant id matches zero rows; that is not an error.
	DeleteByPlantSince(ctx context.Context, userID, plantID string, since time.Time) (int64, error)
}
