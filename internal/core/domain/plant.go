package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPlantNotFound = errors.New("plant not found")
)

// Plant is one row of the shared catalog. The catalog is maintained outside
// this service and read-only here, so there is no constructor and no update
// path.
type Plant struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Category   string    `json:"category" db:"category"`
	BasePoints int       `json:"base_points" db:"base_points"`
	Emoji      string    `json:"emoji" db:"emoji"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type PlantRepository interface {
	// List returns the whole catalog ordered by category, then name.
	List(ctx context.Context) ([]*Plant, error)

	// GetByID retrieves a single catalog plant.
	GetByID(ctx context.Context, id string) (*Plant, error)
}
