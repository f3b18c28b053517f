package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMealNotFound    = errors.New("meal not found")
	ErrMealNameEmpty   = errors.New("meal name cannot be empty")
	ErrMealNameTooLong = errors.New("meal name is too long (max 100 chars)")
	ErrMealDescTooLong = errors.New("meal description is too long (max 500 chars)")
	ErrMealConflict    = errors.New("meal already exists")
)

const (
	MaxMealNameLen = 100
	MaxMealDescLen = 500
)

// Meal is a user-defined bundle of plant references for batch logging.
// Deleting a meal never touches any logged event.
type Meal struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Emoji       string    `json:"emoji" db:"emoji"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func validateMealFields(name, description string) error {
	if strings.TrimSpace(name) == "" {
		return ErrMealNameEmpty
	}
	if len(strings.TrimSpace(name)) > MaxMealNameLen {
		return ErrMealNameTooLong
	}
	if len(strings.TrimSpace(description)) > MaxMealDescLen {
		return ErrMealDescTooLong
	}
	return nil
}

func NewMeal(userID, name, description, emoji string) (*Meal, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if err := validateMealFields(name, description); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Meal{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Emoji:       emoji,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (m *Meal) Rename(name, description, emoji string) error {
	if err := validateMealFields(name, description); err != nil {
		return err
	}

	m.Name = strings.TrimSpace(name)
	m.Description = strings.TrimSpace(description)
	m.Emoji = emoji
	m.UpdatedAt = time.Now().UTC()

	return nil
}

// MealWithPlants couples a meal with its plant set, ordered by when each
// plant was added. TotalPoints sums catalog base points, not the user's
// logged history.
type MealWithPlants struct {
	Meal
	Plants      []Plant `json:"plants"`
	TotalPoints int     `json:"total_points"`
}

// SumBasePoints derives a meal's point value from its plant set.
func SumBasePoints(plants []Plant) int {
	total := 0
	for _, p := range plants {
		total += p.BasePoints
	}
	return total
}

type MealRepository interface {
	// Create persists the meal and its membership rows in one transaction.
	Create(ctx context.Context, meal *Meal, plantIDs []string) error

	// Update rewrites the meal fields and replaces the membership set
	// wholesale.
	Update(ctx context.Context, meal *Meal, plantIDs []string) error

	// Delete removes the meal and its membership rows. Logged events are
	// untouched.
	Delete(ctx context.Context, id, userID string) error

	GetByID(ctx context.Context, id string) (*Meal, error)

	// GetWithPlants loads one meal joined with its plant set.
	GetWithPlants(ctx context.Context, id string) (*MealWithPlants, error)

	// ListByUserID returns the user's meals newest-first, each with its
	// plant set and derived total points.
	ListByUserID(ctx context.Context, userID string) ([]*MealWithPlants, error)
}
