// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/macrolog/v1/internal/domain/nutrition"
)

// ErrNoActiveRecord is returned by the single-record repositories when
// nothing has been saved yet; callers substitute the domain defaults.
var ErrNoActiveRecord = errors.New("no active record")

// FoodEntryRepository defines the interface for food entry persistence
// This follows the Repository pattern for data access abstraction
type FoodEntryRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, entry *nutrition.FoodEntry) error
	Update(ctx context.Context, entry *nutrition.FoodEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*nutrition.FoodEntry, error)

	// Query operations
	// FindByDay returns the entries logged within the local calendar day
	// containing the given date, ordered by log time.
	FindByDay(ctx context.Context, date time.Time) ([]*nutrition.FoodEntry, error)

	// SearchByName matches names case-insensitively by substring,
	// deduplicated by name keeping the most recent row, bounded by limit.
	SearchByName(ctx context.Context, query string, limit int) ([]*nutrition.FoodEntry, error)

	// TopFrequent returns the most frequently logged foods, one row per
	// name (the most recent), ordered by how often that name was logged.
	TopFrequent(ctx context.Context, limit int) ([]*nutrition.FoodEntry, error)
}

// GoalsRepository defines the interface for the single active goal set.
// Save replaces the active record; Get returns ErrNoActiveRecord when
// nothing has been saved yet.
type GoalsRepository interface {
	Get(ctx context.Context) (nutrition.NutritionGoals, error)
	Save(ctx context.Context, goals nutrition.NutritionGoals) error
}

// ProfileRepository defines the interface for the single active user profile.
type ProfileRepository interface {
	Get(ctx context.Context) (nutrition.UserProfile, error)
	Save(ctx context.Context, profile nutrition.UserProfile) error
}

// MacroEstimate is the structured result the external analysis service
// produces for a photo or a text query.
type MacroEstimate struct {
	Name        string
	Calories    float64
	Protein     float64
	Fat         float64
	Carbs       float64
	WeightGrams *float64
	Sources     []nutrition.SourceEstimate
}

// Macros collects the estimate's macro values into the domain value object.
func (e MacroEstimate) Macros() nutrition.Macros {
	return nutrition.Macros{
		Calories: e.Calories,
		Protein:  e.Protein,
		Fat:      e.Fat,
		Carbs:    e.Carbs,
	}
}

// MacroEstimator defines the interface for the external image/text analysis
// service. Failures are surfaced to the caller; no values are invented.
type MacroEstimator interface {
	EstimateFromImage(ctx context.Context, imageJPEG []byte) (*MacroEstimate, error)
	EstimateFromText(ctx context.Context, query string) (*MacroEstimate, error)
}
