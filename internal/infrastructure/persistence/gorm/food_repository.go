// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/macrolog/v1/internal/domain/nutrition"
	"github.com/macrolog/v1/internal/ports/outbound"
)

// FoodEntryRepository implements the food entry repository interface using GORM
type FoodEntryRepository struct {
	db *gorm.DB
}

// NewFoodEntryRepository creates a new food entry repository
func NewFoodEntryRepository(db *gorm.DB) outbound.FoodEntryRepository {
	return &FoodEntryRepository{db: db}
}

// Create creates a new food entry
func (r *FoodEntryRepository) Create(ctx context.Context, entry *nutrition.FoodEntry) error {
	model := EntryToModel(entry)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

// Update updates an existing food entry
func (r *FoodEntryRepository) Update(ctx context.Context, entry *nutrition.FoodEntry) error {
	model := EntryToModel(entry)

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return nutrition.ErrEntryNotFound
	}

	return nil
}

// Delete deletes a food entry by ID (soft delete)
func (r *FoodEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&FoodEntryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return nutrition.ErrEntryNotFound
	}

	return nil
}

// FindByID finds a food entry by ID. A missing entry yields (nil, nil).
func (r *FoodEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*nutrition.FoodEntry, error) {
	var model FoodEntryModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return ModelToEntry(&model), nil
}

// FindByDay returns the entries logged within the local calendar day
// containing the given date, ordered by log time
func (r *FoodEntryRepository) FindByDay(ctx context.Context, date time.Time) ([]*nutrition.FoodEntry, error) {
	start, end := nutrition.DayBounds(date)

	var models []FoodEntryModel
	result := r.db.WithContext(ctx).
		Where("logged_at >= ? AND logged_at < ?", start, end).
		Order("logged_at ASC").
		Find(&models)

	if result.Error != nil {
		return nil, result.Error
	}

	return modelsToEntries(models), nil
}

// SearchByName matches names case-insensitively by substring. Each name
// appears once, represented by its most recent row, bounded by limit.
func (r *FoodEntryRepository) SearchByName(ctx context.Context, query string, limit int) ([]*nutrition.FoodEntry, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var models []FoodEntryModel
	result := r.db.WithContext(ctx).Raw(`
		SELECT e.* FROM food_entries e
		JOIN (
			SELECT name, MAX(logged_at) AS latest
			FROM food_entries
			WHERE LOWER(name) LIKE ? AND deleted_at IS NULL
			GROUP BY name
		) recent ON e.name = recent.name AND e.logged_at = recent.latest
		WHERE e.deleted_at IS NULL
		ORDER BY recent.latest DESC
		LIMIT ?`, pattern, limit).
		Scan(&models)

	if result.Error != nil {
		return nil, result.Error
	}

	return modelsToEntries(models), nil
}

// TopFrequent returns the most frequently logged foods, one row per name
// (the most recent), ordered by how often that name was logged
func (r *FoodEntryRepository) TopFrequent(ctx context.Context, limit int) ([]*nutrition.FoodEntry, error) {
	var models []FoodEntryModel
	result := r.db.WithContext(ctx).Raw(`
		SELECT e.* FROM food_entries e
		JOIN (
			SELECT name, COUNT(*) AS freq, MAX(logged_at) AS latest
			FROM food_entries
			WHERE deleted_at IS NULL
			GROUP BY name
		) frequent ON e.name = frequent.name AND e.logged_at = frequent.latest
		WHERE e.deleted_at IS NULL
		ORDER BY frequent.freq DESC, frequent.latest DESC
		LIMIT ?`, limit).
		Scan(&models)

	if result.Error != nil {
		return nil, result.Error
	}

	return modelsToEntries(models), nil
}

func modelsToEntries(models []FoodEntryModel) []*nutrition.FoodEntry {
	entries := make([]*nutrition.FoodEntry, len(models))
	for i := range models {
		entries[i] = ModelToEntry(&models[i])
	}
	return entries
}
