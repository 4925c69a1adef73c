// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/macrolog/v1/internal/domain/nutrition"
	"github.com/macrolog/v1/internal/ports/outbound"
)

// Fixed key of the single active row in the goals and profile tables
const activeRecordID uint = 1

// GoalsRepository implements the goals repository interface using GORM
type GoalsRepository struct {
	db *gorm.DB
}

// NewGoalsRepository creates a new goals repository
func NewGoalsRepository(db *gorm.DB) outbound.GoalsRepository {
	return &GoalsRepository{db: db}
}

// Get returns the active goal set, or ErrNoActiveRecord when none was saved
func (r *GoalsRepository) Get(ctx context.Context) (nutrition.NutritionGoals, error) {
	var model GoalsModel

	result := r.db.WithContext(ctx).First(&model, activeRecordID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nutrition.NutritionGoals{}, outbound.ErrNoActiveRecord
		}
		return nutrition.NutritionGoals{}, result.Error
	}

	return ModelToGoals(&model), nil
}

// Save replaces the active goal set
func (r *GoalsRepository) Save(ctx context.Context, goals nutrition.NutritionGoals) error {
	model := GoalsToModel(goals)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model)

	return result.Error
}

// ProfileRepository implements the profile repository interface using GORM
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) outbound.ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get returns the active profile, or ErrNoActiveRecord when none was saved
func (r *ProfileRepository) Get(ctx context.Context) (nutrition.UserProfile, error) {
	var model ProfileModel

	result := r.db.WithContext(ctx).First(&model, activeRecordID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nutrition.UserProfile{}, outbound.ErrNoActiveRecord
		}
		return nutrition.UserProfile{}, result.Error
	}

	return ModelToProfile(&model), nil
}

// Save replaces the active profile
func (r *ProfileRepository) Save(ctx context.Context, profile nutrition.UserProfile) error {
	model := ProfileToModel(profile)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model)

	return result.Error
}
