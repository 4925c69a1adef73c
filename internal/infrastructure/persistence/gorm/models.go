// Package gorm provides GORM model definitions for the application
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FoodEntryModel represents the GORM model for logged foods. Macro columns
// hold per-portion values; portion_count scales them to what was eaten.
type FoodEntryModel struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name       string    `gorm:"type:varchar(255);not null;index"`
	ShortLabel string    `gorm:"type:varchar(50);not null"`

	Calories float64 `gorm:"not null;default:0"`
	Protein  float64 `gorm:"not null;default:0"`
	Fat      float64 `gorm:"not null;default:0"`
	Carbs    float64 `gorm:"not null;default:0"`

	PortionCount float64  `gorm:"not null;default:1"`
	WeightGrams  *float64

	SourceEstimates SourceEstimateSlice `gorm:"type:json"`

	LoggedAt  time.Time `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName overrides the default table name
func (FoodEntryModel) TableName() string {
	return "food_entries"
}

// GoalsModel represents the GORM model for the daily macro targets.
// A single row with a fixed key holds the active goal set.
type GoalsModel struct {
	ID            uint    `gorm:"primaryKey"`
	DailyCalories float64 `gorm:"not null"`
	DailyProtein  float64 `gorm:"not null"`
	DailyFat      float64 `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName overrides the default table name
func (GoalsModel) TableName() string {
	return "nutrition_goals"
}

// ProfileModel represents the GORM model for the body profile.
// A single row with a fixed key holds the active profile.
type ProfileModel struct {
	ID                uint    `gorm:"primaryKey"`
	Age               int     `gorm:"not null"`
	Gender            string  `gorm:"type:varchar(10);not null"`
	WeightKg          float64 `gorm:"not null"`
	BodyFatPercentage float64 `gorm:"not null"`
	HeightCm          float64 `gorm:"not null"`
	FitnessGoal       string  `gorm:"type:varchar(20);not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName overrides the default table name
func (ProfileModel) TableName() string {
	return "body_profiles"
}

// SourceEstimateRecord is the JSON shape of one alternative estimate
type SourceEstimateRecord struct {
	Source   string  `json:"source"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// SourceEstimateSlice custom type for handling estimate lists in JSON
type SourceEstimateSlice []SourceEstimateRecord

// Scan implements the sql.Scanner interface
func (s *SourceEstimateSlice) Scan(value interface{}) error {
	if value == nil {
		*s = SourceEstimateSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into SourceEstimateSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s SourceEstimateSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}
