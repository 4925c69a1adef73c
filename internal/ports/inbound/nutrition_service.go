// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/macrolog/v1/internal/domain/nutrition"
)

// NutritionService defines the use cases for food logging, daily aggregation
// and goal management. This is the primary port that HTTP handlers and other
// driving adapters will use.
type NutritionService interface {
	// Commands - operations that modify state
	LogFood(ctx context.Context, cmd LogFoodCommand) (*FoodEntryDTO, error)
	LogFoods(ctx context.Context, cmds []LogFoodCommand) ([]FoodEntryDTO, error)
	AdjustEntryPortions(ctx context.Context, entryID uuid.UUID, delta float64) (*FoodEntryDTO, error)
	RenameEntry(ctx context.Context, entryID uuid.UUID, name string) (*FoodEntryDTO, error)
	UpdateEntryShortLabel(ctx context.Context, entryID uuid.UUID, label string) (*FoodEntryDTO, error)
	DeleteEntry(ctx context.Context, entryID uuid.UUID) error
	SaveGoals(ctx context.Context, cmd SaveGoalsCommand) error
	SaveProfile(ctx context.Context, cmd SaveProfileCommand) error

	// Queries - operations that read state
	ListDay(ctx context.Context, date time.Time) ([]FoodEntryDTO, error)
	DaySummary(ctx context.Context, date time.Time) (*DailySummaryDTO, error)
	DayProgress(ctx context.Context, date time.Time) (*DayProgressDTO, error)
	WeekOverview(ctx context.Context, ending time.Time) ([]DayProgressDTO, error)
	SearchFoods(ctx context.Context, query string) ([]FoodEntryDTO, error)
	QuickSelectFoods(ctx context.Context, limit int) ([]FoodEntryDTO, error)
	GetGoals(ctx context.Context) (nutrition.NutritionGoals, error)
	GetProfile(ctx context.Context) (nutrition.UserProfile, error)
	RecommendedGoals(ctx context.Context) (nutrition.NutritionGoals, error)
	BodyMetrics(ctx context.Context) (*BodyMetricsDTO, error)
}

// Command objects for operations

// LogFoodCommand contains data for logging one food occurrence. Macro values
// are raw totals covering PortionCount portions; the service normalizes them
// to the canonical per-portion unit before persisting.
type LogFoodCommand struct {
	Name         string
	Calories     float64
	Protein      float64
	Fat          float64
	Carbs        float64
	PortionCount float64
	LoggedAt     time.Time
	WeightGrams  *float64
	Sources      []nutrition.SourceEstimate
}

// SaveGoalsCommand replaces the active goal set
type SaveGoalsCommand struct {
	DailyCalories float64
	DailyProtein  float64
	DailyFat      float64
}

// SaveProfileCommand replaces the active body profile
type SaveProfileCommand struct {
	Age               int
	Gender            nutrition.Gender
	WeightKg          float64
	BodyFatPercentage float64
	HeightCm          float64
	FitnessGoal       nutrition.FitnessGoal
}

// Response DTOs

// FoodEntryDTO is the data transfer object for food entries
type FoodEntryDTO struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	ShortLabel  string              `json:"short_label"`
	Calories    float64             `json:"calories"`
	Protein     float64             `json:"protein"`
	Fat         float64             `json:"fat"`
	Carbs       float64             `json:"carbs"`
	Portions    float64             `json:"portions"`
	ActualCal   float64             `json:"actual_calories"`
	ActualPro   float64             `json:"actual_protein"`
	ActualFat   float64             `json:"actual_fat"`
	ActualCarbs float64             `json:"actual_carbs"`
	WeightGrams *float64            `json:"weight_grams,omitempty"`
	Sources     []SourceEstimateDTO `json:"sources,omitempty"`
	LoggedAt    time.Time           `json:"logged_at"`
}

// SourceEstimateDTO carries an alternative estimate and its source label
type SourceEstimateDTO struct {
	Source   string  `json:"source"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// DailySummaryDTO aggregates one day's entries
type DailySummaryDTO struct {
	Date          string  `json:"date"`
	TotalCalories float64 `json:"total_calories"`
	TotalProtein  float64 `json:"total_protein"`
	TotalFat      float64 `json:"total_fat"`
	TotalCarbs    float64 `json:"total_carbs"`
	FoodCount     int     `json:"food_count"`
	IsEmpty       bool    `json:"is_empty"`
}

// DayProgressDTO pairs a day's summary with its goal progress
type DayProgressDTO struct {
	Summary  DailySummaryDTO          `json:"summary"`
	Progress nutrition.GoalProgress   `json:"progress"`
	Goals    nutrition.NutritionGoals `json:"goals"`
}

// BodyMetricsDTO carries the display-only readouts derived from the profile
type BodyMetricsDTO struct {
	BMR          float64 `json:"bmr"`
	TDEE         float64 `json:"tdee"`
	BMI          float64 `json:"bmi"`
	LeanBodyMass float64 `json:"lean_body_mass"`
}

// EstimatorService defines the use cases around the external macro
// estimator: analyzing a photo or a free-text query into proposed entry
// fields. Results never create entries by themselves.
type EstimatorService interface {
	AnalyzeImage(ctx context.Context, imageJPEG []byte) (*EstimateDTO, error)
	AnalyzeText(ctx context.Context, query string) (*EstimateDTO, error)
}

// EstimateDTO is the proposed field set produced by an analysis
type EstimateDTO struct {
	Name        string              `json:"name"`
	Calories    float64             `json:"calories"`
	Protein     float64             `json:"protein"`
	Fat         float64             `json:"fat"`
	Carbs       float64             `json:"carbs"`
	WeightGrams *float64            `json:"weight_grams,omitempty"`
	Sources     []SourceEstimateDTO `json:"sources,omitempty"`
}
