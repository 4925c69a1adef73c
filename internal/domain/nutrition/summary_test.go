package nutrition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeEmptyDay(t *testing.T) {
	date := time.Date(2025, 7, 5, 0, 0, 0, 0, time.Local)

	summary := Summarize(nil, date)

	assert.Zero(t, summary.Totals.Calories)
	assert.Zero(t, summary.Totals.Protein)
	assert.Zero(t, summary.Totals.Fat)
	assert.Zero(t, summary.Totals.Carbs)
	assert.Equal(t, 0, summary.FoodCount)
	assert.True(t, summary.IsEmpty())
	assert.Equal(t, date, summary.Date)
}

func TestSummarizeScalesPortions(t *testing.T) {
	now := time.Now()
	e1, err := NewFoodEntry("Rice", Macros{Calories: 100, Protein: 10}, now, 1)
	require.NoError(t, err)
	e2, err := NewFoodEntry("Chicken", Macros{Calories: 50, Protein: 5}, now, 2)
	require.NoError(t, err)

	summary := Summarize([]*FoodEntry{e1, e2}, now)

	assert.InDelta(t, 200, summary.Totals.Calories, 1e-9)
	assert.InDelta(t, 30, summary.Totals.Protein, 1e-9)
	assert.Equal(t, 2, summary.FoodCount)
	assert.False(t, summary.IsEmpty())
}

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	at := time.Date(2025, 7, 5, 13, 42, 7, 0, loc)

	start, end := DayBounds(at)

	assert.Equal(t, time.Date(2025, 7, 5, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, 7, 6, 0, 0, 0, 0, loc), end)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestGoalProgressArithmetic(t *testing.T) {
	summary := DailySummary{
		Totals:    Macros{Calories: 1500, Protein: 90, Fat: 40},
		FoodCount: 3,
	}
	goals := NutritionGoals{DailyCalories: 2000, DailyProtein: 120, DailyFat: 60}

	progress := NewGoalProgress(summary, goals)

	assert.InDelta(t, 1500, progress.CaloriesProgress, 1e-9)
	assert.InDelta(t, 500, progress.CaloriesRemaining, 1e-9)
	assert.InDelta(t, 75, progress.CaloriesPercentage, 1e-9)

	assert.InDelta(t, 90, progress.ProteinProgress, 1e-9)
	assert.InDelta(t, 30, progress.ProteinRemaining, 1e-9)
	assert.InDelta(t, 75, progress.ProteinPercentage, 1e-9)

	assert.InDelta(t, 40, progress.FatProgress, 1e-9)
	assert.InDelta(t, 20, progress.FatRemaining, 1e-9)
	assert.InDelta(t, 40.0/60*100, progress.FatPercentage, 1e-9)
}

func TestGoalProgressZeroGoalGuardsDivision(t *testing.T) {
	summary := DailySummary{Totals: Macros{Calories: 1234}}
	goals := NutritionGoals{DailyCalories: 0, DailyProtein: 100, DailyFat: 50}

	progress := NewGoalProgress(summary, goals)

	assert.Equal(t, 0.0, progress.CaloriesPercentage)
	assert.False(t, progress.CaloriesPercentage != progress.CaloriesPercentage, "percentage must not be NaN")
	assert.InDelta(t, -1234, progress.CaloriesRemaining, 1e-9)
}

func TestGoalProgressMayExceedHundredPercent(t *testing.T) {
	summary := DailySummary{Totals: Macros{Calories: 250}}
	goals := NutritionGoals{DailyCalories: 200}

	progress := NewGoalProgress(summary, goals)

	assert.InDelta(t, 125, progress.CaloriesPercentage, 1e-9)
	assert.InDelta(t, -50, progress.CaloriesRemaining, 1e-9)
}

func TestMacrosAddAndScale(t *testing.T) {
	a := Macros{Calories: 100, Protein: 10, Fat: 5, Carbs: 20}
	b := Macros{Calories: 50, Protein: 2, Fat: 1, Carbs: 4}

	sum := a.Add(b)
	assert.Equal(t, Macros{Calories: 150, Protein: 12, Fat: 6, Carbs: 24}, sum)

	half := b.Scale(0.5)
	assert.Equal(t, Macros{Calories: 25, Protein: 1, Fat: 0.5, Carbs: 2}, half)
}
