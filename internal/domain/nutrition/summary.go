package nutrition

import "time"

// DailySummary aggregates one local calendar day of food entries.
// It is computed on demand and never persisted.
type DailySummary struct {
	Totals    Macros
	Date      time.Time
	FoodCount int
}

// IsEmpty reports whether no food was logged that day
func (s DailySummary) IsEmpty() bool {
	return s.FoodCount == 0
}

// DayBounds returns the half-open interval [start, end) covering the local
// calendar day that contains t.
func DayBounds(t time.Time) (start, end time.Time) {
	year, month, day := t.Date()
	start = time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// Summarize sums the actual (portion-scaled) macros of the given entries.
// Callers are expected to pass the entries of a single local day; the date is
// carried through for display. Zero entries yield all-zero totals.
func Summarize(entries []*FoodEntry, date time.Time) DailySummary {
	var totals Macros
	for _, entry := range entries {
		totals = totals.Add(entry.Actual())
	}
	return DailySummary{
		Totals:    totals,
		Date:      date,
		FoodCount: len(entries),
	}
}

// GoalProgress compares accumulated daily totals against the active goals.
// Derived, never persisted.
type GoalProgress struct {
	CaloriesProgress float64 `json:"calories_progress"`
	ProteinProgress  float64 `json:"protein_progress"`
	FatProgress      float64 `json:"fat_progress"`

	CaloriesRemaining float64 `json:"calories_remaining"`
	ProteinRemaining  float64 `json:"protein_remaining"`
	FatRemaining      float64 `json:"fat_remaining"`

	CaloriesPercentage float64 `json:"calories_percentage"`
	ProteinPercentage  float64 `json:"protein_percentage"`
	FatPercentage      float64 `json:"fat_percentage"`
}

// NewGoalProgress computes progress, remaining and percentage for each
// tracked goal. Remaining may be negative and percentages exceed 100 when a
// goal is passed; a goal of zero or less yields a percentage of 0 rather
// than dividing by zero.
func NewGoalProgress(summary DailySummary, goals NutritionGoals) GoalProgress {
	return GoalProgress{
		CaloriesProgress: summary.Totals.Calories,
		ProteinProgress:  summary.Totals.Protein,
		FatProgress:      summary.Totals.Fat,

		CaloriesRemaining: goals.DailyCalories - summary.Totals.Calories,
		ProteinRemaining:  goals.DailyProtein - summary.Totals.Protein,
		FatRemaining:      goals.DailyFat - summary.Totals.Fat,

		CaloriesPercentage: percentage(summary.Totals.Calories, goals.DailyCalories),
		ProteinPercentage:  percentage(summary.Totals.Protein, goals.DailyProtein),
		FatPercentage:      percentage(summary.Totals.Fat, goals.DailyFat),
	}
}

// percentage guards the division: a goal of zero or less reads as 0%.
func percentage(progress, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return progress / goal * 100
}
