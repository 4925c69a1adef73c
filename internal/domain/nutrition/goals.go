package nutrition

// NutritionGoals holds the daily macro targets. Exactly one goal set is
// active at a time; the most recently saved set wins.
type NutritionGoals struct {
	DailyCalories float64 `json:"daily_calories"`
	DailyProtein  float64 `json:"daily_protein"`
	DailyFat      float64 `json:"daily_fat"`
}

// DefaultGoals is returned when no goals have been saved yet.
func DefaultGoals() NutritionGoals {
	return NutritionGoals{
		DailyCalories: 2000,
		DailyProtein:  50,
		DailyFat:      65,
	}
}

// Validate validates the goal set
func (g NutritionGoals) Validate() error {
	if g.DailyCalories < 0 || g.DailyProtein < 0 || g.DailyFat < 0 {
		return ErrInvalidGoals
	}
	return nil
}

// RecommendedGoals derives daily targets from a body profile:
// calories from goal-adjusted TDEE, protein from body weight, fat as a share
// of the calorie target.
func RecommendedGoals(profile UserProfile) NutritionGoals {
	return NutritionGoals{
		DailyCalories: profile.AdjustedCalories(),
		DailyProtein:  profile.ProteinGoal(),
		DailyFat:      profile.FatGoal(),
	}
}
