// Package gorm provides mapping between domain entities and GORM models
package gorm

import (
	"github.com/macrolog/v1/internal/domain/nutrition"
)

// EntryToModel converts a domain food entry to a GORM model
func EntryToModel(e *nutrition.FoodEntry) *FoodEntryModel {
	perPortion := e.PerPortion()

	estimates := make(SourceEstimateSlice, 0, len(e.SourceEstimates()))
	for _, estimate := range e.SourceEstimates() {
		estimates = append(estimates, SourceEstimateRecord{
			Source:   estimate.Source,
			Calories: estimate.Macros.Calories,
			Protein:  estimate.Macros.Protein,
			Fat:      estimate.Macros.Fat,
			Carbs:    estimate.Macros.Carbs,
		})
	}

	return &FoodEntryModel{
		ID:              e.ID(),
		Name:            e.Name(),
		ShortLabel:      e.ShortLabel(),
		Calories:        perPortion.Calories,
		Protein:         perPortion.Protein,
		Fat:             perPortion.Fat,
		Carbs:           perPortion.Carbs,
		PortionCount:    e.PortionCount(),
		WeightGrams:     e.WeightGrams(),
		SourceEstimates: estimates,
		LoggedAt:        e.LoggedAt(),
		CreatedAt:       e.CreatedAt(),
		UpdatedAt:       e.UpdatedAt(),
	}
}

// ModelToEntry converts a GORM model back to the domain entity
func ModelToEntry(model *FoodEntryModel) *nutrition.FoodEntry {
	estimates := make([]nutrition.SourceEstimate, 0, len(model.SourceEstimates))
	for _, record := range model.SourceEstimates {
		estimates = append(estimates, nutrition.SourceEstimate{
			Source: record.Source,
			Macros: nutrition.Macros{
				Calories: record.Calories,
				Protein:  record.Protein,
				Fat:      record.Fat,
				Carbs:    record.Carbs,
			},
		})
	}

	return nutrition.ReconstructFoodEntry(
		model.ID,
		model.Name,
		model.ShortLabel,
		nutrition.Macros{
			Calories: model.Calories,
			Protein:  model.Protein,
			Fat:      model.Fat,
			Carbs:    model.Carbs,
		},
		model.LoggedAt,
		model.PortionCount,
		model.WeightGrams,
		estimates,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

// GoalsToModel converts the domain goal set to its single-row model
func GoalsToModel(goals nutrition.NutritionGoals) *GoalsModel {
	return &GoalsModel{
		ID:            activeRecordID,
		DailyCalories: goals.DailyCalories,
		DailyProtein:  goals.DailyProtein,
		DailyFat:      goals.DailyFat,
	}
}

// ModelToGoals converts the single-row model back to the domain goal set
func ModelToGoals(model *GoalsModel) nutrition.NutritionGoals {
	return nutrition.NutritionGoals{
		DailyCalories: model.DailyCalories,
		DailyProtein:  model.DailyProtein,
		DailyFat:      model.DailyFat,
	}
}

// ProfileToModel converts the domain profile to its single-row model
func ProfileToModel(profile nutrition.UserProfile) *ProfileModel {
	return &ProfileModel{
		ID:                activeRecordID,
		Age:               profile.Age,
		Gender:            string(profile.Gender),
		WeightKg:          profile.WeightKg,
		BodyFatPercentage: profile.BodyFatPercentage,
		HeightCm:          profile.HeightCm,
		FitnessGoal:       string(profile.FitnessGoal),
	}
}

// ModelToProfile converts the single-row model back to the domain profile
func ModelToProfile(model *ProfileModel) nutrition.UserProfile {
	return nutrition.UserProfile{
		Age:               model.Age,
		Gender:            nutrition.Gender(model.Gender),
		WeightKg:          model.WeightKg,
		BodyFatPercentage: model.BodyFatPercentage,
		HeightCm:          model.HeightCm,
		FitnessGoal:       nutrition.FitnessGoal(model.FitnessGoal),
	}
}
