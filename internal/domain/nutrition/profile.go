package nutrition

// UserProfile holds the body metrics the recommendation engine works from.
// Exactly one profile is active at a time; DefaultProfile is used until the
// user saves one.
type UserProfile struct {
	Age               int         `json:"age"`
	Gender            Gender      `json:"gender"`
	WeightKg          float64     `json:"weight_kg"`
	BodyFatPercentage float64     `json:"body_fat_percentage"`
	HeightCm          float64     `json:"height_cm"`
	FitnessGoal       FitnessGoal `json:"fitness_goal"`
}

// DefaultProfile is returned when no profile has been saved yet.
func DefaultProfile() UserProfile {
	return UserProfile{
		Age:               30,
		Gender:            GenderMale,
		WeightKg:          70.0,
		BodyFatPercentage: 15.0,
		HeightCm:          170.0,
		FitnessGoal:       FitnessGoalBuildMuscle,
	}
}

// Validate validates the profile
func (p UserProfile) Validate() error {
	if p.Age <= 0 {
		return ErrInvalidAge
	}
	if !p.Gender.Valid() {
		return ErrInvalidGender
	}
	if p.WeightKg <= 0 {
		return ErrInvalidWeightKg
	}
	if p.HeightCm <= 0 {
		return ErrInvalidHeight
	}
	if p.BodyFatPercentage < 0 || p.BodyFatPercentage > 100 {
		return ErrInvalidBodyFat
	}
	if !p.FitnessGoal.Valid() {
		return ErrInvalidFitnessGoal
	}
	return nil
}

// activityMultiplier is the fixed light-activity factor applied to BMR.
const activityMultiplier = 1.375

// BMR computes the basal metabolic rate using the revised Harris-Benedict
// formula, gender-specific.
func (p UserProfile) BMR() float64 {
	switch p.Gender {
	case GenderFemale:
		return 447.593 + 9.247*p.WeightKg + 3.098*p.HeightCm - 4.330*float64(p.Age)
	default:
		return 88.362 + 13.397*p.WeightKg + 4.799*p.HeightCm - 5.677*float64(p.Age)
	}
}

// TDEE computes the total daily energy expenditure at light activity.
func (p UserProfile) TDEE() float64 {
	return p.BMR() * activityMultiplier
}

// AdjustedCalories applies the fitness-goal surplus or deficit to TDEE.
func (p UserProfile) AdjustedCalories() float64 {
	return p.TDEE() * p.FitnessGoal.CalorieAdjustmentFactor()
}

// ProteinGoal computes the daily protein target in grams.
func (p UserProfile) ProteinGoal() float64 {
	return p.WeightKg * p.FitnessGoal.ProteinRequirement()
}

// FatGoal computes the daily fat target in grams. Fat carries 9 kcal per gram.
func (p UserProfile) FatGoal() float64 {
	return p.AdjustedCalories() * p.FitnessGoal.FatPercentage() / 9
}

// BMI computes the body mass index from weight and height.
func (p UserProfile) BMI() float64 {
	heightM := p.HeightCm / 100
	return p.WeightKg / (heightM * heightM)
}

// LeanBodyMass computes the fat-free mass in kilograms.
func (p UserProfile) LeanBodyMass() float64 {
	return p.WeightKg * (1 - p.BodyFatPercentage/100)
}
