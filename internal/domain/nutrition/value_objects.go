package nutrition

// Value Objects - Immutable objects that describe aspects of the domain

// Macros holds the four tracked macro values for a single portion of food.
type Macros struct {
	Calories float64
	Protein  float64
	Fat      float64
	Carbs    float64
}

// Validate validates the macro values
func (m Macros) Validate() error {
	if m.Calories < 0 || m.Protein < 0 || m.Fat < 0 || m.Carbs < 0 {
		return ErrNegativeMacros
	}
	return nil
}

// Scale returns the macros multiplied by the given factor
func (m Macros) Scale(factor float64) Macros {
	return Macros{
		Calories: m.Calories * factor,
		Protein:  m.Protein * factor,
		Fat:      m.Fat * factor,
		Carbs:    m.Carbs * factor,
	}
}

// Add returns the element-wise sum of two macro sets
func (m Macros) Add(other Macros) Macros {
	return Macros{
		Calories: m.Calories + other.Calories,
		Protein:  m.Protein + other.Protein,
		Fat:      m.Fat + other.Fat,
		Carbs:    m.Carbs + other.Carbs,
	}
}

// SourceEstimate is an alternative macro estimate for a food, attributed to
// the source that produced it (a database, an analysis model, a label scan).
type SourceEstimate struct {
	Source string
	Macros Macros
}

// Validate validates the source estimate
func (s SourceEstimate) Validate() error {
	if s.Source == "" {
		return ErrEstimateSourceMissing
	}
	return s.Macros.Validate()
}

// Gender is used by the gender-specific BMR formula
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether the gender is a known variant
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// FitnessGoal selects the coefficient set used when deriving daily targets
// from a body profile.
type FitnessGoal string

const (
	FitnessGoalBuildMuscle FitnessGoal = "build_muscle"
	FitnessGoalLoseFat     FitnessGoal = "lose_fat"
)

// Valid reports whether the fitness goal is a known variant
func (f FitnessGoal) Valid() bool {
	return f == FitnessGoalBuildMuscle || f == FitnessGoalLoseFat
}

// CalorieAdjustmentFactor returns the TDEE multiplier for the goal:
// a 10% surplus for building muscle, a 15% deficit for losing fat.
func (f FitnessGoal) CalorieAdjustmentFactor() float64 {
	switch f {
	case FitnessGoalLoseFat:
		return 0.85
	default:
		return 1.10
	}
}

// ProteinRequirement returns the protein target in grams per kilogram
// of body weight.
func (f FitnessGoal) ProteinRequirement() float64 {
	switch f {
	case FitnessGoalLoseFat:
		return 2.0
	default:
		return 2.2
	}
}

// FatPercentage returns the share of adjusted daily calories allotted to fat.
func (f FitnessGoal) FatPercentage() float64 {
	switch f {
	case FitnessGoalLoseFat:
		return 0.25
	default:
		return 0.30
	}
}
