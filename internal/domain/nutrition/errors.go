package nutrition

import "errors"

// Domain errors for nutrition logging

var (
	// Entity validation errors
	ErrNameRequired          = errors.New("food name is required")
	ErrNameTooLong           = errors.New("food name must not exceed 200 characters")
	ErrNegativeMacros        = errors.New("macro values cannot be negative")
	ErrInvalidPortionCount   = errors.New("portion count must be at least 1")
	ErrInvalidWeight         = errors.New("measured weight must be greater than 0")
	ErrEstimateSourceMissing = errors.New("source estimate must name its source")

	// Profile validation errors
	ErrInvalidAge         = errors.New("age must be greater than 0")
	ErrInvalidGender      = errors.New("gender must be male or female")
	ErrInvalidWeightKg    = errors.New("weight must be greater than 0")
	ErrInvalidHeight      = errors.New("height must be greater than 0")
	ErrInvalidBodyFat     = errors.New("body-fat percentage must be between 0 and 100")
	ErrInvalidFitnessGoal = errors.New("fitness goal must be build_muscle or lose_fat")

	// Goal validation errors
	ErrInvalidGoals = errors.New("daily goals cannot be negative")

	// Lookup errors
	ErrEntryNotFound = errors.New("food entry not found")
)
