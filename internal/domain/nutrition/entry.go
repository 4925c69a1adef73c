// Package nutrition contains the core domain logic for food logging,
// daily aggregation and goal recommendation.
package nutrition

import (
	"time"

	"github.com/google/uuid"
)

// shortLabelLength is the number of leading characters used when a short
// label is derived from the food name.
const shortLabelLength = 3

// FoodEntry represents one logged food occurrence. Macro values are always
// stored per portion; multi-portion amounts are derived at read time.
type FoodEntry struct {
	id         uuid.UUID
	name       string
	shortLabel string

	// Canonical per-portion macro values
	perPortion Macros

	loggedAt     time.Time
	portionCount float64

	// Optional measured weight in grams
	weightGrams *float64

	// Alternative estimates from other sources
	sourceEstimates []SourceEstimate

	createdAt time.Time
	updatedAt time.Time
}

// NewFoodEntry creates a new FoodEntry with validation. The macros given are
// per-portion values; callers logging raw multi-portion totals must normalize
// first (see NormalizePortions).
func NewFoodEntry(name string, perPortion Macros, loggedAt time.Time, portionCount float64) (*FoodEntry, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := perPortion.Validate(); err != nil {
		return nil, err
	}
	if portionCount < 1 {
		return nil, ErrInvalidPortionCount
	}

	now := time.Now()
	return &FoodEntry{
		id:           uuid.New(),
		name:         name,
		shortLabel:   DefaultShortLabel(name),
		perPortion:   perPortion,
		loggedAt:     loggedAt,
		portionCount: portionCount,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructFoodEntry rebuilds an entry from persisted state. It bypasses
// creation-time defaults but still guards the portion floor.
func ReconstructFoodEntry(
	id uuid.UUID,
	name, shortLabel string,
	perPortion Macros,
	loggedAt time.Time,
	portionCount float64,
	weightGrams *float64,
	sourceEstimates []SourceEstimate,
	createdAt, updatedAt time.Time,
) *FoodEntry {
	if portionCount < 1 {
		portionCount = 1
	}
	return &FoodEntry{
		id:              id,
		name:            name,
		shortLabel:      shortLabel,
		perPortion:      perPortion,
		loggedAt:        loggedAt,
		portionCount:    portionCount,
		weightGrams:     weightGrams,
		sourceEstimates: sourceEstimates,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// NormalizePortions converts raw macro totals covering portionCount portions
// into the canonical per-portion unit. A count below 1 is treated as 1.
func NormalizePortions(rawTotals Macros, portionCount float64) (perPortion Macros, count float64) {
	if portionCount < 1 {
		portionCount = 1
	}
	return rawTotals.Scale(1 / portionCount), portionCount
}

// DefaultShortLabel derives the abbreviated display name from a food name.
func DefaultShortLabel(name string) string {
	runes := []rune(name)
	if len(runes) <= shortLabelLength {
		return name
	}
	return string(runes[:shortLabelLength])
}

// ID returns the entry's unique identifier
func (e *FoodEntry) ID() uuid.UUID {
	return e.id
}

// Name returns the entry's display name
func (e *FoodEntry) Name() string {
	return e.name
}

// ShortLabel returns the abbreviated display name
func (e *FoodEntry) ShortLabel() string {
	return e.shortLabel
}

// PerPortion returns the canonical per-portion macro values
func (e *FoodEntry) PerPortion() Macros {
	return e.perPortion
}

// LoggedAt returns when the food was logged
func (e *FoodEntry) LoggedAt() time.Time {
	return e.loggedAt
}

// PortionCount returns the portion multiplier
func (e *FoodEntry) PortionCount() float64 {
	return e.portionCount
}

// WeightGrams returns the measured weight, if one was recorded
func (e *FoodEntry) WeightGrams() *float64 {
	return e.weightGrams
}

// SourceEstimates returns alternative estimates from other sources
func (e *FoodEntry) SourceEstimates() []SourceEstimate {
	return e.sourceEstimates
}

// CreatedAt returns when the entry was created
func (e *FoodEntry) CreatedAt() time.Time {
	return e.createdAt
}

// UpdatedAt returns when the entry was last modified
func (e *FoodEntry) UpdatedAt() time.Time {
	return e.updatedAt
}

// Actual returns the macros actually consumed: per-portion values scaled by
// the portion count.
func (e *FoodEntry) Actual() Macros {
	return e.perPortion.Scale(e.portionCount)
}

// AdjustPortions applies a portion delta, flooring the result at 1.0.
// It returns the new portion count.
func (e *FoodEntry) AdjustPortions(delta float64) float64 {
	next := e.portionCount + delta
	if next < 1 {
		next = 1
	}
	e.portionCount = next
	e.updatedAt = time.Now()
	return next
}

// Rename updates the display name with validation. The short label is left
// untouched; it is edited independently.
func (e *FoodEntry) Rename(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	e.name = name
	e.updatedAt = time.Now()
	return nil
}

// SetShortLabel updates the abbreviated display name
func (e *FoodEntry) SetShortLabel(label string) {
	e.shortLabel = label
	e.updatedAt = time.Now()
}

// SetWeight records the measured weight in grams
func (e *FoodEntry) SetWeight(grams float64) error {
	if grams <= 0 {
		return ErrInvalidWeight
	}
	e.weightGrams = &grams
	e.updatedAt = time.Now()
	return nil
}

// AddSourceEstimate attaches an alternative estimate to the entry
func (e *FoodEntry) AddSourceEstimate(estimate SourceEstimate) error {
	if err := estimate.Validate(); err != nil {
		return err
	}
	e.sourceEstimates = append(e.sourceEstimates, estimate)
	e.updatedAt = time.Now()
	return nil
}

// validateName validates a food display name
func validateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if len(name) > 200 {
		return ErrNameTooLong
	}
	return nil
}
