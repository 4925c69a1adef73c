// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/macrolog/v1/internal/domain/nutrition"
)

// FoodEntryFactory produces randomized food entries from a seeded faker,
// so tests that need bulk data stay reproducible.
type FoodEntryFactory struct {
	faker *gofakeit.Faker
}

// NewFoodEntryFactory creates a factory with a seeded faker
func NewFoodEntryFactory(seed int64) *FoodEntryFactory {
	return &FoodEntryFactory{
		faker: gofakeit.New(seed),
	}
}

// Entry creates a random food entry logged at the given time
func (f *FoodEntryFactory) Entry(loggedAt time.Time) *nutrition.FoodEntry {
	macros := nutrition.Macros{
		Calories: float64(f.faker.IntRange(50, 900)),
		Protein:  float64(f.faker.IntRange(0, 60)),
		Fat:      float64(f.faker.IntRange(0, 50)),
		Carbs:    float64(f.faker.IntRange(0, 120)),
	}

	entry, err := nutrition.NewFoodEntry(f.faker.Dinner(), macros, loggedAt, 1)
	if err != nil {
		panic(fmt.Sprintf("factory produced invalid entry: %v", err))
	}
	return entry
}

// Entries creates count random entries spread across the given day
func (f *FoodEntryFactory) Entries(count int, day time.Time) []*nutrition.FoodEntry {
	start, _ := nutrition.DayBounds(day)
	entries := make([]*nutrition.FoodEntry, 0, count)
	for i := 0; i < count; i++ {
		loggedAt := start.Add(time.Duration(f.faker.IntRange(6, 22)) * time.Hour)
		entries = append(entries, f.Entry(loggedAt))
	}
	return entries
}

// FoodEntryBuilder provides a fluent interface for building test entries
type FoodEntryBuilder struct {
	name         string
	perPortion   nutrition.Macros
	loggedAt     time.Time
	portionCount float64
	weightGrams  *float64
	sources      []nutrition.SourceEstimate
}

// NewFoodEntryBuilder creates a builder with sensible defaults
func NewFoodEntryBuilder() *FoodEntryBuilder {
	return &FoodEntryBuilder{
		name: "Grilled Chicken",
		perPortion: nutrition.Macros{
			Calories: 300,
			Protein:  30,
			Fat:      12,
			Carbs:    8,
		},
		loggedAt:     time.Now(),
		portionCount: 1,
	}
}

// WithName sets the entry name
func (b *FoodEntryBuilder) WithName(name string) *FoodEntryBuilder {
	b.name = name
	return b
}

// WithMacros sets the per-portion macros
func (b *FoodEntryBuilder) WithMacros(macros nutrition.Macros) *FoodEntryBuilder {
	b.perPortion = macros
	return b
}

// WithLoggedAt sets the log timestamp
func (b *FoodEntryBuilder) WithLoggedAt(loggedAt time.Time) *FoodEntryBuilder {
	b.loggedAt = loggedAt
	return b
}

// WithPortions sets the portion count
func (b *FoodEntryBuilder) WithPortions(count float64) *FoodEntryBuilder {
	b.portionCount = count
	return b
}

// WithWeight sets the estimated serving weight
func (b *FoodEntryBuilder) WithWeight(grams float64) *FoodEntryBuilder {
	b.weightGrams = &grams
	return b
}

// WithSource appends a source estimate
func (b *FoodEntryBuilder) WithSource(source nutrition.SourceEstimate) *FoodEntryBuilder {
	b.sources = append(b.sources, source)
	return b
}

// Build creates the food entry
func (b *FoodEntryBuilder) Build() (*nutrition.FoodEntry, error) {
	entry, err := nutrition.NewFoodEntry(b.name, b.perPortion, b.loggedAt, b.portionCount)
	if err != nil {
		return nil, err
	}
	if b.weightGrams != nil {
		if err := entry.SetWeight(*b.weightGrams); err != nil {
			return nil, err
		}
	}
	for _, source := range b.sources {
		if err := entry.AddSourceEstimate(source); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// MustBuild creates the food entry and panics on invalid input
func (b *FoodEntryBuilder) MustBuild() *nutrition.FoodEntry {
	entry, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("builder produced invalid entry: %v", err))
	}
	return entry
}
