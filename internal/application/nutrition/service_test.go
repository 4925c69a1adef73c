// Package nutrition provides tests for the nutrition application service
package nutrition

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/macrolog/v1/internal/domain/nutrition"
	"github.com/macrolog/v1/internal/ports/inbound"
	"github.com/macrolog/v1/internal/ports/outbound"
	"github.com/macrolog/v1/pkg/errors"
)

// MockFoodEntryRepository is a mock implementation of the food entry repository
type MockFoodEntryRepository struct {
	mock.Mock
}

func (m *MockFoodEntryRepository) Create(ctx context.Context, entry *nutrition.FoodEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockFoodEntryRepository) Update(ctx context.Context, entry *nutrition.FoodEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockFoodEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFoodEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*nutrition.FoodEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nutrition.FoodEntry), args.Error(1)
}

func (m *MockFoodEntryRepository) FindByDay(ctx context.Context, date time.Time) ([]*nutrition.FoodEntry, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*nutrition.FoodEntry), args.Error(1)
}

func (m *MockFoodEntryRepository) SearchByName(ctx context.Context, query string, limit int) ([]*nutrition.FoodEntry, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*nutrition.FoodEntry), args.Error(1)
}

func (m *MockFoodEntryRepository) TopFrequent(ctx context.Context, limit int) ([]*nutrition.FoodEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*nutrition.FoodEntry), args.Error(1)
}

// MockGoalsRepository is a mock implementation of the goals repository
type MockGoalsRepository struct {
	mock.Mock
}

func (m *MockGoalsRepository) Get(ctx context.Context) (nutrition.NutritionGoals, error) {
	args := m.Called(ctx)
	return args.Get(0).(nutrition.NutritionGoals), args.Error(1)
}

func (m *MockGoalsRepository) Save(ctx context.Context, goals nutrition.NutritionGoals) error {
	args := m.Called(ctx, goals)
	return args.Error(0)
}

// MockProfileRepository is a mock implementation of the profile repository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Get(ctx context.Context) (nutrition.UserProfile, error) {
	args := m.Called(ctx)
	return args.Get(0).(nutrition.UserProfile), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, profile nutrition.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// Test utilities

type serviceMocks struct {
	entries  *MockFoodEntryRepository
	goals    *MockGoalsRepository
	profiles *MockProfileRepository
}

func createTestService(t *testing.T, now time.Time) (*NutritionService, *serviceMocks) {
	mocks := &serviceMocks{
		entries:  &MockFoodEntryRepository{},
		goals:    &MockGoalsRepository{},
		profiles: &MockProfileRepository{},
	}

	service := &NutritionService{
		entryRepo:        mocks.entries,
		goalsRepo:        mocks.goals,
		profileRepo:      mocks.profiles,
		searchLimit:      defaultSearchLimit,
		quickSelectLimit: defaultQuickSelectLimit,
		clock:            func() time.Time { return now },
		logger:           zaptest.NewLogger(t),
	}

	return service, mocks
}

func testEntry(t *testing.T, name string, perPortion nutrition.Macros, loggedAt time.Time, portions float64) *nutrition.FoodEntry {
	entry, err := nutrition.NewFoodEntry(name, perPortion, loggedAt, portions)
	require.NoError(t, err)
	return entry
}

var testNow = time.Date(2025, 3, 14, 12, 30, 0, 0, time.Local)

// Logging

func TestLogFoodNormalizesPortions(t *testing.T) {
	service, mocks := createTestService(t, testNow)
	mocks.entries.On("Create", mock.Anything, mock.Anything).Return(nil)

	dto, err := service.LogFood(context.Background(), inbound.LogFoodCommand{
		Name:         "Protein Shake",
		Calories:     400,
		Protein:      60,
		Fat:          8,
		Carbs:        20,
		PortionCount: 2,
		LoggedAt:     testNow,
	})

	require.NoError(t, err)
	assert.Equal(t, 200.0, dto.Calories)
	assert.Equal(t, 30.0, dto.Protein)
	assert.Equal(t, 2.0, dto.Portions)
	assert.Equal(t, 400.0, dto.ActualCal)
	assert.Equal(t, "Pro", dto.ShortLabel)
	mocks.entries.AssertExpectations(t)
}

func TestLogFoodRejectsEmptyName(t *testing.T) {
	service, _ := createTestService(t, testNow)

	_, err := service.LogFood(context.Background(), inbound.LogFoodCommand{
		Name:         "",
		Calories:     100,
		PortionCount: 1,
	})

	assert.Error(t, err)
}

func TestLogFoodDefaultsLogTimeToNow(t *testing.T) {
	service, mocks := createTestService(t, testNow)
	mocks.entries.On("Create", mock.Anything, mock.Anything).Return(nil)

	dto, err := service.LogFood(context.Background(), inbound.LogFoodCommand{
		Name:         "Banana",
		Calories:     105,
		PortionCount: 1,
	})

	require.NoError(t, err)
	assert.True(t, dto.LoggedAt.Equal(testNow))
}

func TestLogFoodsStampsBatchWithSameTime(t *testing.T) {
	service, mocks := createTestService(t, testNow)
	mocks.entries.On("Create", mock.Anything, mock.Anything).Return(nil)

	dtos, err := service.LogFoods(context.Background(), []inbound.LogFoodCommand{
		{Name: "Eggs", Calories: 150, PortionCount: 1},
		{Name: "Toast", Calories: 80, PortionCount: 1},
	})

	require.NoError(t, err)
	require.Len(t, dtos, 2)
	assert.True(t, dtos[0].LoggedAt.Equal(dtos[1].LoggedAt))
	mocks.entries.AssertNumberOfCalls(t, "Create", 2)
}

func TestLogFoodsRejectsWholeBatchOnInvalidEntry(t *testing.T) {
	service, mocks := createTestService(t, testNow)

	_, err := service.LogFoods(context.Background(), []inbound.LogFoodCommand{
		{Name: "Eggs", Calories: 150, PortionCount: 1},
		{Name: "", Calories: 80, PortionCount: 1},
	})

	assert.True(t, errors.Is(err, errors.CodeValidationFailed))
	mocks.entries.AssertNotCalled(t, "Create")
}

func TestLogFoodsRejectsEmptyBatch(t *testing.T) {
	service, _ := createTestService(t, testNow)

	_, err := service.LogFoods(context.Background(), nil)

	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

// Portion adjustment

func TestAdjustEntryPortionsToday(t *testing.T) {
	service, mocks := createTestService(t, testNow)
	entry := testEntry(t, "Rice Bowl", nutrition.Macros{Calories: 300}, testNow.Add(-2*time.Hour), 1)

	mocks.entries.On("FindByID", mock.Anything, entry.ID()).Return(entry, nil)
	mocks.entries.On("Update", mock.Anything, entry).Return(nil)

	dto, err := service.AdjustEntryPortions(context.Background(), entry.ID(), 1.5)

	require.NoError(t, err)
	assert.Equal(t, 2.5, dto.Portions)
	assert.Equal(t, 750.0, dto.ActualCal)
	mocks.entries.AssertExpectations(t)
}

func TestAdjustEntryPortionsRejectsPastDays(t *testing.T) {
	service, mocks := createTestService(t, testNow)
	yesterday := testNow.AddDate(0, 0, -1)
	entry := testEntry(t, "Rice Bowl", nutrition.Macros{Calories: 300}, yesterday, 2)

	mocks.entries.On("FindByID", mock.Anything, entry.ID()).Return(entry, nil)

	_, err := service.AdjustEntryPortions(context.Background(), entry.ID(), 1)

	assert.True(t, errors.Is(err, errors.CodeEntryNotEditable))
	mocks.entries.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAdjustEntryPortionsNotFound(t *testing.T) {
	service, mocks := createTestService(t, testNow)
	id := uuid.New()

	mocks.entries.On("FindByID", mock.Anything, id).Return(nil, nil)

	_, err := service.AdjustEntryPortions(context.Background(), id, 1)

	assert.True(t, errors.Is(err, errors.CodeEntryNotFound))
}

// Entry edits

func TestRenameEntryKeepsShortLabel(t *testing.T) {
	service, mocks := createTestService(t, testNow)
	entry := testEntry(t, "Chicken Sandwich", nutrition.Macros{Calories: 450}, testNow, 1)

	mocks.entries.On("FindByID", mock.Anything, entry.ID()).Return(entry, nil)
	mocks.entries.On("Update", mock.Anything, entry).Return(nil)

	dto, err := service.RenameEntry(context.Background(), entry.ID(), "Club Sandwich")

	require.NoError(t, err)
	assert.Equal(t, "Club Sandwich", dto.Name)
	assert.Equal(t, "Chi", dto.ShortLabel)
}

func TestUpdateEntryShortLabel(t *testing.T) {
	service, mocks := createTestService(t, testNow)
	entry := testEntry(t, "Chicken Sandwich", nutrition.Macros{Calories: 450}, testNow, 1)

	mocks.entries.On("FindByID", mock.Anything, entry.ID()).Return(entry, nil)
	mocks.entries.On("Update", mock.Anything, entry).Return(nil)

	dto, err := service.UpdateEntryShortLabel(context.Background(), entry.ID(), "Sammy")

	require.NoError(t, err)
	assert.Equal(t, "Sammy", dto.ShortLabel)
	assert.Equal(t, "Chicken Sandwich", dto.Name)
}

func TestDeleteEntry(t *testing.T) {
	service, mocks := createTestService(t, testNow)
	entry := testEntry(t, "Oatmeal", nutrition.Macros{Calories: 150}, testNow, 1)

	mocks.entries.On("FindByID", mock.Anything, entry.ID()).Return(entry, nil)
	mocks.entries.On("Delete", mock.Anything, entry.ID()).Return(nil)

	err := service.DeleteEntry(context.Background(), entry.ID())

	require.NoError(t, err)
	mocks.entries.AssertExpectations(t)
}

// Day queries

func TestDaySummaryAggregatesActualMacros(t *testing.T) {
	service, mocks := createTestService(t, testNow)
	entries := []*nutrition.FoodEntry{
		testEntry(t, "First", nutrition.Macros{Calories: 100, Protein: 10}, testNow, 1),
		testEntry(t, "Second", nutrition.Macros{Calories: 50, Protein: 5}, testNow, 2),
	}

	mocks.entries.On("FindByDay", mock.Anything, mock.Anything).Return(entries, nil)

	summary, err := service.DaySummary(context.Background(), testNow)

	require.NoError(t, err)
	assert.Equal(t, 200.0, summary.TotalCalories)
	assert.Equal(t, 20.0, summary.TotalProtein)
	assert.Equal(t, 2, summary.FoodCount)
	assert.False(t, summary.IsEmpty)
}

func TestDaySummaryEmptyDayIsNotAnError(t *testing.T) {
	service, mocks := createTestService(t, testNow)

	mocks.entries.On("FindByDay", mock.Anything, mock.Anything).Return([]*nutrition.FoodEntry{}, nil)

	summary, err := service.DaySummary(context.Background(), testNow)

	require.NoError(t, err)
	assert.True(t, summary.IsEmpty)
	assert.Equal(t, 0.0, summary.TotalCalories)
}

func TestDayProgressUsesDefaultGoalsWhenNoneSaved(t *testing.T) {
	service, mocks := createTestService(t, testNow)
	entries := []*nutrition.FoodEntry{
		testEntry(t, "Lunch", nutrition.Macros{Calories: 500, Protein: 25, Fat: 13}, testNow, 1),
	}

	mocks.entries.On("FindByDay", mock.Anything, mock.Anything).Return(entries, nil)
	mocks.goals.On("Get", mock.Anything).Return(nutrition.NutritionGoals{}, outbound.ErrNoActiveRecord)

	progress, err := service.DayProgress(context.Background(), testNow)

	require.NoError(t, err)
	assert.Equal(t, nutrition.DefaultGoals(), progress.Goals)
	assert.Equal(t, 500.0, progress.Progress.CaloriesProgress)
	assert.Equal(t, 1500.0, progress.Progress.CaloriesRemaining)
	assert.InDelta(t, 25.0, progress.Progress.CaloriesPercentage, 1e-9)
}

func TestWeekOverviewReturnsSevenDaysOldestFirst(t *testing.T) {
	service, mocks := createTestService(t, testNow)

	mocks.goals.On("Get", mock.Anything).Return(nutrition.DefaultGoals(), nil)
	mocks.entries.On("FindByDay", mock.Anything, mock.Anything).Return([]*nutrition.FoodEntry{}, nil)

	days, err := service.WeekOverview(context.Background(), testNow)

	require.NoError(t, err)
	require.Len(t, days, 7)
	assert.Equal(t, testNow.AddDate(0, 0, -6).Format("2006-01-02"), days[0].Summary.Date)
	assert.Equal(t, testNow.Format("2006-01-02"), days[6].Summary.Date)
	mocks.entries.AssertNumberOfCalls(t, "FindByDay", 7)
}

// Search and quick select

func TestSearchFoodsEmptyQueryShortCircuits(t *testing.T) {
	service, mocks := createTestService(t, testNow)

	results, err := service.SearchFoods(context.Background(), "")

	require.NoError(t, err)
	assert.Empty(t, results)
	mocks.entries.AssertNotCalled(t, "SearchByName", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchFoodsDelegatesToRepository(t *testing.T) {
	service, mocks := createTestService(t, testNow)
	entries := []*nutrition.FoodEntry{
		testEntry(t, "Chicken Curry", nutrition.Macros{Calories: 520}, testNow, 1),
	}

	mocks.entries.On("SearchByName", mock.Anything, "chick", 5).Return(entries, nil)

	results, err := service.SearchFoods(context.Background(), "chick")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Chicken Curry", results[0].Name)
}

func TestQuickSelectFoodsAppliesDefaultLimit(t *testing.T) {
	service, mocks := createTestService(t, testNow)

	mocks.entries.On("TopFrequent", mock.Anything, 5).Return([]*nutrition.FoodEntry{}, nil)

	_, err := service.QuickSelectFoods(context.Background(), 0)

	require.NoError(t, err)
	mocks.entries.AssertExpectations(t)
}

func TestConfiguredLimitsReachRepository(t *testing.T) {
	service, mocks := createTestService(t, testNow)
	service.searchLimit = 3
	service.quickSelectLimit = 10

	mocks.entries.On("SearchByName", mock.Anything, "egg", 3).Return([]*nutrition.FoodEntry{}, nil)
	mocks.entries.On("TopFrequent", mock.Anything, 10).Return([]*nutrition.FoodEntry{}, nil)

	_, err := service.SearchFoods(context.Background(), "egg")
	require.NoError(t, err)

	_, err = service.QuickSelectFoods(context.Background(), 0)
	require.NoError(t, err)

	mocks.entries.AssertExpectations(t)
}

func TestConstructorFallsBackToDefaultLimits(t *testing.T) {
	mocks := &serviceMocks{
		entries:  &MockFoodEntryRepository{},
		goals:    &MockGoalsRepository{},
		profiles: &MockProfileRepository{},
	}

	service := NewNutritionService(mocks.entries, mocks.goals, mocks.profiles, 0, -1, zaptest.NewLogger(t))

	mocks.entries.On("SearchByName", mock.Anything, "egg", defaultSearchLimit).Return([]*nutrition.FoodEntry{}, nil)
	mocks.entries.On("TopFrequent", mock.Anything, defaultQuickSelectLimit).Return([]*nutrition.FoodEntry{}, nil)

	_, err := service.SearchFoods(context.Background(), "egg")
	require.NoError(t, err)

	_, err = service.QuickSelectFoods(context.Background(), 0)
	require.NoError(t, err)

	mocks.entries.AssertExpectations(t)
}

// Goals and profile

func TestSaveGoalsValidates(t *testing.T) {
	service, _ := createTestService(t, testNow)

	err := service.SaveGoals(context.Background(), inbound.SaveGoalsCommand{
		DailyCalories: -100,
	})

	assert.Error(t, err)
}

func TestSaveAndGetGoals(t *testing.T) {
	service, mocks := createTestService(t, testNow)
	goals := nutrition.NutritionGoals{DailyCalories: 2500, DailyProtein: 150, DailyFat: 80}

	mocks.goals.On("Save", mock.Anything, goals).Return(nil)
	mocks.goals.On("Get", mock.Anything).Return(goals, nil)

	err := service.SaveGoals(context.Background(), inbound.SaveGoalsCommand{
		DailyCalories: 2500,
		DailyProtein:  150,
		DailyFat:      80,
	})
	require.NoError(t, err)

	got, err := service.GetGoals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, goals, got)
}

func TestGetProfileFallsBackToDefaults(t *testing.T) {
	service, mocks := createTestService(t, testNow)

	mocks.profiles.On("Get", mock.Anything).Return(nutrition.UserProfile{}, outbound.ErrNoActiveRecord)

	profile, err := service.GetProfile(context.Background())

	require.NoError(t, err)
	assert.Equal(t, nutrition.DefaultProfile(), profile)
}

func TestRecommendedGoalsFromSavedProfile(t *testing.T) {
	service, mocks := createTestService(t, testNow)
	profile := nutrition.UserProfile{
		Age:               30,
		Gender:            nutrition.GenderMale,
		WeightKg:          70,
		BodyFatPercentage: 15,
		HeightCm:          170,
		FitnessGoal:       nutrition.FitnessGoalBuildMuscle,
	}

	mocks.profiles.On("Get", mock.Anything).Return(profile, nil)

	goals, err := service.RecommendedGoals(context.Background())

	require.NoError(t, err)
	assert.Equal(t, nutrition.RecommendedGoals(profile), goals)
	assert.Equal(t, 154.0, goals.DailyProtein)
}

func TestBodyMetrics(t *testing.T) {
	service, mocks := createTestService(t, testNow)
	profile := nutrition.DefaultProfile()

	mocks.profiles.On("Get", mock.Anything).Return(profile, nil)

	metrics, err := service.BodyMetrics(context.Background())

	require.NoError(t, err)
	assert.InDelta(t, profile.BMR(), metrics.BMR, 1e-9)
	assert.InDelta(t, profile.TDEE(), metrics.TDEE, 1e-9)
	assert.InDelta(t, profile.BMI(), metrics.BMI, 1e-9)
	assert.InDelta(t, profile.LeanBodyMass(), metrics.LeanBodyMass, 1e-9)
}
