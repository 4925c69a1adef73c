// Package nutrition provides the application layer for food logging and
// goal management. This implements the use cases defined in the inbound ports
package nutrition

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/macrolog/v1/internal/domain/nutrition"
	"github.com/macrolog/v1/internal/ports/inbound"
	"github.com/macrolog/v1/internal/ports/outbound"
	"github.com/macrolog/v1/pkg/errors"
)

// Fallback result bounds when the configuration leaves them unset
const (
	defaultSearchLimit      = 5
	defaultQuickSelectLimit = 5
)

// NutritionService implements the food logging use cases
type NutritionService struct {
	entryRepo        outbound.FoodEntryRepository
	goalsRepo        outbound.GoalsRepository
	profileRepo      outbound.ProfileRepository
	searchLimit      int
	quickSelectLimit int
	clock            func() time.Time
	logger           *zap.Logger
}

// NewNutritionService creates a new nutrition service. Non-positive limits
// fall back to the defaults.
func NewNutritionService(
	entryRepo outbound.FoodEntryRepository,
	goalsRepo outbound.GoalsRepository,
	profileRepo outbound.ProfileRepository,
	searchLimit int,
	quickSelectLimit int,
	logger *zap.Logger,
) inbound.NutritionService {
	if searchLimit <= 0 {
		searchLimit = defaultSearchLimit
	}
	if quickSelectLimit <= 0 {
		quickSelectLimit = defaultQuickSelectLimit
	}
	return &NutritionService{
		entryRepo:        entryRepo,
		goalsRepo:        goalsRepo,
		profileRepo:      profileRepo,
		searchLimit:      searchLimit,
		quickSelectLimit: quickSelectLimit,
		clock:            time.Now,
		logger:           logger.Named("nutrition-service"),
	}
}

// LogFood records one food occurrence. Macro values in the command are raw
// totals for the given portion count and are normalized to per-portion
// values before persisting.
func (s *NutritionService) LogFood(ctx context.Context, cmd inbound.LogFoodCommand) (*inbound.FoodEntryDTO, error) {
	s.logger.Info("Logging food",
		zap.String("name", cmd.Name),
		zap.Float64("portions", cmd.PortionCount),
	)

	entry, err := s.buildEntry(cmd)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, errors.NewDatabaseError("create food entry", err)
	}

	dto := s.entityToDTO(entry)

	s.logger.Info("Food logged successfully",
		zap.String("entry_id", dto.ID.String()),
		zap.String("name", dto.Name),
	)

	return dto, nil
}

// LogFoods records several foods in one call, all stamped with the same
// log time. Used when re-logging a quick-select batch.
func (s *NutritionService) LogFoods(ctx context.Context, cmds []inbound.LogFoodCommand) ([]inbound.FoodEntryDTO, error) {
	if len(cmds) == 0 {
		return nil, errors.NewBadRequestError("no foods to log")
	}

	s.logger.Info("Logging food batch", zap.Int("count", len(cmds)))

	// Build and validate the whole batch before writing anything
	loggedAt := s.clock()
	entries := make([]*nutrition.FoodEntry, 0, len(cmds))
	for _, cmd := range cmds {
		cmd.LoggedAt = loggedAt
		entry, err := s.buildEntry(cmd)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		entries = append(entries, entry)
	}

	dtos := make([]inbound.FoodEntryDTO, 0, len(entries))
	for _, entry := range entries {
		if err := s.entryRepo.Create(ctx, entry); err != nil {
			return nil, errors.NewDatabaseError("create food entry", err)
		}
		dtos = append(dtos, *s.entityToDTO(entry))
	}

	return dtos, nil
}

// AdjustEntryPortions changes how many portions of an entry were eaten.
// Only entries logged today can be adjusted; the count never drops below one.
func (s *NutritionService) AdjustEntryPortions(ctx context.Context, entryID uuid.UUID, delta float64) (*inbound.FoodEntryDTO, error) {
	entry, err := s.loadEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if !s.isToday(entry.LoggedAt()) {
		return nil, errors.NewEntryNotEditableError(entryID.String(), "portions can only be adjusted on the day the food was logged")
	}

	count := entry.AdjustPortions(delta)

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, errors.NewDatabaseError("update food entry", err)
	}

	s.logger.Info("Portions adjusted",
		zap.String("entry_id", entryID.String()),
		zap.Float64("delta", delta),
		zap.Float64("portions", count),
	)

	return s.entityToDTO(entry), nil
}

// RenameEntry changes an entry's display name
func (s *NutritionService) RenameEntry(ctx context.Context, entryID uuid.UUID, name string) (*inbound.FoodEntryDTO, error) {
	entry, err := s.loadEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if err := entry.Rename(name); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, errors.NewDatabaseError("update food entry", err)
	}

	return s.entityToDTO(entry), nil
}

// UpdateEntryShortLabel changes the abbreviated label shown in compact views.
// The label is independent of the name; renaming does not touch it.
func (s *NutritionService) UpdateEntryShortLabel(ctx context.Context, entryID uuid.UUID, label string) (*inbound.FoodEntryDTO, error) {
	entry, err := s.loadEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	entry.SetShortLabel(label)

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, errors.NewDatabaseError("update food entry", err)
	}

	return s.entityToDTO(entry), nil
}

// DeleteEntry removes a logged food
func (s *NutritionService) DeleteEntry(ctx context.Context, entryID uuid.UUID) error {
	if _, err := s.loadEntry(ctx, entryID); err != nil {
		return err
	}

	if err := s.entryRepo.Delete(ctx, entryID); err != nil {
		return errors.NewDatabaseError("delete food entry", err)
	}

	s.logger.Info("Food entry deleted", zap.String("entry_id", entryID.String()))

	return nil
}

// SaveGoals replaces the active goal set
func (s *NutritionService) SaveGoals(ctx context.Context, cmd inbound.SaveGoalsCommand) error {
	goals := nutrition.NutritionGoals{
		DailyCalories: cmd.DailyCalories,
		DailyProtein:  cmd.DailyProtein,
		DailyFat:      cmd.DailyFat,
	}

	if err := goals.Validate(); err != nil {
		return errors.NewValidationError(err.Error())
	}

	if err := s.goalsRepo.Save(ctx, goals); err != nil {
		return errors.NewDatabaseError("save goals", err)
	}

	s.logger.Info("Goals saved",
		zap.Float64("calories", goals.DailyCalories),
		zap.Float64("protein", goals.DailyProtein),
		zap.Float64("fat", goals.DailyFat),
	)

	return nil
}

// SaveProfile replaces the active body profile
func (s *NutritionService) SaveProfile(ctx context.Context, cmd inbound.SaveProfileCommand) error {
	profile := nutrition.UserProfile{
		Age:               cmd.Age,
		Gender:            cmd.Gender,
		WeightKg:          cmd.WeightKg,
		BodyFatPercentage: cmd.BodyFatPercentage,
		HeightCm:          cmd.HeightCm,
		FitnessGoal:       cmd.FitnessGoal,
	}

	if err := profile.Validate(); err != nil {
		return errors.NewValidationError(err.Error())
	}

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return errors.NewDatabaseError("save profile", err)
	}

	s.logger.Info("Profile saved",
		zap.Int("age", profile.Age),
		zap.Float64("weight_kg", profile.WeightKg),
	)

	return nil
}

// ListDay returns the entries logged on the local calendar day containing
// the given date, ordered by log time
func (s *NutritionService) ListDay(ctx context.Context, date time.Time) ([]inbound.FoodEntryDTO, error) {
	entries, err := s.entryRepo.FindByDay(ctx, date)
	if err != nil {
		return nil, errors.NewDatabaseError("find day entries", err)
	}

	dtos := make([]inbound.FoodEntryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = *s.entityToDTO(entry)
	}

	return dtos, nil
}

// DaySummary aggregates the day's entries into macro totals. A day with no
// entries yields zero totals, never an error.
func (s *NutritionService) DaySummary(ctx context.Context, date time.Time) (*inbound.DailySummaryDTO, error) {
	entries, err := s.entryRepo.FindByDay(ctx, date)
	if err != nil {
		return nil, errors.NewDatabaseError("find day entries", err)
	}

	summary := nutrition.Summarize(entries, date)
	dto := summaryToDTO(summary)

	return &dto, nil
}

// DayProgress pairs the day's summary with progress against the active goals
func (s *NutritionService) DayProgress(ctx context.Context, date time.Time) (*inbound.DayProgressDTO, error) {
	entries, err := s.entryRepo.FindByDay(ctx, date)
	if err != nil {
		return nil, errors.NewDatabaseError("find day entries", err)
	}

	goals, err := s.activeGoals(ctx)
	if err != nil {
		return nil, err
	}

	summary := nutrition.Summarize(entries, date)

	return &inbound.DayProgressDTO{
		Summary:  summaryToDTO(summary),
		Progress: nutrition.NewGoalProgress(summary, goals),
		Goals:    goals,
	}, nil
}

// WeekOverview returns per-day progress for the seven local days ending at
// (and including) the given date, oldest first
func (s *NutritionService) WeekOverview(ctx context.Context, ending time.Time) ([]inbound.DayProgressDTO, error) {
	goals, err := s.activeGoals(ctx)
	if err != nil {
		return nil, err
	}

	days := make([]inbound.DayProgressDTO, 0, 7)
	for offset := -6; offset <= 0; offset++ {
		date := ending.AddDate(0, 0, offset)
		entries, err := s.entryRepo.FindByDay(ctx, date)
		if err != nil {
			return nil, errors.NewDatabaseError("find day entries", err)
		}

		summary := nutrition.Summarize(entries, date)
		days = append(days, inbound.DayProgressDTO{
			Summary:  summaryToDTO(summary),
			Progress: nutrition.NewGoalProgress(summary, goals),
			Goals:    goals,
		})
	}

	return days, nil
}

// SearchFoods matches previously logged foods by name substring,
// deduplicated by name keeping the most recent occurrence
func (s *NutritionService) SearchFoods(ctx context.Context, query string) ([]inbound.FoodEntryDTO, error) {
	if query == "" {
		return []inbound.FoodEntryDTO{}, nil
	}

	entries, err := s.entryRepo.SearchByName(ctx, query, s.searchLimit)
	if err != nil {
		return nil, errors.NewDatabaseError("search foods", err)
	}

	dtos := make([]inbound.FoodEntryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = *s.entityToDTO(entry)
	}

	return dtos, nil
}

// QuickSelectFoods returns the most frequently logged foods for one-tap
// re-logging
func (s *NutritionService) QuickSelectFoods(ctx context.Context, limit int) ([]inbound.FoodEntryDTO, error) {
	if limit <= 0 {
		limit = s.quickSelectLimit
	}

	entries, err := s.entryRepo.TopFrequent(ctx, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("find frequent foods", err)
	}

	dtos := make([]inbound.FoodEntryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = *s.entityToDTO(entry)
	}

	return dtos, nil
}

// GetGoals returns the active goal set, falling back to the defaults when
// nothing has been saved yet
func (s *NutritionService) GetGoals(ctx context.Context) (nutrition.NutritionGoals, error) {
	return s.activeGoals(ctx)
}

// GetProfile returns the active body profile, falling back to the defaults
// when nothing has been saved yet
func (s *NutritionService) GetProfile(ctx context.Context) (nutrition.UserProfile, error) {
	return s.activeProfile(ctx)
}

// RecommendedGoals derives daily targets from the active profile. The
// recommendation is advisory; nothing is saved until the user accepts it.
func (s *NutritionService) RecommendedGoals(ctx context.Context) (nutrition.NutritionGoals, error) {
	profile, err := s.activeProfile(ctx)
	if err != nil {
		return nutrition.NutritionGoals{}, err
	}

	return nutrition.RecommendedGoals(profile), nil
}

// BodyMetrics returns the display-only readouts derived from the active profile
func (s *NutritionService) BodyMetrics(ctx context.Context) (*inbound.BodyMetricsDTO, error) {
	profile, err := s.activeProfile(ctx)
	if err != nil {
		return nil, err
	}

	return &inbound.BodyMetricsDTO{
		BMR:          profile.BMR(),
		TDEE:         profile.TDEE(),
		BMI:          profile.BMI(),
		LeanBodyMass: profile.LeanBodyMass(),
	}, nil
}

// Helper methods

// buildEntry normalizes raw totals and constructs the domain entity
func (s *NutritionService) buildEntry(cmd inbound.LogFoodCommand) (*nutrition.FoodEntry, error) {
	rawTotals := nutrition.Macros{
		Calories: cmd.Calories,
		Protein:  cmd.Protein,
		Fat:      cmd.Fat,
		Carbs:    cmd.Carbs,
	}
	perPortion, count := nutrition.NormalizePortions(rawTotals, cmd.PortionCount)

	loggedAt := cmd.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = s.clock()
	}

	entry, err := nutrition.NewFoodEntry(cmd.Name, perPortion, loggedAt, count)
	if err != nil {
		return nil, err
	}

	if cmd.WeightGrams != nil {
		if err := entry.SetWeight(*cmd.WeightGrams); err != nil {
			return nil, err
		}
	}

	for _, estimate := range cmd.Sources {
		if err := entry.AddSourceEstimate(estimate); err != nil {
			return nil, err
		}
	}

	return entry, nil
}

// loadEntry fetches an entry and maps the not-found case
func (s *NutritionService) loadEntry(ctx context.Context, entryID uuid.UUID) (*nutrition.FoodEntry, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, errors.NewDatabaseError("find food entry", err)
	}
	if entry == nil {
		return nil, errors.NewEntryNotFoundError(entryID.String())
	}
	return entry, nil
}

// activeGoals reads the saved goals, substituting the defaults when no
// record exists
func (s *NutritionService) activeGoals(ctx context.Context) (nutrition.NutritionGoals, error) {
	goals, err := s.goalsRepo.Get(ctx)
	if err != nil {
		if err == outbound.ErrNoActiveRecord {
			return nutrition.DefaultGoals(), nil
		}
		return nutrition.NutritionGoals{}, errors.NewDatabaseError("get goals", err)
	}
	return goals, nil
}

// activeProfile reads the saved profile, substituting the defaults when no
// record exists
func (s *NutritionService) activeProfile(ctx context.Context) (nutrition.UserProfile, error) {
	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		if err == outbound.ErrNoActiveRecord {
			return nutrition.DefaultProfile(), nil
		}
		return nutrition.UserProfile{}, errors.NewDatabaseError("get profile", err)
	}
	return profile, nil
}

// isToday reports whether t falls within the current local calendar day
func (s *NutritionService) isToday(t time.Time) bool {
	start, end := nutrition.DayBounds(s.clock())
	return !t.Before(start) && t.Before(end)
}

// entityToDTO converts domain entity to DTO
func (s *NutritionService) entityToDTO(entity *nutrition.FoodEntry) *inbound.FoodEntryDTO {
	perPortion := entity.PerPortion()
	actual := entity.Actual()

	var sources []inbound.SourceEstimateDTO
	for _, estimate := range entity.SourceEstimates() {
		sources = append(sources, inbound.SourceEstimateDTO{
			Source:   estimate.Source,
			Calories: estimate.Macros.Calories,
			Protein:  estimate.Macros.Protein,
			Fat:      estimate.Macros.Fat,
			Carbs:    estimate.Macros.Carbs,
		})
	}

	return &inbound.FoodEntryDTO{
		ID:          entity.ID(),
		Name:        entity.Name(),
		ShortLabel:  entity.ShortLabel(),
		Calories:    perPortion.Calories,
		Protein:     perPortion.Protein,
		Fat:         perPortion.Fat,
		Carbs:       perPortion.Carbs,
		Portions:    entity.PortionCount(),
		ActualCal:   actual.Calories,
		ActualPro:   actual.Protein,
		ActualFat:   actual.Fat,
		ActualCarbs: actual.Carbs,
		WeightGrams: entity.WeightGrams(),
		Sources:     sources,
		LoggedAt:    entity.LoggedAt(),
	}
}

// summaryToDTO converts a daily summary to its DTO form
func summaryToDTO(summary nutrition.DailySummary) inbound.DailySummaryDTO {
	return inbound.DailySummaryDTO{
		Date:          summary.Date.Format("2006-01-02"),
		TotalCalories: summary.Totals.Calories,
		TotalProtein:  summary.Totals.Protein,
		TotalFat:      summary.Totals.Fat,
		TotalCarbs:    summary.Totals.Carbs,
		FoodCount:     summary.FoodCount,
		IsEmpty:       summary.IsEmpty(),
	}
}
