// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/macrolog/v1/internal/domain/nutrition"
	"github.com/macrolog/v1/internal/ports/inbound"
	"github.com/macrolog/v1/pkg/errors"
)

// APIHandlers handles REST API requests
type APIHandlers struct {
	nutritionService inbound.NutritionService
	logger           *zap.Logger
	validate         *validator.Validate
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(
	nutritionService inbound.NutritionService,
	logger *zap.Logger,
) *APIHandlers {
	return &APIHandlers{
		nutritionService: nutritionService,
		logger:           logger,
		validate:         validator.New(),
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Request payloads

type logFoodRequest struct {
	Name         string   `json:"name" validate:"required,max=100"`
	Calories     float64  `json:"calories" validate:"gte=0"`
	Protein      float64  `json:"protein" validate:"gte=0"`
	Fat          float64  `json:"fat" validate:"gte=0"`
	Carbs        float64  `json:"carbs" validate:"gte=0"`
	PortionCount float64  `json:"portion_count"`
	LoggedAt     *string  `json:"logged_at,omitempty"`
	WeightGrams  *float64 `json:"weight_grams,omitempty" validate:"omitempty,gt=0"`
	Sources      []struct {
		Source   string  `json:"source" validate:"required"`
		Calories float64 `json:"calories" validate:"gte=0"`
		Protein  float64 `json:"protein" validate:"gte=0"`
		Fat      float64 `json:"fat" validate:"gte=0"`
		Carbs    float64 `json:"carbs" validate:"gte=0"`
	} `json:"sources,omitempty" validate:"dive"`
}

type logFoodBatchRequest struct {
	Foods []logFoodRequest `json:"foods" validate:"required,min=1,dive"`
}

type adjustPortionsRequest struct {
	Delta float64 `json:"delta" validate:"required"`
}

type updateEntryRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	ShortLabel *string `json:"short_label,omitempty" validate:"omitempty,max=50"`
}

type saveGoalsRequest struct {
	DailyCalories float64 `json:"daily_calories" validate:"gte=0"`
	DailyProtein  float64 `json:"daily_protein" validate:"gte=0"`
	DailyFat      float64 `json:"daily_fat" validate:"gte=0"`
}

type saveProfileRequest struct {
	Age               int     `json:"age" validate:"required,gt=0,lte=120"`
	Gender            string  `json:"gender" validate:"required,oneof=male female"`
	WeightKg          float64 `json:"weight_kg" validate:"required,gt=0"`
	BodyFatPercentage float64 `json:"body_fat_percentage" validate:"gte=0,lt=100"`
	HeightCm          float64 `json:"height_cm" validate:"required,gt=0"`
	FitnessGoal       string  `json:"fitness_goal" validate:"required,oneof=build_muscle lose_fat"`
}

// LogFood handles POST /api/v1/entries
func (h *APIHandlers) LogFood(w http.ResponseWriter, r *http.Request) {
	var req logFoodRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	cmd, err := h.toLogFoodCommand(req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	dto, err := h.nutritionService.LogFood(r.Context(), cmd)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Data:    dto,
		Message: "Food logged successfully",
	})
}

// LogFoodBatch handles POST /api/v1/entries/batch
func (h *APIHandlers) LogFoodBatch(w http.ResponseWriter, r *http.Request) {
	var req logFoodBatchRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	cmds := make([]inbound.LogFoodCommand, 0, len(req.Foods))
	for _, food := range req.Foods {
		cmd, err := h.toLogFoodCommand(food)
		if err != nil {
			h.writeError(w, err)
			return
		}
		cmds = append(cmds, cmd)
	}

	dtos, err := h.nutritionService.LogFoods(r.Context(), cmds)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Data:    dtos,
		Message: "Foods logged successfully",
	})
}

// ListDay handles GET /api/v1/entries
func (h *APIHandlers) ListDay(w http.ResponseWriter, r *http.Request) {
	date, ok := h.queryDate(w, r, "date")
	if !ok {
		return
	}

	dtos, err := h.nutritionService.ListDay(r.Context(), date)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    dtos,
	})
}

// AdjustPortions handles PATCH /api/v1/entries/{id}/portions
func (h *APIHandlers) AdjustPortions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req adjustPortionsRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.nutritionService.AdjustEntryPortions(r.Context(), id, req.Delta)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    dto,
		Message: "Portions adjusted successfully",
	})
}

// UpdateEntry handles PATCH /api/v1/entries/{id}
func (h *APIHandlers) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req updateEntryRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if req.Name == nil && req.ShortLabel == nil {
		h.writeError(w, errors.NewBadRequestError("nothing to update"))
		return
	}

	var dto *inbound.FoodEntryDTO
	var err error

	if req.Name != nil {
		dto, err = h.nutritionService.RenameEntry(r.Context(), id, *req.Name)
		if err != nil {
			h.writeError(w, err)
			return
		}
	}

	if req.ShortLabel != nil {
		dto, err = h.nutritionService.UpdateEntryShortLabel(r.Context(), id, *req.ShortLabel)
		if err != nil {
			h.writeError(w, err)
			return
		}
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    dto,
		Message: "Entry updated successfully",
	})
}

// DeleteEntry handles DELETE /api/v1/entries/{id}
func (h *APIHandlers) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.nutritionService.DeleteEntry(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Entry deleted successfully",
	})
}

// DaySummary handles GET /api/v1/day/summary
func (h *APIHandlers) DaySummary(w http.ResponseWriter, r *http.Request) {
	date, ok := h.queryDate(w, r, "date")
	if !ok {
		return
	}

	summary, err := h.nutritionService.DaySummary(r.Context(), date)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    summary,
	})
}

// DayProgress handles GET /api/v1/day/progress
func (h *APIHandlers) DayProgress(w http.ResponseWriter, r *http.Request) {
	date, ok := h.queryDate(w, r, "date")
	if !ok {
		return
	}

	progress, err := h.nutritionService.DayProgress(r.Context(), date)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    progress,
	})
}

// WeekOverview handles GET /api/v1/week
func (h *APIHandlers) WeekOverview(w http.ResponseWriter, r *http.Request) {
	ending, ok := h.queryDate(w, r, "ending")
	if !ok {
		return
	}

	days, err := h.nutritionService.WeekOverview(r.Context(), ending)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    days,
	})
}

// SearchFoods handles GET /api/v1/foods/search
func (h *APIHandlers) SearchFoods(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	dtos, err := h.nutritionService.SearchFoods(r.Context(), query)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    dtos,
	})
}

// QuickSelectFoods handles GET /api/v1/foods/quick-select
func (h *APIHandlers) QuickSelectFoods(w http.ResponseWriter, r *http.Request) {
	dtos, err := h.nutritionService.QuickSelectFoods(r.Context(), 0)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    dtos,
	})
}

// GetGoals handles GET /api/v1/goals
func (h *APIHandlers) GetGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.nutritionService.GetGoals(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    goals,
	})
}

// SaveGoals handles PUT /api/v1/goals
func (h *APIHandlers) SaveGoals(w http.ResponseWriter, r *http.Request) {
	var req saveGoalsRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.nutritionService.SaveGoals(r.Context(), inbound.SaveGoalsCommand{
		DailyCalories: req.DailyCalories,
		DailyProtein:  req.DailyProtein,
		DailyFat:      req.DailyFat,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Goals saved successfully",
	})
}

// GetProfile handles GET /api/v1/profile
func (h *APIHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.nutritionService.GetProfile(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    profile,
	})
}

// SaveProfile handles PUT /api/v1/profile
func (h *APIHandlers) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var req saveProfileRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.nutritionService.SaveProfile(r.Context(), inbound.SaveProfileCommand{
		Age:               req.Age,
		Gender:            nutrition.Gender(req.Gender),
		WeightKg:          req.WeightKg,
		BodyFatPercentage: req.BodyFatPercentage,
		HeightCm:          req.HeightCm,
		FitnessGoal:       nutrition.FitnessGoal(req.FitnessGoal),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Profile saved successfully",
	})
}

// RecommendedGoals handles GET /api/v1/goals/recommended
func (h *APIHandlers) RecommendedGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.nutritionService.RecommendedGoals(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    goals,
	})
}

// BodyMetrics handles GET /api/v1/profile/metrics
func (h *APIHandlers) BodyMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.nutritionService.BodyMetrics(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    metrics,
	})
}

// HealthCheck handles GET /api/v1/health
func (h *APIHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		},
		Message: "Service is healthy",
	})
}

// Helper methods

// toLogFoodCommand converts a request payload to the service command
func (h *APIHandlers) toLogFoodCommand(req logFoodRequest) (inbound.LogFoodCommand, error) {
	cmd := inbound.LogFoodCommand{
		Name:         req.Name,
		Calories:     req.Calories,
		Protein:      req.Protein,
		Fat:          req.Fat,
		Carbs:        req.Carbs,
		PortionCount: req.PortionCount,
		WeightGrams:  req.WeightGrams,
	}

	if req.LoggedAt != nil {
		loggedAt, err := time.Parse(time.RFC3339, *req.LoggedAt)
		if err != nil {
			return inbound.LogFoodCommand{}, errors.NewBadRequestError("logged_at must be RFC3339")
		}
		cmd.LoggedAt = loggedAt
	}

	for _, source := range req.Sources {
		cmd.Sources = append(cmd.Sources, nutrition.SourceEstimate{
			Source: source.Source,
			Macros: nutrition.Macros{
				Calories: source.Calories,
				Protein:  source.Protein,
				Fat:      source.Fat,
				Carbs:    source.Carbs,
			},
		})
	}

	return cmd, nil
}

// decodeAndValidate decodes the JSON body and runs struct validation.
// On failure it writes the error response and returns false.
func (h *APIHandlers) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, errors.NewBadRequestError("invalid JSON body"))
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		h.writeError(w, errors.NewValidationError(err.Error()))
		return false
	}

	return true
}

// queryDate parses an optional YYYY-MM-DD query parameter, defaulting to today
func (h *APIHandlers) queryDate(w http.ResponseWriter, r *http.Request, param string) (time.Time, bool) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return time.Now(), true
	}

	date, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		h.writeError(w, errors.NewBadRequestError(param+" must be YYYY-MM-DD"))
		return time.Time{}, false
	}

	return date, true
}

// pathID parses the {id} path parameter
func (h *APIHandlers) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, errors.NewBadRequestError("invalid entry id"))
		return uuid.Nil, false
	}
	return id, true
}

// writeJSON writes a JSON response
func (h *APIHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// writeError maps an application error to its HTTP response
func (h *APIHandlers) writeError(w http.ResponseWriter, err error) {
	appErr := errors.Wrap(err, "request failed")

	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.Error(err))
	}

	h.writeJSON(w, appErr.StatusCode(), APIResponse{
		Success: false,
		Error:   appErr.Message,
	})
}
