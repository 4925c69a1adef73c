// Package handlers provides HTTP handlers for the macro analysis endpoints
package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/macrolog/v1/internal/ports/inbound"
	"github.com/macrolog/v1/pkg/errors"
)

// AIAPIHandlers handles the analysis API requests
type AIAPIHandlers struct {
	estimatorService inbound.EstimatorService
	logger           *zap.Logger
	validate         *validator.Validate
	maxImageBytes    int64
}

// NewAIAPIHandlers creates a new AI API handlers instance
func NewAIAPIHandlers(
	estimatorService inbound.EstimatorService,
	maxImageBytes int64,
	logger *zap.Logger,
) *AIAPIHandlers {
	return &AIAPIHandlers{
		estimatorService: estimatorService,
		logger:           logger,
		validate:         validator.New(),
		maxImageBytes:    maxImageBytes,
	}
}

type analyzeImageRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
}

type analyzeTextRequest struct {
	Query string `json:"query" validate:"required,max=500"`
}

// AnalyzeImage handles POST /api/v1/analyze/image
func (h *AIAPIHandlers) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageBytes)

	var req analyzeImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.NewBadRequestError("invalid JSON body"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.writeError(w, errors.NewValidationError(err.Error()))
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		h.writeError(w, errors.NewBadRequestError("image_base64 is not valid base64"))
		return
	}

	estimate, err := h.estimatorService.AnalyzeImage(r.Context(), image)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    estimate,
		Message: "Image analyzed successfully",
	})
}

// AnalyzeText handles POST /api/v1/analyze/text
func (h *AIAPIHandlers) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req analyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.NewBadRequestError("invalid JSON body"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.writeError(w, errors.NewValidationError(err.Error()))
		return
	}

	estimate, err := h.estimatorService.AnalyzeText(r.Context(), req.Query)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    estimate,
		Message: "Text analyzed successfully",
	})
}

// writeJSON writes a JSON response
func (h *AIAPIHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// writeError maps an application error to its HTTP response
func (h *AIAPIHandlers) writeError(w http.ResponseWriter, err error) {
	appErr := errors.Wrap(err, "request failed")

	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.Error(err))
	}

	h.writeJSON(w, appErr.StatusCode(), APIResponse{
		Success: false,
		Error:   appErr.Message,
	})
}
