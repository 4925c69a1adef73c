// Package gemini provides Google Gemini integration for macro estimation
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/macrolog/v1/internal/ports/outbound"
	"github.com/macrolog/v1/pkg/errors"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1"
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 30 * time.Second

	// Low temperature keeps the macro numbers stable across retries
	generationTemperature = 0.2
)

const imagePrompt = `This is a photo of food. Respond with ONLY a valid JSON object in this exact format, no other text: {"name": "dish name", "calories": 0, "protein": 0, "fat": 0, "carbs": 0, "weight_grams": 0}. Values are for the whole visible serving; weight_grams is your estimate of its weight.`

const textPromptFormat = `Estimate the nutrition of the following meal description. Respond with ONLY a valid JSON object in this exact format, no other text: {"name": "dish name", "calories": 0, "protein": 0, "fat": 0, "carbs": 0}. Meal: %s`

// Client implements the MacroEstimator interface using the Gemini API
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a new Gemini client. An empty model or non-positive
// timeout falls back to the defaults.
func NewClient(apiKey, model string, timeout time.Duration, logger *zap.Logger) *Client {
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   model,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("gemini-client"),
	}
}

// Gemini API structures

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

// estimatePayload is the JSON object the model is instructed to return
type estimatePayload struct {
	Name        string   `json:"name"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Fat         float64  `json:"fat"`
	Carbs       float64  `json:"carbs"`
	WeightGrams *float64 `json:"weight_grams,omitempty"`
}

// EstimateFromImage estimates macros from a JPEG photo of food
func (c *Client) EstimateFromImage(ctx context.Context, imageJPEG []byte) (*outbound.MacroEstimate, error) {
	c.logger.Info("Starting image analysis",
		zap.Int("image_bytes", len(imageJPEG)),
	)

	request := generateContentRequest{
		Contents: []content{
			{
				Parts: []part{
					{Text: imagePrompt},
					{
						InlineData: &inlineData{
							MimeType: "image/jpeg",
							Data:     base64.StdEncoding.EncodeToString(imageJPEG),
						},
					},
				},
			},
		},
		GenerationConfig: &generationConfig{Temperature: generationTemperature},
	}

	return c.generate(ctx, request)
}

// EstimateFromText estimates macros from a free-text meal description
func (c *Client) EstimateFromText(ctx context.Context, query string) (*outbound.MacroEstimate, error) {
	c.logger.Info("Starting text analysis",
		zap.String("query", query),
	)

	request := generateContentRequest{
		Contents: []content{
			{
				Parts: []part{
					{Text: fmt.Sprintf(textPromptFormat, query)},
				},
			},
		},
		GenerationConfig: &generationConfig{Temperature: generationTemperature},
	}

	return c.generate(ctx, request)
}

// generate calls the API and parses the model's answer. Any failure is
// surfaced to the caller; macro values are never invented locally.
func (c *Client) generate(ctx context.Context, request generateContentRequest) (*outbound.MacroEstimate, error) {
	if c.apiKey == "" {
		return nil, errors.NewExternalServiceError("gemini", fmt.Errorf("API key not configured"))
	}

	text, err := c.callGemini(ctx, request)
	if err != nil {
		c.logger.Error("Gemini API call failed", zap.Error(err))
		return nil, errors.NewExternalServiceError("gemini", err)
	}

	estimate, err := parseEstimate(text)
	if err != nil {
		c.logger.Error("Failed to parse Gemini response",
			zap.Error(err),
			zap.String("text", text),
		)
		return nil, err
	}

	c.logger.Info("Analysis complete",
		zap.String("name", estimate.Name),
		zap.Float64("calories", estimate.Calories),
	)

	return estimate, nil
}

// callGemini makes the actual API call and extracts the first candidate text
func (c *Client) callGemini(ctx context.Context, request generateContentRequest) (string, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var response generateContentResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("response contains no candidates")
	}

	return response.Candidates[0].Content.Parts[0].Text, nil
}

// parseEstimate extracts the JSON object from the model's answer. The model
// sometimes wraps it in a markdown code fence or surrounds it with prose.
func parseEstimate(text string) (*outbound.MacroEstimate, error) {
	jsonText := extractJSON(text)
	if jsonText == "" {
		return nil, errors.NewEstimateInvalidError("no JSON object found in model response")
	}

	var payload estimatePayload
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return nil, errors.NewEstimateInvalidError(fmt.Sprintf("malformed JSON in model response: %v", err))
	}

	if payload.Name == "" {
		return nil, errors.NewEstimateInvalidError("model response is missing the food name")
	}
	if payload.Calories < 0 || payload.Protein < 0 || payload.Fat < 0 || payload.Carbs < 0 {
		return nil, errors.NewEstimateInvalidError("model response contains negative macro values")
	}

	return &outbound.MacroEstimate{
		Name:        payload.Name,
		Calories:    payload.Calories,
		Protein:     payload.Protein,
		Fat:         payload.Fat,
		Carbs:       payload.Carbs,
		WeightGrams: payload.WeightGrams,
	}, nil
}

// extractJSON strips markdown code fences and returns the outermost JSON
// object within the text, or an empty string when none is present
func extractJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.Index(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}

	return text[start : end+1]
}
