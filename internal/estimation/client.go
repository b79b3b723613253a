// Package estimation talks to an external text-completion endpoint to guess
// nutrition facts for foods the catalogue does not know yet.
package estimation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"macrolog/internal/config"
	"macrolog/internal/model"

	"github.com/rs/zerolog"
)

// Estimator produces nutrition estimates for free-text food descriptions.
type Estimator interface {
	// Estimate sends the description to the completion service and decodes
	// a nutrition estimate from its reply. Exactly one external call per
	// invocation; no internal retry.
	Estimate(ctx context.Context, description string) (*model.NutritionEstimate, error)
}

const systemPrompt = `You are a nutrition facts assistant. Given a food description, ` +
	`respond with a single JSON object and nothing else, using exactly these keys: ` +
	`{"food_name": string, "protein": grams as a number, "calories": number, ` +
	`"carbs": grams as a number, "fat": grams as a number, ` +
	`"measurement": "weight" or "volume", "serving_size": number, "unit": string}. ` +
	`Estimate for the whole described portion. Do not add commentary.`

// Client calls a chat-completion style HTTP endpoint. The reply content is
// untrusted free text; decoding is handled by DecodeEstimate.
type Client struct {
	httpClient *http.Client
	cfg        config.EstimatorConfig
	logger     zerolog.Logger
}

// NewClient creates an estimation client with an explicit bounded timeout.
func NewClient(cfg config.EstimatorConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     logger.With().Str("client", "estimation").Logger(),
	}
}

type completionRequest struct {
	Model            string              `json:"model"`
	Messages         []completionMessage `json:"messages"`
	Temperature      float64             `json:"temperature"`
	MaxTokens        int                 `json:"max_tokens"`
	TopP             float64             `json:"top_p"`
	FrequencyPenalty float64             `json:"frequency_penalty"`
	PresencePenalty  float64             `json:"presence_penalty"`
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one user message to the completion endpoint and returns the
// raw reply text. Upstream failures are opaque: the endpoint gives no
// structured error body, so only the status is reported.
func (c *Client) Complete(ctx context.Context, userText string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model: c.cfg.Model,
		Messages: []completionMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userText},
		},
		Temperature:      c.cfg.Temperature,
		MaxTokens:        c.cfg.MaxTokens,
		TopP:             1,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("completion request failed with status %d", resp.StatusCode)
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// Estimate asks the completion service for nutrition facts and decodes the
// reply. Any transport or decode failure surfaces as ErrEstimationFailed;
// the caller decides whether to offer a retry.
func (c *Client) Estimate(ctx context.Context, description string) (*model.NutritionEstimate, error) {
	if strings.TrimSpace(description) == "" {
		return nil, model.ErrValidationRejected
	}

	raw, err := c.Complete(ctx, fmt.Sprintf("Estimate the nutrition facts for: %s", description))
	if err != nil {
		c.logger.Warn().Err(err).Str("description", description).Msg("completion call failed")
		return nil, model.ErrEstimationFailed
	}

	estimate, err := DecodeEstimate(raw)
	if err != nil {
		c.logger.Warn().Err(err).Str("description", description).Msg("completion output not usable")
		return nil, model.ErrEstimationFailed
	}

	if estimate.Partial() {
		c.logger.Debug().
			Strs("defaulted_fields", estimate.DefaultedFields).
			Str("food_name", estimate.FoodName).
			Msg("estimate decoded with defaulted fields")
	}

	return &estimate, nil
}
