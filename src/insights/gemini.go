package insights

import (
	"context"
	"encoding/json"
	"time"

	"google.golang.org/genai"

	"github.com/username/cifra/src/logger"
	"github.com/username/cifra/src/models"
)

// insightSchema constrains the model to the exact response shape we parse.
var insightSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"insights": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":       {Type: genai.TypeString},
					"description": {Type: genai.TypeString},
					"type": {
						Type: genai.TypeString,
						Enum: []string{"alert", "success", "info"},
					},
				},
				Required: []string{"title", "description", "type"},
			},
		},
	},
	Required: []string{"insights"},
}

// GeminiDelegate generates insights with a single Gemini call per request.
// One attempt, no retries: on any failure the static fallback is returned.
type GeminiDelegate struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiDelegate initializes the Gemini client from the ambient
// environment (GEMINI_API_KEY etc.).
func NewGeminiDelegate(ctx context.Context, model string, timeout time.Duration) (*GeminiDelegate, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &GeminiDelegate{client: client, model: model, timeout: timeout}, nil
}

func (d *GeminiDelegate) GenerateInsights(ctx context.Context, txs []models.Transaction, profile models.UserProfile) []models.AIInsight {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   insightSchema,
	}
	resp, err := d.client.Models.GenerateContent(ctx, d.model, genai.Text(buildPrompt(txs, profile)), cfg)
	if err != nil {
		if logger.L != nil {
			logger.L.Warn("Insight generation failed, serving fallback", "userID", profile.ID, "error", err)
		}
		return FallbackInsights()
	}

	var payload struct {
		Insights []models.AIInsight `json:"insights"`
	}
	if err := json.Unmarshal([]byte(resp.Text()), &payload); err != nil {
		if logger.L != nil {
			logger.L.Warn("Insight response was not valid JSON, serving fallback", "userID", profile.ID, "error", err)
		}
		return FallbackInsights()
	}

	valid := make([]models.AIInsight, 0, len(payload.Insights))
	for _, in := range payload.Insights {
		if in.Valid() {
			valid = append(valid, in)
		}
	}
	if len(valid) == 0 {
		return FallbackInsights()
	}
	return valid
}
