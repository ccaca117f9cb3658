// Package ai turns analysis results into narrative text with an LLM.
package ai

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"insightengine/domain/analysis"
	"insightengine/internal/config"
	"insightengine/internal/errors"
)

const systemPrompt = "You are a data analyst. Given JSON statistics computed " +
	"from an uploaded dataset, write a short markdown report for a business " +
	"reader: headline findings first, then notable correlations, time " +
	"patterns, product associations, and data quality caveats. Only state " +
	"what the numbers support."

// InsightClient generates narrative insights via the OpenAI chat API.
type InsightClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewInsightClient creates a narrative client, or nil when no API key is
// configured so callers can fall back to templated text.
func NewInsightClient(cfg config.AIConfig) *InsightClient {
	if cfg.OpenAIKey == "" {
		return nil
	}
	return &InsightClient{
		client:      openai.NewClient(cfg.OpenAIKey),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
	}
}

// Narrative asks the model for a markdown report grounded in the result's
// statistics. Any failure is returned for the caller to fall back on.
func (c *InsightClient) Narrative(ctx context.Context, result *analysis.Result) (string, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode statistics for narrative")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Dataset statistics:\n%s", payload)},
		},
	})
	if err != nil {
		return "", errors.ExternalServiceError("openai", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.ExternalServiceError("openai", fmt.Errorf("empty completion response"))
	}
	return resp.Choices[0].Message.Content, nil
}
