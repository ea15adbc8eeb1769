// Package agent provides the transport to the remote analysis and
// notification agents and the service that drives the record lifecycle.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"stockpulse/internal/logging"
)

// Transport defines the two remote agent calls. Implementations return
// whatever the agent produced; callers treat the analysis payload strictly
// as envelope input and never rely on its shape.
type Transport interface {
	// Analyze submits a natural-language instruction to the analysis
	// coordinator and returns the raw response envelope.
	Analyze(ctx context.Context, instruction string) (json.RawMessage, error)
	// Notify submits an alert instruction to the notification agent and
	// returns its success indicator or error message.
	Notify(ctx context.Context, instruction string) (*NotifyResult, error)
}

// NotifyResult is the notification agent's logical outcome. A false
// Success with a populated Error is a notification failure, distinct from
// a transport failure.
type NotifyResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

const (
	analysisSystemPrompt = `You are a stock analysis coordinator. Respond with a JSON object
holding a "stocks" array (ticker, company_name, current_price, technical_score,
technical_signal, fundamental_score, fundamental_assessment, overall_score,
recommendation, confidence, technical_highlights, fundamental_highlights,
risk_factors, conflicting_signals), an "analysis_summary", and a "market_context".`

	notifySystemPrompt = `You are an email alert agent. Send the requested investment alert and
respond with a JSON object holding "success" (boolean) and, on failure, "error" (string).`
)

// OpenAIClient implements Transport using the OpenAI API.
type OpenAIClient struct {
	client              *openai.Client
	model               string
	analysisAgentID     string
	notificationAgentID string
	logger              zerolog.Logger
}

// NewOpenAIClient creates a new OpenAI-backed agent transport.
func NewOpenAIClient(apiKey, model, analysisAgentID, notificationAgentID string, logger zerolog.Logger) *OpenAIClient {
	return &OpenAIClient{
		client:              openai.NewClient(apiKey),
		model:               model,
		analysisAgentID:     analysisAgentID,
		notificationAgentID: notificationAgentID,
		logger:              logger,
	}
}

// Analyze sends the instruction to the analysis coordinator. The model's
// reply text is wrapped as a raw_response envelope; the unwrapper is
// responsible for locating the payload inside it.
func (c *OpenAIClient) Analyze(ctx context.Context, instruction string) (json.RawMessage, error) {
	content, err := c.complete(ctx, c.analysisAgentID, analysisSystemPrompt, instruction)
	if err != nil {
		return nil, err
	}
	env, err := json.Marshal(map[string]any{"raw_response": content})
	if err != nil {
		return nil, fmt.Errorf("encoding envelope: %w", err)
	}
	return env, nil
}

// Notify sends the alert instruction to the notification agent and decodes
// its success indicator. A reply that is not JSON is taken as success with
// the reply text discarded, matching the agent's loose contract.
func (c *OpenAIClient) Notify(ctx context.Context, instruction string) (*NotifyResult, error) {
	content, err := c.complete(ctx, c.notificationAgentID, notifySystemPrompt, instruction)
	if err != nil {
		return nil, err
	}
	res := &NotifyResult{Success: true}
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal([]byte(trimmed), res); err != nil {
			res = &NotifyResult{Success: true}
		}
	}
	return res, nil
}

func (c *OpenAIClient) complete(ctx context.Context, agentID, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	logging.LogAgentCall(c.logger, agentID, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("agent completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from agent %s", agentID)
	}
	return resp.Choices[0].Message.Content, nil
}
