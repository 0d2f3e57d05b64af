package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-ticket-service/internal/config"
)

// Client is the language-model completion adapter. Every method returns the
// parsed result and ok=true, or ok=false when the model is unconfigured,
// unreachable, times out, or replies with something unparsable. It never
// returns an error; callers fall back to the offline heuristics on ok=false.
type Client interface {
	Available() bool
	CompleteText(ctx context.Context, prompt string) (string, bool)
	CompleteInt(ctx context.Context, prompt string, min, max int) (int, bool)
	CompleteFloat(ctx context.Context, prompt string, min, max float64) (float64, bool)
}

type openAIClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	logger     *zap.Logger
}

// NewClient builds the OpenAI-backed adapter. The HTTP client carries the
// configured timeout so a hung provider cannot stall ticket creation.
func NewClient(cfg config.OpenAIConfig, logger *zap.Logger) Client {
	return &openAIClient{
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		logger:     logger,
	}
}

func (c *openAIClient) Available() bool {
	return c.apiKey != ""
}

func (c *openAIClient) CompleteText(ctx context.Context, prompt string) (string, bool) {
	text, ok := c.call(ctx, prompt)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(text), true
}

func (c *openAIClient) CompleteInt(ctx context.Context, prompt string, min, max int) (int, bool) {
	text, ok := c.call(ctx, prompt)
	if !ok {
		return 0, false
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || parsed < min || parsed > max {
		return 0, false
	}
	return parsed, true
}

func (c *openAIClient) CompleteFloat(ctx context.Context, prompt string, min, max float64) (float64, bool) {
	text, ok := c.call(ctx, prompt)
	if !ok {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || parsed < min || parsed > max {
		return 0, false
	}
	return parsed, true
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You are a helpful AI assistant for customer support ticket analysis. Provide concise, accurate responses."

func (c *openAIClient) call(ctx context.Context, prompt string) (string, bool) {
	if !c.Available() {
		return "", false
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   150,
		Temperature: 0.1,
	})
	if err != nil {
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("completion call failed", zap.Error(err))
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("completion call rejected", zap.Int("status", resp.StatusCode))
		return "", false
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false
	}
	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil || len(parsed.Choices) == 0 {
		c.logger.Warn("completion response unparsable")
		return "", false
	}
	return parsed.Choices[0].Message.Content, true
}
