// Package openai is a minimal client for the OpenAI chat completions API,
// used as the conversational fallback for messages the directory resolver
// does not handle.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/navikon/atlasbot/internal/apperr"
	"github.com/navikon/atlasbot/internal/models"
)

// ServiceName is the identifier carried by ExternalAPI failures raised here.
const ServiceName = "OpenAI"

const defaultBaseURL = "https://api.openai.com/v1/chat/completions"

type chatRequest struct {
	Model       string           `json:"model"`
	Messages    []models.Message `json:"messages"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
	Temperature float64          `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message models.Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Client calls the chat completions endpoint. Safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	maxTokens   int
	temperature float64
}

// NewClient creates an OpenAI client with explicit configuration.
func NewClient(apiKey, model string, maxTokens int, temperature float64) *Client {
	const requestTimeout = 60 * time.Second

	return &Client{
		httpClient:  &http.Client{Timeout: requestTimeout},
		apiKey:      apiKey,
		model:       model,
		baseURL:     defaultBaseURL,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// WithBaseURL overrides the API endpoint, used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// Chat sends the system prompt plus the ordered history and returns the
// assistant reply. A blank reply is treated as a retryable failure, not a
// valid answer. All failures are ExternalAPI errors carrying ServiceName.
func (c *Client) Chat(ctx context.Context, systemPrompt string, history []models.Message) (string, error) {
	messages := make([]models.Message, 0, len(history)+1)
	messages = append(messages, models.Message{Role: models.RoleSystem, Content: systemPrompt})
	messages = append(messages, history...)

	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", apperr.ExternalAPI(ServiceName, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", apperr.ExternalAPI(ServiceName, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperr.ExternalAPI(ServiceName, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.ExternalAPI(ServiceName, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", apperr.ExternalAPI(ServiceName, fmt.Errorf("API returned status %d", resp.StatusCode))
	}

	var parsed chatResponse
	if err = json.Unmarshal(body, &parsed); err != nil {
		return "", apperr.ExternalAPI(ServiceName, fmt.Errorf("failed to parse response: %w", err))
	}

	if parsed.Error != nil {
		return "", apperr.ExternalAPI(ServiceName,
			fmt.Errorf("API error: %s - %s", parsed.Error.Type, parsed.Error.Message))
	}

	if len(parsed.Choices) == 0 {
		return "", apperr.ExternalAPI(ServiceName, fmt.Errorf("API returned no choices"))
	}

	reply := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if reply == "" {
		return "", apperr.ExternalAPI(ServiceName, fmt.Errorf("API returned an empty reply"))
	}

	return reply, nil
}
