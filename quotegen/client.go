// Package quotegen generates a user's personalized motivational quote
// set from their onboarding survey answers via an LLM chat endpoint.
package quotegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/nurtra/nurtra/store"
	"github.com/nurtra/nurtra/survey"
)

// DefaultBaseURL is the OpenAI chat completions endpoint.
const DefaultBaseURL = "https://api.openai.com/v1/chat/completions"

// DefaultModel is the chat model used for quote generation.
const DefaultModel = "gpt-3.5-turbo"

var (
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("quotegen: API key is not configured")
	// ErrInvalidResponse is returned when the API reply cannot be used.
	ErrInvalidResponse = errors.New("quotegen: invalid response from API")
	// ErrInsufficientQuotes is returned when the model produced fewer
	// quotes than a full set.
	ErrInsufficientQuotes = errors.New("quotegen: did not receive enough quotes")
)

// ClientConfig configures the generation client.
type ClientConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client talks to the chat completions API.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// NewClient builds a generation client, filling config defaults.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.9
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You are a compassionate therapist specializing in eating " +
	"disorder recovery. Generate personalized, empowering motivational quotes " +
	"that are unique, varied, and authentic."

// Generate produces exactly store.MaxQuotes quotes personalized to the
// survey responses. userName may be empty.
func (c *Client) Generate(ctx context.Context, responses survey.OnboardingResponses, userName string) ([]string, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(responses, userName)},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(parsed.Choices) == 0 {
		return nil, ErrInvalidResponse
	}

	return ParseQuotes(parsed.Choices[0].Message.Content)
}

var numberedLine = regexp.MustCompile(`^\d+\.\s*`)

// ParseQuotes extracts quotes from a numbered-list completion. The model
// is asked for a full set; fewer is an error, extras are dropped.
func ParseQuotes(content string) ([]string, error) {
	quotes := make([]string, 0, store.MaxQuotes)
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		loc := numberedLine.FindStringIndex(trimmed)
		if loc == nil {
			continue
		}
		quote := strings.TrimSpace(trimmed[loc[1]:])
		if quote == "" {
			continue
		}
		quotes = append(quotes, quote)
	}
	if len(quotes) < store.MaxQuotes {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInsufficientQuotes, len(quotes), store.MaxQuotes)
	}
	return quotes[:store.MaxQuotes], nil
}
