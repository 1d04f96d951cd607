package keywords

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/swetasamaddar-clear/document-finder/internal/config"
)

// MaxInputChars is how many runes of the content are sent for extraction.
const MaxInputChars = 2000

const systemPrompt = "You extract search keywords from web pages."

// ExtractionError is returned for every failed extraction. Message is safe to show to callers.
type ExtractionError struct {
	Message string
	Err     error
}

func (e *ExtractionError) Error() string { return e.Message }

func (e *ExtractionError) Unwrap() error { return e.Err }

func failf(err error, format string, v ...interface{}) *ExtractionError {
	return &ExtractionError{Message: fmt.Sprintf(format, v...), Err: err}
}

// Client calls the OpenAI chat completions API to derive a comma separated keyword list.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// New creates a Client. A nil httpClient means http.DefaultClient.
func New(cfg config.OpenAIConfig, httpClient *http.Client) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key not set")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
	}
	if c.model == "" {
		c.model = "gpt-3.5-turbo"
	}
	if c.baseURL == "" {
		c.baseURL = "https://api.openai.com/v1"
	}
	return c, nil
}

// Extract returns 5-10 comma separated keywords for text. Any failure is an *ExtractionError.
func (c *Client) Extract(ctx context.Context, text string) (string, error) {
	input := Prepare(text)
	out, err := c.complete(ctx, buildPrompt(input))
	if err != nil {
		return "", err
	}
	tags := normalize(out)
	if tags == "" {
		return "", failf(nil, "keyword extraction returned no keywords")
	}
	return tags, nil
}

func buildPrompt(input string) string {
	var sb strings.Builder
	sb.WriteString("Extract 5-10 relevant keywords or short phrases from the following content.\n")
	sb.WriteString("Return them as a single comma-separated line, lowercase, with no numbering and no other text.\n\n")
	sb.WriteString("Content:\n")
	sb.WriteString(input)
	return sb.String()
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
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   100,
		Temperature: 0.3,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", failf(err, "marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", failf(err, "create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", failf(err, "openai request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", failf(err, "read response: %v", err)
	}

	var apiResp chatResponse
	decodeErr := json.Unmarshal(body, &apiResp)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && apiResp.Error != nil && apiResp.Error.Message != "" {
			return "", failf(nil, "openai error (status %d): %s", resp.StatusCode, apiResp.Error.Message)
		}
		return "", failf(nil, "openai error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if decodeErr != nil {
		return "", failf(decodeErr, "unmarshal response: %v", decodeErr)
	}
	if apiResp.Error != nil {
		return "", failf(nil, "openai error: %s", apiResp.Error.Message)
	}
	if len(apiResp.Choices) == 0 {
		return "", failf(nil, "no response from OpenAI")
	}
	return apiResp.Choices[0].Message.Content, nil
}

// normalize trims the completion and drops empty items so "a, , b," becomes "a, b".
func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'`")
	parts := strings.Split(strings.ReplaceAll(s, "\n", ","), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
