package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the generative language API base URL.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client is a minimal HTTP client for the generative language API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	debug      bool
}

// Config holds client construction parameters.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewClient constructs a new client with sane defaults.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		debug:      os.Getenv("ENV") == "development",
	}
}

// GenerateContent runs one grounded generation: a system instruction, a user
// prompt, web-search tooling enabled, and a fixed low temperature.
func (c *Client) GenerateContent(ctx context.Context, systemInstruction, prompt string, temperature float64) (*GenerateResponse, error) {
	req := GenerateRequest{
		Contents: []Content{
			{Role: "user", Parts: []Part{{Text: prompt}}},
		},
		SystemInstruction: &Content{Parts: []Part{{Text: systemInstruction}}},
		Tools:             []Tool{{GoogleSearch: &struct{}{}}},
		GenerationConfig:  &GenerationConfig{Temperature: temperature},
	}

	var resp GenerateResponse
	endpoint := fmt.Sprintf("/models/%s:generateContent", c.model)
	if err := c.doRequest(ctx, endpoint, req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("provider error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	return &resp, nil
}

// doRequest performs the HTTP POST with JSON payloads and decodes the JSON
// response into result.
func (c *Client) doRequest(ctx context.Context, endpoint string, body any, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	// Debug logging for development
	if c.debug {
		log.Debug().
			Str("endpoint", c.baseURL+endpoint).
			Int("payload_bytes", len(payload)).
			Msg("[GENAI] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			Int("response_bytes", len(respBody)).
			Msg("[GENAI] Incoming response")
	}

	// The API returns errors encapsulated in JSON; decode regardless of
	// status code to surface any error message.
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}
