package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPClient talks to the conversational capability over HTTP.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Ensure HTTPClient implements Client interface.
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a new HTTP agent client. The timeout bounds the full
// round trip; per-call contexts may shorten it further.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type converseRequest struct {
	SessionID   string `json:"session_id"`
	Instruction string `json:"instruction"`
}

type converseResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error,omitempty"`
}

// Converse implements Client.
func (c *HTTPClient) Converse(ctx context.Context, sessionID, instruction string) (string, error) {
	body, err := json.Marshal(converseRequest{SessionID: sessionID, Instruction: instruction})
	if err != nil {
		return "", fmt.Errorf("failed to marshal converse request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/converse", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("agent request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read agent response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("agent returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed converseResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode agent response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("agent error: %s", parsed.Error)
	}
	return parsed.Reply, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
