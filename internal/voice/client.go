// Package voice is a client for the voice-agent platform that runs the live interview call.
package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Message is one entry of a call's message log. The platform is inconsistent about
// which field carries the speaker, so the auxiliary fields are kept for role inference.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Message string `json:"message"`
	Speaker string `json:"speaker,omitempty"`
	Name    string `json:"name,omitempty"`
	Source  string `json:"source,omitempty"`
	Type    string `json:"type,omitempty"`
}

// Text returns the spoken text of the message.
func (m Message) Text() string {
	if strings.TrimSpace(m.Content) != "" {
		return strings.TrimSpace(m.Content)
	}
	return strings.TrimSpace(m.Message)
}

// Artifact holds the recording artifacts attached to a finished call.
type Artifact struct {
	Messages   []Message `json:"messages"`
	Transcript string    `json:"transcript"`
}

// Call is the platform's record of an interview call.
type Call struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	Messages   []Message `json:"messages"`
	Transcript string    `json:"transcript"`
	Artifact   *Artifact `json:"artifact,omitempty"`
}

// CallFetcher retrieves a call by id
type CallFetcher interface {
	GetCall(ctx context.Context, callID string) (*Call, error)
}

// APIError is a non-2xx response from the platform.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("voice platform returned %d: %s", e.StatusCode, e.Body)
}

// Client calls the platform's REST API with the server-held private key
type Client struct {
	baseURL    string
	privateKey string
	httpClient *http.Client
}

var _ CallFetcher = (*Client)(nil)

// NewClient creates a Client. httpClient may be nil.
func NewClient(baseURL, privateKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		privateKey: privateKey,
		httpClient: httpClient,
	}
}

// GetCall fetches GET {base}/call/{id}
func (c *Client) GetCall(ctx context.Context, callID string) (*Call, error) {
	if callID == "" {
		return nil, fmt.Errorf("call id is required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/call/"+url.PathEscape(callID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.privateKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch call %s: %w", callID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read call %s: %w", callID, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: truncate(string(body), 300)}
	}

	var call Call
	if err := json.Unmarshal(body, &call); err != nil {
		return nil, fmt.Errorf("failed to decode call %s: %w", callID, err)
	}
	return &call, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
