// Package avatar proxies talking-avatar sessions to the avatar platform, either as
// individual REST actions or as a relayed WebSocket.
package avatar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrInsufficientCredits is returned when the platform answers 402. Callers degrade to audio only.
var ErrInsufficientCredits = errors.New("insufficient avatar credits")

// APIError is a non-2xx platform response other than 402.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("avatar platform returned %d: %s", e.StatusCode, e.Body)
}

// Stream is the platform's answer to a create request.
type Stream struct {
	ID         string          `json:"id"`
	SessionID  string          `json:"session_id"`
	Offer      json.RawMessage `json:"offer,omitempty"`
	ICEServers json.RawMessage `json:"ice_servers,omitempty"`
}

// ICECandidate is a browser ICE candidate forwarded to the platform.
type ICECandidate struct {
	Candidate     string `json:"candidate"`
	SDPMid        string `json:"sdpMid,omitempty"`
	SDPMLineIndex *int   `json:"sdpMLineIndex,omitempty"`
}

// Client calls the platform's stream REST API with server-held Basic credentials
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client. httpClient may be nil.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Create opens a stream for the presenter image at sourceURL.
func (c *Client) Create(ctx context.Context, sourceURL string) (*Stream, error) {
	raw, err := c.do(ctx, http.MethodPost, "/talks/streams", map[string]any{"source_url": sourceURL})
	if err != nil {
		return nil, err
	}
	var s Stream
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode stream: %w", err)
	}
	return &s, nil
}

// SDP forwards the browser's SDP answer.
func (c *Client) SDP(ctx context.Context, streamID, sessionID string, answer json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, streamPath(streamID, "sdp"), map[string]any{
		"answer":     answer,
		"session_id": sessionID,
	})
}

// ICE forwards one ICE candidate.
func (c *Client) ICE(ctx context.Context, streamID, sessionID string, candidate ICECandidate) (json.RawMessage, error) {
	body := map[string]any{
		"candidate":  candidate.Candidate,
		"session_id": sessionID,
	}
	if candidate.SDPMid != "" {
		body["sdpMid"] = candidate.SDPMid
	}
	if candidate.SDPMLineIndex != nil {
		body["sdpMLineIndex"] = *candidate.SDPMLineIndex
	}
	return c.do(ctx, http.MethodPost, streamPath(streamID, "ice"), body)
}

// Talk makes the avatar speak input using the given TTS provider.
func (c *Client) Talk(ctx context.Context, streamID, sessionID, input string, provider json.RawMessage) (json.RawMessage, error) {
	script := map[string]any{"type": "text", "input": input}
	if len(provider) > 0 {
		script["provider"] = provider
	}
	return c.do(ctx, http.MethodPost, streamPath(streamID, ""), map[string]any{
		"script":     script,
		"session_id": sessionID,
	})
}

// Destroy closes the stream.
func (c *Client) Destroy(ctx context.Context, streamID, sessionID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, streamPath(streamID, ""), map[string]any{"session_id": sessionID})
}

func streamPath(streamID, action string) string {
	p := "/talks/streams/" + url.PathEscape(streamID)
	if action != "" {
		p += "/" + action
	}
	return p
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("avatar request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read avatar response: %w", err)
	}
	if resp.StatusCode == http.StatusPaymentRequired {
		return nil, ErrInsufficientCredits
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return json.RawMessage(`{}`), nil
	}
	return json.RawMessage(data), nil
}
