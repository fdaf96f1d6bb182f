package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/apperr"
	openai "github.com/sashabaranov/go-openai"
)

// Client is an abstraction over the chat-completions gateway
type Client interface {
	// GenerateContent sends a system and a user message and returns the first choice's content
	GenerateContent(ctx context.Context, systemPrompt, userPrompt string, tier ModelTier) (string, error)
}

// GatewayClient implements Client for an OpenAI-compatible chat-completions gateway.
// Requests are sent once; 429 and 402 responses become quota errors, never retries.
type GatewayClient struct {
	client *openai.Client
	config *Config
}

// NewGatewayClient creates a gateway client. httpClient may be nil.
func NewGatewayClient(config *Config, baseURL, apiKey string, httpClient *http.Client) (*GatewayClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil || config.GetModel(TierStandard) == "" {
		return nil, fmt.Errorf("a standard model must be configured")
	}

	oc := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		oc.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if httpClient != nil {
		oc.HTTPClient = httpClient
	}

	return &GatewayClient{
		client: openai.NewClientWithConfig(oc),
		config: config,
	}, nil
}

// GenerateContent implements Client
func (c *GatewayClient) GenerateContent(ctx context.Context, systemPrompt, userPrompt string, tier ModelTier) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: userPrompt})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.config.GetModel(tier),
		Messages:    messages,
		Temperature: c.config.Temperature,
	})
	if err != nil {
		return "", classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperr.Failed("AI gateway returned no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyError maps gateway failures onto the shared error variants.
func classifyError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusTooManyRequests:
		return apperr.RateLimited(err)
	case http.StatusPaymentRequired:
		return apperr.PaymentRequired(err)
	default:
		return apperr.Failed("AI gateway request failed", err)
	}
}

// IsQuotaError reports whether err is a 429 or 402 from the gateway.
func IsQuotaError(err error) bool {
	var upstream *apperr.UpstreamError
	if !errors.As(err, &upstream) {
		return false
	}
	return upstream.Status == apperr.StatusRateLimited || upstream.Status == apperr.StatusPaymentRequired
}
