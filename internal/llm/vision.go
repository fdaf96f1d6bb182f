package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Transcriber turns a document image or PDF into text
type Transcriber interface {
	Transcribe(ctx context.Context, data []byte, mimeType, prompt string) (string, error)
}

// VisionClient implements Transcriber with a Gemini vision model
type VisionClient struct {
	client *genai.Client
	model  string
}

// NewVisionClient creates a new Gemini vision client
func NewVisionClient(ctx context.Context, apiKey, model string) (*VisionClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &VisionClient{client: client, model: model}, nil
}

// Transcribe sends the raw document with the transcription prompt and returns the text
func (c *VisionClient) Transcribe(ctx context.Context, data []byte, mimeType, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0)

	resp, err := model.GenerateContent(ctx, genai.Blob{MIMEType: mimeType, Data: data}, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to transcribe document: %w", err)
	}

	return extractTextFromResponse(resp)
}

// Close releases resources held by the client
func (c *VisionClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
