package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/config"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/extraction"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/llm"
	"github.com/spf13/cobra"
)

var extractMIMEType string

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract plain text from a resume document",
	Long:  "Reads the text layer of a PDF, DOCX or text file. When GEMINI_API_KEY is set, unusable text falls back to vision OCR.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractMIMEType, "mime-type", "", "MIME type (detected from the file name when empty)")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	result, err := extractFile(ctx, args[0], extractMIMEType)
	if err != nil {
		return err
	}
	return printJSON(cmd, result)
}

// extractFile reads a document from disk and extracts its text. Vision OCR is enabled
// only when a Gemini key is configured.
func extractFile(ctx context.Context, path, mimeType string) (*extraction.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var ocr llm.Transcriber
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		model := os.Getenv("GEMINI_VISION_MODEL")
		if model == "" {
			model = "gemini-2.5-flash"
		}
		vision, err := llm.NewVisionClient(ctx, key, model)
		if err != nil {
			return nil, fmt.Errorf("failed to create vision client: %w", err)
		}
		defer func() { _ = vision.Close() }()
		ocr = vision
	}

	name := filepath.Base(path)
	extractor := extraction.NewExtractor(ocr, nil)
	return extractor.Extract(ctx, extraction.Document{
		Data:     data,
		MIMEType: extraction.DetectMIME(mimeType, name),
		FileName: name,
	})
}

// newLLMClient builds the gateway client from LLM_* environment variables.
func newLLMClient() (*llm.GatewayClient, error) {
	cfg, err := config.LoadLLM(os.Getenv)
	if err != nil {
		return nil, err
	}
	return llm.NewGatewayClient(llm.NewConfig(cfg.Model, cfg.AdvancedModel), cfg.BaseURL, cfg.APIKey, nil)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
