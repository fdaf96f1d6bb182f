// Package extraction turns uploaded resume documents into plain text. The embedded text
// layer is preferred; a vision model transcribes the document when that text looks unusable.
package extraction

import (
	"context"
	"fmt"
	"strings"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/apperr"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/llm"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/prompts"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/storage"
	"github.com/rs/zerolog/log"
)

// Source records which path produced the extracted text.
type Source string

// Extraction sources.
const (
	SourceTextLayer Source = "text_layer"
	SourceOCR       Source = "ocr"
	SourceCache     Source = "cache"
)

// Document is an uploaded file. Text carries a text layer already extracted by the client.
type Document struct {
	Data     []byte
	MIMEType string
	FileName string
	Text     string
}

// Result is the extracted text and where it came from.
type Result struct {
	Text   string `json:"text"`
	Source Source `json:"source"`
}

// UnreadableError is returned when neither the text layer nor OCR produced enough text.
type UnreadableError struct {
	PrimaryLength int
	OCRLength     int
}

func (e *UnreadableError) Error() string {
	return "document unreadable"
}

// Unwrap exposes the error as an input error for status mapping.
func (e *UnreadableError) Unwrap() error {
	return &apperr.InputError{Field: "file", Message: e.Error()}
}

// Extractor extracts resume text. OCR and cache are optional.
type Extractor struct {
	ocr   llm.Transcriber
	cache storage.TextCache
}

// NewExtractor creates an Extractor. Pass nil to disable the OCR fallback or the cache.
func NewExtractor(ocr llm.Transcriber, cache storage.TextCache) *Extractor {
	return &Extractor{ocr: ocr, cache: cache}
}

// Extract returns the document's text. The OCR fallback runs only when the primary text
// fails IsUsable. Nothing is retried.
func (e *Extractor) Extract(ctx context.Context, doc Document) (*Result, error) {
	mimeType := DetectMIME(doc.MIMEType, doc.FileName)

	var cacheKey string
	if e.cache != nil && len(doc.Data) > 0 {
		cacheKey = storage.ContentKey(doc.Data)
		text, ok, err := e.cache.GetText(ctx, cacheKey)
		if err != nil {
			log.Warn().Err(err).Msg("extraction cache lookup failed")
		} else if ok {
			return &Result{Text: text, Source: SourceCache}, nil
		}
	}

	primary := doc.Text
	if strings.TrimSpace(primary) == "" && len(doc.Data) > 0 {
		text, err := ExtractTextLayer(doc.Data, mimeType)
		if err != nil {
			log.Warn().Err(err).Str("mime_type", mimeType).Msg("text layer extraction failed")
		}
		primary = text
	}

	if IsUsable(primary) {
		return e.finish(ctx, cacheKey, primary, SourceTextLayer), nil
	}

	var ocrText string
	if e.ocr != nil && len(doc.Data) > 0 && canOCR(mimeType) {
		log.Info().
			Int("primary_length", len(primary)).
			Float64("alnum_ratio", AlnumRatio(primary)).
			Int("keyword_hits", KeywordHits(primary)).
			Msg("text layer unusable, falling back to OCR")

		prompt, err := prompts.Get("ocr.json", "transcribe")
		if err != nil {
			return nil, fmt.Errorf("failed to load OCR prompt: %w", err)
		}
		text, err := e.ocr.Transcribe(ctx, doc.Data, mimeType, prompt)
		if err != nil {
			log.Warn().Err(err).Msg("OCR transcription failed")
		}
		ocrText = strings.TrimSpace(text)
	}

	switch {
	case longEnough(ocrText):
		return e.finish(ctx, cacheKey, ocrText, SourceOCR), nil
	case longEnough(primary):
		return e.finish(ctx, cacheKey, strings.TrimSpace(primary), SourceTextLayer), nil
	default:
		return nil, &UnreadableError{PrimaryLength: len(strings.TrimSpace(primary)), OCRLength: len(ocrText)}
	}
}

func (e *Extractor) finish(ctx context.Context, cacheKey, text string, source Source) *Result {
	if e.cache != nil && cacheKey != "" {
		if err := e.cache.SetText(ctx, cacheKey, text); err != nil {
			log.Warn().Err(err).Msg("extraction cache store failed")
		}
	}
	return &Result{Text: text, Source: source}
}
