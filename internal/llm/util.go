package llm

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/apperr"
)

// jsonObjectPattern matches from the first '{' to the last '}' (greedy).
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// CleanJSONBlock removes markdown code block wrappers from JSON responses.
// Models often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Skip a language identifier on the first line
	if idx := strings.Index(text, "\n"); idx >= 0 {
		first := text[:idx]
		if len(first) < 20 && !strings.ContainsAny(first, " {") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// ExtractJSONObject returns the greedy {...} block of text, or false if none exists.
func ExtractJSONObject(text string) (string, bool) {
	match := jsonObjectPattern.FindString(CleanJSONBlock(text))
	if match == "" {
		return "", false
	}
	return match, true
}

// DecodeJSONObject extracts the JSON object from a model response and decodes it into v.
// Failures are reported as *apperr.ParseError.
func DecodeJSONObject(text string, v any) error {
	raw, ok := ExtractJSONObject(text)
	if !ok {
		return &apperr.ParseError{Message: "no JSON object in model response"}
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return &apperr.ParseError{Message: "invalid JSON in model response", Cause: err}
	}
	return nil
}

// TruncateBytes cuts text to at most limit bytes without splitting a UTF-8 sequence.
func TruncateBytes(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	if limit <= 0 {
		return ""
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
