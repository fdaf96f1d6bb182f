package extraction

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Thresholds for accepting a text layer and for the final result.
const (
	MinUsableLength = 100
	MinAlnumRatio   = 0.5
	MinKeywordHits  = 2
	MinResultLength = 50
)

var resumeKeywords = []string{
	"experience", "education", "skills", "project", "work",
	"university", "degree", "developer", "engineer",
}

// IsUsable reports whether text extracted from a document's text layer can be trusted:
// long enough, mostly alphanumeric, and mentioning at least two resume keywords.
func IsUsable(text string) bool {
	total := utf8.RuneCountInString(text)
	if total < MinUsableLength {
		return false
	}
	if AlnumRatio(text) < MinAlnumRatio {
		return false
	}
	return KeywordHits(text) >= MinKeywordHits
}

// AlnumRatio is the share of letters, digits and whitespace among all characters.
func AlnumRatio(text string) float64 {
	total, good := 0, 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			good++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(good) / float64(total)
}

// KeywordHits counts how many distinct resume keywords appear, case-insensitively.
func KeywordHits(text string) int {
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range resumeKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits
}

func longEnough(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= MinResultLength
}
