//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ScoreDetail is one rubric sub-score (0-10) with the model's criticism.
type ScoreDetail struct {
	Score    Score  `json:"score"`
	Feedback string `json:"feedback"`
}

// Improvement is a prioritized suggestion returned with an evaluation.
type Improvement struct {
	Suggestion string   `json:"suggestion"`
	Category   string   `json:"category"`
	Priority   Priority `json:"priority"`
}

// ResponseAnalysis is the per-question breakdown of a candidate answer.
type ResponseAnalysis struct {
	Question     string   `json:"question"`
	Response     string   `json:"response"`
	Quality      string   `json:"quality"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Score        Score    `json:"score"`
}

// EvaluationResult is the structured evaluation returned by the language model.
type EvaluationResult struct {
	Communication      ScoreDetail        `json:"communication"`
	TechnicalAccuracy  ScoreDetail        `json:"technical_accuracy"`
	Confidence         ScoreDetail        `json:"confidence"`
	Relevance          ScoreDetail        `json:"relevance"`
	OverallScore       Score              `json:"overall_score"`
	Verdict            string             `json:"verdict"`
	CriticalWeaknesses []string           `json:"critical_weaknesses"`
	Improvements       []Improvement      `json:"improvements"`
	ResponseAnalysis   []ResponseAnalysis `json:"response_analysis"`
}

// Priority is a suggestion rank where 1 is most urgent. Models sometimes answer with
// "high"/"medium"/"low"; those map to 1/2/3.
type Priority int

// UnmarshalJSON implements json.Unmarshaler
func (p *Priority) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		if n, convErr := strconv.Atoi(strings.TrimSpace(label)); convErr == nil {
			*p = Priority(n)
			return nil
		}
		switch strings.ToLower(strings.TrimSpace(label)) {
		case "high", "critical":
			*p = 1
		case "medium":
			*p = 2
		default:
			*p = 3
		}
		return nil
	}
	var s Score
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	*p = Priority(s.Int())
	return nil
}

// DetailedScore is one line of the "Detailed Scores" feedback section.
type DetailedScore struct {
	Label   string  `json:"label"`
	Score   float64 `json:"score"`
	Comment string  `json:"comment"`
}

// FeedbackSections is the structured form of the rendered feedback markdown.
type FeedbackSections struct {
	Verdict        string          `json:"verdict"`
	Weaknesses     []string        `json:"weaknesses"`
	DetailedScores []DetailedScore `json:"detailedScores"`
}

// Interview status values. An interview moves forward exactly once per attempt.
const (
	InterviewScheduled  = "scheduled"
	InterviewInProgress = "in_progress"
	InterviewCompleted  = "completed"
	InterviewCancelled  = "cancelled"
)

// Interview modes.
const (
	ModeResumeJD  = "resume_jd"
	ModeTechnical = "technical"
	ModeHR        = "hr"
)
