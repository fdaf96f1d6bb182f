package evaluation

import "github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"

// DefaultResult is the evaluation used when the model's answer cannot be parsed.
func DefaultResult() *types.EvaluationResult {
	detail := func(area string) types.ScoreDetail {
		return types.ScoreDetail{
			Score:    4,
			Feedback: "Insufficient data to assess " + area + "; the responses lacked enough substance to evaluate.",
		}
	}
	return &types.EvaluationResult{
		Communication:     detail("communication"),
		TechnicalAccuracy: detail("technical accuracy"),
		Confidence:        detail("confidence"),
		Relevance:         detail("relevance"),
		OverallScore:      40,
		Verdict:           "Insufficient data to evaluate this interview. The transcript did not contain enough candidate responses for a reliable assessment.",
		CriticalWeaknesses: []string{
			"The interview did not produce enough substantive answers to evaluate.",
		},
		Improvements: []types.Improvement{
			{Suggestion: "Complete the full interview and answer every question in detail.", Category: "general", Priority: 1},
			{Suggestion: "Structure answers with the STAR method: situation, task, action and result.", Category: "communication", Priority: 2},
		},
		ResponseAnalysis: []types.ResponseAnalysis{},
	}
}
