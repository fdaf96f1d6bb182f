//nolint:revive // types is a standard Go package name pattern
package types

// SectionScores holds the six rubric section scores (0-100 each).
type SectionScores struct {
	KeywordMatch    Score `json:"keyword_match"`
	SkillsAlignment Score `json:"skills_alignment"`
	ActionVerbs     Score `json:"action_verbs"`
	ATSStructure    Score `json:"ats_structure"`
	Formatting      Score `json:"formatting"`
	Readability     Score `json:"readability"`
}

// ImprovementSuggestion is a concrete rewrite proposed by the ATS rubric.
type ImprovementSuggestion struct {
	Section   string `json:"section"`
	Current   string `json:"current"`
	Suggested string `json:"suggested"`
	Reason    string `json:"reason"`
}

// OptimizedBullet pairs an original resume bullet with an improved version.
type OptimizedBullet struct {
	Original string `json:"original"`
	Improved string `json:"improved"`
}

// ATSResult is the scored ATS analysis of a resume against a target job role.
type ATSResult struct {
	OverallScore           Score                   `json:"overall_score"`
	KeywordMatchPercentage Score                   `json:"keyword_match_percentage"`
	SectionScores          SectionScores           `json:"section_scores"`
	MissingKeywords        []string                `json:"missing_keywords"`
	Strengths              []string                `json:"strengths"`
	Weaknesses             []string                `json:"weaknesses"`
	FormattingIssues       []string                `json:"formatting_issues"`
	RecruiterReview        string                  `json:"recruiter_review"`
	ImprovementSuggestions []ImprovementSuggestion `json:"improvement_suggestions"`
	OptimizedBullets       []OptimizedBullet       `json:"optimized_bullets"`
}

// Clamp bounds every score to whole numbers in 0-100 and replaces nil slices with empty ones.
func (r *ATSResult) Clamp() {
	r.OverallScore = clampPercent(r.OverallScore)
	r.KeywordMatchPercentage = clampPercent(r.KeywordMatchPercentage)
	s := &r.SectionScores
	s.KeywordMatch = clampPercent(s.KeywordMatch)
	s.SkillsAlignment = clampPercent(s.SkillsAlignment)
	s.ActionVerbs = clampPercent(s.ActionVerbs)
	s.ATSStructure = clampPercent(s.ATSStructure)
	s.Formatting = clampPercent(s.Formatting)
	s.Readability = clampPercent(s.Readability)

	if r.MissingKeywords == nil {
		r.MissingKeywords = []string{}
	}
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
	if r.Weaknesses == nil {
		r.Weaknesses = []string{}
	}
	if r.FormattingIssues == nil {
		r.FormattingIssues = []string{}
	}
	if r.ImprovementSuggestions == nil {
		r.ImprovementSuggestions = []ImprovementSuggestion{}
	}
	if r.OptimizedBullets == nil {
		r.OptimizedBullets = []OptimizedBullet{}
	}
}

func clampPercent(v Score) Score {
	return Score(v.Clamp(0, 100).Int())
}
