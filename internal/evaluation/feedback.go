package evaluation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
)

// Literal section headers of the rendered feedback. Clients split the text on these.
const (
	HeaderVerdict    = "**Verdict:**"
	HeaderWeaknesses = "**Critical Weaknesses:**"
	HeaderScores     = "**Detailed Scores:**"
)

var scoreLine = regexp.MustCompile(`^- (.+?) \((\d+(?:\.\d+)?)/10\):\s*(.*)$`)

// Sections builds the structured feedback from an evaluation result.
func Sections(r *types.EvaluationResult) types.FeedbackSections {
	s := types.FeedbackSections{
		Verdict:    strings.TrimSpace(r.Verdict),
		Weaknesses: []string{},
		DetailedScores: []types.DetailedScore{
			{Label: "Communication", Score: float64(r.Communication.Score), Comment: oneLine(r.Communication.Feedback)},
			{Label: "Technical Accuracy", Score: float64(r.TechnicalAccuracy.Score), Comment: oneLine(r.TechnicalAccuracy.Feedback)},
			{Label: "Confidence", Score: float64(r.Confidence.Score), Comment: oneLine(r.Confidence.Feedback)},
			{Label: "Relevance", Score: float64(r.Relevance.Score), Comment: oneLine(r.Relevance.Feedback)},
		},
	}
	for _, w := range r.CriticalWeaknesses {
		if w = oneLine(w); w != "" {
			s.Weaknesses = append(s.Weaknesses, w)
		}
	}
	return s
}

// RenderFeedback renders the sections as the markdown stored in evaluations.feedback.
func RenderFeedback(s types.FeedbackSections) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n\n", HeaderVerdict, oneLine(s.Verdict))

	sb.WriteString(HeaderWeaknesses + "\n")
	for _, w := range s.Weaknesses {
		fmt.Fprintf(&sb, "- %s\n", w)
	}

	sb.WriteString("\n" + HeaderScores + "\n")
	for _, d := range s.DetailedScores {
		fmt.Fprintf(&sb, "- %s (%s/10): %s\n", d.Label, strconv.FormatFloat(d.Score, 'f', -1, 64), d.Comment)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ParseFeedback reads rendered feedback back into its sections. Text outside the
// known headers is ignored.
func ParseFeedback(markdown string) types.FeedbackSections {
	s := types.FeedbackSections{Weaknesses: []string{}, DetailedScores: []types.DetailedScore{}}
	section := ""
	for _, raw := range strings.Split(markdown, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, HeaderVerdict):
			section = "verdict"
			s.Verdict = strings.TrimSpace(strings.TrimPrefix(line, HeaderVerdict))
			continue
		case strings.HasPrefix(line, HeaderWeaknesses):
			section = "weaknesses"
			continue
		case strings.HasPrefix(line, HeaderScores):
			section = "scores"
			continue
		case line == "":
			continue
		}

		switch section {
		case "verdict":
			s.Verdict = strings.TrimSpace(s.Verdict + " " + line)
		case "weaknesses":
			if w := strings.TrimSpace(strings.TrimPrefix(line, "- ")); w != "" {
				s.Weaknesses = append(s.Weaknesses, w)
			}
		case "scores":
			m := scoreLine.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			v, _ := strconv.ParseFloat(m[2], 64)
			s.DetailedScores = append(s.DetailedScores, types.DetailedScore{Label: m[1], Score: v, Comment: m[3]})
		}
	}
	return s
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
