// Package questions derives categorized interview-question pools from a structured resume
// and condenses them into the strategy the voice agent follows.
package questions

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
)

// Category tags a pool with the part of the resume it came from.
type Category string

// Pool categories.
const (
	CategoryProject        Category = "project"
	CategorySkill          Category = "skill"
	CategoryExperience     Category = "experience"
	CategoryBehavioral     Category = "behavioral"
	CategoryProblemSolving Category = "problem_solving"
)

// Label is the upper-case name used in the strategy text.
func (c Category) Label() string {
	return strings.ToUpper(strings.ReplaceAll(string(c), "_", "-"))
}

// Difficulty of a pool's questions.
type Difficulty string

// Difficulty levels.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Pool is a bundle of template questions about one topic.
type Pool struct {
	Category   Category   `json:"category"`
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
	Questions  []string   `json:"questions"`
}

// maxSkillPools caps how many skills become pools.
const maxSkillPools = 6

// technicalSkill matches skills worth a technical question pool.
var technicalSkill = regexp.MustCompile(`(?i)(?:^|[^a-z0-9])(` +
	`go|golang|python|java|javascript|typescript|c\+\+|c#|c|rust|kotlin|swift|php|ruby|scala|dart|` +
	`react|angular|vue|next\.?js|node\.?js|express|django|flask|fastapi|spring|flutter|android|ios|` +
	`sql|mysql|postgres(?:ql)?|mongodb|redis|kafka|graphql|rest|api|microservices?|` +
	`docker|kubernetes|aws|gcp|azure|terraform|linux|git|ci/cd|` +
	`machine learning|deep learning|ml|ai|nlp|tensorflow|pytorch|pandas|numpy|data structures?|algorithms?|html|css` +
	`)(?:$|[^a-z0-9+#])`)

// IsTechnicalSkill reports whether a skill string names a technical topic.
func IsTechnicalSkill(skill string) bool {
	return technicalSkill.MatchString(skill)
}

// BuildPools derives one pool per project, technical skill and experience entry, then
// appends the static behavioral and problem-solving banks. Every pool holds 3-7 questions.
func BuildPools(h *types.ResumeHighlights) []Pool {
	var pools []Pool
	if h != nil {
		for _, p := range h.Projects {
			if pool, ok := projectPool(p); ok {
				pools = append(pools, pool)
			}
		}

		seen := map[string]bool{}
		for _, skill := range append(append([]string{}, h.Skills...), h.Tools...) {
			skill = clean(skill)
			key := strings.ToLower(skill)
			if skill == "" || seen[key] || !IsTechnicalSkill(skill) {
				continue
			}
			seen[key] = true
			pools = append(pools, skillPool(skill))
			if len(seen) == maxSkillPools {
				break
			}
		}

		for _, e := range h.Experience {
			if pool, ok := experiencePool(e); ok {
				pools = append(pools, pool)
			}
		}
	}

	pools = append(pools, behavioralBank()...)
	pools = append(pools, problemSolvingBank()...)
	return pools
}

func projectPool(p types.Project) (Pool, bool) {
	title := clean(p.Title)
	if title == "" {
		return Pool{}, false
	}
	qs := []string{
		fmt.Sprintf("Walk me through %s. What problem did it solve and what was your role?", title),
		fmt.Sprintf("What was the hardest technical challenge in %s, and how did you solve it?", title),
		fmt.Sprintf("How did you test and validate %s?", title),
		fmt.Sprintf("If you rebuilt %s today, what would you change?", title),
	}
	if len(p.Technologies) > 0 {
		techs := make([]string, 0, len(p.Technologies))
		for _, t := range p.Technologies {
			if t = clean(t); t != "" {
				techs = append(techs, t)
			}
		}
		if len(techs) > 0 {
			if len(techs) > 3 {
				techs = techs[:3]
			}
			qs = append(qs, fmt.Sprintf("Why did you choose %s for %s, and what alternatives did you consider?",
				strings.Join(techs, ", "), title))
		}
	}
	return Pool{Category: CategoryProject, Topic: title, Difficulty: DifficultyMedium, Questions: qs}, true
}

func skillPool(skill string) Pool {
	return Pool{
		Category:   CategorySkill,
		Topic:      skill,
		Difficulty: DifficultyMedium,
		Questions: []string{
			fmt.Sprintf("How have you used %s in a real project?", skill),
			fmt.Sprintf("What is a common pitfall when working with %s, and how do you avoid it?", skill),
			fmt.Sprintf("Explain a concept in %s that beginners usually get wrong.", skill),
		},
	}
}

func experiencePool(e types.Experience) (Pool, bool) {
	company, role := clean(e.Company), clean(e.Role)
	var topic, at string
	switch {
	case company != "" && role != "":
		topic, at = role+" at "+company, "at "+company
	case company != "":
		topic, at = company, "at "+company
	case role != "":
		topic, at = role, "as "+role
	default:
		return Pool{}, false
	}
	return Pool{
		Category:   CategoryExperience,
		Topic:      topic,
		Difficulty: DifficultyMedium,
		Questions: []string{
			fmt.Sprintf("What were your main responsibilities %s?", at),
			fmt.Sprintf("Describe a problem you solved %s that you are proud of.", at),
			fmt.Sprintf("How did you work with your team %s?", at),
			fmt.Sprintf("What did you learn %s that changed how you work?", at),
		},
	}, true
}

func behavioralBank() []Pool {
	return []Pool{
		{
			Category: CategoryBehavioral, Topic: "Teamwork and conflict", Difficulty: DifficultyMedium,
			Questions: []string{
				"Tell me about a time you disagreed with a teammate. How did you resolve it?",
				"Describe a project where the team was not working well together. What did you do?",
				"How do you handle a teammate who is not pulling their weight?",
			},
		},
		{
			Category: CategoryBehavioral, Topic: "Ownership and failure", Difficulty: DifficultyMedium,
			Questions: []string{
				"Tell me about a time you failed. What happened and what did you learn?",
				"Describe a time you took ownership of something outside your responsibilities.",
				"Tell me about a deadline you missed or nearly missed.",
			},
		},
		{
			Category: CategoryBehavioral, Topic: "Learning and motivation", Difficulty: DifficultyEasy,
			Questions: []string{
				"Tell me about something you taught yourself recently. How did you go about it?",
				"Why are you interested in this kind of role?",
				"Where do you want to be in three years, and what are you doing to get there?",
			},
		},
	}
}

func problemSolvingBank() []Pool {
	return []Pool{
		{
			Category: CategoryProblemSolving, Topic: "System design", Difficulty: DifficultyHard,
			Questions: []string{
				"How would you design a URL shortener that handles millions of requests per day?",
				"Design a notification system that sends email and push messages. Where are the bottlenecks?",
				"How would you design the backend for a real-time chat application?",
				"How would you scale a read-heavy API whose database is becoming the bottleneck?",
			},
		},
		{
			Category: CategoryProblemSolving, Topic: "Debugging and trade-offs", Difficulty: DifficultyHard,
			Questions: []string{
				"A service you own becomes slow only in production. How do you find the cause?",
				"When would you choose a relational database over a document store?",
				"How do you decide between shipping quickly and building it properly?",
			},
		},
	}
}

// clean trims a field and replaces characters that would break the strategy line format.
func clean(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, `"`, "'")
}
