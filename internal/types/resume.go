//nolint:revive // types is a standard Go package name pattern
package types

// Project is a resume project entry.
type Project struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

// Experience is a resume work-history entry.
type Experience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Education is a resume education entry.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
}

// ResumeHighlights is the structured form of a resume produced by the language model.
type ResumeHighlights struct {
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	Summary    string       `json:"summary"`
	Skills     []string     `json:"skills"`
	Tools      []string     `json:"tools"`
	Projects   []Project    `json:"projects"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
}

// IsEmpty reports whether the highlights carry no entity the question builder can use.
func (h *ResumeHighlights) IsEmpty() bool {
	if h == nil {
		return true
	}
	return len(h.Skills) == 0 && len(h.Tools) == 0 && len(h.Projects) == 0 &&
		len(h.Experience) == 0 && len(h.Education) == 0 && h.Summary == ""
}

// Normalize replaces nil slices with empty ones so the persisted JSON never holds null arrays.
func (h *ResumeHighlights) Normalize() {
	if h.Skills == nil {
		h.Skills = []string{}
	}
	if h.Tools == nil {
		h.Tools = []string{}
	}
	if h.Projects == nil {
		h.Projects = []Project{}
	}
	for i := range h.Projects {
		if h.Projects[i].Technologies == nil {
			h.Projects[i].Technologies = []string{}
		}
	}
	if h.Experience == nil {
		h.Experience = []Experience{}
	}
	if h.Education == nil {
		h.Education = []Education{}
	}
}
