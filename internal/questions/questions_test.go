package questions

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var strategyLine = regexp.MustCompile(`^(\d+)\. (PROJECT|SKILL|EXPERIENCE|BEHAVIORAL|PROBLEM-SOLVING): "([^"]+)" - Sample: "([^"]+)"$`)

func sampleHighlights() *types.ResumeHighlights {
	return &types.ResumeHighlights{
		Name:   "Asha Menon",
		Skills: []string{"Go", "Public speaking", "PostgreSQL", "go", "C++", "Leadership"},
		Tools:  []string{"Docker"},
		Projects: []types.Project{
			{Title: "Campus Chat", Technologies: []string{"React", "WebSocket"}},
			{Title: "Expense \"Tracker\""},
			{Title: "  "},
		},
		Experience: []types.Experience{
			{Company: "Acme", Role: "Backend Intern"},
			{Company: "Globex"},
			{},
		},
	}
}

func TestBuildPools(t *testing.T) {
	pools := BuildPools(sampleHighlights())

	counts := map[Category]int{}
	for _, p := range pools {
		counts[p.Category]++
		assert.GreaterOrEqual(t, len(p.Questions), 3, p.Topic)
		assert.LessOrEqual(t, len(p.Questions), 7, p.Topic)
		assert.NotEmpty(t, p.Topic)
		assert.NotContains(t, p.Topic, `"`)
	}

	assert.Equal(t, 2, counts[CategoryProject])
	assert.Equal(t, 4, counts[CategorySkill], "Go, PostgreSQL, C++ and Docker; duplicates and soft skills skipped")
	assert.Equal(t, 2, counts[CategoryExperience])
	assert.Equal(t, 3, counts[CategoryBehavioral])
	assert.Equal(t, 2, counts[CategoryProblemSolving])

	assert.Len(t, pools[0].Questions, 5, "project with technologies gets a technology question")
	assert.Contains(t, pools[0].Questions[4], "React, WebSocket")
	assert.Len(t, pools[1].Questions, 4)

	for _, p := range pools {
		if p.Category == CategoryProblemSolving {
			assert.Equal(t, DifficultyHard, p.Difficulty)
		}
	}
}

func TestBuildPools_NilProfileHasStaticBanks(t *testing.T) {
	pools := BuildPools(nil)
	assert.Len(t, pools, 5)
}

func TestIsTechnicalSkill(t *testing.T) {
	for _, s := range []string{"Go", "Python 3", "C++", "C#", "Node.js", "Machine Learning", "AWS Lambda", "REST APIs"} {
		assert.True(t, IsTechnicalSkill(s), s)
	}
	for _, s := range []string{"Communication", "Leadership", "Public speaking", "Google Docs", "Teamwork"} {
		assert.False(t, IsTechnicalSkill(s), s)
	}
}

func TestOrder_StablePartition(t *testing.T) {
	pools := BuildPools(sampleHighlights())

	for seed := int64(0); seed < 50; seed++ {
		ordered := Order(pools, rand.New(rand.NewSource(seed)))
		require.Len(t, ordered, len(pools))

		lead := ordered[0].Category
		assert.Contains(t, startCategories, lead)

		// the leading category forms one contiguous block at the front
		inBlock := true
		for _, p := range ordered {
			if p.Category != lead {
				inBlock = false
				continue
			}
			assert.True(t, inBlock, "seed %d: %s pool after the leading block", seed, lead)
		}
	}
}

func TestOrder_SameSeedSameOrder(t *testing.T) {
	pools := BuildPools(sampleHighlights())
	a := Order(pools, rand.New(rand.NewSource(42)))
	b := Order(pools, rand.New(rand.NewSource(42)))
	assert.Equal(t, a, b)
}

func TestOrder_DoesNotMutateInput(t *testing.T) {
	pools := BuildPools(sampleHighlights())
	before := make([]Pool, len(pools))
	copy(before, pools)

	Order(pools, rand.New(rand.NewSource(7)))
	assert.Equal(t, before, pools)
}

func TestStrategy_Shape(t *testing.T) {
	profiles := []*types.ResumeHighlights{
		sampleHighlights(),
		{Skills: []string{"Python"}},
		{Projects: []types.Project{{Title: "Solo"}}},
		{Summary: "Recent graduate"},
	}

	for i, h := range profiles {
		for seed := int64(0); seed < 20; seed++ {
			b := NewBuilder(rand.NewSource(seed))
			text := b.Strategy(h)

			lines := strings.Split(text, "\n")
			require.Len(t, lines, StrategySize, "profile %d seed %d", i, seed)
			for n, line := range lines {
				m := strategyLine.FindStringSubmatch(line)
				require.NotNil(t, m, "bad line %q", line)
				assert.Equal(t, strings.TrimSpace(m[1]), string(rune('1'+n)))
				assert.NotEmpty(t, strings.TrimSpace(m[3]))
			}
		}
	}
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "PROBLEM-SOLVING", CategoryProblemSolving.Label())
	assert.Equal(t, "PROJECT", CategoryProject.Label())
}

func TestSystemPrompt(t *testing.T) {
	b := NewBuilder(rand.NewSource(1))

	cfg, err := b.SystemPrompt(PromptInput{
		Mode:       types.ModeResumeJD,
		Duration:   10,
		Highlights: sampleHighlights(),
	})
	require.NoError(t, err)
	assert.Contains(t, cfg.SystemPrompt, "10-minute mock interview with Asha Menon")
	assert.Contains(t, cfg.SystemPrompt, cfg.Strategy)
	assert.NotContains(t, cfg.SystemPrompt, "{{.")
	assert.Equal(t, 600, cfg.MaxDurationSeconds)
	assert.Contains(t, cfg.FirstMessage, "Hi Asha Menon")
}

func TestSystemPrompt_NonResumeModeIgnoresProfile(t *testing.T) {
	b := NewBuilder(rand.NewSource(3))

	cfg, err := b.SystemPrompt(PromptInput{Mode: types.ModeHR, Highlights: sampleHighlights()})
	require.NoError(t, err)
	assert.NotContains(t, cfg.Strategy, "Campus Chat")
	assert.Contains(t, cfg.SystemPrompt, "behavioral (HR) interview")
	assert.Equal(t, 900, cfg.MaxDurationSeconds)
}

func TestSystemPrompt_UnknownMode(t *testing.T) {
	_, err := NewBuilder(rand.NewSource(1)).SystemPrompt(PromptInput{Mode: "karaoke"})
	assert.Error(t, err)
}

func TestSystemPrompt_Greeting(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      string
	}{
		{name: "no name", want: "Hi, I'm Alex."},
		{name: "blank name", candidate: "   ", want: "Hi, I'm Alex."},
		{name: "given name", candidate: " Ravi ", want: "Hi Ravi, I'm Alex."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewBuilder(rand.NewSource(1)).SystemPrompt(PromptInput{Mode: types.ModeTechnical, Duration: 5, CandidateName: tt.candidate})
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(cfg.FirstMessage, tt.want), cfg.FirstMessage)
			assert.NotContains(t, cfg.FirstMessage, "the candidate")
		})
	}
}
