package questions

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/prompts"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
)

// PromptInput describes the interview the voice agent is configured for.
type PromptInput struct {
	Mode          string
	Duration      int
	CandidateName string
	Highlights    *types.ResumeHighlights
}

// AgentConfig is what the client hands to the voice-agent platform when the call starts.
type AgentConfig struct {
	SystemPrompt       string `json:"systemPrompt"`
	FirstMessage       string `json:"firstMessage"`
	Strategy           string `json:"strategy"`
	MaxDurationSeconds int    `json:"maxDurationSeconds"`
}

// Builder orders question pools with its own random source. Safe for concurrent use.
type Builder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewBuilder creates a Builder. A nil source seeds from the clock.
func NewBuilder(src rand.Source) *Builder {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Builder{rng: rand.New(src)}
}

// Plan builds and orders the pools for a profile.
func (b *Builder) Plan(h *types.ResumeHighlights) []Pool {
	pools := BuildPools(h)
	b.mu.Lock()
	defer b.mu.Unlock()
	return Order(pools, b.rng)
}

// Strategy returns the condensed strategy text for a profile.
func (b *Builder) Strategy(h *types.ResumeHighlights) string {
	return Strategy(b.Plan(h))
}

// SystemPrompt assembles the voice agent's configuration. Resume pools are used only
// for resume_jd interviews; other modes get the static banks.
func (b *Builder) SystemPrompt(in PromptInput) (*AgentConfig, error) {
	mode := in.Mode
	if mode == "" {
		mode = types.ModeResumeJD
	}
	modeInstructions, err := prompts.Get("interview.json", "mode-"+mode)
	if err != nil {
		return nil, fmt.Errorf("unknown interview mode %q: %w", mode, err)
	}

	highlights := in.Highlights
	if mode != types.ModeResumeJD {
		highlights = nil
	}
	strategy := b.Strategy(highlights)

	name := strings.TrimSpace(in.CandidateName)
	if name == "" && in.Highlights != nil {
		name = strings.TrimSpace(in.Highlights.Name)
	}
	greeting := name
	if name == "" {
		name = "the candidate"
	}
	duration := in.Duration
	if duration <= 0 {
		duration = 15
	}

	data := map[string]string{
		"CandidateName":    name,
		"GreetingName":     greeting,
		"Duration":         fmt.Sprint(duration),
		"ModeInstructions": modeInstructions,
		"Strategy":         strategy,
	}
	system, err := prompts.Render("interview.json", "system-prompt", data)
	if err != nil {
		return nil, err
	}
	first, err := prompts.Render("interview.json", "first-message", data)
	if err != nil {
		return nil, err
	}

	return &AgentConfig{
		SystemPrompt:       system,
		FirstMessage:       first,
		Strategy:           strategy,
		MaxDurationSeconds: duration * 60,
	}, nil
}
