package resume

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/apperr"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/llm"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	response string
	err      error
	system   string
	prompt   string
	tier     llm.ModelTier
}

func (f *fakeLLM) GenerateContent(_ context.Context, system, prompt string, tier llm.ModelTier) (string, error) {
	f.system, f.prompt, f.tier = system, prompt, tier
	return f.response, f.err
}

type memStore struct {
	rows map[uuid.UUID]*types.ResumeHighlights
	text map[uuid.UUID]string
}

func newMemStore() *memStore {
	return &memStore{rows: map[uuid.UUID]*types.ResumeHighlights{}, text: map[uuid.UUID]string{}}
}

func (m *memStore) UpsertResumeHighlights(_ context.Context, id uuid.UUID, h *types.ResumeHighlights, text string) error {
	m.rows[id] = h
	m.text[id] = text
	return nil
}

const highlightsJSON = "```json\n" + `{
  "name": "Asha Menon",
  "email": "asha@example.edu",
  "summary": "Backend developer",
  "skills": ["Go", "PostgreSQL"],
  "projects": [{"title": "Campus Chat", "description": "Realtime chat", "technologies": ["React", "WebSocket"]}],
  "experience": [{"company": "Acme", "role": "Intern", "duration": "6 months", "description": "APIs"}],
  "education": [{"institution": "KTU", "degree": "B.Tech", "year": "2024"}]
}` + "\n```"

func TestStructure_ParsesFencedJSON(t *testing.T) {
	client := &fakeLLM{response: "Here is the data:\n" + highlightsJSON}
	s := NewStructurer(client, nil)

	h, err := s.Structure(context.Background(), "resume text")
	require.NoError(t, err)
	assert.Equal(t, "Asha Menon", h.Name)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, h.Skills)
	assert.Equal(t, []string{}, h.Tools)
	require.Len(t, h.Projects, 1)
	assert.Equal(t, "Campus Chat", h.Projects[0].Title)
	assert.Contains(t, client.system, "Never invent")
	assert.Contains(t, client.prompt, "resume text")
	assert.Equal(t, llm.TierStandard, client.tier)
}

func TestStructure_TruncatesOnRuneBoundary(t *testing.T) {
	client := &fakeLLM{response: highlightsJSON}
	s := NewStructurer(client, nil)

	text := "x" + strings.Repeat("é", maxResumeChars)
	_, err := s.Structure(context.Background(), text)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(client.prompt))
	assert.NotContains(t, client.prompt, string(utf8.RuneError))
}

func TestStructure_ParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no json", "I could not read this resume."},
		{"broken json", `{"name": "Asha", "skills": [}`},
		{"schema mismatch", `{"name": "Asha", "skills": "Go, SQL"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStructurer(&fakeLLM{response: tt.response}, nil)
			_, err := s.Structure(context.Background(), "text")
			require.Error(t, err)

			var parseErr *apperr.ParseError
			assert.ErrorAs(t, err, &parseErr)
			assert.Equal(t, 500, apperr.HTTPStatus(err))
		})
	}
}

func TestStructure_GatewayErrorPassesThrough(t *testing.T) {
	s := NewStructurer(&fakeLLM{err: apperr.RateLimited(errors.New("429"))}, nil)
	_, err := s.Structure(context.Background(), "text")
	require.Error(t, err)
	assert.Equal(t, 429, apperr.HTTPStatus(err))
}

func TestParse_ReparseReplacesRow(t *testing.T) {
	store := newMemStore()
	id := uuid.New()

	s := NewStructurer(&fakeLLM{response: highlightsJSON}, store)
	_, err := s.Parse(context.Background(), id, "first text")
	require.NoError(t, err)

	s = NewStructurer(&fakeLLM{response: `{"name": "Asha M", "skills": ["Rust"]}`}, store)
	h, err := s.Parse(context.Background(), id, "second text")
	require.NoError(t, err)

	assert.Len(t, store.rows, 1)
	assert.Equal(t, h, store.rows[id])
	assert.Equal(t, []string{"Rust"}, store.rows[id].Skills)
	assert.Equal(t, "second text", store.text[id])
}
