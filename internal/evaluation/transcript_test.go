package evaluation

import (
	"strings"
	"testing"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/voice"
	"github.com/stretchr/testify/assert"
)

func TestBuildTranscript_RoleMapping(t *testing.T) {
	messages := []voice.Message{
		{Role: "system", Content: "You are Alex"},
		{Role: "assistant", Content: "Tell me about yourself."},
		{Role: "user", Message: "I build  data\npipelines."},
		{Role: "bot", Content: "Why Go?"},
		{Role: "customer", Content: "Concurrency."},
		{Speaker: "AI", Content: "Next question."},
		{Source: "human", Content: "Sure."},
		{Role: "tool", Content: "lookup result"},
		{Role: "user", Content: "   "},
	}

	got := BuildTranscript(messages)
	assert.Equal(t, strings.Join([]string{
		"Interviewer: Tell me about yourself.",
		"Candidate: I build data pipelines.",
		"Interviewer: Why Go?",
		"Candidate: Concurrency.",
		"Interviewer: Next question.",
		"Candidate: Sure.",
	}, "\n"), got)
}

func TestRoleOf_SystemTypeIsSkipped(t *testing.T) {
	_, ok := roleOf(voice.Message{Type: "system", Content: "call started"})
	assert.False(t, ok)
}

func TestFetchedTranscript_Precedence(t *testing.T) {
	artifactOnly := &voice.Call{Artifact: &voice.Artifact{
		Messages: []voice.Message{{Role: "assistant", Content: "Hello"}},
	}}
	text, src := FetchedTranscript(artifactOnly)
	assert.Equal(t, "Interviewer: Hello", text)
	assert.Equal(t, SourceArtifactMessages, src)

	flat := &voice.Call{Transcript: "  AI: hi\nUser: hello  "}
	text, src = FetchedTranscript(flat)
	assert.Equal(t, "AI: hi\nUser: hello", text)
	assert.Equal(t, SourceFlat, src)

	artifactFlat := &voice.Call{Artifact: &voice.Artifact{Transcript: "AI: hi"}}
	text, src = FetchedTranscript(artifactFlat)
	assert.Equal(t, "AI: hi", text)
	assert.Equal(t, SourceFlat, src)

	text, src = FetchedTranscript(nil)
	assert.Empty(t, text)
	assert.Empty(t, src)
}

func TestReconcile_LongerFetchedTranscriptWins(t *testing.T) {
	call := &voice.Call{Messages: []voice.Message{
		{Role: "assistant", Content: "Walk me through your last project."},
		{Role: "user", Content: "I migrated our billing service from a monolith to three Go services behind a queue."},
	}}

	got, src := Reconcile("Candidate: billing", call)
	assert.Equal(t, SourceMessages, src)
	assert.Contains(t, got, "three Go services")
}

func TestReconcile_ClientKeptWhenNotShorter(t *testing.T) {
	client := "Interviewer: Question one is long enough.\nCandidate: A very detailed and thorough answer."
	call := &voice.Call{Transcript: "AI: short"}

	got, src := Reconcile(client, call)
	assert.Equal(t, SourceClient, src)
	assert.Equal(t, client, got)

	got, src = Reconcile(client, &voice.Call{Transcript: client})
	assert.Equal(t, SourceClient, src, "equal length keeps the client transcript")
	assert.Equal(t, client, got)
}

func TestReconcile_EmptyClientUsesFetched(t *testing.T) {
	call := &voice.Call{Messages: []voice.Message{
		{Role: "assistant", Content: "Q1"},
		{Role: "assistant", Content: "Q2"},
		{Role: "user", Content: "A1"},
		{Role: "user", Content: "A2"},
	}}

	got, src := Reconcile("", call)
	assert.Equal(t, SourceMessages, src)
	lines := strings.Split(got, "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Interviewer:"))
}

func TestMeasureQuality(t *testing.T) {
	q := MeasureQuality("Interviewer: Hi there\n\nCandidate: Hello\nuser: yes I can\nYou:   \nCandidate: done")
	assert.Equal(t, 5, q.Lines)
	assert.Equal(t, 3, q.CandidateTurns)
	assert.Equal(t, 12, q.Words)
	assert.False(t, q.LowParticipation())

	assert.True(t, MeasureQuality("Interviewer: Hi\nCandidate: ok").LowParticipation())
	assert.Equal(t, Quality{}, MeasureQuality(""))
}
