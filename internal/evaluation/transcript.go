package evaluation

import (
	"strings"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/voice"
)

// Speaker labels used in transcripts.
const (
	SpeakerInterviewer = "Interviewer"
	SpeakerCandidate   = "Candidate"
)

// TranscriptSource records which transcript the evaluation used.
type TranscriptSource string

// Transcript sources, in reconciliation order.
const (
	SourceClient           TranscriptSource = "client"
	SourceMessages         TranscriptSource = "messages"
	SourceArtifactMessages TranscriptSource = "artifact_messages"
	SourceFlat             TranscriptSource = "flat"
)

var (
	interviewerRoles = map[string]bool{"assistant": true, "bot": true, "ai": true, "interviewer": true, "agent": true}
	candidateRoles   = map[string]bool{"user": true, "human": true, "candidate": true, "customer": true}
)

// speakerFor maps a role-ish value onto a speaker label. skip is true for system entries.
func speakerFor(value string) (speaker string, skip bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "system":
		return "", true
	case interviewerRoles[v]:
		return SpeakerInterviewer, false
	case candidateRoles[v]:
		return SpeakerCandidate, false
	}
	return "", false
}

// roleOf resolves a message's speaker from its role, then from the auxiliary fields.
// ok is false for system messages and messages whose speaker cannot be determined.
func roleOf(m voice.Message) (string, bool) {
	for _, v := range []string{m.Role, m.Speaker, m.Name, m.Source, m.Type} {
		speaker, skip := speakerFor(v)
		if skip {
			return "", false
		}
		if speaker != "" {
			return speaker, true
		}
	}
	return "", false
}

// BuildTranscript renders messages as role-tagged lines in their original order.
func BuildTranscript(messages []voice.Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		speaker, ok := roleOf(m)
		if !ok {
			continue
		}
		text := strings.Join(strings.Fields(m.Text()), " ")
		if text == "" {
			continue
		}
		lines = append(lines, speaker+": "+text)
	}
	return strings.Join(lines, "\n")
}

// FetchedTranscript extracts a transcript from a call record, trying the message list,
// then the artifact's message list, then the flat transcript fields.
func FetchedTranscript(call *voice.Call) (string, TranscriptSource) {
	if call == nil {
		return "", ""
	}
	if t := BuildTranscript(call.Messages); t != "" {
		return t, SourceMessages
	}
	if call.Artifact != nil {
		if t := BuildTranscript(call.Artifact.Messages); t != "" {
			return t, SourceArtifactMessages
		}
	}
	if t := strings.TrimSpace(call.Transcript); t != "" {
		return t, SourceFlat
	}
	if call.Artifact != nil {
		if t := strings.TrimSpace(call.Artifact.Transcript); t != "" {
			return t, SourceFlat
		}
	}
	return "", ""
}

// Reconcile picks between the client's transcript and the one fetched from the call.
// The fetched transcript wins only when the client sent none or it is strictly longer.
func Reconcile(client string, call *voice.Call) (string, TranscriptSource) {
	client = strings.TrimSpace(client)
	fetched, source := FetchedTranscript(call)
	if fetched != "" && (client == "" || len(fetched) > len(client)) {
		return fetched, source
	}
	return client, SourceClient
}

// Quality holds lightweight transcript statistics.
type Quality struct {
	Words          int `json:"words"`
	Lines          int `json:"lines"`
	CandidateTurns int `json:"candidate_turns"`
}

// MinCandidateTurns is the participation below which the prompt carries a warning.
const MinCandidateTurns = 3

var candidatePrefixes = []string{"candidate:", "user:", "you:", "human:"}

// MeasureQuality counts words, non-empty lines and candidate turns.
func MeasureQuality(transcript string) Quality {
	q := Quality{Words: len(strings.Fields(transcript))}
	for _, line := range strings.Split(transcript, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		q.Lines++
		lower := strings.ToLower(line)
		for _, p := range candidatePrefixes {
			if strings.HasPrefix(lower, p) && strings.TrimSpace(line[len(p):]) != "" {
				q.CandidateTurns++
				break
			}
		}
	}
	return q
}

// LowParticipation reports whether the candidate spoke too little to evaluate fairly.
func (q Quality) LowParticipation() bool {
	return q.CandidateTurns < MinCandidateTurns
}
