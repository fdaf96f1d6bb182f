package server

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/db"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/llm"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for *db.DB covering every store interface the
// server wires.
type memStore struct {
	mu          sync.Mutex
	profiles    map[uuid.UUID]*db.Profile
	roles       map[uuid.UUID]*db.UserRole
	codes       map[string]*db.UniversityCode
	resumes     map[uuid.UUID]*db.Resume
	highlights  map[uuid.UUID]*types.ResumeHighlights
	ats         map[string]*db.ATSScore
	interviews  map[uuid.UUID]*db.Interview
	sessions    map[uuid.UUID][]string
	evaluations map[uuid.UUID]*db.Evaluation
}

func newMemStore() *memStore {
	return &memStore{
		profiles:    map[uuid.UUID]*db.Profile{},
		roles:       map[uuid.UUID]*db.UserRole{},
		codes:       map[string]*db.UniversityCode{},
		resumes:     map[uuid.UUID]*db.Resume{},
		highlights:  map[uuid.UUID]*types.ResumeHighlights{},
		ats:         map[string]*db.ATSScore{},
		interviews:  map[uuid.UUID]*db.Interview{},
		sessions:    map[uuid.UUID][]string{},
		evaluations: map[uuid.UUID]*db.Evaluation{},
	}
}

func (m *memStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if strings.EqualFold(p.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateProfile(_ context.Context, in db.ProfileInput) (*db.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &db.Profile{ID: uuid.New(), Name: in.Name, Email: strings.ToLower(in.Email), PasswordHash: in.PasswordHash, CreatedAt: time.Now()}
	role := &db.UserRole{UserID: p.ID, Role: types.RoleStudent}
	if in.UniversityCode != "" {
		c, ok := m.codes[in.UniversityCode]
		if !ok || !c.IsActive || (c.MaxUses != nil && c.CurrentUses >= *c.MaxUses) {
			return nil, db.ErrCodeUnavailable
		}
		c.CurrentUses++
		p.UniversityCodeID = &c.ID
		role.UniversityID = &c.UniversityID
	}
	m.profiles[p.ID] = p
	m.roles[p.ID] = role
	return p, nil
}

func (m *memStore) GetProfile(_ context.Context, id uuid.UUID) (*db.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[id], nil
}

func (m *memStore) GetProfileByEmail(_ context.Context, email string) (*db.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetPrimaryRole(_ context.Context, userID uuid.UUID) (*db.UserRole, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roles[userID], nil
}

func (m *memStore) CreateResume(_ context.Context, userID uuid.UUID, fileRef, fileName, mimeType string) (*db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := &db.Resume{ID: uuid.New(), UserID: userID, FileRef: fileRef, FileName: fileName, MIMEType: mimeType, UploadedAt: time.Now()}
	m.resumes[r.ID] = r
	return r, nil
}

func (m *memStore) GetResume(_ context.Context, id uuid.UUID) (*db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resumes[id], nil
}

func (m *memStore) UpsertResumeHighlights(_ context.Context, resumeID uuid.UUID, h *types.ResumeHighlights, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.highlights[resumeID] = h
	if r, ok := m.resumes[resumeID]; ok {
		r.ExtractedText = &text
	}
	return nil
}

func (m *memStore) GetResumeHighlights(_ context.Context, resumeID uuid.UUID) (*types.ResumeHighlights, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.highlights[resumeID], nil
}

func (m *memStore) UpsertATSScore(_ context.Context, resumeID uuid.UUID, jobRole string, r *types.ATSResult) (*db.ATSScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &db.ATSScore{ID: uuid.New(), ResumeID: resumeID, JobRole: jobRole, Result: *r}
	m.ats[resumeID.String()+"/"+jobRole] = s
	return s, nil
}

func (m *memStore) CreateInterview(_ context.Context, userID uuid.UUID, resumeID *uuid.UUID, duration int, mode string) (*db.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := &db.Interview{ID: uuid.New(), UserID: userID, ResumeID: resumeID, Duration: duration, Mode: mode, Status: types.InterviewScheduled, CreatedAt: time.Now()}
	m.interviews[i.ID] = i
	cp := *i
	return &cp, nil
}

func (m *memStore) GetInterview(_ context.Context, id uuid.UUID) (*db.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.interviews[id]
	if !ok {
		return nil, nil
	}
	cp := *i
	return &cp, nil
}

func (m *memStore) ListInterviews(_ context.Context, userID uuid.UUID) ([]db.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Interview{}
	for _, i := range m.interviews {
		if i.UserID == userID {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (m *memStore) TransitionInterview(_ context.Context, id uuid.UUID, from []string, to string) (*db.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.interviews[id]
	if !ok {
		return nil, nil
	}
	for _, f := range from {
		if i.Status == f {
			i.Status = to
			cp := *i
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateInterviewSession(_ context.Context, interviewID uuid.UUID, callID string) (*db.InterviewSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[interviewID] = append(m.sessions[interviewID], callID)
	return &db.InterviewSession{ID: uuid.New(), InterviewID: interviewID, VapiCallID: callID, CreatedAt: time.Now()}, nil
}

func (m *memStore) LatestCallID(_ context.Context, interviewID uuid.UUID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := m.sessions[interviewID]
	if len(calls) == 0 {
		return "", nil
	}
	return calls[len(calls)-1], nil
}

func (m *memStore) SaveEvaluation(_ context.Context, in db.EvaluationInput) (*db.Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev := &db.Evaluation{
		ID:                 uuid.New(),
		InterviewID:        in.InterviewID,
		CommunicationScore: in.CommunicationScore,
		TechnicalScore:     in.TechnicalScore,
		ConfidenceScore:    in.ConfidenceScore,
		RelevanceScore:     in.RelevanceScore,
		OverallScore:       in.OverallScore,
		Feedback:           in.Feedback,
		FeedbackSections:   in.FeedbackSections,
		Transcript:         in.Transcript,
		ResponseAnalysis:   in.ResponseAnalysis,
		Suggestions:        in.Suggestions,
	}
	m.evaluations[in.InterviewID] = ev
	return ev, nil
}

func (m *memStore) GetEvaluation(_ context.Context, interviewID uuid.UUID) (*db.Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evaluations[interviewID], nil
}

func (m *memStore) CreateUniversityCode(_ context.Context, universityID uuid.UUID, code string, maxUses *int, expiresAt *time.Time) (*db.UniversityCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.codes[code]; ok {
		return nil, db.ErrDuplicateCode
	}
	c := &db.UniversityCode{ID: uuid.New(), UniversityID: universityID, Code: code, MaxUses: maxUses, IsActive: true, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	m.codes[code] = c
	return c, nil
}

func (m *memStore) ListUniversityCodes(_ context.Context, universityID uuid.UUID) ([]db.UniversityCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.UniversityCode{}
	for _, c := range m.codes {
		if c.UniversityID == universityID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) DeactivateUniversityCode(_ context.Context, universityID, codeID uuid.UUID) (*db.UniversityCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.codes {
		if c.ID == codeID && c.UniversityID == universityID {
			c.IsActive = false
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListCohort(_ context.Context, universityID uuid.UUID) ([]db.CohortStudent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.CohortStudent{}
	for id, role := range m.roles {
		if role.Role == types.RoleStudent && role.UniversityID != nil && *role.UniversityID == universityID {
			p := m.profiles[id]
			out = append(out, db.CohortStudent{UserID: id, Name: p.Name, Email: p.Email, JoinedAt: p.CreatedAt})
		}
	}
	return out, nil
}

func (m *memStore) GetAnalytics(ctx context.Context, universityID uuid.UUID) (*db.Analytics, error) {
	students, _ := m.ListCohort(ctx, universityID)
	return &db.Analytics{TotalStudents: len(students)}, nil
}

// fakeLLM answers every prompt with the same response.
type fakeLLM struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
}

func (f *fakeLLM) GenerateContent(_ context.Context, _, _ string, _ llm.ModelTier) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.response, f.err
}

// memObjects is an in-memory ObjectStore.
type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (o *memObjects) PutResume(_ context.Context, ownerID uuid.UUID, fileName, _ string, data []byte) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.objects == nil {
		o.objects = map[string][]byte{}
	}
	key := "resumes/" + ownerID.String() + "/" + fileName
	o.objects[key] = data
	return key, nil
}

func (o *memObjects) GetResume(_ context.Context, key string) ([]byte, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.objects[key], nil
}
