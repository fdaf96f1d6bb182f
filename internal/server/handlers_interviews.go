package server

import (
	"net/http"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/evaluation"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/interviews"
	"github.com/google/uuid"
)

type interviewIDRequest struct {
	InterviewID uuid.UUID `json:"interviewId"`
	UserID      string    `json:"userId,omitempty"`
}

type recordSessionRequest struct {
	InterviewID uuid.UUID `json:"interviewId"`
	CallID      string    `json:"callId"`
}

type evaluateRequest struct {
	InterviewID uuid.UUID `json:"interviewId"`
	UserID      string    `json:"userId,omitempty"`
	Transcript  string    `json:"transcript,omitempty"`
}

func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req interviews.CreateRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	interview, err := s.services.Interviews.Create(r.Context(), userID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, interview)
}

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.services.Interviews.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, list)
}

// interviewRequest decodes {interviewId, userId?} and checks the caller.
func (s *Server) interviewRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, error) {
	userID, err := caller(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	var req interviewIDRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if err := checkBodyUser(userID, req.UserID); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if err := requireID("interviewId", req.InterviewID); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userID, req.InterviewID, nil
}

// handleStartInterview moves the interview to in_progress and returns the voice agent setup.
func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	userID, interviewID, err := s.interviewRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	agent, err := s.services.Interviews.Start(r.Context(), userID, interviewID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, agent)
}

func (s *Server) handleRecordSession(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req recordSessionRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := requireID("interviewId", req.InterviewID); err != nil {
		s.writeError(w, r, err)
		return
	}
	session, err := s.services.Interviews.RecordSession(r.Context(), userID, req.InterviewID, req.CallID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, session)
}

func (s *Server) handleCompleteInterview(w http.ResponseWriter, r *http.Request) {
	userID, interviewID, err := s.interviewRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	interview, err := s.services.Interviews.Complete(r.Context(), userID, interviewID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, interview)
}

func (s *Server) handleCancelInterview(w http.ResponseWriter, r *http.Request) {
	userID, interviewID, err := s.interviewRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	interview, err := s.services.Interviews.Cancel(r.Context(), userID, interviewID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, interview)
}

// handleEvaluateInterview scores a finished interview. A transcript fetched from the voice
// platform replaces the client's when it is longer.
func (s *Server) handleEvaluateInterview(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req evaluateRequest
	if err := decodeJSON(w, r, maxDocumentBody, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := checkBodyUser(userID, req.UserID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := requireID("interviewId", req.InterviewID); err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := s.services.Evaluator.Evaluate(r.Context(), evaluation.Request{
		InterviewID: req.InterviewID,
		UserID:      userID,
		Transcript:  req.Transcript,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ev, err := s.services.Interviews.Evaluation(r.Context(), userID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ev)
}
