package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/admin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleCreateCode(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req admin.CreateCodeRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	code, err := s.services.Admin.CreateCode(r.Context(), userID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, code)
}

func (s *Server) handleListCodes(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	codes, err := s.services.Admin.ListCodes(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, codes)
}

func (s *Server) handleDeactivateCode(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	codeID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	code, err := s.services.Admin.DeactivateCode(r.Context(), userID, codeID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, code)
}

func (s *Server) handleCohort(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	students, err := s.services.Admin.Cohort(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, students)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	analytics, err := s.services.Admin.Analytics(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, analytics)
}

// handleExport streams the cohort workbook as an attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.services.Admin.Export(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	name := fmt.Sprintf("cohort-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
