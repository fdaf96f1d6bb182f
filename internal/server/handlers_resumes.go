package server

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/apperr"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/db"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/extraction"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type extractRequest struct {
	FileBase64 string `json:"fileBase64"`
	MIMEType   string `json:"mimeType"`
	FileName   string `json:"fileName"`
	Text       string `json:"text"`
}

type parseResumeRequest struct {
	ResumeID   uuid.UUID `json:"resumeId"`
	UserID     string    `json:"userId,omitempty"`
	Text       string    `json:"text,omitempty"`
	FileBase64 string    `json:"fileBase64,omitempty"`
	MIMEType   string    `json:"mimeType,omitempty"`
}

type scoreATSRequest struct {
	ResumeID   uuid.UUID `json:"resumeId"`
	JobRole    string    `json:"jobRole"`
	UserID     string    `json:"userId,omitempty"`
	ResumeText string    `json:"resumeText,omitempty"`
}

var errStorageDisabled = &apperr.UpstreamError{Status: http.StatusServiceUnavailable, Message: "resume storage is not configured"}

// handleUploadResume stores a multipart `file` and records the resume.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	userID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.services.Objects == nil {
		s.writeError(w, r, errStorageDisabled)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+(1<<20))
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, &apperr.InputError{Field: "file", Message: "a resume file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		s.writeError(w, r, &apperr.InputError{Field: "file", Message: "could not read upload"})
		return
	}
	if len(data) == 0 || len(data) > maxUploadBytes {
		s.writeError(w, r, &apperr.InputError{Field: "file", Message: "file must be between 1 byte and 10 MB"})
		return
	}

	mimeType := extraction.DetectMIME(header.Header.Get("Content-Type"), header.Filename)
	ref, err := s.services.Objects.PutResume(r.Context(), userID, header.Filename, mimeType, data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.services.Resumes.CreateResume(r.Context(), userID, ref, header.Filename, mimeType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	log.Info().Str("resume_id", rec.ID.String()).Str("mime_type", mimeType).Int("bytes", len(data)).Msg("resume uploaded")
	s.jsonResponse(w, http.StatusCreated, map[string]any{"resumeId": rec.ID, "fileRef": ref})
}

// handleExtractResume returns the text of an inline document without persisting anything.
func (s *Server) handleExtractResume(w http.ResponseWriter, r *http.Request) {
	if _, err := caller(r); err != nil {
		s.writeError(w, r, err)
		return
	}
	var req extractRequest
	if err := decodeJSON(w, r, maxDocumentBody, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := inlineDocument(req.FileBase64, req.MIMEType, req.FileName, req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(doc.Data) == 0 && strings.TrimSpace(doc.Text) == "" {
		s.writeError(w, r, &apperr.InputError{Field: "fileBase64", Message: "fileBase64 or text is required"})
		return
	}

	res, err := s.services.Extractor.Extract(r.Context(), doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}

// handleParseResume extracts and structures one of the caller's resumes. The document
// comes from the body when given, otherwise from object storage.
func (s *Server) handleParseResume(w http.ResponseWriter, r *http.Request) {
	var req parseResumeRequest
	if err := decodeJSON(w, r, maxDocumentBody, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.ownedResume(r, req.ResumeID, req.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = rec.MIMEType
	}
	doc, err := inlineDocument(req.FileBase64, mimeType, rec.FileName, req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(doc.Data) == 0 && strings.TrimSpace(doc.Text) == "" {
		if s.services.Objects == nil || rec.FileRef == "" {
			s.writeError(w, r, &apperr.InputError{Field: "text", Message: "text or fileBase64 is required"})
			return
		}
		doc.Data, err = s.services.Objects.GetResume(r.Context(), rec.FileRef)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	res, err := s.services.Extractor.Extract(r.Context(), doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	highlights, err := s.services.Structurer.Parse(r.Context(), rec.ID, res.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"highlights": highlights, "source": res.Source})
}

// handleScoreATS scores one of the caller's resumes for a job role. Without resumeText the
// text stored by the last parse is used.
func (s *Server) handleScoreATS(w http.ResponseWriter, r *http.Request) {
	var req scoreATSRequest
	if err := decodeJSON(w, r, maxDocumentBody, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	jobRole := strings.TrimSpace(req.JobRole)
	if jobRole == "" || len(jobRole) > 200 {
		s.writeError(w, r, &apperr.InputError{Field: "jobRole", Message: "is required and at most 200 characters"})
		return
	}
	rec, err := s.ownedResume(r, req.ResumeID, req.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	text := req.ResumeText
	if strings.TrimSpace(text) == "" && rec.ExtractedText != nil {
		text = *rec.ExtractedText
	}
	if strings.TrimSpace(text) == "" {
		s.writeError(w, r, &apperr.InputError{Field: "resumeText", Message: "resume has not been parsed yet"})
		return
	}

	result, err := s.services.Scorer.Score(r.Context(), rec.ID, text, jobRole)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleGetHighlights(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.ownedResume(r, id, ""); err != nil {
		s.writeError(w, r, err)
		return
	}
	h, err := s.services.Resumes.GetResumeHighlights(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if h == nil {
		s.writeError(w, r, &apperr.NotFoundError{Resource: "resume highlights", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, h)
}

// ownedResume loads a resume and checks that the caller, and any body userId, own it.
func (s *Server) ownedResume(r *http.Request, resumeID uuid.UUID, bodyUserID string) (*db.Resume, error) {
	userID, err := caller(r)
	if err != nil {
		return nil, err
	}
	if err := checkBodyUser(userID, bodyUserID); err != nil {
		return nil, err
	}
	if err := requireID("resumeId", resumeID); err != nil {
		return nil, err
	}
	return loadResume(r.Context(), s.services.Resumes, userID, resumeID)
}

func loadResume(ctx context.Context, store ResumeStore, userID, resumeID uuid.UUID) (*db.Resume, error) {
	rec, err := store.GetResume(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &apperr.NotFoundError{Resource: "resume", ID: resumeID.String()}
	}
	if rec.UserID != userID {
		return nil, &apperr.UnauthorizedError{Reason: "resume belongs to another user"}
	}
	return rec, nil
}

// inlineDocument builds an extraction document from request fields.
func inlineDocument(fileBase64, mimeType, fileName, text string) (extraction.Document, error) {
	doc := extraction.Document{MIMEType: mimeType, FileName: fileName, Text: text}
	if fileBase64 == "" {
		return doc, nil
	}
	// Data URLs are accepted as sent by browsers.
	if i := strings.Index(fileBase64, ";base64,"); i >= 0 && strings.HasPrefix(fileBase64, "data:") {
		if doc.MIMEType == "" {
			doc.MIMEType = fileBase64[len("data:"):i]
		}
		fileBase64 = fileBase64[i+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(fileBase64)
	if err != nil {
		var corrupt base64.CorruptInputError
		if errors.As(err, &corrupt) {
			return doc, &apperr.InputError{Field: "fileBase64", Message: "is not valid base64"}
		}
		return doc, &apperr.InputError{Field: "fileBase64", Message: err.Error()}
	}
	doc.Data = data
	return doc, nil
}
