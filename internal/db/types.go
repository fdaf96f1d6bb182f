package db

import (
	"time"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
	"github.com/google/uuid"
)

// Profile represents a user account
type Profile struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	UniversityCodeID *uuid.UUID `json:"university_code_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// UserRole is a role grant; admins carry the university they administer
type UserRole struct {
	UserID       uuid.UUID  `json:"user_id"`
	Role         string     `json:"role"`
	UniversityID *uuid.UUID `json:"university_id,omitempty"`
}

// University represents a tenant institution
type University struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// UniversityCode is a signup code that links students to a university
type UniversityCode struct {
	ID           uuid.UUID  `json:"id"`
	UniversityID uuid.UUID  `json:"university_id"`
	Code         string     `json:"code"`
	MaxUses      *int       `json:"max_uses,omitempty"`
	CurrentUses  int        `json:"current_uses"`
	IsActive     bool       `json:"is_active"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Resume represents an uploaded resume file
type Resume struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	FileRef       string     `json:"file_ref"`
	FileName      string     `json:"file_name"`
	MIMEType      string     `json:"mime_type"`
	ExtractedText *string    `json:"-"`
	UploadedAt    time.Time  `json:"uploaded_at"`
	ParsedAt      *time.Time `json:"parsed_at,omitempty"`
}

// ATSScore is a persisted ATS analysis for one (resume, job role) pair
type ATSScore struct {
	ID        uuid.UUID       `json:"id"`
	ResumeID  uuid.UUID       `json:"resume_id"`
	JobRole   string          `json:"job_role"`
	Result    types.ATSResult `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Interview represents one mock interview attempt
type Interview struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	ResumeID  *uuid.UUID `json:"resume_id,omitempty"`
	Duration  int        `json:"duration"`
	Mode      string     `json:"mode"`
	Status    string     `json:"status"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// InterviewSession records the voice platform's call id for an interview
type InterviewSession struct {
	ID          uuid.UUID `json:"id"`
	InterviewID uuid.UUID `json:"interview_id"`
	VapiCallID  string    `json:"vapi_call_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Evaluation is the persisted scoring of a completed interview. Sub-scores are stored 0-100.
type Evaluation struct {
	ID                 uuid.UUID                `json:"id"`
	InterviewID        uuid.UUID                `json:"interview_id"`
	CommunicationScore int                      `json:"communication_score"`
	TechnicalScore     int                      `json:"technical_score"`
	ConfidenceScore    int                      `json:"confidence_score"`
	RelevanceScore     int                      `json:"relevance_score"`
	OverallScore       int                      `json:"overall_score"`
	Feedback           string                   `json:"feedback"`
	FeedbackSections   types.FeedbackSections   `json:"feedback_sections"`
	Transcript         string                   `json:"transcript,omitempty"`
	ResponseAnalysis   []types.ResponseAnalysis `json:"response_analysis"`
	Suggestions        []ImprovementSuggestion  `json:"suggestions"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

// ImprovementSuggestion is one prioritized suggestion attached to an evaluation
type ImprovementSuggestion struct {
	ID           uuid.UUID `json:"id"`
	EvaluationID uuid.UUID `json:"evaluation_id"`
	Suggestion   string    `json:"suggestion"`
	Category     string    `json:"category"`
	Priority     int       `json:"priority"`
}

// CohortStudent is one row of an admin's cohort view
type CohortStudent struct {
	UserID              uuid.UUID  `json:"user_id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	Code                string     `json:"code"`
	JoinedAt            time.Time  `json:"joined_at"`
	InterviewCount      int        `json:"interview_count"`
	CompletedInterviews int        `json:"completed_interviews"`
	LatestOverallScore  *int       `json:"latest_overall_score,omitempty"`
	AverageOverallScore *float64   `json:"average_overall_score,omitempty"`
	BestATSScore        *int       `json:"best_ats_score,omitempty"`
	LastInterviewAt     *time.Time `json:"last_interview_at,omitempty"`
}

// Analytics aggregates a university's activity
type Analytics struct {
	TotalStudents       int     `json:"total_students"`
	TotalInterviews     int     `json:"total_interviews"`
	CompletedInterviews int     `json:"completed_interviews"`
	TotalEvaluations    int     `json:"total_evaluations"`
	AvgCommunication    float64 `json:"avg_communication"`
	AvgTechnical        float64 `json:"avg_technical"`
	AvgConfidence       float64 `json:"avg_confidence"`
	AvgOverall          float64 `json:"avg_overall"`
	AvgATSScore         float64 `json:"avg_ats_score"`
}
