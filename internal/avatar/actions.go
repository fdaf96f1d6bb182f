package avatar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/apperr"
	"github.com/go-playground/validator/v10"
)

// Action names accepted by Dispatch.
const (
	ActionCreate  = "create"
	ActionSDP     = "sdp"
	ActionICE     = "ice"
	ActionTalk    = "talk"
	ActionDestroy = "destroy"
)

// ActionRequest is the body of POST /api/avatar. Only the fields the action needs are forwarded.
type ActionRequest struct {
	Action        string          `json:"action"`
	SourceURL     string          `json:"sourceUrl,omitempty"`
	StreamID      string          `json:"streamId,omitempty"`
	SessionID     string          `json:"sessionId,omitempty"`
	Answer        json.RawMessage `json:"answer,omitempty"`
	Candidate     string          `json:"candidate,omitempty"`
	SDPMid        string          `json:"sdpMid,omitempty"`
	SDPMLineIndex *int            `json:"sdpMLineIndex,omitempty"`
	Input         string          `json:"input,omitempty"`
}

type sessionFields struct {
	StreamID  string `validate:"required"`
	SessionID string `validate:"required"`
}

type sdpFields struct {
	sessionFields
	Answer json.RawMessage `validate:"required"`
}

type iceFields struct {
	sessionFields
	Candidate string `validate:"required"`
}

type talkFields struct {
	sessionFields
	Input string `validate:"required,max=2000"`
}

// Sessions performs avatar actions against the platform
type Sessions interface {
	Create(ctx context.Context, sourceURL string) (*Stream, error)
	SDP(ctx context.Context, streamID, sessionID string, answer json.RawMessage) (json.RawMessage, error)
	ICE(ctx context.Context, streamID, sessionID string, candidate ICECandidate) (json.RawMessage, error)
	Talk(ctx context.Context, streamID, sessionID, input string, provider json.RawMessage) (json.RawMessage, error)
	Destroy(ctx context.Context, streamID, sessionID string) (json.RawMessage, error)
}

var _ Sessions = (*Client)(nil)

// Proxy validates action requests and forwards them
type Proxy struct {
	sessions  Sessions
	sourceURL string
	provider  json.RawMessage
	validate  *validator.Validate
}

// NewProxy creates a Proxy. sourceURL is the default presenter image and provider the
// TTS provider JSON sent with talk requests; both may be empty.
func NewProxy(sessions Sessions, sourceURL, provider string) *Proxy {
	p := &Proxy{sessions: sessions, sourceURL: sourceURL, validate: validator.New()}
	if provider != "" && json.Valid([]byte(provider)) {
		p.provider = json.RawMessage(provider)
	}
	return p
}

// Dispatch runs one action and returns the platform's response body.
func (p *Proxy) Dispatch(ctx context.Context, req ActionRequest) (any, error) {
	sess := sessionFields{StreamID: req.StreamID, SessionID: req.SessionID}
	switch req.Action {
	case ActionCreate:
		source := req.SourceURL
		if source == "" {
			source = p.sourceURL
		}
		if err := p.validate.Var(source, "required,url"); err != nil {
			return nil, &apperr.InputError{Field: "sourceUrl", Message: "a valid source URL is required"}
		}
		return p.sessions.Create(ctx, source)
	case ActionSDP:
		if err := p.check(sdpFields{sessionFields: sess, Answer: req.Answer}); err != nil {
			return nil, err
		}
		return p.sessions.SDP(ctx, req.StreamID, req.SessionID, req.Answer)
	case ActionICE:
		if err := p.check(iceFields{sessionFields: sess, Candidate: req.Candidate}); err != nil {
			return nil, err
		}
		return p.sessions.ICE(ctx, req.StreamID, req.SessionID, ICECandidate{
			Candidate:     req.Candidate,
			SDPMid:        req.SDPMid,
			SDPMLineIndex: req.SDPMLineIndex,
		})
	case ActionTalk:
		if err := p.check(talkFields{sessionFields: sess, Input: req.Input}); err != nil {
			return nil, err
		}
		return p.sessions.Talk(ctx, req.StreamID, req.SessionID, req.Input, p.provider)
	case ActionDestroy:
		if err := p.check(sess); err != nil {
			return nil, err
		}
		return p.sessions.Destroy(ctx, req.StreamID, req.SessionID)
	default:
		return nil, &apperr.InputError{Field: "action", Message: fmt.Sprintf("unknown action %q", req.Action)}
	}
}

func (p *Proxy) check(v any) error {
	if err := p.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			msg := "is required"
			if fe.Tag() != "required" {
				msg = fmt.Sprintf("failed %s validation", fe.Tag())
			}
			return &apperr.InputError{Field: lowerFirst(fe.Field()), Message: msg}
		}
		return &apperr.InputError{Message: err.Error()}
	}
	return nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
